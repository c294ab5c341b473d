package models

import "github.com/shopspring/decimal"

func init() {
	// The backend expects prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Extra is an optional add-on of a food. Quantity is the user's selection and
// is reset to 0 whenever the food is (re)loaded.
type Extra struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Quantity int             `json:"quantity"`
}

// Food is a record from GET /foods/{id}. It is also the body of POST /favorites.
type Food struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       int64           `json:"category,omitempty"`
	ImageURL       string          `json:"image_url"`
	ThumbnailURL   string          `json:"thumbnail_url,omitempty"`
	FormattedPrice string          `json:"formattedPrice,omitempty"`
	Extras         []Extra         `json:"extras"`
}
