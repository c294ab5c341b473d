package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPayload is the body of POST /orders: the food snapshot with its id moved
// to ProductID, plus the selected extras and quantity.
type OrderPayload struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       int64           `json:"category,omitempty"`
	ImageURL       string          `json:"image_url"`
	ThumbnailURL   string          `json:"thumbnail_url,omitempty"`
	FormattedPrice string          `json:"formattedPrice,omitempty"`
	Extras         []Extra         `json:"extras"`
	FoodQuantity   int             `json:"foodQuantity"`
}

// Order is a record from GET /orders.
type Order struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ThumbnailURL string          `json:"thumbnail_url"`
	Extras       []Extra         `json:"extras"`
	FoodQuantity int             `json:"foodQuantity"`
}

// OrderLineView is the read-only projection of an Order shown in the history screen.
type OrderLineView struct {
	ID             int64
	Name           string
	Description    string
	Price          decimal.Decimal
	FormattedPrice string
	ThumbnailURL   string
}

const (
	SubmissionPending = "pending"
	SubmissionSent    = "sent"
	SubmissionFailed  = "failed"
)

// Submission is a row of the order_submissions ledger.
type Submission struct {
	ID           int64
	ChatID       int64
	ProductID    int64
	FoodQuantity int
	Total        decimal.Decimal
	Status       string
	Error        string
	CreatedAt    time.Time
}
