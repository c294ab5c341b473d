package services

import (
	"context"

	"foodorder-telegram/models"

	"github.com/sirupsen/logrus"
)

// OrderHistory is the state behind the "my orders" screen.
type OrderHistory struct {
	Orders []models.OrderLineView
	// Failed lists recent submissions from this chat the backend rejected.
	Failed []models.Submission
}

// LoadOrderHistory fetches previous orders in server order. On failure the
// error is logged and the history is empty.
func LoadOrderHistory(ctx context.Context, api FoodAPI, loc Locale) *OrderHistory {
	orders, err := api.ListOrders(ctx)
	if err != nil {
		logrus.WithError(err).WithField("action", "load_orders").Error("could not load orders")
		return &OrderHistory{Orders: []models.OrderLineView{}}
	}
	views := make([]models.OrderLineView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.OrderLineView{
			ID:             o.ID,
			Name:           o.Name,
			Description:    o.Description,
			Price:          o.Price,
			FormattedPrice: FormatValue(o.Price, loc),
			ThumbnailURL:   o.ThumbnailURL,
		})
	}
	return &OrderHistory{Orders: views}
}
