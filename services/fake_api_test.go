package services

import (
	"context"
	"sync"

	"foodorder-telegram/models"
)

type fakeAPI struct {
	mu sync.Mutex

	food        *models.Food
	foodErr     error
	favoriteErr error
	orders      []models.Order
	ordersErr   error
	writeErr    error

	createdFavorites []*models.Food
	deletedFavorites []int64
	createdOrders    []models.OrderPayload
	orderCtxErr      error
	orderDeadline    bool
}

func (f *fakeAPI) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	if f.foodErr != nil {
		return nil, f.foodErr
	}
	cp := *f.food
	cp.Extras = append([]models.Extra(nil), f.food.Extras...)
	return &cp, nil
}

func (f *fakeAPI) GetFavorite(ctx context.Context, id int64) (*models.Food, error) {
	if f.favoriteErr != nil {
		return nil, f.favoriteErr
	}
	return f.food, nil
}

func (f *fakeAPI) CreateFavorite(ctx context.Context, food *models.Food) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdFavorites = append(f.createdFavorites, food)
	return f.writeErr
}

func (f *fakeAPI) DeleteFavorite(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFavorites = append(f.deletedFavorites, id)
	return f.writeErr
}

func (f *fakeAPI) CreateOrder(ctx context.Context, payload models.OrderPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdOrders = append(f.createdOrders, payload)
	f.orderCtxErr = ctx.Err()
	_, f.orderDeadline = ctx.Deadline()
	return f.writeErr
}

func (f *fakeAPI) ListOrders(ctx context.Context) ([]models.Order, error) {
	return f.orders, f.ordersErr
}
