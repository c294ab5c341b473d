package services

import (
	"context"
	"errors"
	"time"

	"foodorder-telegram/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FavoriteAction is the backend call a favorite toggle requires.
type FavoriteAction int

const (
	FavoriteCreate FavoriteAction = iota + 1
	FavoriteDelete
)

// Command tells the caller what to do with navigation after an operation.
type Command int

const (
	CommandNone Command = iota
	CommandNavigateBack
)

// FoodDetails is the state behind the food details screen.
type FoodDetails struct {
	FoodID   int64
	Food     *models.Food // nil until loaded
	Extras   []models.Extra
	Quantity int
	Favorite bool
	// FavoriteUncertain is set when the favorite lookup failed for a reason
	// other than "not found", so Favorite=false is a guess.
	FavoriteUncertain bool
}

func NewFoodDetails(foodID int64) *FoodDetails {
	return &FoodDetails{FoodID: foodID, Quantity: 1}
}

// Load fetches the food and its favorite status concurrently. Errors are
// logged; on failure the matching part of the state keeps its defaults.
func (s *FoodDetails) Load(ctx context.Context, api FoodAPI, loc Locale) {
	log := logrus.WithFields(logrus.Fields{"action": "load_food", "food_id": s.FoodID})

	var (
		food              *models.Food
		favorite          bool
		favoriteUncertain bool
	)
	var g errgroup.Group
	g.Go(func() error {
		f, err := api.GetFood(ctx, s.FoodID)
		if err != nil {
			log.WithError(err).Errorf("problem when trying to get food with id %d", s.FoodID)
			return nil
		}
		food = f
		return nil
	})
	g.Go(func() error {
		_, err := api.GetFavorite(ctx, s.FoodID)
		switch {
		case err == nil:
			favorite = true
		case errors.Is(err, ErrNotFound):
		default:
			favoriteUncertain = true
			log.WithError(err).Warn("favorite lookup failed, assuming not favorite")
		}
		return nil
	})
	_ = g.Wait()

	if food != nil {
		s.SetFood(food, loc)
	}
	s.Favorite = favorite
	s.FavoriteUncertain = favoriteUncertain
}

// SetFood replaces the loaded food and resets every extra quantity to 0.
func (s *FoodDetails) SetFood(food *models.Food, loc Locale) {
	if food.FormattedPrice == "" {
		food.FormattedPrice = FormatValue(food.Price, loc)
	}
	extras := make([]models.Extra, len(food.Extras))
	for i, e := range food.Extras {
		e.Quantity = 0
		extras[i] = e
	}
	s.Food = food
	s.Extras = extras
}

func (s *FoodDetails) Loaded() bool {
	return s.Food != nil
}

func (s *FoodDetails) IncrementExtra(id int64) {
	for i := range s.Extras {
		if s.Extras[i].ID == id {
			s.Extras[i].Quantity++
			return
		}
	}
}

func (s *FoodDetails) DecrementExtra(id int64) {
	for i := range s.Extras {
		if s.Extras[i].ID == id {
			if s.Extras[i].Quantity > 0 {
				s.Extras[i].Quantity--
			}
			return
		}
	}
}

func (s *FoodDetails) IncrementQuantity() {
	s.Quantity++
}

func (s *FoodDetails) DecrementQuantity() {
	if s.Quantity > 1 {
		s.Quantity--
		return
	}
	s.Quantity = 1
}

// ToggleFavorite flips the flag and returns the sync the caller must run.
func (s *FoodDetails) ToggleFavorite() FavoriteAction {
	s.Favorite = !s.Favorite
	s.FavoriteUncertain = false
	if s.Favorite {
		return FavoriteCreate
	}
	return FavoriteDelete
}

// FavoriteIcon is the header glyph for the current flag.
func (s *FoodDetails) FavoriteIcon() string {
	if s.Favorite {
		return "favorite"
	}
	return "favorite-border"
}

func (s *FoodDetails) Total() decimal.Decimal {
	return CartTotal(s.Food, s.Quantity, s.Extras)
}

func (s *FoodDetails) FormattedTotal(loc Locale) string {
	return FormatValue(s.Total(), loc)
}

// OrderPayload snapshots the current state for POST /orders. The payload has
// no id; the food id goes to ProductID. A copy of the extras is taken so later
// transitions do not leak into an in-flight request.
func (s *FoodDetails) OrderPayload() models.OrderPayload {
	extras := make([]models.Extra, len(s.Extras))
	copy(extras, s.Extras)
	p := models.OrderPayload{
		Extras:       extras,
		FoodQuantity: s.Quantity,
	}
	if f := s.Food; f != nil {
		p.ProductID = f.ID
		p.Name = f.Name
		p.Description = f.Description
		p.Price = f.Price
		p.Category = f.Category
		p.ImageURL = f.ImageURL
		p.ThumbnailURL = f.ThumbnailURL
		p.FormattedPrice = f.FormattedPrice
	}
	return p
}

// SyncFavorite pushes a favorite toggle to the backend. It is best effort:
// failures are logged and the local flag is left as is.
func SyncFavorite(ctx context.Context, api FoodAPI, food *models.Food, action FavoriteAction) {
	log := logrus.WithField("action", "favorite_sync")
	switch action {
	case FavoriteCreate:
		if food == nil {
			return
		}
		if err := api.CreateFavorite(ctx, food); err != nil {
			log.WithError(err).WithField("food_id", food.ID).Warn("could not save favorite")
		}
	case FavoriteDelete:
		if food == nil || food.ID == 0 {
			return
		}
		if err := api.DeleteFavorite(ctx, food.ID); err != nil {
			log.WithError(err).WithField("food_id", food.ID).Warnf("could not delete favorite %d", food.ID)
		}
	}
}

// SubmitTimeout bounds an order submission once it has been detached from the
// caller's context.
const SubmitTimeout = 30 * time.Second

// SubmitOrder fires POST /orders in the background and returns
// CommandNavigateBack right away. done, if set, receives the outcome.
// Cancelling ctx does not abort a submission already started.
func SubmitOrder(ctx context.Context, api FoodAPI, payload models.OrderPayload, done func(error)) Command {
	go func() {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SubmitTimeout)
		defer cancel()
		err := api.CreateOrder(reqCtx, payload)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"action":     "submit_order",
				"product_id": payload.ProductID,
			}).Error("order submission failed")
		}
		if done != nil {
			done(err)
		}
	}()
	return CommandNavigateBack
}
