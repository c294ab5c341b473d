package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodorder-telegram/models"
)

type recordedRequest struct {
	method, path, requestID string
	body                    map[string]interface{}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*APIClient, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, requestID: r.Header.Get("X-Request-ID")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		reqs = append(reqs, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL+"/", srv.Client()), &reqs
}

func TestAPIClient_GetFood(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":3,"name":"Veggie","description":"d","price":21.9,"image_url":"https://img/3","extras":[{"id":1,"name":"Bacon","value":1.5,"quantity":2}]}`)
	})
	food, err := c.GetFood(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if food.ID != 3 || food.Name != "Veggie" || !food.Price.Equal(dec("21.9")) {
		t.Errorf("unexpected food: %+v", food)
	}
	if len(food.Extras) != 1 || !food.Extras[0].Value.Equal(dec("1.5")) {
		t.Errorf("unexpected extras: %+v", food.Extras)
	}
	r := (*reqs)[0]
	if r.method != http.MethodGet || r.path != "/foods/3" {
		t.Errorf("request = %s %s", r.method, r.path)
	}
	if r.requestID == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestAPIClient_NotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.GetFavorite(context.Background(), 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound || apiErr.Path != "/favorites/9" {
		t.Errorf("unexpected error: %#v", err)
	}
}

func TestAPIClient_ServerErrorIsNotNotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.GetFavorite(context.Background(), 9)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want a non-not-found error", err)
	}
}

func TestAPIClient_Writes(t *testing.T) {
	c, reqs := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	})
	ctx := context.Background()
	food := &models.Food{ID: 4, Name: "Pasta", Price: dec("12.5")}

	if err := c.CreateFavorite(ctx, food); err != nil {
		t.Fatalf("CreateFavorite: %v", err)
	}
	if err := c.DeleteFavorite(ctx, 4); err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	payload := models.OrderPayload{ProductID: 4, Name: "Pasta", Price: dec("12.5"), FoodQuantity: 2, Extras: []models.Extra{}}
	if err := c.CreateOrder(ctx, payload); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/favorites"},
		{http.MethodDelete, "/favorites/4"},
		{http.MethodPost, "/orders"},
	}
	if len(*reqs) != len(want) {
		t.Fatalf("got %d requests, want %d", len(*reqs), len(want))
	}
	for i, w := range want {
		if r := (*reqs)[i]; r.method != w.method || r.path != w.path {
			t.Errorf("request %d = %s %s, want %s %s", i, r.method, r.path, w.method, w.path)
		}
	}
	if fav := (*reqs)[0].body; fav["id"] != float64(4) || fav["price"] != 12.5 {
		t.Errorf("favorite body = %v", fav)
	}
	order := (*reqs)[2].body
	if _, ok := order["id"]; ok {
		t.Errorf("order body must not contain id: %v", order)
	}
	if order["product_id"] != float64(4) || order["foodQuantity"] != float64(2) {
		t.Errorf("order body = %v", order)
	}
}

func TestAPIClient_ListOrders(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":2,"product_id":1,"name":"A","price":"10.5","thumbnail_url":"t2"},{"id":1,"product_id":3,"name":"B","price":8}]`)
	})
	orders, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 2 || orders[1].ID != 1 {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if !orders[0].Price.Equal(dec("10.5")) || orders[0].ThumbnailURL != "t2" {
		t.Errorf("unexpected first order: %+v", orders[0])
	}
}

func TestAPIClient_DecodeError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})
	if _, err := c.ListOrders(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestAPIClient_ContextCancelled(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListOrders(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
