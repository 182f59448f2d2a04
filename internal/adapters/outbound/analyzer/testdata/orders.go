// Package orders serves the order API.
package orders

import (
	"context"
	"net/http"
)

// Order is a placed order.
type Order struct {
	ID    string
	Total int
}

// Store persists orders.
type Store interface {
	// Get loads one order.
	Get(ctx context.Context, id string) (*Order, error)
}

type Handler struct {
	store Store
}

// GetOrder returns one order.
// @Router /orders/{id} [get]
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {}

func (h *Handler) validate(o *Order, tags ...string) error { return nil }

// NewHandler builds a Handler.
func NewHandler(s Store) *Handler { return &Handler{store: s} }
