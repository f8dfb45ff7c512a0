package httphandler

import (
	"fmt"
	"net/http"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

// GET    v1/cart
// GET    v1/cart/stream                      SSE
// POST   v1/cart/items {productId, quantity}
// PUT    v1/cart/items/{productID} {quantity}
// DELETE v1/cart/items/{productID}
// DELETE v1/cart

type CartHandler struct {
	cart    port.CartAggregator
	catalog port.CatalogReader
	users   userResolver
}

func RegisterCart(
	mux *http.ServeMux,
	cart port.CartAggregator,
	catalog port.CatalogReader,
	auth port.Authenticator,
) {
	h := CartHandler{cart, catalog, userResolver{auth}}
	mux.Handle("GET /v1/cart", withTimeout(h.GetCart))
	mux.HandleFunc("GET /v1/cart/stream", h.StreamCart)
	mux.Handle("POST /v1/cart/items", withTimeout(h.AddItem))
	mux.Handle("PUT /v1/cart/items/{productID}", withTimeout(h.SetQuantity))
	mux.Handle("DELETE /v1/cart/items/{productID}", withTimeout(h.RemoveItem))
	mux.Handle("DELETE /v1/cart", withTimeout(h.Clear))
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(w, r, user, http.StatusOK)
}

func (h CartHandler) StreamCart(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stream(w, r, h.cart.Items(r.Context(), user), func(items []domain.CartItem) Envelope {
		return Envelope{Status: statusSuccess, Data: toCart(items)}
	})
}

// AddItem copies the product's display fields into the cart row.
func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"

	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}
	if req.Quantity <= 0 {
		writeError(w, fmt.Errorf(
			"%s: quantity must be positive: %w", op, domain.ErrValidation,
		))
		return
	}

	p, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cart.Add(r.Context(), user, domain.NewCartItem(p, req.Quantity)); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(w, r, user, http.StatusCreated)
}

func (h CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SetQuantity"

	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req SetQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	err = h.cart.SetQuantity(r.Context(), user, r.PathValue("productID"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(w, r, user, http.StatusOK)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cart.Remove(r.Context(), user, r.PathValue("productID")); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(w, r, user, http.StatusOK)
}

func (h CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cart.Clear(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	h.writeSnapshot(w, r, user, http.StatusOK)
}

func (h CartHandler) writeSnapshot(
	w http.ResponseWriter, r *http.Request, user domain.UserID, status int,
) {
	cart, err := h.cart.Snapshot(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, status, toCart(cart.Items))
}
