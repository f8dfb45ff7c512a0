package httphandler

import (
	"net/http"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

// GET    v1/wishlist
// GET    v1/wishlist/stream                  SSE
// POST   v1/wishlist/items/{productID}       toggle
// DELETE v1/wishlist/items/{productID}
// DELETE v1/wishlist

type WishlistHandler struct {
	wishlist port.Wishlist
	catalog  port.CatalogReader
	users    userResolver
}

func RegisterWishlist(
	mux *http.ServeMux,
	wishlist port.Wishlist,
	catalog port.CatalogReader,
	auth port.Authenticator,
) {
	h := WishlistHandler{wishlist, catalog, userResolver{auth}}
	mux.Handle("GET /v1/wishlist", withTimeout(h.GetWishlist))
	mux.HandleFunc("GET /v1/wishlist/stream", h.StreamWishlist)
	mux.Handle("POST /v1/wishlist/items/{productID}", withTimeout(h.Toggle))
	mux.Handle("DELETE /v1/wishlist/items/{productID}", withTimeout(h.Remove))
	mux.Handle("DELETE /v1/wishlist", withTimeout(h.Clear))
}

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.wishlist.Items(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toWishlist(items))
}

func (h WishlistHandler) StreamWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stream(w, r, h.wishlist.Watch(r.Context(), user), func(items []domain.WishlistItem) Envelope {
		return Envelope{Status: statusSuccess, Data: toWishlist(items)}
	})
}

func (h WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.catalog.GetByID(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	added, err := h.wishlist.Toggle(r.Context(), user, domain.NewWishlistItem(p))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, WishlistToggle{Added: added})
}

func (h WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.wishlist.Remove(r.Context(), user, r.PathValue("productID")); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (h WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.user(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.wishlist.Clear(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}
