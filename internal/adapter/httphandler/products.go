package httphandler

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/niksmo/smartmart/pkg/resource"
)

const adminTokenHeader = "X-Admin-Token"

// GET    v1/products?category=&q=            local snapshot
// GET    v1/products/stream?category=&q=     SSE live query
// GET    v1/products/category/{category}     remote, fresh
// GET    v1/products/search?q=               remote name prefix
// GET    v1/products/{id}                    local, then remote
// POST   v1/products/refresh
// POST   v1/admin/catalog/reset              X-Admin-Token

type ProductsHandler struct {
	catalog    port.Catalog
	adminToken string
}

// RegisterProducts mounts the catalog routes. An empty adminToken
// disables the reset route.
func RegisterProducts(mux *http.ServeMux, catalog port.Catalog, adminToken string) {
	h := ProductsHandler{catalog, adminToken}
	mux.Handle("GET /v1/products", withTimeout(h.GetProducts))
	mux.HandleFunc("GET /v1/products/stream", h.StreamProducts)
	mux.Handle("GET /v1/products/category/{category}", withTimeout(h.GetByCategory))
	mux.Handle("GET /v1/products/search", withTimeout(h.Search))
	mux.Handle("GET /v1/products/{id}", withTimeout(h.GetProduct))
	mux.Handle("POST /v1/products/refresh", withTimeout(h.Refresh))
	mux.HandleFunc("POST /v1/admin/catalog/reset", h.Reset)
}

func productQuery(r *http.Request) (domain.ProductQuery, error) {
	q := r.URL.Query()
	c, err := domain.ParseFilterCategory(q.Get("category"))
	if err != nil {
		return domain.ProductQuery{}, err
	}
	return domain.ProductQuery{Category: c, NameContains: q.Get("q")}, nil
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	query, err := productQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	res, err := settle(ctx, h.catalog.Observe(ctx, query))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResource(w, res, toProducts)
}

func (h ProductsHandler) StreamProducts(w http.ResponseWriter, r *http.Request) {
	query, err := productQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	src := h.catalog.Observe(r.Context(), query)
	stream(w, r, src, func(v resource.Resource[[]domain.Product]) Envelope {
		return fromResource(v, toProducts)
	})
}

func (h ProductsHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	c, err := domain.ParseFilterCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := settle(r.Context(), h.catalog.ByCategory(r.Context(), c))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResource(w, res, toProducts)
}

func (h ProductsHandler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.Search"
	log := slog.With("op", op)

	vs, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Warn("search failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toProducts(vs))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toProduct(p))
}

func (h ProductsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.Refresh"
	log := slog.With("op", op)

	if err := h.catalog.Refresh(r.Context()); err != nil {
		log.Error("refresh failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (h ProductsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.Reset"
	log := slog.With("op", op)

	if h.adminToken == "" {
		http.NotFound(w, r)
		return
	}

	got := r.Header.Get(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.adminToken)) != 1 {
		log.Warn("rejected reset request", "remote", r.RemoteAddr)
		writeError(w, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated))
		return
	}

	if err := h.catalog.FullReset(r.Context()); err != nil {
		log.Error("reset failed", "err", err)
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}
