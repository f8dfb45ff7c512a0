package httphandler

import (
	"net/http"

	"github.com/niksmo/smartmart/internal/core/port"
	"golang.org/x/time/rate"
)

type RouterOpts struct {
	Catalog    port.Catalog
	Cart       port.CartAggregator
	Wishlist   port.Wishlist
	Auth       port.Authenticator
	Recorder   RequestRecorder
	Metrics    http.Handler
	Limiter    *rate.Limiter
	AdminToken string
}

// NewRouter registers every route and wraps the mux in
// RateLimit, AllowJSON and Metrics, outermost first.
func NewRouter(o RouterOpts) http.Handler {
	mux := http.NewServeMux()

	RegisterProducts(mux, o.Catalog, o.AdminToken)
	RegisterCart(mux, o.Cart, o.Catalog, o.Auth)
	RegisterWishlist(mux, o.Wishlist, o.Catalog, o.Auth)
	RegisterAuth(mux, o.Auth)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, nil)
	})
	if o.Metrics != nil {
		mux.Handle("GET /metrics", o.Metrics)
	}

	var h http.Handler = mux
	if o.Recorder != nil {
		h = Metrics(o.Recorder)(h)
	}
	h = AllowJSON(h)
	if o.Limiter != nil {
		h = RateLimit(o.Limiter)(h)
	}
	return h
}
