package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/niksmo/smartmart/pkg/resource"
)

var _ port.Catalog = (*Catalog)(nil)

type products = []domain.Product

// Catalog serves product reads from the local cache and keeps it in step
// with the remote catalog.
type Catalog struct {
	local    port.LocalProducts
	remote   port.RemoteCatalog
	recorder port.SyncRecorder
}

// NewCatalog builds the synchronizer. A nil recorder disables metrics.
func NewCatalog(
	local port.LocalProducts,
	remote port.RemoteCatalog,
	recorder port.SyncRecorder,
) Catalog {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return Catalog{local, remote, recorder}
}

func (s Catalog) ObserveAll(ctx context.Context) <-chan resource.Resource[products] {
	return s.Observe(ctx, domain.ProductQuery{})
}

// Observe emits Loading, then the matching local snapshot after every
// local change. A failed local read is emitted once and ends the stream.
func (s Catalog) Observe(
	ctx context.Context, q domain.ProductQuery,
) <-chan resource.Resource[products] {
	const op = "Catalog.Observe"
	log := slog.With("op", op)

	out := make(chan resource.Resource[products], 1)

	go func() {
		defer close(out)

		if !emit(ctx, out, resource.Loading[products]()) {
			return
		}

		for u := range s.local.WatchProducts(ctx, q) {
			if u.Err != nil {
				log.Error("local live query failed", "err", u.Err)
				emit(ctx, out, failure[products](fmt.Errorf("%s: %w", op, u.Err)))
				return
			}
			if !emit(ctx, out, resource.Success(nonNil(u.Value))) {
				return
			}
		}
	}()

	return out
}

// ByCategory reads the remote catalog directly and emits one result.
func (s Catalog) ByCategory(
	ctx context.Context, c domain.Category,
) <-chan resource.Resource[products] {
	const op = "Catalog.ByCategory"

	out := make(chan resource.Resource[products], 2)
	out <- resource.Loading[products]()

	go func() {
		defer close(out)

		var (
			vs  products
			err error
		)
		if c.IsAll() {
			vs, err = s.remote.GetAll(ctx)
		} else {
			vs, err = s.remote.GetWhere(ctx, "category", c.String())
		}
		if err != nil {
			out <- failure[products](fmt.Errorf("%s: %w", op, err))
			return
		}
		out <- resource.Success(nonNil(vs))
	}()

	return out
}

// GetByID falls through to a remote point read on a local miss.
func (s Catalog) GetByID(ctx context.Context, id string) (domain.Product, error) {
	const op = "Catalog.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if id == "" {
		return domain.Product{}, fmt.Errorf("%s: empty id: %w", op, domain.ErrValidation)
	}

	p, err := s.local.Product(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err = s.remote.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Search is a case-sensitive name prefix match against the remote catalog.
func (s Catalog) Search(ctx context.Context, query string) (products, error) {
	const op = "Catalog.Search"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs, err := s.remote.GetWhereNameRange(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(vs), nil
}

// Refresh copies the whole remote catalog into the local cache. Local rows
// absent remotely are kept. On failure the cache is untouched.
func (s Catalog) Refresh(ctx context.Context) error {
	const op = "Catalog.Refresh"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	vs, err := s.remote.GetAll(ctx)
	if err != nil {
		s.recorder.RecordRefresh(0, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.local.UpsertProducts(ctx, vs); err != nil {
		s.recorder.RecordRefresh(0, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.recorder.RecordRefresh(len(vs), nil)
	log.Info("catalog refreshed", "products", len(vs))
	return nil
}

// FullReset wipes the local cache and the remote catalog, reseeds the
// remote with the sample catalog and refreshes. It is not cancelled with
// ctx once started.
func (s Catalog) FullReset(ctx context.Context) (resetErr error) {
	const op = "Catalog.FullReset"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ctx = context.WithoutCancel(ctx)

	defer func() { s.recorder.RecordReset(resetErr) }()

	log.Warn("catalog reset started")

	if err := s.local.DeleteAllProducts(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.remote.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ops := make([]port.CatalogOp, 0, len(existing))
	for _, p := range existing {
		ops = append(ops, port.CatalogOp{Delete: true, ID: p.ID})
	}
	if err := s.remote.BatchCommit(ctx, ops); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	samples := domain.SampleCatalog()
	for _, p := range samples {
		if _, err := s.remote.Add(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Warn("catalog reset completed",
		"deleted", len(existing), "seeded", len(samples),
	)
	return nil
}

func nonNil(vs products) products {
	if vs == nil {
		return products{}
	}
	return vs
}
