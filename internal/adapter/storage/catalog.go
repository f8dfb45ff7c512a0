package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/shopspring/decimal"
)

// Upper bound appended to a name prefix for lexicographic range scans.
const namePrefixEnd = "\uf8ff"

var _ port.RemoteCatalog = (*CatalogRepository)(nil)

// productDoc is the JSON document stored in products.doc.
type productDoc struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	ImageURL     string          `json:"imageUrl"`
	Rating       float64         `json:"rating"`
	Stock        int             `json:"stock"`
	LastModified int64           `json:"lastModified"`
}

func newProductDoc(p domain.Product) productDoc {
	var lm int64
	if !p.LastModified.IsZero() {
		lm = p.LastModified.UnixMilli()
	}
	return productDoc{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category.String(),
		ImageURL:     p.ImageURL,
		Rating:       p.Rating,
		Stock:        p.Stock,
		LastModified: lm,
	}
}

func (d productDoc) product(id string) domain.Product {
	var lm time.Time
	if d.LastModified != 0 {
		lm = time.UnixMilli(d.LastModified).UTC()
	}
	return domain.Product{
		ID:           id,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		Category:     domain.ParseCategory(d.Category),
		ImageURL:     d.ImageURL,
		Rating:       d.Rating,
		Stock:        d.Stock,
		LastModified: lm,
	}
}

// CatalogRepository keeps product documents in the shared PostgreSQL
// database.
type CatalogRepository struct {
	sqldb sqldb
}

func NewCatalogRepository(sqldb sqldb) CatalogRepository {
	return CatalogRepository{sqldb}
}

func (r CatalogRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogRepository.GetAll"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, doc FROM products ORDER BY id;`
	return r.queryProducts(ctx, op, query)
}

const categoryField = "category"

// GetWhere returns documents whose top-level field equals value. A
// category value also matches its legacy enum-style spelling.
func (r CatalogRepository) GetWhere(
	ctx context.Context, field, value string,
) ([]domain.Product, error) {
	const op = "CatalogRepository.GetWhere"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if field == "" {
		return nil, fmt.Errorf("%s: empty field: %w", op, domain.ErrValidation)
	}

	values := []string{value}
	if field == categoryField {
		values = domain.Category(value).Encodings()
	}
	if len(values) == 1 {
		values = append(values, value)
	}

	query := `SELECT id, doc FROM products WHERE doc->>$1 IN ($2, $3) ORDER BY id;`
	return r.queryProducts(ctx, op, query, field, values[0], values[1])
}

// GetWhereNameRange returns documents whose name starts with prefix,
// compared bytewise.
func (r CatalogRepository) GetWhereNameRange(
	ctx context.Context, prefix string,
) ([]domain.Product, error) {
	const op = "CatalogRepository.GetWhereNameRange"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, doc FROM products
		WHERE doc->>'name' COLLATE "C" >= $1
			AND doc->>'name' COLLATE "C" <= $2
		ORDER BY doc->>'name' COLLATE "C";`
	return r.queryProducts(ctx, op, query, prefix, prefix+namePrefixEnd)
}

func (r CatalogRepository) GetByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "CatalogRepository.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT doc FROM products WHERE id = $1;`

	var raw []byte
	if err := r.sqldb.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		return domain.Product{}, remoteErr(op, err)
	}

	var d productDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: malformed document %q: %w", op, id, err,
		)
	}
	return d.product(id), nil
}

// Add stores p under a freshly generated id and returns it.
func (r CatalogRepository) Add(
	ctx context.Context, p domain.Product,
) (string, error) {
	const op = "CatalogRepository.Add"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	doc, err := json.Marshal(newProductDoc(p))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()
	query := `INSERT INTO products (id, doc, updated_at) VALUES ($1, $2, now());`
	if _, err := r.sqldb.ExecContext(ctx, query, id, doc); err != nil {
		return "", remoteErr(op, err)
	}
	return id, nil
}

// Delete is a no-op for a missing id.
func (r CatalogRepository) Delete(ctx context.Context, id string) error {
	const op = "CatalogRepository.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM products WHERE id = $1;`
	if _, err := r.sqldb.ExecContext(ctx, query, id); err != nil {
		return remoteErr(op, err)
	}
	return nil
}

// BatchCommit applies ops in a single transaction.
func (r CatalogRepository) BatchCommit(
	ctx context.Context, ops []port.CatalogOp,
) error {
	const op = "CatalogRepository.BatchCommit"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(ops) == 0 {
		return nil
	}

	upsertQuery := `
		INSERT INTO products (id, doc, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET
			doc = EXCLUDED.doc,
			updated_at = EXCLUDED.updated_at;`
	deleteQuery := `DELETE FROM products WHERE id = $1;`

	return withTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		for _, o := range ops {
			if o.Delete {
				if _, err := tx.ExecContext(ctx, deleteQuery, o.ID); err != nil {
					return remoteErr(op, err)
				}
				continue
			}

			id := o.ID
			if id == "" {
				id = uuid.NewString()
			}
			doc, err := json.Marshal(newProductDoc(o.Product))
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if _, err := tx.ExecContext(ctx, upsertQuery, id, doc); err != nil {
				return remoteErr(op, err)
			}
		}
		return nil
	})
}

// queryProducts skips documents that fail to decode.
func (r CatalogRepository) queryProducts(
	ctx context.Context, op, query string, args ...any,
) ([]domain.Product, error) {
	log := slog.With("op", op)

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, remoteErr(op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var vs []domain.Product
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, remoteErr(op, err)
		}

		var d productDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			log.Warn("skip malformed document", "id", id, "err", err)
			continue
		}
		vs = append(vs, d.product(id))
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr(op, err)
	}
	return vs, nil
}
