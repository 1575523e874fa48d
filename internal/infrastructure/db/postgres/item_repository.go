package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

// sortColumns whitelists the ORDER BY targets.
var sortColumns = map[ports.SortField]string{
	ports.SortByID:        "id",
	ports.SortByName:      "name",
	ports.SortByCreatedAt: "created_at",
	ports.SortByUpdatedAt: "updated_at",
}

// ItemRepository implements ports.ItemRepository over a DBTX. When bound to
// a transaction it locks the rows it reads.
type ItemRepository struct {
	db       DBTX
	lockRows bool
}

func NewItemRepository(db DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query :=
		`INSERT INTO items (name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		item.Name, nullString(item.Description), item.CreatedAt, item.UpdatedAt).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	query :=
		`SELECT id, name, description, created_at, updated_at FROM items
		 WHERE id = $1`
	if r.lockRows {
		query += ` FOR UPDATE`
	}

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	query :=
		`UPDATE items SET name = $1, description = $2, updated_at = $3
		 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query,
		item.Name, nullString(item.Description), item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *ItemRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.Item, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	column, ok := sortColumns[page.Sort]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if page.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, name, description, created_at, updated_at FROM items
		 ORDER BY %s %s, id %s
		 LIMIT $1 OFFSET $2`, column, direction, direction)

	rows, err := r.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0, page.Size)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

// Ping is only meaningful on the pool; a transactional repository reports ok.
func (r *ItemRepository) Ping(ctx context.Context) error {
	if p, ok := r.db.(interface{ PingContext(context.Context) error }); ok {
		return p.PingContext(ctx)
	}
	return nil
}

// ItemStore adds transactions on top of the pool-bound repository.
type ItemStore struct {
	*ItemRepository
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{ItemRepository: NewItemRepository(db), db: db}
}

// WithinTx runs fn against a repository bound to a new transaction.
func (s *ItemStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo ports.ItemRepository) error) error {
	return WithTx(ctx, s.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &ItemRepository{db: tx, lockRows: true})
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item        domain.Item
		description sql.NullString
	)
	if err := row.Scan(&item.ID, &item.Name, &description, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		d := description.String
		item.Description = &d
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
