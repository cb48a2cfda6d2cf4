package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

// Repo reads the WordPress EAV tables. It is safe for concurrent use; *sql.DB is the pool.
type Repo struct {
	db *sql.DB
	t  tables
}

func New(db *sql.DB, tablePrefix string) *Repo {
	return &Repo{db: db, t: newTables(tablePrefix)}
}

// query builds, runs and iterates one statement, counting it under op.
func (r *Repo) query(ctx context.Context, op string, build func() (string, []any, error), scan func(*sql.Rows) error) (err error) {
	defer func() { observability.ObserveStore(op, err) }()

	q, args, err := build()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *Repo) AllOwners(ctx context.Context) ([]domain.OwnerRow, error) {
	var out []domain.OwnerRow
	err := r.query(ctx, "all_owners", r.t.allOwnersQuery, func(rows *sql.Rows) error {
		var o domain.OwnerRow
		if err := rows.Scan(&o.ID, &o.DisplayName); err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan owners: %w", err)
	}
	return out, nil
}

func (r *Repo) OwnersAfter(ctx context.Context, afterID int64, limit int) ([]domain.OwnerRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("owners page limit must be positive, got %d", limit)
	}
	var out []domain.OwnerRow
	build := func() (string, []any, error) { return r.t.ownersAfterQuery(afterID, limit) }
	err := r.query(ctx, "owners_after", build, func(rows *sql.Rows) error {
		var o domain.OwnerRow
		if err := rows.Scan(&o.ID, &o.DisplayName); err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("owners after %d: %w", afterID, err)
	}
	return out, nil
}

func (r *Repo) Attribute(ctx context.Context, ownerID int64, key string) (*string, error) {
	var out *string
	build := func() (string, []any, error) { return r.t.attributeQuery(ownerID, key) }
	err := r.query(ctx, "attribute", build, func(rows *sql.Rows) error {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return err
		}
		if v.Valid {
			s := v.String
			out = &s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("attribute %s for owner %d: %w", key, ownerID, err)
	}
	return out, nil
}

func (r *Repo) OwnedItems(ctx context.Context, ownerID int64, itemType, status string) ([]domain.Item, error) {
	m, err := r.OwnedItemsFor(ctx, []int64{ownerID}, itemType, status)
	if err != nil {
		return nil, err
	}
	return m[ownerID], nil
}

func (r *Repo) ReviewAggregate(ctx context.Context, ownerID int64) (domain.ReviewAggregate, error) {
	m, err := r.ReviewAggregatesFor(ctx, []int64{ownerID})
	if err != nil {
		return domain.ReviewAggregate{}, err
	}
	return m[ownerID], nil
}

// AttributesFor keeps the first value per (owner, key), matching Attribute.
func (r *Repo) AttributesFor(ctx context.Context, ownerIDs []int64, keys []string) (map[int64]map[string]string, error) {
	out := make(map[int64]map[string]string, len(ownerIDs))
	if len(ownerIDs) == 0 || len(keys) == 0 {
		return out, nil
	}
	build := func() (string, []any, error) { return r.t.attributesForQuery(ownerIDs, keys) }
	err := r.query(ctx, "attributes_for", build, func(rows *sql.Rows) error {
		var (
			id  int64
			key string
			v   sql.NullString
		)
		if err := rows.Scan(&id, &key, &v); err != nil {
			return err
		}
		if !v.Valid {
			return nil
		}
		bag := out[id]
		if bag == nil {
			bag = map[string]string{}
			out[id] = bag
		}
		if _, seen := bag[key]; !seen {
			bag[key] = v.String
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("attributes for %d owners: %w", len(ownerIDs), err)
	}
	return out, nil
}

func (r *Repo) OwnedItemsFor(ctx context.Context, ownerIDs []int64, itemType, status string) (map[int64][]domain.Item, error) {
	out := make(map[int64][]domain.Item, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	build := func() (string, []any, error) { return r.t.ownedItemsQuery(ownerIDs, itemType, status) }
	err := r.query(ctx, "owned_items", build, func(rows *sql.Rows) error {
		var (
			owner int64
			it    domain.Item
		)
		if err := rows.Scan(&owner, &it.ID, &it.Title); err != nil {
			return err
		}
		out[owner] = append(out[owner], it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s/%s items for %d owners: %w", itemType, status, len(ownerIDs), err)
	}
	return out, nil
}

func (r *Repo) ReviewAggregatesFor(ctx context.Context, ownerIDs []int64) (map[int64]domain.ReviewAggregate, error) {
	out := make(map[int64]domain.ReviewAggregate, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	build := func() (string, []any, error) { return r.t.reviewAggregateQuery(ownerIDs) }
	err := r.query(ctx, "review_aggregate", build, func(rows *sql.Rows) error {
		var (
			owner int64
			count int
			mean  sql.NullFloat64
		)
		if err := rows.Scan(&owner, &count, &mean); err != nil {
			return err
		}
		out[owner] = domain.NewReviewAggregate(count, mean.Float64)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("review aggregate for %d owners: %w", len(ownerIDs), err)
	}
	return out, nil
}
