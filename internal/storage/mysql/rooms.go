package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotel_listing/internal/domain"
)

// Rooms resolves room posts from wp_posts + wp_postmeta.
type Rooms struct {
	db *sql.DB
	t  tables
}

func NewRooms(db *sql.DB, tablePrefix string) *Rooms {
	return &Rooms{db: db, t: newTables(tablePrefix)}
}

func (r *Rooms) repo() *Repo { return &Repo{db: r.db, t: r.t} }

func (r *Rooms) Room(ctx context.Context, id int64) (domain.Room, error) {
	m, err := r.RoomsFor(ctx, []int64{id})
	if err != nil {
		return domain.Room{}, err
	}
	room, ok := m[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	return room, nil
}

// RoomsFor omits ids that are not room posts; callers treat those as not found.
func (r *Rooms) RoomsFor(ctx context.Context, ids []int64) (map[int64]domain.Room, error) {
	out := make(map[int64]domain.Room, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := r.repo()

	posts := make([]domain.Item, 0, len(ids))
	build := func() (string, []any, error) { return r.t.roomPostsQuery(ids) }
	err := q.query(ctx, "room_posts", build, func(rows *sql.Rows) error {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Title); err != nil {
			return err
		}
		posts = append(posts, it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("room posts: %w", err)
	}
	if len(posts) == 0 {
		return out, nil
	}

	meta := make(map[int64]map[string]string, len(posts))
	buildMeta := func() (string, []any, error) { return r.t.postMetaQuery(ids, domain.RoomMetaKeys) }
	err = q.query(ctx, "room_meta", buildMeta, func(rows *sql.Rows) error {
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
		bag := meta[id]
		if bag == nil {
			bag = map[string]string{}
			meta[id] = bag
		}
		if _, seen := bag[key]; !seen {
			bag[key] = v.String
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("room meta: %w", err)
	}

	for _, p := range posts {
		room, err := domain.RoomFromMeta(p, meta[p.ID])
		if err != nil {
			return nil, err
		}
		out[p.ID] = room
	}
	return out, nil
}
