package app_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"hotel_listing/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	owners  []domain.OwnerRow // sorted by ID
	attrs   map[int64]map[string]string
	rooms   map[int64][]domain.Item
	reviews map[int64]domain.ReviewAggregate
	failOn  map[int64]error // Attribute fails for these owners

	attributeCalls atomic.Int64
}

func (f *fakeStore) AllOwners(ctx context.Context) ([]domain.OwnerRow, error) {
	return append([]domain.OwnerRow(nil), f.owners...), nil
}

func (f *fakeStore) OwnersAfter(ctx context.Context, afterID int64, limit int) ([]domain.OwnerRow, error) {
	var out []domain.OwnerRow
	for _, o := range f.owners {
		if o.ID > afterID && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) Attribute(ctx context.Context, ownerID int64, key string) (*string, error) {
	f.attributeCalls.Add(1)
	if err := f.failOn[ownerID]; err != nil {
		return nil, err
	}
	if v, ok := f.attrs[ownerID][key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (f *fakeStore) OwnedItems(ctx context.Context, ownerID int64, itemType, status string) ([]domain.Item, error) {
	if itemType != domain.PostTypeRoom || status != domain.StatusPublish {
		return nil, nil
	}
	return f.rooms[ownerID], nil
}

func (f *fakeStore) ReviewAggregate(ctx context.Context, ownerID int64) (domain.ReviewAggregate, error) {
	return f.reviews[ownerID], nil
}

// batchStore adds the batched loaders on top of fakeStore.
type batchStore struct {
	*fakeStore
	batches atomic.Int64
}

func (b *batchStore) AttributesFor(ctx context.Context, ownerIDs []int64, keys []string) (map[int64]map[string]string, error) {
	b.batches.Add(1)
	out := map[int64]map[string]string{}
	for _, id := range ownerIDs {
		if err := b.failOn[id]; err != nil {
			return nil, err
		}
		for _, k := range keys {
			if v, ok := b.attrs[id][k]; ok {
				if out[id] == nil {
					out[id] = map[string]string{}
				}
				out[id][k] = v
			}
		}
	}
	return out, nil
}

func (b *batchStore) OwnedItemsFor(ctx context.Context, ownerIDs []int64, itemType, status string) (map[int64][]domain.Item, error) {
	b.batches.Add(1)
	out := map[int64][]domain.Item{}
	for _, id := range ownerIDs {
		items, _ := b.OwnedItems(ctx, id, itemType, status)
		if len(items) > 0 {
			out[id] = items
		}
	}
	return out, nil
}

func (b *batchStore) ReviewAggregatesFor(ctx context.Context, ownerIDs []int64) (map[int64]domain.ReviewAggregate, error) {
	b.batches.Add(1)
	out := map[int64]domain.ReviewAggregate{}
	for _, id := range ownerIDs {
		if agg, ok := b.reviews[id]; ok {
			out[id] = agg
		}
	}
	return out, nil
}

type fakeRooms struct {
	rooms map[int64]domain.Room
	fail  map[int64]error

	calls atomic.Int64
}

func (f *fakeRooms) Room(ctx context.Context, id int64) (domain.Room, error) {
	f.calls.Add(1)
	if err := f.fail[id]; err != nil {
		return domain.Room{}, err
	}
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

type batchRooms struct{ *fakeRooms }

func (b batchRooms) RoomsFor(ctx context.Context, ids []int64) (map[int64]domain.Room, error) {
	out := make(map[int64]domain.Room, len(ids))
	for _, id := range ids {
		if err := b.fail[id]; err != nil {
			return nil, err
		}
		if r, ok := b.rooms[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

// ---- fixture ----

func room(id int64, price float64, surface, bed, bath int, typ string) domain.Room {
	return domain.Room{ID: id, Title: fmt.Sprintf("room %d", id), Price: price, Surface: surface, BedRooms: bed, BathRooms: bath, Type: typ}
}

// fixture: five owners around Lyon and Paris.
//
//	1 Lyon Centre   rooms 101 (100.9) 102 (150)   3 reviews, rating 4
//	2 Villeurbanne  rooms 201 (99.9)  202 (250)
//	3 Empty Inn     no published room
//	4 Paris Nord    room  401 (80)
//	5 Tie Hotel     rooms 501 (120.2) 502 (120.8), no geo
func fixture() (*fakeStore, *fakeRooms) {
	rooms := &fakeRooms{rooms: map[int64]domain.Room{
		101: room(101, 100.9, 20, 1, 1, "Chambre"),
		102: room(102, 150, 35, 2, 1, "Suite"),
		201: room(201, 99.9, 18, 1, 1, "Chambre"),
		202: room(202, 250, 60, 3, 2, "Appartement"),
		401: room(401, 80, 15, 1, 1, "Chambre"),
		501: room(501, 120.2, 25, 1, 1, "Chambre"),
		502: room(502, 120.8, 25, 1, 1, "Chambre"),
	}}
	items := func(ids ...int64) []domain.Item {
		out := make([]domain.Item, len(ids))
		for i, id := range ids {
			out[i] = domain.Item{ID: id, Title: rooms.rooms[id].Title}
		}
		return out
	}
	store := &fakeStore{
		owners: []domain.OwnerRow{
			{ID: 1, DisplayName: "Lyon Centre"},
			{ID: 2, DisplayName: "Villeurbanne"},
			{ID: 3, DisplayName: "Empty Inn"},
			{ID: 4, DisplayName: "Paris Nord"},
			{ID: 5, DisplayName: "Tie Hotel"},
		},
		attrs: map[int64]map[string]string{
			1: {"address_1": "1 place Bellecour", "address_city": "Lyon", "address_zip": "69002",
				"address_country": "FR", "geo_lat": "45.764", "geo_lng": "4.8357",
				"coverImage": "https://img/1.jpg", "phone": "+33 4 00 00 00 01"},
			2: {"address_city": "Villeurbanne", "geo_lat": "45.7719", "geo_lng": "4.8902"},
			3: {"address_city": "Nowhere", "geo_lat": "45.75", "geo_lng": "4.85"},
			4: {"address_city": "Paris", "geo_lat": "48.8566", "geo_lng": "2.3522"},
		},
		rooms: map[int64][]domain.Item{
			1: items(101, 102),
			2: items(201, 202),
			4: items(401),
			5: items(501, 502),
		},
		reviews: map[int64]domain.ReviewAggregate{
			1: {Count: 3, Rating: 4},
			2: {Count: 1, Rating: 5},
		},
	}
	return store, rooms
}

func ids(hs []domain.Hotel) []int64 {
	out := make([]int64, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }
