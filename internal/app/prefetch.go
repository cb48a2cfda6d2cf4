package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

// snapshot answers the hydrator from data batch-loaded for one page of owners.
// It lives for a single List call. Anything it did not load goes to the live store.
type snapshot struct {
	live      domain.AttributeStore
	liveRooms domain.RoomResolver

	attrs   map[int64]map[string]string
	rooms   map[int64][]domain.Item // room/publish items only
	reviews map[int64]domain.ReviewAggregate

	resolved map[int64]domain.Room // nil when the resolver cannot batch
}

func prefetch(ctx context.Context, bl domain.BatchLoader, live domain.AttributeStore, rooms domain.RoomResolver, page []domain.OwnerRow) (*snapshot, error) {
	defer observability.ObserveStage("prefetch", time.Now())

	ids := make([]int64, len(page))
	for i, o := range page {
		ids[i] = o.ID
	}
	s := &snapshot{live: live, liveRooms: rooms}

	var err error
	if s.attrs, err = bl.AttributesFor(ctx, ids, domain.HotelMetaKeys); err != nil {
		return nil, err
	}
	if s.rooms, err = bl.OwnedItemsFor(ctx, ids, domain.PostTypeRoom, domain.StatusPublish); err != nil {
		return nil, err
	}
	if s.reviews, err = bl.ReviewAggregatesFor(ctx, ids); err != nil {
		return nil, err
	}

	br, ok := rooms.(domain.BatchRoomResolver)
	if !ok {
		return s, nil
	}
	var roomIDs []int64
	for _, id := range ids {
		for _, it := range s.rooms[id] {
			roomIDs = append(roomIDs, it.ID)
		}
	}
	if s.resolved, err = br.RoomsFor(ctx, roomIDs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *snapshot) Attribute(ctx context.Context, ownerID int64, key string) (*string, error) {
	if !slices.Contains(domain.HotelMetaKeys, key) {
		return s.live.Attribute(ctx, ownerID, key)
	}
	if v, ok := s.attrs[ownerID][key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (s *snapshot) OwnedItems(ctx context.Context, ownerID int64, itemType, status string) ([]domain.Item, error) {
	if itemType != domain.PostTypeRoom || status != domain.StatusPublish {
		return s.live.OwnedItems(ctx, ownerID, itemType, status)
	}
	return s.rooms[ownerID], nil
}

func (s *snapshot) ReviewAggregate(_ context.Context, ownerID int64) (domain.ReviewAggregate, error) {
	return s.reviews[ownerID], nil
}

func (s *snapshot) Room(ctx context.Context, id int64) (domain.Room, error) {
	if s.resolved == nil {
		return s.liveRooms.Room(ctx, id)
	}
	r, ok := s.resolved[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	return r, nil
}
