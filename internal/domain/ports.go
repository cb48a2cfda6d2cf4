package domain

import "context"

// WordPress post types and statuses the listing reads.
const (
	PostTypeRoom   = "room"
	PostTypeReview = "review"
	StatusPublish  = "publish"
)

// AttributeStore is what hydrating a single hotel needs from the EAV store.
type AttributeStore interface {
	// Attribute returns the first usermeta value for (ownerID, key), or nil when absent.
	Attribute(ctx context.Context, ownerID int64, key string) (*string, error)
	OwnedItems(ctx context.Context, ownerID int64, itemType, status string) ([]Item, error)
	ReviewAggregate(ctx context.Context, ownerID int64) (ReviewAggregate, error)
}

// Gateway is the full read contract of the store.
type Gateway interface {
	AttributeStore

	AllOwners(ctx context.Context) ([]OwnerRow, error)
	// OwnersAfter is a keyset cursor ordered by ID; afterID 0 starts at the beginning.
	OwnersAfter(ctx context.Context, afterID int64, limit int) ([]OwnerRow, error)
}

// BatchLoader is implemented by stores that can hydrate many owners per query.
type BatchLoader interface {
	AttributesFor(ctx context.Context, ownerIDs []int64, keys []string) (map[int64]map[string]string, error)
	OwnedItemsFor(ctx context.Context, ownerIDs []int64, itemType, status string) (map[int64][]Item, error)
	ReviewAggregatesFor(ctx context.Context, ownerIDs []int64) (map[int64]ReviewAggregate, error)
}

// RoomResolver turns a room id into a fully hydrated Room or fails.
type RoomResolver interface {
	Room(ctx context.Context, id int64) (Room, error)
}

// BatchRoomResolver resolves many rooms at once. Ids missing from the result are not found.
type BatchRoomResolver interface {
	RoomsFor(ctx context.Context, ids []int64) (map[int64]Room, error)
}
