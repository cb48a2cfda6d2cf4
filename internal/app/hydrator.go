package app

import (
	"context"
	"fmt"
	"time"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/geo"
)

type OutcomeKind uint8

const (
	Included OutcomeKind = iota + 1
	Rejected
	Failed
)

// Outcome is the result of hydrating one candidate: a complete hotel,
// a filter rejection, or a hard failure.
type Outcome struct {
	Kind   OutcomeKind
	Hotel  domain.Hotel
	Reason domain.RejectReason
	Err    error
}

func included(h domain.Hotel) Outcome { return Outcome{Kind: Included, Hotel: h} }
func rejected(r domain.RejectReason) Outcome { return Outcome{Kind: Rejected, Reason: r} }
func failed(err error) Outcome { return Outcome{Kind: Failed, Err: err} }

// label is the metrics outcome label.
func (o Outcome) label() string {
	switch o.Kind {
	case Included:
		return "included"
	case Rejected:
		return string(o.Reason)
	default:
		return "failed"
	}
}

// Hydrator builds one Hotel from one owner row. It holds no per-candidate state.
type Hydrator struct {
	store domain.AttributeStore
	rooms domain.RoomResolver
}

func NewHydrator(store domain.AttributeStore, rooms domain.RoomResolver) *Hydrator {
	return &Hydrator{store: store, rooms: rooms}
}

func (h *Hydrator) Hydrate(ctx context.Context, row domain.OwnerRow, c domain.Criteria) Outcome {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	hotel := domain.Hotel{ID: row.ID, Name: row.DisplayName}

	if err := h.loadAttributes(ctx, &hotel); err != nil {
		return failed(err)
	}

	room, ok, err := h.cheapestRoom(ctx, hotel.ID, c)
	if err != nil {
		return failed(err)
	}
	if !ok {
		return rejected(domain.RejectNoMatchingRoom)
	}
	hotel.CheapestRoom = room

	agg, err := h.reviews(ctx, hotel.ID)
	if err != nil {
		return failed(err)
	}
	hotel.Rating, hotel.RatingCount = agg.Rating, agg.Count

	if c.WantsDistance() {
		d := geo.Distance(*c.Origin, hotelPoint(hotel))
		if d > *c.Distance {
			return rejected(domain.RejectOutOfRange)
		}
		hotel.Distance = &d
	}
	return included(hotel)
}

func (h *Hydrator) loadAttributes(ctx context.Context, hotel *domain.Hotel) error {
	defer observability.ObserveStage("attributes", time.Now())

	attrs := make(map[string]*string, len(domain.HotelMetaKeys))
	for _, k := range domain.HotelMetaKeys {
		v, err := h.store.Attribute(ctx, hotel.ID, k)
		if err != nil {
			return err
		}
		attrs[k] = v
	}
	return applyAttributes(hotel, attrs)
}

// cheapestRoom resolves every published room before filtering; any resolution
// error is returned as is, only predicate mismatches lead to ok=false.
func (h *Hydrator) cheapestRoom(ctx context.Context, ownerID int64, c domain.Criteria) (domain.Room, bool, error) {
	defer observability.ObserveStage("rooms", time.Now())

	items, err := h.store.OwnedItems(ctx, ownerID, domain.PostTypeRoom, domain.StatusPublish)
	if err != nil {
		return domain.Room{}, false, err
	}
	rooms := make([]domain.Room, 0, len(items))
	for _, it := range items {
		r, err := h.rooms.Room(ctx, it.ID)
		if err != nil {
			return domain.Room{}, false, fmt.Errorf("hotel %d: %w", ownerID, err)
		}
		rooms = append(rooms, r)
	}
	room, ok := cheapestMatching(rooms, c)
	return room, ok, nil
}

func (h *Hydrator) reviews(ctx context.Context, ownerID int64) (domain.ReviewAggregate, error) {
	defer observability.ObserveStage("reviews", time.Now())
	return h.store.ReviewAggregate(ctx, ownerID)
}
