package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

type Options struct {
	Workers  int           // hotels hydrated in parallel per page; <=1 is sequential
	PageSize int           // owners per cursor page; 0 scans wp_users in one go
	Prefetch bool          // batch-load each page when the store is a domain.BatchLoader
	Timeout  time.Duration // per List call; 0 disables
}

type ListingService struct {
	gw    domain.Gateway
	rooms domain.RoomResolver
	opts  Options
}

func NewListingService(gw domain.Gateway, rooms domain.RoomResolver, opts Options) *ListingService {
	return &ListingService{gw: gw, rooms: rooms, opts: opts}
}

// List returns every hotel that has a room matching c (and lies within the radius
// when one is given), in owner scan order. Rejected candidates are skipped; any
// other failure aborts the call and no hotels are returned.
func (s *ListingService) List(ctx context.Context, c domain.Criteria) ([]domain.Hotel, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	start := time.Now()

	out := make([]domain.Hotel, 0)
	scanned := 0
	err := s.eachPage(ctx, func(page []domain.OwnerRow) error {
		scanned += len(page)
		hotels, err := s.hydratePage(ctx, page, c)
		if err != nil {
			return err
		}
		out = append(out, hotels...)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int("scanned", scanned).Msg("hotel listing aborted")
		return nil, err
	}

	log.Debug().
		Int("scanned", scanned).
		Int("included", len(out)).
		Dur("duration", time.Since(start)).
		Msg("hotel listing done")
	return out, nil
}

func (s *ListingService) eachPage(ctx context.Context, fn func([]domain.OwnerRow) error) error {
	if s.opts.PageSize <= 0 {
		owners, err := s.gw.AllOwners(ctx)
		if err != nil {
			return err
		}
		return fn(owners)
	}

	var after int64
	for {
		page, err := s.gw.OwnersAfter(ctx, after, s.opts.PageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		if err := fn(page); err != nil {
			return err
		}
		if len(page) < s.opts.PageSize {
			return nil
		}
		after = page[len(page)-1].ID
	}
}

// hydratePage keeps outcomes in indexed slots so survivors come back in scan order
// whatever the number of workers.
func (s *ListingService) hydratePage(ctx context.Context, page []domain.OwnerRow, c domain.Criteria) ([]domain.Hotel, error) {
	if len(page) == 0 {
		return nil, nil
	}
	var store domain.AttributeStore = s.gw
	rooms := s.rooms
	if bl, ok := s.gw.(domain.BatchLoader); ok && s.opts.Prefetch {
		snap, err := prefetch(ctx, bl, s.gw, s.rooms, page)
		if err != nil {
			return nil, err
		}
		store, rooms = snap, snap
	}
	h := NewHydrator(store, rooms)
	outcomes := make([]Outcome, len(page))

	if s.opts.Workers <= 1 {
		for i, row := range page {
			outcomes[i] = h.Hydrate(ctx, row, c)
			observe(row, outcomes[i])
			if outcomes[i].Kind == Failed {
				return nil, outcomes[i].Err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Workers)
		for i, row := range page {
			g.Go(func() error {
				o := h.Hydrate(gctx, row, c)
				outcomes[i] = o
				observe(row, o)
				if o.Kind == Failed {
					return o.Err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	hotels := make([]domain.Hotel, 0, len(page))
	for _, o := range outcomes {
		if o.Kind == Included {
			hotels = append(hotels, o.Hotel)
		}
	}
	return hotels, nil
}

func observe(row domain.OwnerRow, o Outcome) {
	observability.ObserveCandidate(o.label())
	if o.Kind == Rejected {
		log.Debug().Int64("owner", row.ID).Str("reason", string(o.Reason)).Msg("hotel filtered out")
	}
}
