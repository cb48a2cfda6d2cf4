package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/geo"
)

func list(t *testing.T, store domain.Gateway, rooms domain.RoomResolver, opts app.Options, c domain.Criteria) []domain.Hotel {
	t.Helper()
	out, err := app.NewListingService(store, rooms, opts).List(context.Background(), c)
	require.NoError(t, err)
	return out
}

func TestList_NoCriteria(t *testing.T) {
	store, rooms := fixture()
	out := list(t, store, rooms, app.Options{}, domain.Criteria{})

	// owner 3 has no published room and is left out without an error
	require.Equal(t, []int64{1, 2, 4, 5}, ids(out))

	lyon := out[0]
	assert.Equal(t, "Lyon Centre", lyon.Name)
	assert.Equal(t, "Lyon", *lyon.Address.City)
	assert.Nil(t, lyon.Address.Line2)
	assert.InDelta(t, 45.764, *lyon.GeoLat, 1e-9)
	assert.Equal(t, "https://img/1.jpg", *lyon.ImageURL)
	assert.Equal(t, int64(101), lyon.CheapestRoom.ID)
	assert.Equal(t, 4, lyon.Rating)
	assert.Equal(t, 3, lyon.RatingCount)
	assert.Nil(t, lyon.Distance, "distance only set when origin and radius are given")

	paris := out[2]
	assert.Equal(t, 0, paris.Rating)
	assert.Equal(t, 0, paris.RatingCount)

	tie := out[3]
	assert.Nil(t, tie.GeoLat)
	assert.Equal(t, int64(501), tie.CheapestRoom.ID, "120.2 and 120.8 tie at 120, first wins")
}

func TestList_PriceTruncationBoundary(t *testing.T) {
	store, rooms := fixture()
	out := list(t, store, rooms, app.Options{}, domain.Criteria{
		Price: domain.FloatRange{Min: ptr(100.0), Max: ptr(100.0)},
	})

	// 100.9 truncates to 100 and passes; 99.9 truncates to 99 and does not
	require.Equal(t, []int64{1}, ids(out))
	assert.Equal(t, int64(101), out[0].CheapestRoom.ID)
}

func TestList_DistanceBoundaryIsInclusive(t *testing.T) {
	store, rooms := fixture()
	origin := geo.Point(45.764, 4.8357)
	bound := geo.Distance(origin, geo.Point(45.7719, 4.8902)) // exactly Villeurbanne

	out := list(t, store, rooms, app.Options{}, domain.Criteria{Origin: &origin, Distance: &bound})
	require.Equal(t, []int64{1, 2}, ids(out))
	require.NotNil(t, out[1].Distance)
	assert.Equal(t, bound, *out[1].Distance)
	assert.InDelta(t, 0, *out[0].Distance, 1e-3)

	tighter := math.Nextafter(bound, 0)
	out = list(t, store, rooms, app.Options{}, domain.Criteria{Origin: &origin, Distance: &tighter})
	assert.Equal(t, []int64{1}, ids(out))
}

func TestList_DistanceNeedsOriginAndRadius(t *testing.T) {
	store, rooms := fixture()
	radius := 1.0
	out := list(t, store, rooms, app.Options{}, domain.Criteria{Distance: &radius})
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(out))
	for _, h := range out {
		assert.Nil(t, h.Distance)
	}
}

func TestList_SearchIsPassThrough(t *testing.T) {
	store, rooms := fixture()
	out := list(t, store, rooms, app.Options{}, domain.Criteria{Search: ptr("zzz")})
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(out))
}

func TestList_RoomResolutionFailureAbortsEverything(t *testing.T) {
	boom := errors.New("room service down")

	for name, opts := range map[string]app.Options{
		"sequential": {},
		"workers":    {Workers: 4},
		"paged":      {PageSize: 2},
	} {
		t.Run(name, func(t *testing.T) {
			store, rooms := fixture()
			rooms.fail = map[int64]error{202: boom}

			out, err := app.NewListingService(store, rooms, opts).List(context.Background(), domain.Criteria{})
			require.ErrorIs(t, err, boom)
			assert.Nil(t, out, "no partial results on a hard failure")
		})
	}
}

func TestList_MissingRoomIsHardFailure(t *testing.T) {
	store, rooms := fixture()
	delete(rooms.rooms, 401)

	_, err := app.NewListingService(store, rooms, app.Options{}).List(context.Background(), domain.Criteria{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_MalformedGeoIsHardFailure(t *testing.T) {
	store, rooms := fixture()
	store.attrs[4]["geo_lat"] = "north"

	_, err := app.NewListingService(store, rooms, app.Options{}).List(context.Background(), domain.Criteria{})
	require.ErrorIs(t, err, domain.ErrMalformed)
}

func TestList_NonFiniteGeoIsHardFailure(t *testing.T) {
	origin := geo.Point(45.764, 4.8357)
	for _, v := range []string{"NaN", "Inf", "-Infinity"} {
		t.Run(v, func(t *testing.T) {
			store, rooms := fixture()
			store.attrs[2]["geo_lat"] = v

			out, err := app.NewListingService(store, rooms, app.Options{}).
				List(context.Background(), domain.Criteria{Origin: &origin, Distance: ptr(1.0)})
			require.ErrorIs(t, err, domain.ErrMalformed)
			assert.Nil(t, out)
		})
	}
}

func TestList_StoreErrorIsHardFailure(t *testing.T) {
	store, rooms := fixture()
	store.failOn = map[int64]error{3: errors.New("connection reset")}

	_, err := app.NewListingService(store, rooms, app.Options{}).List(context.Background(), domain.Criteria{})
	require.EqualError(t, err, "connection reset")
}

func TestList_CanceledContext(t *testing.T) {
	store, rooms := fixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := app.NewListingService(store, rooms, app.Options{Timeout: time.Second}).List(ctx, domain.Criteria{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestList_Idempotent(t *testing.T) {
	store, rooms := fixture()
	svc := app.NewListingService(store, rooms, app.Options{Workers: 3})
	c := domain.Criteria{Types: []string{"Chambre"}}

	first, err := svc.List(context.Background(), c)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestList_TighteningNeverGrows(t *testing.T) {
	store, rooms := fixture()
	chains := [][]domain.Criteria{
		{
			{Price: domain.FloatRange{Min: ptr(0.0)}},
			{Price: domain.FloatRange{Min: ptr(100.0)}},
			{Price: domain.FloatRange{Min: ptr(150.0)}},
			{Price: domain.FloatRange{Min: ptr(300.0)}},
		},
		{
			{Surface: domain.IntRange{Max: ptr(100)}},
			{Surface: domain.IntRange{Max: ptr(25)}},
			{Surface: domain.IntRange{Max: ptr(18)}},
			{Surface: domain.IntRange{Max: ptr(10)}},
		},
		{
			{BedRooms: ptr(1)},
			{BedRooms: ptr(2)},
			{BedRooms: ptr(3)},
			{BedRooms: ptr(4)},
		},
	}
	for _, chain := range chains {
		prev := math.MaxInt
		for _, c := range chain {
			n := len(list(t, store, rooms, app.Options{}, c))
			assert.LessOrEqual(t, n, prev, "criteria %+v", c)
			prev = n
		}
	}
}

func TestList_ResultsSatisfyCriteria(t *testing.T) {
	store, rooms := fixture()
	origin := geo.Point(45.76, 4.85)
	criteria := []domain.Criteria{
		{Price: domain.FloatRange{Min: ptr(90.0), Max: ptr(200.0)}},
		{Surface: domain.IntRange{Min: ptr(20), Max: ptr(40)}, Types: []string{"Suite", "Chambre"}},
		{BedRooms: ptr(2), BathRooms: ptr(1)},
		{Origin: &origin, Distance: ptr(10.0)},
	}
	for _, c := range criteria {
		for _, h := range list(t, store, rooms, app.Options{}, c) {
			r := h.CheapestRoom
			price := float64(int64(r.Price))
			if c.Price.Min != nil {
				assert.GreaterOrEqual(t, price, *c.Price.Min)
			}
			if c.Price.Max != nil {
				assert.LessOrEqual(t, price, *c.Price.Max)
			}
			if c.Surface.Min != nil {
				assert.GreaterOrEqual(t, r.Surface, *c.Surface.Min)
			}
			if c.Surface.Max != nil {
				assert.LessOrEqual(t, r.Surface, *c.Surface.Max)
			}
			if c.BedRooms != nil {
				assert.GreaterOrEqual(t, r.BedRooms, *c.BedRooms)
			}
			if c.BathRooms != nil {
				assert.GreaterOrEqual(t, r.BathRooms, *c.BathRooms)
			}
			if len(c.Types) > 0 {
				assert.Contains(t, c.Types, r.Type)
			}
			if c.WantsDistance() {
				require.NotNil(t, h.Distance)
				assert.LessOrEqual(t, *h.Distance, *c.Distance)
			}
		}
	}
}

func TestList_OptionsMatchSequentialBaseline(t *testing.T) {
	origin := geo.Point(45.764, 4.8357)
	criteria := []domain.Criteria{
		{},
		{Price: domain.FloatRange{Max: ptr(120.0)}},
		{Origin: &origin, Distance: ptr(50.0), Types: []string{"Chambre"}},
	}

	for _, c := range criteria {
		store, rooms := fixture()
		baseline := list(t, store, rooms, app.Options{}, c)

		variants := map[string]struct {
			store domain.Gateway
			rooms domain.RoomResolver
			opts  app.Options
		}{
			"workers":                  {store, rooms, app.Options{Workers: 4}},
			"paged":                    {store, rooms, app.Options{PageSize: 2}},
			"paged exact fit":          {store, rooms, app.Options{PageSize: 5}},
			"prefetch":                 {&batchStore{fakeStore: store}, rooms, app.Options{Prefetch: true}},
			"prefetch batched rooms":   {&batchStore{fakeStore: store}, batchRooms{rooms}, app.Options{Prefetch: true, PageSize: 2}},
			"everything":               {&batchStore{fakeStore: store}, batchRooms{rooms}, app.Options{Prefetch: true, PageSize: 3, Workers: 3}},
			"prefetch without batcher": {store, rooms, app.Options{Prefetch: true}},
		}
		for name, v := range variants {
			got := list(t, v.store, v.rooms, v.opts, c)
			assert.Equal(t, baseline, got, "variant %s, criteria %+v", name, c)
		}
	}
}

func TestList_PrefetchSkipsPerAttributeQueries(t *testing.T) {
	store, rooms := fixture()
	bs := &batchStore{fakeStore: store}

	out := list(t, bs, batchRooms{rooms}, app.Options{Prefetch: true, PageSize: 2}, domain.Criteria{})
	require.Len(t, out, 4)
	assert.Zero(t, store.attributeCalls.Load(), "attributes must come from the snapshot")
	assert.Zero(t, rooms.calls.Load(), "rooms must come from the batch resolver")
	assert.Equal(t, int64(9), bs.batches.Load(), "three loaders per page, three pages")
}

func TestList_EmptyStore(t *testing.T) {
	out := list(t, &fakeStore{}, &fakeRooms{}, app.Options{PageSize: 10}, domain.Criteria{})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
