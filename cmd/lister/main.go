package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/adapters/roomsvc"
	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/geo"
	"hotel_listing/internal/shared"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func optFloat(dst **float64) func(string) error {
	return func(s string) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = &f
		return nil
	}
}

func optInt(dst **int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*dst = &n
		return nil
	}
}

// lister runs one listing against the configured store and prints the hotels as JSON.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var (
		c        domain.Criteria
		lat, lng *float64
		search   string
		types    string
		indent   bool
	)
	flag.StringVar(&search, "search", "", "free-text search (accepted, not applied)")
	flag.Func("lat", "origin latitude", optFloat(&lat))
	flag.Func("lng", "origin longitude", optFloat(&lng))
	flag.Func("distance", "max distance from origin, km", optFloat(&c.Distance))
	flag.Func("price-min", "min room price", optFloat(&c.Price.Min))
	flag.Func("price-max", "max room price", optFloat(&c.Price.Max))
	flag.Func("surface-min", "min room surface", optInt(&c.Surface.Min))
	flag.Func("surface-max", "max room surface", optInt(&c.Surface.Max))
	flag.Func("rooms", "min bedrooms", optInt(&c.BedRooms))
	flag.Func("bathrooms", "min bathrooms", optInt(&c.BathRooms))
	flag.StringVar(&types, "types", "", "comma-separated room types")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "hotels hydrated in parallel")
	flag.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "owners per page (0 = single scan)")
	flag.BoolVar(&cfg.Prefetch, "prefetch", cfg.Prefetch, "batch-load attributes and rooms per page")
	flag.BoolVar(&indent, "indent", false, "pretty-print the output")
	flag.Parse()

	if search != "" {
		c.Search = &search
	}
	if (lat == nil) != (lng == nil) {
		log.Warn().Msg("only one of -lat and -lng given, distance filter skipped")
	}
	if lat != nil && lng != nil {
		p := geo.Point(*lat, *lng)
		c.Origin = &p
	}
	for _, t := range strings.Split(types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			c.Types = append(c.Types, t)
		}
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()

	var rooms domain.RoomResolver = mysqlrepo.NewRooms(db, cfg.TablePrefix)
	if cfg.RoomServiceURL != "" {
		client, err := roomsvc.New(cfg.RoomServiceURL, cfg.RoomServiceKey, cfg.RoomServiceRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize room service client")
		}
		rooms = client
	}
	svc := app.NewListingService(mysqlrepo.New(db, cfg.TablePrefix), rooms, app.Options{
		Workers:  cfg.Workers,
		PageSize: cfg.PageSize,
		Prefetch: cfg.Prefetch,
		Timeout:  cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hotels, err := svc.List(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("listing failed")
	}
	log.Info().Int("count", len(hotels)).Msg("listing done")

	enc := json.NewEncoder(os.Stdout)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(hotels); err != nil {
		log.Fatal().Err(err).Msg("write output failed")
	}
}
