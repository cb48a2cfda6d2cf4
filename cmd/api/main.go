package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_listing/internal/adapters/http_server"
	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/adapters/roomsvc"
	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/shared"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Str("prefix", cfg.TablePrefix).Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db, cfg.TablePrefix)
	var rooms domain.RoomResolver = mysqlrepo.NewRooms(db, cfg.TablePrefix)
	if cfg.RoomServiceURL != "" {
		client, err := roomsvc.New(cfg.RoomServiceURL, cfg.RoomServiceKey, cfg.RoomServiceRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize room service client")
		}
		rooms = client
		log.Info().Str("base", cfg.RoomServiceURL).Msg("rooms resolved remotely")
	}
	svc := app.NewListingService(repo, rooms, app.Options{
		Workers:  cfg.Workers,
		PageSize: cfg.PageSize,
		Prefetch: cfg.Prefetch,
		Timeout:  cfg.RequestTimeout,
	})

	// http
	srv := server.New(cfg.RequestTimeout + 5*time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{L: svc})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Int("workers", cfg.Workers).
		Int("page_size", cfg.PageSize).
		Bool("prefetch", cfg.Prefetch).
		Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
