package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	TablePrefix    string
	RoomServiceURL string
	RoomServiceKey string
	RoomServiceRPS int
	Workers        int
	PageSize       int
	Prefetch       bool
	RequestTimeout time.Duration
}

// Load reads the environment, after merging an optional .env from the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/wordpress?charset=utf8mb4,utf8&loc=UTC"),
		TablePrefix:    env("WP_TABLE_PREFIX", "wp_"),
		RoomServiceURL: strings.TrimRight(env("ROOM_SERVICE_URL", ""), "/"),
		RoomServiceKey: env("ROOM_SERVICE_KEY", ""),
		RoomServiceRPS: atoi("ROOM_SERVICE_RPS", 20),
		Workers:        atoi("LIST_WORKERS", 1),
		PageSize:       atoi("LIST_PAGE_SIZE", 0),
		Prefetch:       envBool("LIST_PREFETCH", false),
		RequestTimeout: time.Duration(atoi("LIST_TIMEOUT_SECONDS", 30)) * time.Second,
	}
	if c.Prefetch && c.PageSize == 0 {
		log.Warn().Msg("LIST_PREFETCH without LIST_PAGE_SIZE prefetches the whole owner table at once")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
