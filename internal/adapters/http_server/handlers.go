// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/geo"
)

// Lister is the listing use case the handlers serve.
type Lister interface {
	List(ctx context.Context, c domain.Criteria) ([]domain.Hotel, error)
}

type Handlers struct{ L Lister }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type hotelsResponse struct {
	Items []domain.Hotel `json:"items"`
	Count int            `json:"count"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.listHotels)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body, nil
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	lg := zerolog.Ctx(r.Context())

	c, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	lg.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Bool("distance_filter", c.WantsDistance()).Int("types", len(c.Types))
	})

	hotels, err := h.L.List(r.Context(), c)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeProblem(w, http.StatusGatewayTimeout, "Timeout", "listing took too long")
			return
		}
		lg.Error().Err(err).Msg("hotel listing failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "listing failed")
		return
	}

	etag, body, err := calcETagAndBody(hotelsResponse{Items: hotels, Count: len(hotels)})
	if err != nil {
		lg.Error().Err(err).Int("count", len(hotels)).Msg("encode hotel listing failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "listing could not be encoded")
		return
	}
	lg.UpdateContext(func(zc zerolog.Context) zerolog.Context { return zc.Int("hotels", len(hotels)) })

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		lg.Error().Err(err).Msg("failed to write listHotels body")
	}
}

// parseCriteria reads the filter query string. Empty parameters are absent.
func parseCriteria(q url.Values) (domain.Criteria, error) {
	var (
		c   domain.Criteria
		err error
	)
	if s := strings.TrimSpace(q.Get("search")); s != "" {
		c.Search = &s
	}

	lat, err := floatParam(q, "lat")
	if err != nil {
		return c, err
	}
	lng, err := floatParam(q, "lng")
	if err != nil {
		return c, err
	}
	// half an origin is no origin: the distance filter is skipped
	if lat != nil && lng != nil {
		p := geo.Point(*lat, *lng)
		c.Origin = &p
	}
	if c.Distance, err = floatParam(q, "distance"); err != nil {
		return c, err
	}

	if c.Price.Min, err = floatParam(q, "price_min"); err != nil {
		return c, err
	}
	if c.Price.Max, err = floatParam(q, "price_max"); err != nil {
		return c, err
	}
	if c.Surface.Min, err = intParam(q, "surface_min"); err != nil {
		return c, err
	}
	if c.Surface.Max, err = intParam(q, "surface_max"); err != nil {
		return c, err
	}
	if c.BedRooms, err = intParam(q, "rooms"); err != nil {
		return c, err
	}
	if c.BathRooms, err = intParam(q, "bathrooms"); err != nil {
		return c, err
	}

	// types=a,b and types=a&types=b are both accepted
	for _, v := range q["types"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.Types = append(c.Types, t)
			}
		}
	}
	return c, nil
}

func floatParam(q url.Values, k string) (*float64, error) {
	s := strings.TrimSpace(q.Get(k))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", k)
	}
	return &f, nil
}

func intParam(q url.Values, k string) (*int, error) {
	s := strings.TrimSpace(q.Get(k))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", k)
	}
	return &n, nil
}
