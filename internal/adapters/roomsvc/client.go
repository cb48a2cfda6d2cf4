// internal/adapters/roomsvc/client.go
package roomsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/domain"
)

// Client resolves rooms from a remote room catalog. Calls are never retried:
// a failed resolution fails the hotel it belongs to.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("room service base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var ErrUnauthorized = errors.New("roomsvc: unauthorized")

func (c *Client) Room(ctx context.Context, id int64) (domain.Room, error) {
	var payload map[string]any
	if err := c.get(ctx, fmt.Sprintf("%s/rooms/%d", c.base, id), &payload); err != nil {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, err)
	}
	return mapRoom(id, payload)
}

// get performs one rate-limited GET and decodes JSON into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-listing/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("roomsvc", "rooms", 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("roomsvc", "rooms", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

/********** payload mapping **********/

var roomAliases = map[string][]string{
	"title":     {"title", "name", "post_title"},
	"price":     {"price", "price.amount", "rate"},
	"surface":   {"surface", "size", "area"},
	"bedrooms":  {"bedrooms_count", "bedrooms", "rooms"},
	"bathrooms": {"bathrooms_count", "bathrooms"},
	"type":      {"type", "room_type"},
	"image":     {"coverImage", "image", "image_url"},
}

func mapRoom(id int64, m map[string]any) (domain.Room, error) {
	r := domain.Room{
		ID:    id,
		Title: firstStr(m, roomAliases["title"]...),
		Type:  strings.TrimSpace(firstStr(m, roomAliases["type"]...)),
	}
	price, err := getFloatFlexible(m, roomAliases["price"]...)
	if err != nil {
		return domain.Room{}, fmt.Errorf("room %d price: %w", id, err)
	}
	if price != nil {
		r.Price = *price
	}
	for _, f := range []struct {
		alias string
		dst   *int
	}{
		{"surface", &r.Surface},
		{"bedrooms", &r.BedRooms},
		{"bathrooms", &r.BathRooms},
	} {
		v, err := getFloatFlexible(m, roomAliases[f.alias]...)
		if err != nil {
			return domain.Room{}, fmt.Errorf("room %d %s: %w", id, f.alias, err)
		}
		if v != nil {
			n, err := domain.IntFromFloat(f.alias, *v)
			if err != nil {
				return domain.Room{}, fmt.Errorf("room %d: %w", id, err)
			}
			*f.dst = n
		}
	}
	if img := firstStr(m, roomAliases["image"]...); img != "" {
		r.ImageURL = &img
	}
	return r, nil
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from the first present path (float64 or string like "8,0").
// A present value that is not a number is malformed.
func getFloatFlexible(m map[string]any, paths ...string) (*float64, error) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case nil:
			continue
		case float64:
			f := v
			return &f, nil
		case string:
			f, err := domain.ParseFloat(k, &v)
			if err != nil {
				return nil, err
			}
			if f == nil {
				continue
			}
			return f, nil
		case map[string]any:
			continue // e.g. "price" is an object; a nested alias covers it
		default:
			return nil, fmt.Errorf("%s has type %T: %w", k, v, domain.ErrMalformed)
		}
	}
	return nil, nil
}
