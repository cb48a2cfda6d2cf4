package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// usermeta keys read for a hotel.
const (
	MetaAddress1       = "address_1"
	MetaAddress2       = "address_2"
	MetaAddressCity    = "address_city"
	MetaAddressZip     = "address_zip"
	MetaAddressCountry = "address_country"
	MetaGeoLat         = "geo_lat"
	MetaGeoLng         = "geo_lng"
	MetaCoverImage     = "coverImage"
	MetaPhone          = "phone"
)

// postmeta keys read for a room.
const (
	MetaPrice     = "price"
	MetaSurface   = "surface"
	MetaBedRooms  = "bedrooms_count"
	MetaBathRooms = "bathrooms_count"
	MetaRoomType  = "type"
	MetaRating    = "rating"
)

var HotelMetaKeys = []string{
	MetaAddress1, MetaAddress2, MetaAddressCity, MetaAddressZip, MetaAddressCountry,
	MetaGeoLat, MetaGeoLng, MetaCoverImage, MetaPhone,
}

var RoomMetaKeys = []string{
	MetaPrice, MetaSurface, MetaBedRooms, MetaBathRooms, MetaRoomType, MetaCoverImage,
}

// ParseFloat accepts "12.5", " 12,5 " and empty. Empty or nil yields nil.
// NaN and infinities are malformed.
func ParseFloat(key string, v *string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(*v, ",", "."))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s=%q: %w", key, *v, ErrMalformed)
	}
	return &f, nil
}

// ParseInt truncates decimal input toward zero ("25.7" is 25).
func ParseInt(key string, v *string) (*int, error) {
	f, err := ParseFloat(key, v)
	if err != nil || f == nil {
		return nil, err
	}
	n, err := IntFromFloat(key, *f)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// IntFromFloat truncates f toward zero, failing when the result does not fit an int.
func IntFromFloat(key string, f float64) (int, error) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < math.MinInt || t >= math.MaxInt {
		return 0, fmt.Errorf("%s=%v out of range: %w", key, f, ErrMalformed)
	}
	return int(t), nil
}

// RoomFromMeta builds a Room from its post row and postmeta bag.
// Missing numeric values are zero; present but unparsable ones fail the room.
func RoomFromMeta(it Item, meta map[string]string) (Room, error) {
	get := func(k string) *string {
		if v, ok := meta[k]; ok {
			return &v
		}
		return nil
	}
	r := Room{ID: it.ID, Title: it.Title, Type: strings.TrimSpace(meta[MetaRoomType])}

	price, err := ParseFloat(MetaPrice, get(MetaPrice))
	if err != nil {
		return Room{}, fmt.Errorf("room %d: %w", it.ID, err)
	}
	if price != nil {
		r.Price = *price
	}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{MetaSurface, &r.Surface},
		{MetaBedRooms, &r.BedRooms},
		{MetaBathRooms, &r.BathRooms},
	} {
		n, err := ParseInt(f.key, get(f.key))
		if err != nil {
			return Room{}, fmt.Errorf("room %d: %w", it.ID, err)
		}
		if n != nil {
			*f.dst = *n
		}
	}
	if img := get(MetaCoverImage); img != nil && *img != "" {
		r.ImageURL = img
	}
	return r, nil
}
