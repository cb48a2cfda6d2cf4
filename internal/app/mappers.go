package app

import (
	"fmt"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/geo"

	"github.com/paulmach/orb"
)

// applyAttributes copies the usermeta bag onto h. Absent keys stay nil.
// Geo values are coerced to numbers; an unparsable one fails the hotel.
func applyAttributes(h *domain.Hotel, attrs map[string]*string) error {
	h.Address = domain.Address{
		Line1:   attrs[domain.MetaAddress1],
		Line2:   attrs[domain.MetaAddress2],
		City:    attrs[domain.MetaAddressCity],
		Zip:     attrs[domain.MetaAddressZip],
		Country: attrs[domain.MetaAddressCountry],
	}
	h.ImageURL = attrs[domain.MetaCoverImage]
	h.Phone = attrs[domain.MetaPhone]

	var err error
	if h.GeoLat, err = domain.ParseFloat(domain.MetaGeoLat, attrs[domain.MetaGeoLat]); err != nil {
		return fmt.Errorf("hotel %d: %w", h.ID, err)
	}
	if h.GeoLng, err = domain.ParseFloat(domain.MetaGeoLng, attrs[domain.MetaGeoLng]); err != nil {
		return fmt.Errorf("hotel %d: %w", h.ID, err)
	}
	return nil
}

// hotelPoint treats a missing coordinate as 0, as the stored data has always been read.
func hotelPoint(h domain.Hotel) orb.Point {
	return geo.Point(derefF(h.GeoLat), derefF(h.GeoLng))
}

func derefF(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
