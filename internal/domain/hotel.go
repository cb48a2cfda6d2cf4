package domain

// OwnerRow is one wp_users row, the unit the listing enumerates.
type OwnerRow struct {
	ID          int64
	DisplayName string
}

// Item is a raw wp_posts row owned by an owner (rooms, reviews).
type Item struct {
	ID    int64
	Title string
}

type Address struct {
	Line1   *string `json:"address_1"`
	Line2   *string `json:"address_2"`
	City    *string `json:"address_city"`
	Zip     *string `json:"address_zip"`
	Country *string `json:"address_country"`
}

type Hotel struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Address      Address  `json:"address"`
	GeoLat       *float64 `json:"geo_lat"`
	GeoLng       *float64 `json:"geo_lng"`
	ImageURL     *string  `json:"image_url"`
	Phone        *string  `json:"phone"`
	Rating       int      `json:"rating"`
	RatingCount  int      `json:"rating_count"`
	CheapestRoom Room     `json:"cheapest_room"`
	Distance     *float64 `json:"distance,omitempty"` // km, only when an origin and radius were given
}

type Room struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Surface   int     `json:"surface"`
	BedRooms  int     `json:"bedrooms_count"`
	BathRooms int     `json:"bathrooms_count"`
	Type      string  `json:"type"`
	ImageURL  *string `json:"image_url,omitempty"`
}
