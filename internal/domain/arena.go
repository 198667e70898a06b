package domain

// Arena is a bookable sports venue as shown by the listing and detail views.
type Arena struct {
	ID        string  `json:"id" bson:"_id"`
	Name      string  `json:"name" bson:"name"`
	Location  string  `json:"location" bson:"location"`
	Sport     string  `json:"sport" bson:"sport"`
	Rating    float64 `json:"rating" bson:"rating"`
	Price     int     `json:"price" bson:"price"`
	Capacity  int     `json:"capacity" bson:"capacity"`
	Available bool    `json:"available" bson:"available"`
	Theme     string  `json:"theme" bson:"theme"`
}

const (
	OperatingHours   = "6:00 AM - 11:00 PM"
	CancellationNote = "Free cancellation up to 24 hours before your booking"
)

// Selector values offered by the listing view, in display order.
var (
	Sports    = []string{"Basketball", "Soccer", "Tennis", "Volleyball", "Badminton", "Cricket"}
	Locations = []string{"Downtown", "Westside", "Eastside", "North District", "South End"}
	Amenities = []string{"Free WiFi", "Free Parking", "Cafe & Lounge", "Security", "Equipment Rental", "Changing Rooms"}
)
