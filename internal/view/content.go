package view

import (
	"strconv"

	"github.com/robertarktes/arenalink/internal/domain"
)

type Stat struct {
	Label string
	Value string
}

type Feature struct {
	Title       string
	Description string
}

type Step struct {
	Number      int
	Title       string
	Description string
}

const reviewCount = 256

// FeaturedCount is how many arenas the landing page previews.
const FeaturedCount = 3

var (
	Stats = []Stat{
		{Label: "Active Arenas", Value: "500+"},
		{Label: "Bookings/Month", Value: "15K+"},
		{Label: "Players", Value: "10K+"},
		{Label: "Cities", Value: "25+"},
	}

	Features = []Feature{
		{Title: "Instant Booking", Description: "Browse real-time availability and book your favorite sports arenas in seconds with our intuitive calendar."},
		{Title: "Player Matching", Description: "Create or join game threads to find players at your skill level and organize the perfect match."},
		{Title: "Venue Management", Description: "Powerful tools for arena owners to manage bookings, pricing, and availability effortlessly."},
	}

	Steps = []Step{
		{Number: 1, Title: "Browse Venues", Description: "Search for arenas by location, sport, and availability"},
		{Number: 2, Title: "Book Instantly", Description: "Select your time slot and confirm your booking in seconds"},
		{Number: 3, Title: "Play & Connect", Description: "Show up and play, or find teammates through our community"},
	}
)

func NewHomePage(featured []domain.Arena) HomePage {
	return HomePage{Stats: Stats, Features: Features, Featured: featured, Steps: Steps}
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}
