package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// BookingEvent is the payload published for every booking status change.
type BookingEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	Type       string        `json:"type"`
	BookingID  string        `json:"booking_id"`
	SlotID     string        `json:"slot_id"`
	PlayerID   string        `json:"player_id"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewBookingEvent(b BookingRow, now time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.New(),
		Type:       "booking." + string(b.Status),
		BookingID:  b.ID,
		SlotID:     b.SlotID,
		PlayerID:   b.PlayerID,
		Status:     b.Status,
		OccurredAt: now.UTC(),
	}
}
