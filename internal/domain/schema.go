package domain

import "github.com/cockroachdb/errors"

type AppRole string

const (
	RoleAdmin   AppRole = "admin"
	RoleManager AppRole = "manager"
	RolePlayer  AppRole = "player"
)

func (r AppRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RolePlayer:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from s to next.
// cancelled and completed are terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled || next == BookingCompleted
	}
	return false
}

type InterestStatus string

const (
	InterestPending  InterestStatus = "pending"
	InterestAccepted InterestStatus = "accepted"
	InterestRejected InterestStatus = "rejected"
)

func (s InterestStatus) Valid() bool {
	switch s {
	case InterestPending, InterestAccepted, InterestRejected:
		return true
	}
	return false
}

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

func (s SlotStatus) Valid() bool {
	return s == SlotAvailable || s == SlotBooked
}

func ParseAppRole(s string) (AppRole, error) {
	r := AppRole(s)
	if !r.Valid() {
		return "", errors.Wrapf(ErrInvalidEnum, "app_role %q", s)
	}
	return r, nil
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	v := BookingStatus(s)
	if !v.Valid() {
		return "", errors.Wrapf(ErrInvalidEnum, "booking_status %q", s)
	}
	return v, nil
}

func ParseInterestStatus(s string) (InterestStatus, error) {
	v := InterestStatus(s)
	if !v.Valid() {
		return "", errors.Wrapf(ErrInvalidEnum, "interest_status %q", s)
	}
	return v, nil
}

func ParseSlotStatus(s string) (SlotStatus, error) {
	v := SlotStatus(s)
	if !v.Valid() {
		return "", errors.Wrapf(ErrInvalidEnum, "slot_status %q", s)
	}
	return v, nil
}

// Table names of the relational store.
const (
	TableArenas          = "arenas"
	TableBookings        = "bookings"
	TableMessages        = "messages"
	TableProfiles        = "profiles"
	TableSlots           = "slots"
	TableThreadInterests = "thread_interests"
	TableThreads         = "threads"
	TableUserRoles       = "user_roles"
)

var Tables = []string{
	TableArenas, TableBookings, TableMessages, TableProfiles,
	TableSlots, TableThreadInterests, TableThreads, TableUserRoles,
}

// Relationship is a declared foreign key. The store does not enforce them
// and nothing here validates them; referenced ids are opaque.
type Relationship struct {
	Name             string
	Table            string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

var Relationships = []Relationship{
	{"bookings_slot_id_fkey", TableBookings, "slot_id", TableSlots, "id"},
	{"messages_thread_id_fkey", TableMessages, "thread_id", TableThreads, "id"},
	{"slots_arena_id_fkey", TableSlots, "arena_id", TableArenas, "id"},
	{"thread_interests_thread_id_fkey", TableThreadInterests, "thread_id", TableThreads, "id"},
	{"threads_arena_id_fkey", TableThreads, "arena_id", TableArenas, "id"},
}
