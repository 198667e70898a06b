package domain_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertarktes/arenalink/internal/domain"
)

func TestEnums(t *testing.T) {
	for _, r := range []string{"admin", "manager", "player"} {
		_, err := domain.ParseAppRole(r)
		assert.NoError(t, err)
	}
	for _, s := range []string{"pending", "confirmed", "cancelled", "completed"} {
		_, err := domain.ParseBookingStatus(s)
		assert.NoError(t, err)
	}
	for _, s := range []string{"pending", "accepted", "rejected"} {
		_, err := domain.ParseInterestStatus(s)
		assert.NoError(t, err)
	}
	for _, s := range []string{"available", "booked"} {
		_, err := domain.ParseSlotStatus(s)
		assert.NoError(t, err)
	}

	_, err := domain.ParseAppRole("owner")
	assert.True(t, errors.Is(err, domain.ErrInvalidEnum))
	_, err = domain.ParseBookingStatus("CONFIRMED")
	assert.True(t, errors.Is(err, domain.ErrInvalidEnum))
	_, err = domain.ParseSlotStatus("held")
	assert.True(t, errors.Is(err, domain.ErrInvalidEnum))
}

func TestBookingStatus_CanTransition(t *testing.T) {
	assert.True(t, domain.BookingPending.CanTransition(domain.BookingConfirmed))
	assert.True(t, domain.BookingPending.CanTransition(domain.BookingCancelled))
	assert.True(t, domain.BookingConfirmed.CanTransition(domain.BookingCompleted))
	assert.True(t, domain.BookingConfirmed.CanTransition(domain.BookingCancelled))

	assert.False(t, domain.BookingPending.CanTransition(domain.BookingCompleted))
	assert.False(t, domain.BookingCancelled.CanTransition(domain.BookingConfirmed))
	assert.False(t, domain.BookingCompleted.CanTransition(domain.BookingCancelled))
}

func TestSchema_TablesAndRelationships(t *testing.T) {
	assert.Len(t, domain.Tables, 8)
	tables := map[string]bool{}
	for _, name := range domain.Tables {
		tables[name] = true
	}
	for _, rel := range domain.Relationships {
		assert.True(t, tables[rel.Table], rel.Name)
		assert.True(t, tables[rel.ReferencedTable], rel.Name)
	}
}

func TestInserts_Validate(t *testing.T) {
	bad := domain.SlotStatus("held")
	assert.Error(t, domain.SlotInsert{ArenaID: "1", Date: "2026-03-07", StartTime: "08:00", EndTime: "09:00", Status: &bad}.Validate())
	assert.Error(t, domain.SlotInsert{ArenaID: "1", Date: "2026-03-07", StartTime: "10:00", EndTime: "09:00"}.Validate())
	assert.Error(t, domain.SlotInsert{ArenaID: "1", Date: "7 March", StartTime: "08:00", EndTime: "09:00"}.Validate())

	slot := domain.SlotInsert{ArenaID: "1", Date: "2026-03-07", StartTime: "08:00", EndTime: "09:00"}
	require.NoError(t, slot.Validate())
	assert.Equal(t, domain.SlotAvailable, slot.StatusOrDefault())

	b := domain.BookingInsert{PlayerID: "p", SlotID: "s"}
	require.NoError(t, b.Validate())
	assert.Equal(t, domain.BookingPending, b.StatusOrDefault())
	assert.True(t, errors.Is(domain.BookingInsert{SlotID: "s"}.Validate(), domain.ErrInvalidInput))

	assert.Error(t, domain.UserRoleInsert{UserID: "u", Role: "owner"}.Validate())
	assert.NoError(t, domain.UserRoleInsert{UserID: "u", Role: domain.RoleManager}.Validate())

	assert.Error(t, domain.ProfileInsert{ID: "u", Email: "nope", Name: "Sam"}.Validate())
	assert.Error(t, domain.ArenaInsert{Name: "Court", Location: "Downtown"}.Validate())
	assert.Error(t, domain.MessageInsert{ThreadID: "t", SenderID: "a", ReceiverID: "b"}.Validate())
}

func TestUpdates_Fields(t *testing.T) {
	name := "New Name"
	approved := true
	fields := domain.ArenaUpdate{Name: &name, Approved: &approved}.Fields()
	assert.Equal(t, []domain.Field{{Column: "name", Value: "New Name"}, {Column: "approved", Value: true}}, fields)

	assert.Empty(t, domain.ProfileUpdate{}.Fields())

	booked := domain.SlotBooked
	assert.Equal(t, []domain.Field{{Column: "status", Value: "booked"}}, domain.SlotUpdate{Status: &booked}.Fields())
}

func TestUpdates_Validate(t *testing.T) {
	str := func(s string) *string { return &s }
	bogusBooking := domain.BookingStatus("lost")
	bogusInterest := domain.InterestStatus("maybe")
	bogusRole := domain.AppRole("owner")
	bogusSlot := domain.SlotStatus("held")
	cancelled := domain.BookingCancelled

	tests := []struct {
		name    string
		update  interface{ Validate() error }
		wantErr error
	}{
		{"booking empty", domain.BookingUpdate{}, nil},
		{"booking status", domain.BookingUpdate{Status: &cancelled}, nil},
		{"booking bad status", domain.BookingUpdate{Status: &bogusBooking}, domain.ErrInvalidEnum},
		{"booking blank player", domain.BookingUpdate{PlayerID: str(" ")}, domain.ErrInvalidInput},
		{"interest bad status", domain.ThreadInterestUpdate{Status: &bogusInterest}, domain.ErrInvalidEnum},
		{"interest blank user", domain.ThreadInterestUpdate{UserID: str("")}, domain.ErrInvalidInput},
		{"message content", domain.MessageUpdate{Content: str("see you at 6")}, nil},
		{"message blank content", domain.MessageUpdate{Content: str("")}, domain.ErrInvalidInput},
		{"role bad", domain.UserRoleUpdate{Role: &bogusRole}, domain.ErrInvalidEnum},
		{"role blank user", domain.UserRoleUpdate{UserID: str("")}, domain.ErrInvalidInput},
		{"slot bad status", domain.SlotUpdate{Status: &bogusSlot}, domain.ErrInvalidEnum},
		{"slot bad date", domain.SlotUpdate{Date: str("05/03/2026")}, domain.ErrInvalidInput},
		{"slot bad clock", domain.SlotUpdate{StartTime: str("8am")}, domain.ErrInvalidInput},
		{"slot inverted window", domain.SlotUpdate{StartTime: str("10:00"), EndTime: str("09:00")}, domain.ErrInvalidInput},
		{"slot window", domain.SlotUpdate{Date: str("2026-03-05"), StartTime: str("09:00"), EndTime: str("10:00")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.update.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestUpdates_FieldsForStatusTables(t *testing.T) {
	completed := domain.BookingCompleted
	assert.Equal(t, []domain.Field{{Column: "status", Value: "completed"}},
		domain.BookingUpdate{Status: &completed}.Fields())

	accepted := domain.InterestAccepted
	user := "u-2"
	assert.Equal(t, []domain.Field{{Column: "user_id", Value: "u-2"}, {Column: "status", Value: "accepted"}},
		domain.ThreadInterestUpdate{UserID: &user, Status: &accepted}.Fields())

	content := "edited"
	assert.Equal(t, []domain.Field{{Column: "content", Value: "edited"}}, domain.MessageUpdate{Content: &content}.Fields())

	manager := domain.RoleManager
	assert.Equal(t, []domain.Field{{Column: "role", Value: "manager"}}, domain.UserRoleUpdate{Role: &manager}.Fields())

	date, start := "2026-03-06", "08:00"
	assert.Equal(t, []domain.Field{{Column: "date", Value: "2026-03-06"}, {Column: "start_time", Value: "08:00"}},
		domain.SlotUpdate{Date: &date, StartTime: &start}.Fields())
}
