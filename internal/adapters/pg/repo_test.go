package pg_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/robertarktes/arenalink/internal/adapters/pg"
	"github.com/robertarktes/arenalink/internal/domain"
)

func setupRepo(t *testing.T) (*pg.Repository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "arena",
				"POSTGRES_PASSWORD": "arena",
				"POSTGRES_DB":       "arenalink",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, "postgres://arena:arena@"+host+":"+port.Port()+"/arenalink?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := pg.NewRepository(pool)
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Migrate(ctx), "migrations must be re-runnable")
	return repo, pool
}

func outboxTypes(t *testing.T, repo *pg.Repository) []string {
	t.Helper()
	records, err := repo.GetUnpublishedOutbox(context.Background(), 100)
	require.NoError(t, err)
	var types []string
	for _, rec := range records {
		types = append(types, rec.EventType)
	}
	return types
}

func TestRepository(t *testing.T) {
	repo, pool := setupRepo(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("arena insert assigns id and defaults", func(t *testing.T) {
		a, err := repo.InsertArena(ctx, domain.ArenaInsert{
			Name: "Elite Sports Complex", Location: "Downtown", SportsType: "Basketball", ManagerID: "m-1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		require.NotNil(t, a.Approved)
		assert.False(t, *a.Approved)
		assert.NotNil(t, a.CreatedAt)

		approved := true
		desc := "Indoor courts"
		updated, err := repo.UpdateArena(ctx, a.ID, domain.ArenaUpdate{Approved: &approved, Description: &desc})
		require.NoError(t, err)
		assert.True(t, *updated.Approved)
		assert.Equal(t, "Indoor courts", *updated.Description)

		listed, err := repo.ListArenas(ctx, true)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, a.ID, listed[0].ID)

		_, err = repo.GetArena(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("book slot, reject double booking, cancel frees slot", func(t *testing.T) {
		price := 45.0
		slot, err := repo.InsertSlot(ctx, domain.SlotInsert{
			ArenaID: "1", Date: "2030-01-02", StartTime: "08:00", EndTime: "09:00", Price: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SlotAvailable, slot.Status)
		assert.Equal(t, "2030-01-02", slot.Date)
		assert.Equal(t, "08:00", slot.StartTime)
		require.NotNil(t, slot.Price)
		assert.Equal(t, 45.0, *slot.Price)

		booking, err := repo.BookSlot(ctx, slot.ID, "player-1", now)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, booking.Status)

		got, err := repo.GetSlot(ctx, slot.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SlotBooked, got.Status)

		_, err = repo.BookSlot(ctx, slot.ID, "player-2", now)
		assert.True(t, errors.Is(err, domain.ErrSlotUnavailable))

		cancelled, err := repo.CancelBooking(ctx, booking.ID, now)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, cancelled.Status)

		_, err = repo.CancelBooking(ctx, booking.ID, now)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

		got, err = repo.GetSlot(ctx, slot.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SlotAvailable, got.Status)

		assert.Equal(t, []string{domain.EventBookingConfirmed, domain.EventBookingCancelled}, outboxTypes(t, repo))

		records, err := repo.GetUnpublishedOutbox(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NoError(t, repo.MarkPublished(ctx, records[0].ID, now))
		assert.Equal(t, []string{domain.EventBookingCancelled}, outboxTypes(t, repo))

		slots, err := repo.ListSlots(ctx, "1", "2030-01-02")
		require.NoError(t, err)
		assert.Len(t, slots, 1)
		slots, err = repo.ListSlots(ctx, "1", "2030-01-03")
		require.NoError(t, err)
		assert.Empty(t, slots)

		_, err = repo.BookSlot(ctx, "missing", "player-1", now)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("sweeper transitions", func(t *testing.T) {
		past, err := repo.InsertSlot(ctx, domain.SlotInsert{ArenaID: "2", Date: "2020-05-01", StartTime: "10:00", EndTime: "11:00"})
		require.NoError(t, err)
		done, err := repo.BookSlot(ctx, past.ID, "player-3", now)
		require.NoError(t, err)

		completed, err := repo.CompleteEndedBookings(ctx, now)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, done.ID, completed[0].ID)
		assert.Equal(t, domain.BookingCompleted, completed[0].Status)

		future, err := repo.InsertSlot(ctx, domain.SlotInsert{ArenaID: "2", Date: "2031-05-01", StartTime: "10:00", EndTime: "11:00"})
		require.NoError(t, err)
		pending, err := repo.InsertBooking(ctx, domain.BookingInsert{PlayerID: "player-4", SlotID: future.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingPending, pending.Status)

		_, err = pool.Exec(ctx, `UPDATE bookings SET created_at = now() - interval '1 hour' WHERE id = $1`, pending.ID)
		require.NoError(t, err)

		stale, err := repo.CancelStalePending(ctx, now.Add(-15*time.Minute), now)
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, domain.BookingCancelled, stale[0].Status)
	})

	t.Run("threads interests and messages", func(t *testing.T) {
		arenaID := "1"
		maxPlayers := 10
		thread, err := repo.InsertThread(ctx, domain.ThreadInsert{
			Title: "Pickup game", Sport: "Basketball", Time: now.Add(48 * time.Hour),
			CreatorID: "player-1", ArenaID: &arenaID, MaxPlayers: &maxPlayers,
		})
		require.NoError(t, err)

		threads, err := repo.ListArenaThreads(ctx, arenaID)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		assert.Equal(t, 10, *threads[0].MaxPlayers)

		interest, err := repo.InsertInterest(ctx, domain.ThreadInterestInsert{ThreadID: thread.ID, UserID: "player-2"})
		require.NoError(t, err)
		assert.Equal(t, domain.InterestPending, interest.Status)

		_, err = repo.InsertInterest(ctx, domain.ThreadInterestInsert{ThreadID: thread.ID, UserID: "player-2"})
		assert.True(t, errors.Is(err, domain.ErrConflict))

		accepted, err := repo.SetInterestStatus(ctx, interest.ID, domain.InterestAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.InterestAccepted, accepted.Status)

		_, err = repo.SetInterestStatus(ctx, interest.ID, domain.InterestRejected)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

		_, err = repo.SetInterestStatus(ctx, "missing", domain.InterestRejected)
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		for _, content := range []string{"Count me in", "See you there"} {
			_, err := repo.InsertMessage(ctx, domain.MessageInsert{
				ThreadID: thread.ID, SenderID: "player-2", ReceiverID: "player-1", Content: content,
			})
			require.NoError(t, err)
		}
		msgs, err := repo.ListMessages(ctx, thread.ID, 50)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "Count me in", msgs[0].Content)

		blocked := true
		_, err = repo.UpdateThread(ctx, thread.ID, domain.ThreadUpdate{Blocked: &blocked})
		require.NoError(t, err)
		threads, err = repo.ListArenaThreads(ctx, arenaID)
		require.NoError(t, err)
		assert.Empty(t, threads)
	})

	t.Run("profiles and roles", func(t *testing.T) {
		p, err := repo.InsertProfile(ctx, domain.ProfileInsert{ID: "user-9", Email: "sam@example.com", Name: "Sam"})
		require.NoError(t, err)
		assert.Equal(t, "user-9", p.ID)

		_, err = repo.InsertProfile(ctx, domain.ProfileInsert{ID: "user-9", Email: "sam@example.com", Name: "Sam"})
		assert.True(t, errors.Is(err, domain.ErrConflict))

		name := "Samira"
		p, err = repo.UpdateProfile(ctx, "user-9", domain.ProfileUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Samira", p.Name)

		ok, err := repo.HasRole(ctx, "user-9", domain.RoleManager)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GrantRole(ctx, domain.UserRoleInsert{UserID: "user-9", Role: domain.RoleManager})
		require.NoError(t, err)
		_, err = repo.GrantRole(ctx, domain.UserRoleInsert{UserID: "user-9", Role: domain.RoleManager})
		require.NoError(t, err)

		ok, err = repo.HasRole(ctx, "user-9", domain.RoleManager)
		require.NoError(t, err)
		assert.True(t, ok)

		roles, err := repo.ListRoles(ctx, "user-9")
		require.NoError(t, err)
		assert.Equal(t, []domain.AppRole{domain.RoleManager}, roles)

		_, err = repo.HasRole(ctx, "user-9", "owner")
		assert.True(t, errors.Is(err, domain.ErrInvalidEnum))

		require.NoError(t, repo.RevokeRole(ctx, "user-9", domain.RoleManager))
		assert.True(t, errors.Is(repo.RevokeRole(ctx, "user-9", domain.RoleManager), domain.ErrNotFound))
	})

	t.Run("updates on every table", func(t *testing.T) {
		slot, err := repo.InsertSlot(ctx, domain.SlotInsert{ArenaID: "3", Date: "2030-02-01", StartTime: "08:00", EndTime: "09:00"})
		require.NoError(t, err)
		date, start, end := "2030-02-02", "18:00", "19:30"
		slot, err = repo.UpdateSlot(ctx, slot.ID, domain.SlotUpdate{Date: &date, StartTime: &start, EndTime: &end})
		require.NoError(t, err)
		assert.Equal(t, "2030-02-02", slot.Date)
		assert.Equal(t, "18:00", slot.StartTime)
		assert.Equal(t, "19:30", slot.EndTime)

		booking, err := repo.InsertBooking(ctx, domain.BookingInsert{PlayerID: "player-5", SlotID: slot.ID})
		require.NoError(t, err)
		confirmed := domain.BookingConfirmed
		booking, err = repo.UpdateBooking(ctx, booking.ID, domain.BookingUpdate{Status: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, booking.Status)
		bogus := domain.BookingStatus("lost")
		_, err = repo.UpdateBooking(ctx, booking.ID, domain.BookingUpdate{Status: &bogus})
		assert.True(t, errors.Is(err, domain.ErrInvalidEnum))
		_, err = repo.UpdateBooking(ctx, "missing", domain.BookingUpdate{Status: &confirmed})
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		thread, err := repo.InsertThread(ctx, domain.ThreadInsert{Title: "Doubles", Sport: "Tennis", Time: now, CreatorID: "player-5"})
		require.NoError(t, err)
		interest, err := repo.InsertInterest(ctx, domain.ThreadInterestInsert{ThreadID: thread.ID, UserID: "player-6"})
		require.NoError(t, err)
		rejected := domain.InterestRejected
		interest, err = repo.UpdateInterest(ctx, interest.ID, domain.ThreadInterestUpdate{Status: &rejected})
		require.NoError(t, err)
		assert.Equal(t, domain.InterestRejected, interest.Status)
		maybe := domain.InterestStatus("maybe")
		_, err = repo.UpdateInterest(ctx, interest.ID, domain.ThreadInterestUpdate{Status: &maybe})
		assert.True(t, errors.Is(err, domain.ErrInvalidEnum))

		msg, err := repo.InsertMessage(ctx, domain.MessageInsert{ThreadID: thread.ID, SenderID: "player-6", ReceiverID: "player-5", Content: "in"})
		require.NoError(t, err)
		content := "in, bringing balls"
		msg, err = repo.UpdateMessage(ctx, msg.ID, domain.MessageUpdate{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "in, bringing balls", msg.Content)

		grant, err := repo.GrantRole(ctx, domain.UserRoleInsert{UserID: "user-10", Role: domain.RolePlayer})
		require.NoError(t, err)
		admin := domain.RoleAdmin
		grant, err = repo.UpdateUserRole(ctx, grant.ID, domain.UserRoleUpdate{Role: &admin})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, grant.Role)
		owner := domain.AppRole("owner")
		_, err = repo.UpdateUserRole(ctx, grant.ID, domain.UserRoleUpdate{Role: &owner})
		assert.True(t, errors.Is(err, domain.ErrInvalidEnum))
	})
}
