package pg

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const bookingColumns = `id, player_id, slot_id, status, created_at, updated_at`

func scanBooking(row pgx.Row) (domain.BookingRow, error) {
	var b domain.BookingRow
	var status string
	err := row.Scan(&b.ID, &b.PlayerID, &b.SlotID, &status, &b.CreatedAt, &b.UpdatedAt)
	b.Status = domain.BookingStatus(status)
	return b, err
}

func collectBookings(rows pgx.Rows) ([]domain.BookingRow, error) {
	defer rows.Close()
	var out []domain.BookingRow
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan booking")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func insertBooking(ctx context.Context, q querier, in domain.BookingInsert) (domain.BookingRow, error) {
	b, err := scanBooking(q.QueryRow(ctx, `
		INSERT INTO bookings (id, player_id, slot_id, status)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4)
		RETURNING `+bookingColumns,
		in.ID, in.PlayerID, in.SlotID, string(in.StatusOrDefault())))
	return b, errors.Wrap(err, "insert booking")
}

// InsertBooking writes a booking row as given, without touching the slot.
func (r *Repository) InsertBooking(ctx context.Context, in domain.BookingInsert) (domain.BookingRow, error) {
	if err := in.Validate(); err != nil {
		return domain.BookingRow{}, err
	}
	b, err := insertBooking(ctx, r.pool, in)
	return b, mapErr(err)
}

func (r *Repository) GetBooking(ctx context.Context, id string) (domain.BookingRow, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return domain.BookingRow{}, mapErr(errors.Wrapf(err, "get booking %s", id))
	}
	return b, nil
}

// UpdateBooking writes the given columns as they are. It does not consult
// the slot; BookSlot and CancelBooking own the lifecycle.
func (r *Repository) UpdateBooking(ctx context.Context, id string, u domain.BookingUpdate) (domain.BookingRow, error) {
	if err := u.Validate(); err != nil {
		return domain.BookingRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetBooking(ctx, id)
	}
	sql, args := updateSQL(domain.TableBookings, id, fields, true, bookingColumns)
	b, err := scanBooking(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.BookingRow{}, mapErr(errors.Wrapf(err, "update booking %s", id))
	}
	return b, nil
}

func (r *Repository) ListPlayerBookings(ctx context.Context, playerID string) ([]domain.BookingRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE player_id = $1 ORDER BY created_at DESC`, playerID)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return collectBookings(rows)
}

// BookSlot marks an available slot booked and records a confirmed booking
// for the player, together with its outbox event, in one transaction.
func (r *Repository) BookSlot(ctx context.Context, slotID, playerID string, now time.Time) (domain.BookingRow, error) {
	in := domain.BookingInsert{PlayerID: playerID, SlotID: slotID}
	if err := in.Validate(); err != nil {
		return domain.BookingRow{}, err
	}
	confirmed := domain.BookingConfirmed
	in.Status = &confirmed

	var booking domain.BookingRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		slot, err := getSlot(ctx, tx, slotID, true)
		if err != nil {
			return err
		}
		if slot.Status != domain.SlotAvailable {
			return errors.Wrapf(domain.ErrSlotUnavailable, "slot %s is %s", slotID, slot.Status)
		}
		if err := setSlotStatus(ctx, tx, slotID, domain.SlotBooked); err != nil {
			return err
		}
		booking, err = insertBooking(ctx, tx, in)
		if err != nil {
			return err
		}
		return enqueueBookingEvent(ctx, tx, booking, now)
	})
	if err != nil {
		return domain.BookingRow{}, err
	}
	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking and frees its slot.
func (r *Repository) CancelBooking(ctx context.Context, id string, now time.Time) (domain.BookingRow, error) {
	var booking domain.BookingRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return errors.Wrapf(err, "get booking %s", id)
		}
		if !current.Status.CanTransition(domain.BookingCancelled) {
			return errors.Wrapf(domain.ErrInvalidTransition, "booking %s is %s", id, current.Status)
		}
		booking, err = scanBooking(tx.QueryRow(ctx, `
			UPDATE bookings SET status = 'cancelled', updated_at = now() WHERE id = $1
			RETURNING `+bookingColumns, id))
		if err != nil {
			return errors.Wrapf(err, "cancel booking %s", id)
		}
		if err := freeSlot(ctx, tx, booking.SlotID); err != nil {
			return err
		}
		return enqueueBookingEvent(ctx, tx, booking, now)
	})
	if err != nil {
		return domain.BookingRow{}, err
	}
	return booking, nil
}

// CompleteEndedBookings moves confirmed bookings whose slot ended at or
// before now to completed. Slot dates and times are read as UTC.
func (r *Repository) CompleteEndedBookings(ctx context.Context, now time.Time) ([]domain.BookingRow, error) {
	var done []domain.BookingRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE bookings b SET status = 'completed', updated_at = now()
			FROM slots s
			WHERE b.slot_id = s.id AND b.status = 'confirmed'
			  AND ((s.date + s.end_time) AT TIME ZONE 'UTC') <= $1
			RETURNING b.id, b.player_id, b.slot_id, b.status, b.created_at, b.updated_at`, now)
		if err != nil {
			return errors.Wrap(err, "complete bookings")
		}
		done, err = collectBookings(rows)
		if err != nil {
			return err
		}
		for _, b := range done {
			if err := enqueueBookingEvent(ctx, tx, b, now); err != nil {
				return err
			}
		}
		return nil
	})
	return done, err
}

// CancelStalePending cancels pending bookings created before cutoff and
// frees their slots.
func (r *Repository) CancelStalePending(ctx context.Context, cutoff, now time.Time) ([]domain.BookingRow, error) {
	var cancelled []domain.BookingRow
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE bookings SET status = 'cancelled', updated_at = now()
			WHERE status = 'pending' AND created_at < $1
			RETURNING `+bookingColumns, cutoff)
		if err != nil {
			return errors.Wrap(err, "cancel stale bookings")
		}
		cancelled, err = collectBookings(rows)
		if err != nil {
			return err
		}
		for _, b := range cancelled {
			if err := freeSlot(ctx, tx, b.SlotID); err != nil {
				return err
			}
			if err := enqueueBookingEvent(ctx, tx, b, now); err != nil {
				return err
			}
		}
		return nil
	})
	return cancelled, err
}
