package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const slotColumns = `id, arena_id, to_char(date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), price::float8, status, created_at, updated_at`

func scanSlot(row pgx.Row) (domain.SlotRow, error) {
	var s domain.SlotRow
	var status string
	err := row.Scan(&s.ID, &s.ArenaID, &s.Date, &s.StartTime, &s.EndTime, &s.Price, &status, &s.CreatedAt, &s.UpdatedAt)
	s.Status = domain.SlotStatus(status)
	return s, err
}

func (r *Repository) InsertSlot(ctx context.Context, in domain.SlotInsert) (domain.SlotRow, error) {
	if err := in.Validate(); err != nil {
		return domain.SlotRow{}, err
	}
	s, err := scanSlot(r.pool.QueryRow(ctx, `
		INSERT INTO slots (id, arena_id, date, start_time, end_time, price, status)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3::date, $4::time, $5::time, $6, $7)
		RETURNING `+slotColumns,
		in.ID, in.ArenaID, in.Date, in.StartTime, in.EndTime, in.Price, string(in.StatusOrDefault())))
	if err != nil {
		return domain.SlotRow{}, mapErr(errors.Wrap(err, "insert slot"))
	}
	return s, nil
}

func (r *Repository) GetSlot(ctx context.Context, id string) (domain.SlotRow, error) {
	return getSlot(ctx, r.pool, id, false)
}

func getSlot(ctx context.Context, q querier, id string, forUpdate bool) (domain.SlotRow, error) {
	sql := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	s, err := scanSlot(q.QueryRow(ctx, sql, id))
	if err != nil {
		return domain.SlotRow{}, mapErr(errors.Wrapf(err, "get slot %s", id))
	}
	return s, nil
}

func (r *Repository) UpdateSlot(ctx context.Context, id string, u domain.SlotUpdate) (domain.SlotRow, error) {
	if err := u.Validate(); err != nil {
		return domain.SlotRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetSlot(ctx, id)
	}
	sql, args := updateSQL(domain.TableSlots, id, fields, true, slotColumns)
	s, err := scanSlot(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.SlotRow{}, mapErr(errors.Wrapf(err, "update slot %s", id))
	}
	return s, nil
}

// ListSlots returns the slots of an arena, optionally restricted to one
// date (YYYY-MM-DD), ordered by date and start time.
func (r *Repository) ListSlots(ctx context.Context, arenaID, date string) ([]domain.SlotRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+` FROM slots
		WHERE arena_id = $1 AND ($2 = '' OR date = NULLIF($2, '')::date)
		ORDER BY date, start_time`, arenaID, date)
	if err != nil {
		return nil, errors.Wrap(err, "list slots")
	}
	defer rows.Close()

	var out []domain.SlotRow
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan slot")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func setSlotStatus(ctx context.Context, q querier, id string, status domain.SlotStatus) error {
	_, err := q.Exec(ctx, `UPDATE slots SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	return errors.Wrapf(err, "set slot %s %s", id, status)
}

// freeSlot makes a slot available again unless another live booking still
// holds it.
func freeSlot(ctx context.Context, q querier, id string) error {
	_, err := q.Exec(ctx, `
		UPDATE slots SET status = 'available', updated_at = now()
		WHERE id = $1 AND NOT EXISTS (
			SELECT 1 FROM bookings WHERE slot_id = $1 AND status IN ('pending', 'confirmed')
		)`, id)
	return errors.Wrapf(err, "free slot %s", id)
}
