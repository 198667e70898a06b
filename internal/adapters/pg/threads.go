package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const threadColumns = `id, title, sport, time, creator_id, arena_id, blocked, description, max_players, created_at, updated_at`

func scanThread(row pgx.Row) (domain.ThreadRow, error) {
	var t domain.ThreadRow
	err := row.Scan(&t.ID, &t.Title, &t.Sport, &t.Time, &t.CreatorID, &t.ArenaID, &t.Blocked,
		&t.Description, &t.MaxPlayers, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *Repository) InsertThread(ctx context.Context, in domain.ThreadInsert) (domain.ThreadRow, error) {
	if err := in.Validate(); err != nil {
		return domain.ThreadRow{}, err
	}
	t, err := scanThread(r.pool.QueryRow(ctx, `
		INSERT INTO threads (id, title, sport, time, creator_id, arena_id, blocked, description, max_players)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, COALESCE($7, false), $8, $9)
		RETURNING `+threadColumns,
		in.ID, in.Title, in.Sport, in.Time, in.CreatorID, in.ArenaID, in.Blocked, in.Description, in.MaxPlayers))
	if err != nil {
		return domain.ThreadRow{}, mapErr(errors.Wrap(err, "insert thread"))
	}
	return t, nil
}

func (r *Repository) GetThread(ctx context.Context, id string) (domain.ThreadRow, error) {
	t, err := scanThread(r.pool.QueryRow(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id))
	if err != nil {
		return domain.ThreadRow{}, mapErr(errors.Wrapf(err, "get thread %s", id))
	}
	return t, nil
}

func (r *Repository) UpdateThread(ctx context.Context, id string, u domain.ThreadUpdate) (domain.ThreadRow, error) {
	if err := u.Validate(); err != nil {
		return domain.ThreadRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetThread(ctx, id)
	}
	sql, args := updateSQL(domain.TableThreads, id, fields, true, threadColumns)
	t, err := scanThread(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ThreadRow{}, mapErr(errors.Wrapf(err, "update thread %s", id))
	}
	return t, nil
}

// ListArenaThreads returns the unblocked threads of an arena, soonest first.
func (r *Repository) ListArenaThreads(ctx context.Context, arenaID string) ([]domain.ThreadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE arena_id = $1 AND NOT COALESCE(blocked, false)
		ORDER BY time`, arenaID)
	if err != nil {
		return nil, errors.Wrap(err, "list threads")
	}
	defer rows.Close()

	var out []domain.ThreadRow
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan thread")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const interestColumns = `id, thread_id, user_id, status, created_at`

func scanInterest(row pgx.Row) (domain.ThreadInterestRow, error) {
	var i domain.ThreadInterestRow
	var status string
	err := row.Scan(&i.ID, &i.ThreadID, &i.UserID, &status, &i.CreatedAt)
	i.Status = domain.InterestStatus(status)
	return i, err
}

func (r *Repository) InsertInterest(ctx context.Context, in domain.ThreadInterestInsert) (domain.ThreadInterestRow, error) {
	if err := in.Validate(); err != nil {
		return domain.ThreadInterestRow{}, err
	}
	i, err := scanInterest(r.pool.QueryRow(ctx, `
		INSERT INTO thread_interests (id, thread_id, user_id, status)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4)
		RETURNING `+interestColumns,
		in.ID, in.ThreadID, in.UserID, string(in.StatusOrDefault())))
	if err != nil {
		return domain.ThreadInterestRow{}, mapErr(errors.Wrap(err, "insert interest"))
	}
	return i, nil
}

// SetInterestStatus answers a pending interest. Answered interests are final.
func (r *Repository) SetInterestStatus(ctx context.Context, id string, status domain.InterestStatus) (domain.ThreadInterestRow, error) {
	if !status.Valid() || status == domain.InterestPending {
		return domain.ThreadInterestRow{}, errors.Wrapf(domain.ErrInvalidEnum, "interest_status %q", status)
	}
	i, err := scanInterest(r.pool.QueryRow(ctx, `
		UPDATE thread_interests SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING `+interestColumns, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.getInterest(ctx, id); getErr != nil {
			return domain.ThreadInterestRow{}, getErr
		}
		return domain.ThreadInterestRow{}, errors.Wrapf(domain.ErrInvalidTransition, "interest %s already answered", id)
	}
	if err != nil {
		return domain.ThreadInterestRow{}, mapErr(errors.Wrapf(err, "update interest %s", id))
	}
	return i, nil
}

func (r *Repository) getInterest(ctx context.Context, id string) (domain.ThreadInterestRow, error) {
	i, err := scanInterest(r.pool.QueryRow(ctx, `SELECT `+interestColumns+` FROM thread_interests WHERE id = $1`, id))
	if err != nil {
		return domain.ThreadInterestRow{}, mapErr(errors.Wrapf(err, "get interest %s", id))
	}
	return i, nil
}

func (r *Repository) UpdateInterest(ctx context.Context, id string, u domain.ThreadInterestUpdate) (domain.ThreadInterestRow, error) {
	if err := u.Validate(); err != nil {
		return domain.ThreadInterestRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.getInterest(ctx, id)
	}
	sql, args := updateSQL(domain.TableThreadInterests, id, fields, false, interestColumns)
	i, err := scanInterest(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ThreadInterestRow{}, mapErr(errors.Wrapf(err, "update interest %s", id))
	}
	return i, nil
}

func (r *Repository) ListInterests(ctx context.Context, threadID string) ([]domain.ThreadInterestRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+interestColumns+` FROM thread_interests WHERE thread_id = $1 ORDER BY created_at`, threadID)
	if err != nil {
		return nil, errors.Wrap(err, "list interests")
	}
	defer rows.Close()

	var out []domain.ThreadInterestRow
	for rows.Next() {
		i, err := scanInterest(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan interest")
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
