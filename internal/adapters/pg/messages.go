package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const messageColumns = `id, thread_id, sender_id, receiver_id, content, created_at`

func scanMessage(row pgx.Row) (domain.MessageRow, error) {
	var m domain.MessageRow
	err := row.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt)
	return m, err
}

func (r *Repository) InsertMessage(ctx context.Context, in domain.MessageInsert) (domain.MessageRow, error) {
	if err := in.Validate(); err != nil {
		return domain.MessageRow{}, err
	}
	m, err := scanMessage(r.pool.QueryRow(ctx, `
		INSERT INTO messages (id, thread_id, sender_id, receiver_id, content)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5)
		RETURNING `+messageColumns,
		in.ID, in.ThreadID, in.SenderID, in.ReceiverID, in.Content))
	if err != nil {
		return domain.MessageRow{}, mapErr(errors.Wrap(err, "insert message"))
	}
	return m, nil
}

// ListMessages returns a thread's messages oldest first, at most limit.
func (r *Repository) ListMessages(ctx context.Context, threadID string, limit int) ([]domain.MessageRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE thread_id = $1 ORDER BY created_at, id LIMIT $2`, threadID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	defer rows.Close()

	var out []domain.MessageRow
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan message")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) GetMessage(ctx context.Context, id string) (domain.MessageRow, error) {
	m, err := scanMessage(r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return domain.MessageRow{}, mapErr(errors.Wrapf(err, "get message %s", id))
	}
	return m, nil
}

func (r *Repository) UpdateMessage(ctx context.Context, id string, u domain.MessageUpdate) (domain.MessageRow, error) {
	if err := u.Validate(); err != nil {
		return domain.MessageRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetMessage(ctx, id)
	}
	sql, args := updateSQL(domain.TableMessages, id, fields, false, messageColumns)
	m, err := scanMessage(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.MessageRow{}, mapErr(errors.Wrapf(err, "update message %s", id))
	}
	return m, nil
}
