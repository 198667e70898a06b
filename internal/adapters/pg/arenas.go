package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const arenaColumns = `id, name, location, sports_type, manager_id, approved, contact_info, description, image_url, created_at, updated_at`

func scanArena(row pgx.Row) (domain.ArenaRow, error) {
	var a domain.ArenaRow
	err := row.Scan(&a.ID, &a.Name, &a.Location, &a.SportsType, &a.ManagerID, &a.Approved,
		&a.ContactInfo, &a.Description, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *Repository) InsertArena(ctx context.Context, in domain.ArenaInsert) (domain.ArenaRow, error) {
	if err := in.Validate(); err != nil {
		return domain.ArenaRow{}, err
	}
	a, err := scanArena(r.pool.QueryRow(ctx, `
		INSERT INTO arenas (id, name, location, sports_type, manager_id, approved, contact_info, description, image_url)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, COALESCE($6, false), $7, $8, $9)
		RETURNING `+arenaColumns,
		in.ID, in.Name, in.Location, in.SportsType, in.ManagerID, in.Approved, in.ContactInfo, in.Description, in.ImageURL))
	if err != nil {
		return domain.ArenaRow{}, mapErr(errors.Wrap(err, "insert arena"))
	}
	return a, nil
}

func (r *Repository) GetArena(ctx context.Context, id string) (domain.ArenaRow, error) {
	a, err := scanArena(r.pool.QueryRow(ctx, `SELECT `+arenaColumns+` FROM arenas WHERE id = $1`, id))
	if err != nil {
		return domain.ArenaRow{}, mapErr(errors.Wrapf(err, "get arena %s", id))
	}
	return a, nil
}

func (r *Repository) UpdateArena(ctx context.Context, id string, u domain.ArenaUpdate) (domain.ArenaRow, error) {
	if err := u.Validate(); err != nil {
		return domain.ArenaRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetArena(ctx, id)
	}
	sql, args := updateSQL(domain.TableArenas, id, fields, true, arenaColumns)
	a, err := scanArena(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ArenaRow{}, mapErr(errors.Wrapf(err, "update arena %s", id))
	}
	return a, nil
}

// ListArenas returns arenas ordered by creation; approvedOnly hides arenas
// awaiting review.
func (r *Repository) ListArenas(ctx context.Context, approvedOnly bool) ([]domain.ArenaRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+arenaColumns+` FROM arenas
		WHERE NOT $1 OR approved
		ORDER BY created_at, id`, approvedOnly)
	if err != nil {
		return nil, errors.Wrap(err, "list arenas")
	}
	defer rows.Close()

	var out []domain.ArenaRow
	for rows.Next() {
		a, err := scanArena(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan arena")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
