package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

const profileColumns = `id, email, name, status, created_at, updated_at`

func scanProfile(row pgx.Row) (domain.ProfileRow, error) {
	var p domain.ProfileRow
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) InsertProfile(ctx context.Context, in domain.ProfileInsert) (domain.ProfileRow, error) {
	if err := in.Validate(); err != nil {
		return domain.ProfileRow{}, err
	}
	p, err := scanProfile(r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, name, status) VALUES ($1, $2, $3, $4)
		RETURNING `+profileColumns, in.ID, in.Email, in.Name, in.Status))
	if err != nil {
		return domain.ProfileRow{}, mapErr(errors.Wrap(err, "insert profile"))
	}
	return p, nil
}

func (r *Repository) GetProfile(ctx context.Context, id string) (domain.ProfileRow, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return domain.ProfileRow{}, mapErr(errors.Wrapf(err, "get profile %s", id))
	}
	return p, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, u domain.ProfileUpdate) (domain.ProfileRow, error) {
	if err := u.Validate(); err != nil {
		return domain.ProfileRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetProfile(ctx, id)
	}
	sql, args := updateSQL(domain.TableProfiles, id, fields, true, profileColumns)
	p, err := scanProfile(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ProfileRow{}, mapErr(errors.Wrapf(err, "update profile %s", id))
	}
	return p, nil
}
