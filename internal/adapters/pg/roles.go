package pg

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/robertarktes/arenalink/internal/domain"
)

// GrantRole is idempotent: granting a role the user already holds returns
// the existing row.
func (r *Repository) GrantRole(ctx context.Context, in domain.UserRoleInsert) (domain.UserRoleRow, error) {
	if err := in.Validate(); err != nil {
		return domain.UserRoleRow{}, err
	}
	var row domain.UserRoleRow
	var role string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_roles (id, user_id, role)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3)
		ON CONFLICT (user_id, role) DO UPDATE SET role = EXCLUDED.role
		RETURNING id, user_id, role, created_at`,
		in.ID, in.UserID, string(in.Role)).Scan(&row.ID, &row.UserID, &role, &row.CreatedAt)
	if err != nil {
		return domain.UserRoleRow{}, mapErr(errors.Wrap(err, "grant role"))
	}
	row.Role = domain.AppRole(role)
	return row, nil
}

const roleColumns = `id, user_id, role, created_at`

func scanRole(row pgx.Row) (domain.UserRoleRow, error) {
	var u domain.UserRoleRow
	var role string
	err := row.Scan(&u.ID, &u.UserID, &role, &u.CreatedAt)
	u.Role = domain.AppRole(role)
	return u, err
}

func (r *Repository) GetUserRole(ctx context.Context, id string) (domain.UserRoleRow, error) {
	u, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM user_roles WHERE id = $1`, id))
	if err != nil {
		return domain.UserRoleRow{}, mapErr(errors.Wrapf(err, "get user role %s", id))
	}
	return u, nil
}

// UpdateUserRole rewrites one grant. Moving it onto a (user, role) pair that
// already exists fails with ErrConflict.
func (r *Repository) UpdateUserRole(ctx context.Context, id string, u domain.UserRoleUpdate) (domain.UserRoleRow, error) {
	if err := u.Validate(); err != nil {
		return domain.UserRoleRow{}, err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return r.GetUserRole(ctx, id)
	}
	sql, args := updateSQL(domain.TableUserRoles, id, fields, false, roleColumns)
	row, err := scanRole(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.UserRoleRow{}, mapErr(errors.Wrapf(err, "update user role %s", id))
	}
	return row, nil
}

func (r *Repository) RevokeRole(ctx context.Context, userID string, role domain.AppRole) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	if err != nil {
		return errors.Wrap(err, "revoke role")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrNotFound, "user %s has no role %s", userID, role)
	}
	return nil
}

// HasRole calls the has_role database function.
func (r *Repository) HasRole(ctx context.Context, userID string, role domain.AppRole) (bool, error) {
	if !role.Valid() {
		return false, errors.Wrapf(domain.ErrInvalidEnum, "app_role %q", role)
	}
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT has_role($1, $2)`, userID, string(role)).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "has_role")
	}
	return ok, nil
}

func (r *Repository) ListRoles(ctx context.Context, userID string) ([]domain.AppRole, error) {
	rows, err := r.pool.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list roles")
	}
	defer rows.Close()

	var out []domain.AppRole
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, errors.Wrap(err, "scan role")
		}
		out = append(out, domain.AppRole(role))
	}
	return out, rows.Err()
}
