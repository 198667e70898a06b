package pg

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Relationship columns are plain text: referenced ids are opaque and the
// store does not enforce foreign keys. Enum columns are text checked
// against the closed value sets.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS arenas (
		id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		name         TEXT NOT NULL,
		location     TEXT NOT NULL,
		sports_type  TEXT NOT NULL,
		manager_id   TEXT NOT NULL,
		approved     BOOLEAN DEFAULT false,
		contact_info TEXT,
		description  TEXT,
		image_url    TEXT,
		created_at   TIMESTAMPTZ DEFAULT now(),
		updated_at   TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		arena_id   TEXT NOT NULL,
		date       DATE NOT NULL,
		start_time TIME NOT NULL,
		end_time   TIME NOT NULL,
		price      NUMERIC,
		status     TEXT DEFAULT 'available' CHECK (status IN ('available', 'booked')),
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS slots_arena_date_idx ON slots (arena_id, date)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		player_id  TEXT NOT NULL,
		slot_id    TEXT NOT NULL,
		status     TEXT DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_status_idx ON bookings (status)`,
	`CREATE TABLE IF NOT EXISTS threads (
		id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		title       TEXT NOT NULL,
		sport       TEXT NOT NULL,
		time        TIMESTAMPTZ NOT NULL,
		creator_id  TEXT NOT NULL,
		arena_id    TEXT,
		blocked     BOOLEAN DEFAULT false,
		description TEXT,
		max_players INT,
		created_at  TIMESTAMPTZ DEFAULT now(),
		updated_at  TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS thread_interests (
		id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		thread_id  TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		status     TEXT DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at TIMESTAMPTZ DEFAULT now(),
		UNIQUE (thread_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		thread_id   TEXT NOT NULL,
		sender_id   TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		content     TEXT NOT NULL,
		created_at  TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		name       TEXT NOT NULL,
		status     TEXT,
		created_at TIMESTAMPTZ DEFAULT now(),
		updated_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		user_id    TEXT NOT NULL,
		role       TEXT NOT NULL CHECK (role IN ('admin', 'manager', 'player')),
		created_at TIMESTAMPTZ DEFAULT now(),
		UNIQUE (user_id, role)
	)`,
	`CREATE OR REPLACE FUNCTION has_role(_user_id TEXT, _role TEXT) RETURNS BOOLEAN
		LANGUAGE sql STABLE AS $$
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = _user_id AND role = _role)
	$$`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id             UUID PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		event_type     TEXT NOT NULL,
		payload_json   JSONB NOT NULL,
		status         TEXT NOT NULL DEFAULT 'NEW' CHECK (status IN ('NEW', 'PUBLISHED')),
		dedupe_key     TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		published_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS outbox_status_created_idx ON outbox (status, created_at)`,
}

// Migrate creates the tables, indexes and the has_role function. It is
// idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migration step %d", i)
		}
	}
	return nil
}
