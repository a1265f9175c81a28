package postgres

import "strings"

// Schema DDL applied on startup. The relational tables mirror the entity
// model with its unique indexes so external tooling can query the schema,
// while the store itself persists through the snapshot table.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	display_name TEXT,
	avatar_key TEXT,
	external_auth_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (email);
CREATE UNIQUE INDEX IF NOT EXISTS users_external_auth_id_unique ON users (external_auth_id) WHERE external_auth_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	value TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS tags_category_value_unique ON tags (category, value);

CREATE TABLE IF NOT EXISTS acts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	genre TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS venues (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS clubs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS guilds (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	created_by_id TEXT REFERENCES users(id),
	current_owner_id TEXT NOT NULL REFERENCES users(id),
	member_ids JSONB NOT NULL DEFAULT '[]',
	act_id TEXT REFERENCES acts(id),
	venue_id TEXT REFERENCES venues(id),
	club_id TEXT REFERENCES clubs(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CHECK (num_nonnulls(act_id, venue_id, club_id) = 1)
);
CREATE UNIQUE INDEX IF NOT EXISTS guilds_act_id_unique ON guilds (act_id) WHERE act_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS guilds_venue_id_unique ON guilds (venue_id) WHERE venue_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS guilds_club_id_unique ON guilds (club_id) WHERE club_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS calendar_events (
	id TEXT PRIMARY KEY,
	title TEXT,
	description TEXT,
	poster_key TEXT,
	start_time TIMESTAMPTZ NOT NULL,
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes >= 0),
	venue_id TEXT NOT NULL REFERENCES venues(id),
	act_ids JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS follows (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	kind TEXT NOT NULL,
	followed_user_id TEXT REFERENCES users(id),
	tag_id TEXT REFERENCES tags(id),
	guild_id TEXT REFERENCES guilds(id),
	created_at TIMESTAMPTZ NOT NULL,
	CHECK (num_nonnulls(followed_user_id, tag_id, guild_id) = 1)
);
CREATE UNIQUE INDEX IF NOT EXISTS follows_tuple_unique ON follows (
	user_id, kind,
	COALESCE(followed_user_id, ''), COALESCE(tag_id, ''), COALESCE(guild_id, '')
);

CREATE TABLE IF NOT EXISTS feed_activities (
	id TEXT PRIMARY KEY,
	activity_type TEXT NOT NULL,
	subject_type TEXT NOT NULL,
	subject_id TEXT NOT NULL,
	calendar_event_id TEXT REFERENCES calendar_events(id),
	user_id TEXT REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS guild_invitations (
	id TEXT PRIMARY KEY,
	guild_id TEXT NOT NULL REFERENCES guilds(id),
	invited_user_id TEXT NOT NULL REFERENCES users(id),
	invited_by_id TEXT REFERENCES users(id),
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	responded_at TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS invitations_guild_user_unique ON guild_invitations (guild_id, invited_user_id);
`

// splitStatements breaks the schema DDL into single statements for drivers
// that reject multi-statement execs.
func splitStatements(ddl string) []string {
	parts := strings.Split(ddl, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
