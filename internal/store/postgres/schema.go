package postgres

// schema creates every table the store reads and writes. Statements are
// idempotent so Migrate can run at every start.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id             UUID PRIMARY KEY,
	title          TEXT NOT NULL,
	department     TEXT NOT NULL,
	location       TEXT NOT NULL,
	type           TEXT NOT NULL,
	urgency        TEXT NOT NULL,
	description    TEXT NOT NULL,
	requirements   TEXT[] NOT NULL DEFAULT '{}',
	salary_min     DOUBLE PRECISION,
	salary_max     DOUBLE PRECISION,
	benefits       TEXT[],
	slug           TEXT NOT NULL,
	is_public      BOOLEAN NOT NULL DEFAULT TRUE,
	posted_date    DATE NOT NULL,
	status         TEXT NOT NULL,
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS jobs_slug_key ON jobs (slug);
CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status);

CREATE TABLE IF NOT EXISTS candidates (
	id                      UUID PRIMARY KEY,
	name                    TEXT NOT NULL,
	email                   TEXT NOT NULL,
	phone                   TEXT NOT NULL DEFAULT '',
	location                TEXT NOT NULL,
	position                TEXT NOT NULL,
	experience              TEXT NOT NULL,
	skills                  TEXT[] NOT NULL DEFAULT '{}',
	linkedin                TEXT NOT NULL DEFAULT '',
	github                  TEXT NOT NULL DEFAULT '',
	portfolio               TEXT NOT NULL DEFAULT '',
	education               TEXT NOT NULL DEFAULT '',
	current_company         TEXT NOT NULL DEFAULT '',
	resume_storage_id       TEXT NOT NULL DEFAULT '',
	resume_filename         TEXT NOT NULL DEFAULT '',
	cover_letter_storage_id TEXT NOT NULL DEFAULT '',
	cover_letter_filename   TEXT NOT NULL DEFAULT '',
	applied_date            DATE NOT NULL,
	status                  TEXT NOT NULL,
	eval_overall            DOUBLE PRECISION NOT NULL DEFAULT 0,
	eval_technical          DOUBLE PRECISION NOT NULL DEFAULT 0,
	eval_cultural           DOUBLE PRECISION NOT NULL DEFAULT 0,
	eval_communication      DOUBLE PRECISION NOT NULL DEFAULT 0,
	schema_version          INT NOT NULL DEFAULT 1,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS candidates_email_idx ON candidates (email);
CREATE INDEX IF NOT EXISTS candidates_status_idx ON candidates (status);

CREATE TABLE IF NOT EXISTS applications (
	id             UUID PRIMARY KEY,
	candidate_id   UUID NOT NULL REFERENCES candidates (id),
	job_id         UUID NOT NULL REFERENCES jobs (id),
	applied_date   DATE NOT NULL,
	status         TEXT NOT NULL,
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS applications_job_idx ON applications (job_id);
CREATE INDEX IF NOT EXISTS applications_candidate_idx ON applications (candidate_id);

CREATE TABLE IF NOT EXISTS timeline (
	id             UUID PRIMARY KEY,
	candidate_id   UUID NOT NULL REFERENCES candidates (id),
	date           DATE NOT NULL,
	type           TEXT NOT NULL,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL,
	status         TEXT NOT NULL,
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS timeline_candidate_idx ON timeline (candidate_id);

CREATE TABLE IF NOT EXISTS notes (
	id             UUID PRIMARY KEY,
	candidate_id   UUID NOT NULL REFERENCES candidates (id),
	author         TEXT NOT NULL,
	role           TEXT NOT NULL,
	content        TEXT NOT NULL,
	date           DATE NOT NULL,
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS notes_candidate_idx ON notes (candidate_id);

CREATE TABLE IF NOT EXISTS assessments (
	id             UUID PRIMARY KEY,
	candidate_id   UUID NOT NULL REFERENCES candidates (id),
	name           TEXT NOT NULL,
	type           TEXT NOT NULL,
	score          DOUBLE PRECISION,
	max_score      DOUBLE PRECISION,
	status         TEXT NOT NULL,
	date           DATE NOT NULL,
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS assessments_candidate_idx ON assessments (candidate_id);

CREATE TABLE IF NOT EXISTS interviews (
	id             UUID PRIMARY KEY,
	candidate_id   UUID NOT NULL REFERENCES candidates (id),
	type           TEXT NOT NULL,
	date           DATE NOT NULL,
	time           TEXT NOT NULL DEFAULT '',
	interviewer    TEXT NOT NULL,
	status         TEXT NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	schema_version INT NOT NULL DEFAULT 1,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS interviews_candidate_idx ON interviews (candidate_id);
`
