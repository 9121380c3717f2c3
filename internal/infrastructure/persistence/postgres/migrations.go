package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// Schema for the admissions matching engine. Three groups:
//   1. students + marks (accounts, per-subject grades)
//   2. courses + colleges + offered_programs + subject_requirements (catalog)
//   3. supporting indexes
// The minimum_gpa > 0 check mirrors the domain-level validation: a zero
// floor would divide the match percentage by zero.
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_students_and_marks",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_catalog",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_indexes",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS students (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    phone         TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'student',
    password_hash TEXT NOT NULL,
    refresh_token TEXT NOT NULL DEFAULT '',
    gpa           DOUBLE PRECISION NOT NULL DEFAULT 0
                  CHECK (gpa >= 0 AND gpa <= 4.0),
    total_marks   DOUBLE PRECISION NOT NULL DEFAULT 0
                  CHECK (total_marks >= 0 AND total_marks <= 500),
    preferences   JSONB NOT NULL DEFAULT '{}',
    created_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS marks (
    id          UUID PRIMARY KEY,
    student_id  UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    subject     TEXT NOT NULL,
    subject_key TEXT NOT NULL,
    grade       TEXT NOT NULL,
    grade_point DOUBLE PRECISION NOT NULL
                CHECK (grade_point >= 0 AND grade_point <= 4.0),
    recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- One mark per subject per student; identity is the normalized key.
    UNIQUE (student_id, subject_key)
);
`

const migration001Down = `
DROP TABLE IF EXISTS marks;
DROP TABLE IF EXISTS students;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS courses (
    id             UUID PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    description    TEXT NOT NULL DEFAULT '',
    duration_years INTEGER NOT NULL DEFAULT 0 CHECK (duration_years >= 0),
    created_at     TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS colleges (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    location      TEXT NOT NULL,
    contact_phone TEXT NOT NULL DEFAULT '',
    contact_email TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS offered_programs (
    id          UUID PRIMARY KEY,
    college_id  UUID NOT NULL REFERENCES colleges(id) ON DELETE CASCADE,
    course_id   UUID NOT NULL REFERENCES courses(id),
    minimum_gpa DOUBLE PRECISION NOT NULL CHECK (minimum_gpa > 0),

    -- Catalog order within the college; preserved into ranked output.
    position    INTEGER NOT NULL DEFAULT 0,

    UNIQUE (college_id, course_id)
);

CREATE TABLE IF NOT EXISTS subject_requirements (
    id              UUID PRIMARY KEY,
    program_id      UUID NOT NULL REFERENCES offered_programs(id) ON DELETE CASCADE,
    subject         TEXT NOT NULL,
    subject_key     TEXT NOT NULL,
    min_grade       TEXT NOT NULL DEFAULT '',
    min_grade_point DOUBLE PRECISION NOT NULL
                    CHECK (min_grade_point >= 0 AND min_grade_point <= 4.0),
    position        INTEGER NOT NULL DEFAULT 0,

    UNIQUE (program_id, subject_key)
);
`

const migration002Down = `
DROP TABLE IF EXISTS subject_requirements;
DROP TABLE IF EXISTS offered_programs;
DROP TABLE IF EXISTS colleges;
DROP TABLE IF EXISTS courses;
`

const migration003Up = `
CREATE INDEX IF NOT EXISTS idx_marks_student ON marks(student_id);
CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);
CREATE INDEX IF NOT EXISTS idx_colleges_location ON colleges(LOWER(location));
CREATE INDEX IF NOT EXISTS idx_programs_college ON offered_programs(college_id, position);
CREATE INDEX IF NOT EXISTS idx_requirements_program ON subject_requirements(program_id, position);
`

const migration003Down = `
DROP INDEX IF EXISTS idx_requirements_program;
DROP INDEX IF EXISTS idx_programs_college;
DROP INDEX IF EXISTS idx_colleges_location;
DROP INDEX IF EXISTS idx_students_email;
DROP INDEX IF EXISTS idx_marks_student;
`
