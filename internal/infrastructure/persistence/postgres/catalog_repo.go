package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLLEGE REPOSITORY IMPLEMENTATION
// Colleges are stored across three tables (colleges, offered_programs,
// subject_requirements) and always read back fully resolved: the admission
// engine gets the whole aggregate in one call, in catalog order.
// ══════════════════════════════════════════════════════════════════════════════

// CollegeRepository implements catalog.CollegeRepository for PostgreSQL.
type CollegeRepository struct {
	conn *Connection
}

// NewCollegeRepository creates a new CollegeRepository.
func NewCollegeRepository(conn *Connection) *CollegeRepository {
	return &CollegeRepository{conn: conn}
}

// Create stores a new college with its programs and requirements.
func (r *CollegeRepository) Create(ctx context.Context, college *catalog.College) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			INSERT INTO colleges (id, name, location, contact_phone, contact_email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, query,
			college.ID,
			college.Name,
			college.Location,
			college.Contact.Phone,
			college.Contact.Email,
			college.CreatedAt,
			college.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.NewDomainError("catalog", "Create", shared.ErrAlreadyExists, "college already exists")
			}
			return fmt.Errorf("failed to create college: %w", err)
		}

		return r.insertPrograms(ctx, tx, college.ID, college.Programs)
	})
}

// GetByID returns a college with programs resolved.
func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*catalog.College, error) {
	query := `
		SELECT id, name, location, contact_phone, contact_email, created_at, updated_at
		FROM colleges
		WHERE id = $1
	`

	college, err := scanCollege(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	programs, err := r.loadPrograms(ctx, []string{college.ID})
	if err != nil {
		return nil, err
	}
	college.Programs = programs[college.ID]

	return college, nil
}

// List returns colleges matching the filter, in catalog order.
func (r *CollegeRepository) List(ctx context.Context, filter catalog.Filter, page shared.Pagination) ([]*catalog.College, error) {
	query := `
		SELECT id, name, location, contact_phone, contact_email, created_at, updated_at
		FROM colleges
	`
	args := []interface{}{}

	if filter.Location != "" {
		query += ` WHERE LOWER(location) LIKE $1`
		args = append(args, "%"+strings.ToLower(filter.Location)+"%")
	}

	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	return r.queryColleges(ctx, query, args...)
}

// ListAll returns the full catalog in catalog order.
func (r *CollegeRepository) ListAll(ctx context.Context) ([]*catalog.College, error) {
	query := `
		SELECT id, name, location, contact_phone, contact_email, created_at, updated_at
		FROM colleges
		ORDER BY created_at, id
	`

	return r.queryColleges(ctx, query)
}

// Update replaces a college and its program list. Programs are rewritten
// wholesale; the aggregate is small enough that diffing is not worth it.
func (r *CollegeRepository) Update(ctx context.Context, college *catalog.College) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			UPDATE colleges SET
				name = $2,
				location = $3,
				contact_phone = $4,
				contact_email = $5,
				updated_at = $6
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query,
			college.ID,
			college.Name,
			college.Location,
			college.Contact.Phone,
			college.Contact.Email,
			college.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update college: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrCollegeNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM offered_programs WHERE college_id = $1`, college.ID); err != nil {
			return fmt.Errorf("failed to clear programs: %w", err)
		}

		return r.insertPrograms(ctx, tx, college.ID, college.Programs)
	})
}

// Delete removes a college. Programs and requirements cascade.
func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete college: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrCollegeNotFound
	}

	return nil
}

// Count returns the number of colleges matching the filter.
func (r *CollegeRepository) Count(ctx context.Context, filter catalog.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM colleges`
	args := []interface{}{}

	if filter.Location != "" {
		query += ` WHERE LOWER(location) LIKE $1`
		args = append(args, "%"+strings.ToLower(filter.Location)+"%")
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count colleges: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregate loading
// ─────────────────────────────────────────────────────────────────────────────

func (r *CollegeRepository) queryColleges(ctx context.Context, query string, args ...interface{}) ([]*catalog.College, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query colleges: %w", err)
	}
	defer rows.Close()

	var colleges []*catalog.College
	var ids []string
	for rows.Next() {
		college, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		colleges = append(colleges, college)
		ids = append(ids, college.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(colleges) == 0 {
		return colleges, nil
	}

	programs, err := r.loadPrograms(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, college := range colleges {
		college.Programs = programs[college.ID]
	}

	return colleges, nil
}

// loadPrograms fetches programs (with course and requirements resolved) for
// a set of colleges in two queries, keyed by college ID.
func (r *CollegeRepository) loadPrograms(ctx context.Context, collegeIDs []string) (map[string][]catalog.OfferedProgram, error) {
	query := `
		SELECT p.id, p.college_id, p.minimum_gpa,
			   c.id, c.name, c.description, c.duration_years, c.created_at
		FROM offered_programs p
		JOIN courses c ON c.id = p.course_id
		WHERE p.college_id = ANY($1)
		ORDER BY p.college_id, p.position, p.id
	`

	rows, err := r.conn.Query(ctx, query, collegeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	programs := make(map[string][]catalog.OfferedProgram)
	programIDs := []string{}
	index := make(map[string]*catalog.OfferedProgram)

	for rows.Next() {
		var (
			program   catalog.OfferedProgram
			collegeID string
		)
		err := rows.Scan(
			&program.ID,
			&collegeID,
			&program.MinimumGPA,
			&program.Course.ID,
			&program.Course.Name,
			&program.Course.Description,
			&program.Course.DurationYears,
			&program.Course.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}

		programs[collegeID] = append(programs[collegeID], program)
		index[program.ID] = &programs[collegeID][len(programs[collegeID])-1]
		programIDs = append(programIDs, program.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(programIDs) == 0 {
		return programs, nil
	}

	reqQuery := `
		SELECT program_id, subject, min_grade, min_grade_point
		FROM subject_requirements
		WHERE program_id = ANY($1)
		ORDER BY program_id, position, id
	`

	reqRows, err := r.conn.Query(ctx, reqQuery, programIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirements: %w", err)
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var (
			programID string
			subject   string
			req       catalog.SubjectRequirement
		)
		if err := reqRows.Scan(&programID, &subject, &req.MinGrade, &req.MinGradePoint); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		req.Subject = shared.Subject(subject)

		if program, ok := index[programID]; ok {
			program.SubjectRequirements = append(program.SubjectRequirements, req)
		}
	}

	return programs, reqRows.Err()
}

func (r *CollegeRepository) insertPrograms(ctx context.Context, tx pgx.Tx, collegeID string, programs []catalog.OfferedProgram) error {
	for i, program := range programs {
		_, err := tx.Exec(ctx, `
			INSERT INTO offered_programs (id, college_id, course_id, minimum_gpa, position)
			VALUES ($1, $2, $3, $4, $5)
		`, program.ID, collegeID, program.Course.ID, program.MinimumGPA, i)
		if err != nil {
			if IsCheckViolation(err) {
				return shared.ErrInvalidMinimumGPA
			}
			if IsForeignKeyViolation(err) {
				return shared.ErrCourseNotFound
			}
			return fmt.Errorf("failed to insert program: %w", err)
		}

		for j, req := range program.SubjectRequirements {
			_, err := tx.Exec(ctx, `
				INSERT INTO subject_requirements (id, program_id, subject, subject_key, min_grade, min_grade_point, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, uuid.NewString(), program.ID, req.Subject.String(), req.Subject.Key(), req.MinGrade, req.MinGradePoint, j)
			if err != nil {
				return fmt.Errorf("failed to insert requirement: %w", err)
			}
		}
	}

	return nil
}

func scanCollege(row pgx.Row) (*catalog.College, error) {
	var college catalog.College

	err := row.Scan(
		&college.ID,
		&college.Name,
		&college.Location,
		&college.Contact.Phone,
		&college.Contact.Email,
		&college.CreatedAt,
		&college.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("failed to scan college: %w", err)
	}

	return &college, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements catalog.CourseRepository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Create stores a new course.
func (r *CourseRepository) Create(ctx context.Context, course *catalog.Course) error {
	query := `
		INSERT INTO courses (id, name, description, duration_years, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		course.ID,
		course.Name,
		course.Description,
		course.DurationYears,
		course.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("catalog", "CreateCourse", shared.ErrAlreadyExists, "course already exists")
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID returns a course.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*catalog.Course, error) {
	query := `
		SELECT id, name, description, duration_years, created_at
		FROM courses
		WHERE id = $1
	`

	return scanCourse(r.conn.QueryRow(ctx, query, id))
}

// List returns all courses, oldest first.
func (r *CourseRepository) List(ctx context.Context) ([]*catalog.Course, error) {
	query := `
		SELECT id, name, description, duration_years, created_at
		FROM courses
		ORDER BY created_at, id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*catalog.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// Update replaces a course.
func (r *CourseRepository) Update(ctx context.Context, course *catalog.Course) error {
	query := `
		UPDATE courses SET
			name = $2,
			description = $3,
			duration_years = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		course.ID,
		course.Name,
		course.Description,
		course.DurationYears,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("catalog", "UpdateCourse", shared.ErrAlreadyExists, "course name already taken")
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Fails when a program still references it.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.NewDomainError("catalog", "DeleteCourse", shared.ErrInvalidInput, "course is referenced by offered programs")
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}

	return nil
}

func scanCourse(row pgx.Row) (*catalog.Course, error) {
	var course catalog.Course

	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.DurationYears,
		&course.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	return &course, nil
}
