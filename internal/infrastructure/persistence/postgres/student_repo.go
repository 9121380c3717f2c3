package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, name, email, phone, role, password_hash, refresh_token,
	   gpa, total_marks, preferences, created_at, updated_at`

// Create creates a new student record.
func (r *StudentRepository) Create(ctx context.Context, s *student.StudentRecord) error {
	query := `
		INSERT INTO students (
			id, name, email, phone, role, password_hash, refresh_token,
			gpa, total_marks, preferences, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	prefsJSON, err := json.Marshal(preferencesToMap(s.Preferences))
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		strings.ToLower(s.Email),
		s.Phone,
		string(s.Role),
		s.PasswordHash,
		s.RefreshToken,
		s.GPA.Float64(),
		s.TotalMarks.Float64(),
		prefsJSON,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student with marks and preferences loaded.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	record, err := r.scanStudent(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	marks, err := r.loadMarks(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Marks = marks

	return record, nil
}

// GetByEmail returns a student by login email, with marks loaded.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*student.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE email = $1`, studentColumns)

	record, err := r.scanStudent(r.conn.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, err
	}

	marks, err := r.loadMarks(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Marks = marks

	return record, nil
}

// Update persists profile fields, preferences, and the refresh token.
// Marks are managed through MarkRepository, never here.
func (r *StudentRepository) Update(ctx context.Context, s *student.StudentRecord) error {
	query := `
		UPDATE students SET
			name = $2,
			email = $3,
			phone = $4,
			role = $5,
			password_hash = $6,
			refresh_token = $7,
			gpa = $8,
			total_marks = $9,
			preferences = $10,
			updated_at = $11
		WHERE id = $1
	`

	prefsJSON, err := json.Marshal(preferencesToMap(s.Preferences))
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		strings.ToLower(s.Email),
		s.Phone,
		string(s.Role),
		s.PasswordHash,
		s.RefreshToken,
		s.GPA.Float64(),
		s.TotalMarks.Float64(),
		prefsJSON,
		time.Now().UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to update student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// UpdateGPA persists only the stored GPA. The single write the admission
// engine triggers; serialization per student is the caller's job.
func (r *StudentRepository) UpdateGPA(ctx context.Context, id string, gpa shared.GPA) error {
	query := `UPDATE students SET gpa = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.conn.Exec(ctx, query, id, gpa.Float64(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update gpa: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student record. Marks cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// List returns students with pagination, newest first. Marks are not loaded
// for list views.
func (r *StudentRepository) List(ctx context.Context, page shared.Pagination) ([]*student.StudentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM students
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, studentColumns)

	rows, err := r.conn.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var records []*student.StudentRecord
	for rows.Next() {
		record, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.StudentRecord, error) {
	var (
		record    student.StudentRecord
		role      string
		gpa       float64
		total     float64
		prefsJSON []byte
	)

	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Email,
		&record.Phone,
		&role,
		&record.PasswordHash,
		&record.RefreshToken,
		&gpa,
		&total,
		&prefsJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	record.Role = student.Role(role)
	record.GPA = shared.GPA(gpa)
	record.TotalMarks = shared.TotalMarks(total)
	record.Preferences = preferencesFromJSON(prefsJSON)

	return &record, nil
}

func (r *StudentRepository) loadMarks(ctx context.Context, studentID string) ([]student.Mark, error) {
	marks := NewMarkRepository(r.conn)
	return marks.ListByStudent(ctx, studentID)
}

func preferencesToMap(p student.Preferences) map[string]interface{} {
	courses := p.CourseIDs
	if courses == nil {
		courses = []string{}
	}
	colleges := p.CollegeIDs
	if colleges == nil {
		colleges = []string{}
	}
	return map[string]interface{}{
		"course_ids":  courses,
		"college_ids": colleges,
	}
}

func preferencesFromJSON(data []byte) student.Preferences {
	var raw struct {
		CourseIDs  []string `json:"course_ids"`
		CollegeIDs []string `json:"college_ids"`
	}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &raw)
	}
	return student.Preferences{
		CourseIDs:  raw.CourseIDs,
		CollegeIDs: raw.CollegeIDs,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MarkRepository implements student.MarkRepository for PostgreSQL.
type MarkRepository struct {
	conn *Connection
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(conn *Connection) *MarkRepository {
	return &MarkRepository{conn: conn}
}

// Add stores a new mark. The (student_id, subject_key) unique constraint
// backs the one-mark-per-subject invariant at the storage level.
func (r *MarkRepository) Add(ctx context.Context, mark *student.Mark) error {
	query := `
		INSERT INTO marks (id, student_id, subject, subject_key, grade, grade_point, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		mark.ID,
		mark.StudentID,
		mark.Subject.String(),
		mark.Subject.Key(),
		mark.Grade,
		mark.GradePoint,
		mark.RecordedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateSubjectMark
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to add mark: %w", err)
	}

	return nil
}

// GetByID returns a mark by its identifier.
func (r *MarkRepository) GetByID(ctx context.Context, id string) (*student.Mark, error) {
	query := `
		SELECT id, student_id, subject, grade, grade_point, recorded_at
		FROM marks
		WHERE id = $1
	`

	return r.scanMark(r.conn.QueryRow(ctx, query, id))
}

// ListByStudent returns all marks owned by a student, oldest first.
func (r *MarkRepository) ListByStudent(ctx context.Context, studentID string) ([]student.Mark, error) {
	query := `
		SELECT id, student_id, subject, grade, grade_point, recorded_at
		FROM marks
		WHERE student_id = $1
		ORDER BY recorded_at, id
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	defer rows.Close()

	var marks []student.Mark
	for rows.Next() {
		mark, err := r.scanMark(rows)
		if err != nil {
			return nil, err
		}
		marks = append(marks, *mark)
	}

	return marks, rows.Err()
}

// Update replaces the grade fields of an existing mark.
func (r *MarkRepository) Update(ctx context.Context, mark *student.Mark) error {
	query := `
		UPDATE marks SET
			subject = $2,
			subject_key = $3,
			grade = $4,
			grade_point = $5
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		mark.ID,
		mark.Subject.String(),
		mark.Subject.Key(),
		mark.Grade,
		mark.GradePoint,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateSubjectMark
		}
		return fmt.Errorf("failed to update mark: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrMarkNotFound
	}

	return nil
}

// Remove deletes a mark.
func (r *MarkRepository) Remove(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM marks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove mark: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrMarkNotFound
	}

	return nil
}

func (r *MarkRepository) scanMark(row pgx.Row) (*student.Mark, error) {
	var (
		mark    student.Mark
		subject string
	)

	err := row.Scan(
		&mark.ID,
		&mark.StudentID,
		&subject,
		&mark.Grade,
		&mark.GradePoint,
		&mark.RecordedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to scan mark: %w", err)
	}

	mark.Subject = shared.Subject(subject)
	return &mark, nil
}
