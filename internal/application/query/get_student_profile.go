package query

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT PROFILE QUERY
// ══════════════════════════════════════════════════════════════════════════════

// MarkDTO is the transport view of a recorded mark.
type MarkDTO struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Grade      string    `json:"grade"`
	GradePoint float64   `json:"grade_point"`
	RecordedAt time.Time `json:"recorded_at"`
}

// StudentProfileDTO is the transport view of a student record. The password
// hash and refresh token never leave the application layer.
type StudentProfileDTO struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Role                string    `json:"role"`
	GPA                 float64   `json:"gpa"`
	TotalMarks          float64   `json:"total_marks"`
	Marks               []MarkDTO `json:"marks"`
	PreferredCourseIDs  []string  `json:"preferred_course_ids,omitempty"`
	PreferredCollegeIDs []string  `json:"preferred_college_ids,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// GetStudentProfileHandler handles profile fetches.
type GetStudentProfileHandler struct {
	students StudentReader
}

// NewGetStudentProfileHandler creates a new profile handler.
func NewGetStudentProfileHandler(students StudentReader) *GetStudentProfileHandler {
	return &GetStudentProfileHandler{students: students}
}

// Handle fetches the profile for a student ID.
func (h *GetStudentProfileHandler) Handle(ctx context.Context, studentID string) (*StudentProfileDTO, error) {
	record, err := h.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	marks := make([]MarkDTO, len(record.Marks))
	for i, m := range record.Marks {
		marks[i] = MarkDTO{
			ID:         m.ID,
			Subject:    m.Subject.String(),
			Grade:      m.Grade,
			GradePoint: m.GradePoint,
			RecordedAt: m.RecordedAt,
		}
	}

	return &StudentProfileDTO{
		ID:                  record.ID,
		Name:                record.Name,
		Email:               record.Email,
		Phone:               record.Phone,
		Role:                string(record.Role),
		GPA:                 record.GPA.Float64(),
		TotalMarks:          record.TotalMarks.Float64(),
		Marks:               marks,
		PreferredCourseIDs:  record.Preferences.CourseIDs,
		PreferredCollegeIDs: record.Preferences.CollegeIDs,
		CreatedAt:           record.CreatedAt,
	}, nil
}
