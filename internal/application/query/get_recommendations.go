package query

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/admission"
	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RECOMMENDATIONS QUERY
// Ranks colleges for a student using the stored profile (GPA, marks,
// preferences) - never ad-hoc criteria - and returns the top 10.
// ══════════════════════════════════════════════════════════════════════════════

// GetRecommendationsQuery identifies the student to recommend for.
type GetRecommendationsQuery struct {
	StudentID string
}

// RecommendedProgramDTO is one eligible program inside a recommendation.
type RecommendedProgramDTO struct {
	ProgramID       string  `json:"program_id"`
	CourseID        string  `json:"course_id"`
	CourseName      string  `json:"course_name"`
	MinimumGPA      float64 `json:"minimum_gpa"`
	MatchPercentage float64 `json:"match_percentage"`
	IsPreferred     bool    `json:"is_preferred"`
}

// RecommendationDTO is one ranked college.
type RecommendationDTO struct {
	CollegeID           string                  `json:"college_id"`
	Name                string                  `json:"name"`
	Location            string                  `json:"location"`
	RecommendationScore int                     `json:"recommendation_score"`
	HasPreferredCourse  bool                    `json:"has_preferred_course"`
	IsPreferredCollege  bool                    `json:"is_preferred_college"`
	EligiblePrograms    []RecommendedProgramDTO `json:"eligible_programs"`
}

// StudentProfileSummary echoes the profile the ranking was computed from.
type StudentProfileSummary struct {
	StudentID           string   `json:"student_id"`
	Name                string   `json:"name"`
	GPA                 float64  `json:"gpa"`
	TotalMarks          float64  `json:"total_marks"`
	MarkCount           int      `json:"mark_count"`
	PreferredCourseIDs  []string `json:"preferred_course_ids,omitempty"`
	PreferredCollegeIDs []string `json:"preferred_college_ids,omitempty"`
}

// GetRecommendationsResult is the recommendations output.
type GetRecommendationsResult struct {
	Colleges       []RecommendationDTO   `json:"colleges"`
	StudentProfile StudentProfileSummary `json:"student_profile"`
}

// GetRecommendationsHandler handles recommendation queries.
type GetRecommendationsHandler struct {
	colleges CollegeReader
	students StudentReader
}

// NewGetRecommendationsHandler creates a new recommendations handler.
func NewGetRecommendationsHandler(colleges CollegeReader, students StudentReader) *GetRecommendationsHandler {
	return &GetRecommendationsHandler{colleges: colleges, students: students}
}

// Handle loads the profile and catalog snapshot, ranks, and truncates to the
// top 10 by recommendation score (stable on ties).
func (h *GetRecommendationsHandler) Handle(ctx context.Context, q GetRecommendationsQuery) (*GetRecommendationsResult, error) {
	record, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	colleges, err := h.colleges.ListAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetRecommendations", shared.ErrNotFound, "failed to load catalog", err)
	}

	ranked, err := admission.Rank(colleges, record)
	if err != nil {
		return nil, err
	}

	dtos := make([]RecommendationDTO, len(ranked))
	for i, r := range ranked {
		dtos[i] = toRecommendationDTO(r)
	}

	return &GetRecommendationsResult{
		Colleges: dtos,
		StudentProfile: StudentProfileSummary{
			StudentID:           record.ID,
			Name:                record.Name,
			GPA:                 record.GPA.Float64(),
			TotalMarks:          record.TotalMarks.Float64(),
			MarkCount:           len(record.Marks),
			PreferredCourseIDs:  record.Preferences.CourseIDs,
			PreferredCollegeIDs: record.Preferences.CollegeIDs,
		},
	}, nil
}

func toRecommendationDTO(r admission.RecommendationResult) RecommendationDTO {
	programs := make([]RecommendedProgramDTO, len(r.EligiblePrograms))
	for i, p := range r.EligiblePrograms {
		programs[i] = RecommendedProgramDTO{
			ProgramID:       p.Program.ID,
			CourseID:        p.Program.Course.ID,
			CourseName:      p.Program.Course.Name,
			MinimumGPA:      p.Program.MinimumGPA,
			MatchPercentage: p.MatchPercentage,
			IsPreferred:     p.IsPreferred,
		}
	}
	return RecommendationDTO{
		CollegeID:           r.College.ID,
		Name:                r.College.Name,
		Location:            r.College.Location,
		RecommendationScore: r.RecommendationScore,
		HasPreferredCourse:  r.HasPreferredCourse,
		IsPreferredCollege:  r.IsPreferredCollege,
		EligiblePrograms:    programs,
	}
}
