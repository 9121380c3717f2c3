// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"sort"

	"github.com/unihub/college-match-hub/internal/domain/admission"
	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH COLLEGES QUERY
// Ad-hoc eligibility search: which colleges can a student with these
// criteria get into, and how well do they fit?
// ══════════════════════════════════════════════════════════════════════════════

// SubjectCriterion is one ad-hoc subject grade in the search criteria.
type SubjectCriterion struct {
	Subject    string  `json:"subject"`
	GradePoint float64 `json:"grade_point"`
}

// SearchCriteria are the caller-supplied, optional search inputs. Explicit
// criteria fully override profile data: when GPA or total marks are present
// the profile GPA is ignored, and when subjects are present the profile
// marks are ignored. There is no partial merge. Only when both GPA and
// total marks are absent does the search fall back to the student's profile.
type SearchCriteria struct {
	GPA        *float64           `json:"gpa,omitempty"`
	TotalMarks *float64           `json:"total_marks,omitempty"`
	Subjects   []SubjectCriterion `json:"subjects,omitempty"`
}

// HasGPAInput reports whether the criteria carry an explicit GPA source.
func (c SearchCriteria) HasGPAInput() bool {
	return c.GPA != nil || c.TotalMarks != nil
}

// SearchCollegesQuery identifies the searching student and their criteria.
type SearchCollegesQuery struct {
	// StudentID - the authenticated student, used as criteria fallback.
	StudentID string

	// Criteria - optional ad-hoc inputs.
	Criteria SearchCriteria

	// Location - optional substring filter on college location.
	Location string
}

// EligibleProgramDTO is one qualifying program in the search output.
type EligibleProgramDTO struct {
	ProgramID       string  `json:"program_id"`
	CourseID        string  `json:"course_id"`
	CourseName      string  `json:"course_name"`
	DurationYears   int     `json:"duration_years"`
	MinimumGPA      float64 `json:"minimum_gpa"`
	MatchPercentage float64 `json:"match_percentage"`
}

// CollegeMatchDTO is one matched college in the search output.
type CollegeMatchDTO struct {
	CollegeID        string               `json:"college_id"`
	Name             string               `json:"name"`
	Location         string               `json:"location"`
	Phone            string               `json:"phone,omitempty"`
	Email            string               `json:"email,omitempty"`
	MatchScore       int                  `json:"match_score"`
	EligiblePrograms []EligibleProgramDTO `json:"eligible_programs"`
}

// SearchCollegesResult is the search output: ranked colleges, an echo of the
// effective criteria, and the eligible-college count.
type SearchCollegesResult struct {
	Colleges      []CollegeMatchDTO `json:"colleges"`
	Criteria      CriteriaEcho      `json:"search_criteria"`
	TotalEligible int               `json:"total_eligible"`
}

// CriteriaEcho reports the inputs the engine actually evaluated with.
type CriteriaEcho struct {
	EffectiveGPA float64 `json:"effective_gpa"`
	SubjectCount int     `json:"subject_count"`
	FromProfile  bool    `json:"from_profile"`
	Location     string  `json:"location,omitempty"`
}

// CollegeReader is the catalog collaborator the search needs.
type CollegeReader interface {
	ListAll(ctx context.Context) ([]*catalog.College, error)
}

// StudentReader is the student collaborator the search needs.
type StudentReader interface {
	GetByID(ctx context.Context, id string) (*student.StudentRecord, error)
}

// SearchCollegesHandler handles ad-hoc eligibility searches.
type SearchCollegesHandler struct {
	colleges CollegeReader
	students StudentReader
}

// NewSearchCollegesHandler creates a new search handler.
func NewSearchCollegesHandler(colleges CollegeReader, students StudentReader) *SearchCollegesHandler {
	return &SearchCollegesHandler{colleges: colleges, students: students}
}

// Handle resolves the effective criteria, evaluates the whole catalog
// snapshot, and returns matched colleges ranked by match score descending
// (stable: ties keep catalog order).
func (h *SearchCollegesHandler) Handle(ctx context.Context, q SearchCollegesQuery) (*SearchCollegesResult, error) {
	record, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	gpa, marks, fromProfile, err := h.resolveCriteria(record, q.Criteria)
	if err != nil {
		return nil, err
	}

	colleges, err := h.colleges.ListAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "SearchColleges", shared.ErrNotFound, "failed to load catalog", err)
	}

	matches := make([]admission.CollegeMatch, 0, len(colleges))
	for _, college := range colleges {
		if !college.MatchesLocation(q.Location) {
			continue
		}

		eligible, err := admission.EvaluateCollege(college, gpa, marks)
		if err != nil {
			return nil, err
		}
		if len(eligible) == 0 {
			// Zero eligible programs: excluded entirely, not scored 0.
			continue
		}

		match, err := admission.ScoreCollege(college, eligible)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	dtos := make([]CollegeMatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = toCollegeMatchDTO(m)
	}

	return &SearchCollegesResult{
		Colleges: dtos,
		Criteria: CriteriaEcho{
			EffectiveGPA: gpa.Float64(),
			SubjectCount: len(marks),
			FromProfile:  fromProfile,
			Location:     q.Location,
		},
		TotalEligible: len(matches),
	}, nil
}

// resolveCriteria applies the override semantics: explicit criteria replace
// profile data wholesale, profile is the fallback only when no GPA source
// was supplied.
func (h *SearchCollegesHandler) resolveCriteria(
	record *student.StudentRecord,
	criteria SearchCriteria,
) (shared.GPA, []student.Mark, bool, error) {
	fromProfile := !criteria.HasGPAInput()

	var gpa shared.GPA
	if fromProfile {
		gpa = record.GPA
	} else {
		resolved, err := admission.EffectiveGPA(criteria.GPA, criteria.TotalMarks)
		if err != nil {
			return 0, nil, false, err
		}
		gpa = resolved
	}

	marks := record.Marks
	if len(criteria.Subjects) > 0 {
		parsed, err := parseSubjectCriteria(record.ID, criteria.Subjects)
		if err != nil {
			return 0, nil, false, err
		}
		marks = parsed
	}

	return gpa, marks, fromProfile, nil
}

// parseSubjectCriteria turns ad-hoc subject inputs into marks the evaluator
// understands. Malformed input is an InvalidInput failure.
func parseSubjectCriteria(studentID string, subjects []SubjectCriterion) ([]student.Mark, error) {
	marks := make([]student.Mark, 0, len(subjects))
	for _, s := range subjects {
		subj, err := shared.NewSubject(s.Subject)
		if err != nil {
			return nil, shared.ErrMalformedCriteria
		}
		if s.GradePoint < 0 || s.GradePoint > float64(shared.MaxGPA) {
			return nil, shared.ErrMalformedCriteria
		}
		marks = append(marks, student.Mark{
			StudentID:  studentID,
			Subject:    subj,
			Grade:      string(shared.GradeLetterFor(s.GradePoint)),
			GradePoint: s.GradePoint,
		})
	}
	return marks, nil
}

func toCollegeMatchDTO(m admission.CollegeMatch) CollegeMatchDTO {
	programs := make([]EligibleProgramDTO, len(m.EligiblePrograms))
	for i, p := range m.EligiblePrograms {
		programs[i] = EligibleProgramDTO{
			ProgramID:       p.Program.ID,
			CourseID:        p.Program.Course.ID,
			CourseName:      p.Program.Course.Name,
			DurationYears:   p.Program.Course.DurationYears,
			MinimumGPA:      p.Program.MinimumGPA,
			MatchPercentage: p.MatchPercentage,
		}
	}
	return CollegeMatchDTO{
		CollegeID:        m.College.ID,
		Name:             m.College.Name,
		Location:         m.College.Location,
		Phone:            m.College.Contact.Phone,
		Email:            m.College.Contact.Email,
		MatchScore:       m.MatchScore,
		EligiblePrograms: programs,
	}
}
