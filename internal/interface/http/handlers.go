package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/unihub/college-match-hub/internal/application/command"
	"github.com/unihub/college-match-hub/internal/application/query"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/interface/http/handlers"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot returns basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "college-match-hub",
		"status":  "running",
		"uptime":  s.Uptime().Round(1e9).String(),
	})
}

// handleHealth returns the full health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// handleReady returns readiness status (for load balancers).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// handleLive returns liveness status (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"alive": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Password   string  `json:"password"`
	GPA        float64 `json:"gpa"`
	TotalMarks float64 `json:"total_marks"`
}

// handleRegister creates a new student account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		GPA:        req.GPA,
		TotalMarks: req.TotalMarks,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin exchanges credentials for a token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRefresh rotates a refresh token into a fresh pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.deps.RefreshToken.Handle(r.Context(), command.RefreshTokenCommand{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleLogout invalidates the caller's refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	if err := s.deps.Logout.Handle(r.Context(), identity.StudentID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE & MARKS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProfile returns the caller's profile with marks.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	profile, err := s.deps.GetStudentProfile.Handle(r.Context(), identity.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// handleListMarks returns the caller's recorded marks.
func (s *Server) handleListMarks(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	profile, err := s.deps.GetStudentProfile.Handle(r.Context(), identity.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"marks": profile.Marks,
		"count": len(profile.Marks),
	})
}

type updateProfileRequest struct {
	Name       *string  `json:"name"`
	Phone      *string  `json:"phone"`
	GPA        *float64 `json:"gpa"`
	TotalMarks *float64 `json:"total_marks"`
}

// handleUpdateProfile partially updates the caller's profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		StudentID:  identity.StudentID,
		Name:       req.Name,
		Phone:      req.Phone,
		GPA:        req.GPA,
		TotalMarks: req.TotalMarks,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

type updatePreferencesRequest struct {
	CourseIDs  []string `json:"course_ids"`
	CollegeIDs []string `json:"college_ids"`
}

// handleUpdatePreferences replaces the caller's preferred courses/colleges.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	var req updatePreferencesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.deps.UpdatePreferences.Handle(r.Context(), command.UpdatePreferencesCommand{
		StudentID:  identity.StudentID,
		CourseIDs:  req.CourseIDs,
		CollegeIDs: req.CollegeIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "preferences updated"})
}

type recordMarkRequest struct {
	Subject    string  `json:"subject"`
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"grade_point"`
}

// handleRecordMark records a subject grade for the caller.
func (s *Server) handleRecordMark(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	var req recordMarkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mark, err := s.deps.RecordMark.Handle(r.Context(), command.RecordMarkCommand{
		StudentID:  identity.StudentID,
		Subject:    req.Subject,
		Grade:      req.Grade,
		GradePoint: req.GradePoint,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"mark_id":     mark.ID,
		"subject":     mark.Subject.String(),
		"grade":       mark.Grade,
		"grade_point": mark.GradePoint,
	})
}

// handleRetractMark removes one of the caller's marks.
func (s *Server) handleRetractMark(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	markID := r.PathValue("id")
	if markID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "Mark ID is required")
		return
	}

	err := s.deps.RetractMark.Handle(r.Context(), command.RetractMarkCommand{
		StudentID: identity.StudentID,
		MarkID:    markID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "mark removed"})
}

// handleRecomputeGPA recomputes and persists the caller's stored GPA.
func (s *Server) handleRecomputeGPA(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	result, err := s.deps.RecomputeGPA.Handle(r.Context(), command.RecomputeGPACommand{
		StudentID: identity.StudentID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING ENGINE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type searchCollegesRequest struct {
	GPA        *float64                 `json:"gpa"`
	TotalMarks *float64                 `json:"total_marks"`
	Subjects   []query.SubjectCriterion `json:"subjects"`
	Location   string                   `json:"location"`
}

// handleSearchColleges evaluates the catalog against the caller's criteria.
// Explicit criteria fully override profile data.
func (s *Server) handleSearchColleges(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	var req searchCollegesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SearchColleges.Handle(r.Context(), query.SearchCollegesQuery{
		StudentID: identity.StudentID,
		Criteria: query.SearchCriteria{
			GPA:        req.GPA,
			TotalMarks: req.TotalMarks,
			Subjects:   req.Subjects,
		},
		Location: req.Location,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetRecommendations returns the caller's top-ranked colleges.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	result, err := s.deps.GetRecommendations.Handle(r.Context(), query.GetRecommendationsQuery{
		StudentID: identity.StudentID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetAcademicSummary returns the caller's per-subject analytics.
func (s *Server) handleGetAcademicSummary(w http.ResponseWriter, r *http.Request) {
	identity, _ := handlers.IdentityFromContext(r.Context())

	summary, err := s.deps.GetAcademicSummary.Handle(r.Context(), query.GetAcademicSummaryQuery{
		StudentID: identity.StudentID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListColleges lists the catalog with optional location filter.
func (s *Server) handleListColleges(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListColleges.Handle(r.Context(), query.ListCollegesQuery{
		Location: getQueryParam(r, "location", ""),
		Page:     getQueryParamInt(r, "page", 1),
		PageSize: getQueryParamInt(r, "page_size", 20),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Colleges, &ResponseMeta{
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		HasMore:    result.Page*result.PageSize < result.TotalCount,
	})
}

// handleGetCollege returns one college with its programs.
func (s *Server) handleGetCollege(w http.ResponseWriter, r *http.Request) {
	college, err := s.deps.GetCollege.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, college)
}

// handleListCourses lists all courses.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.ListCourses.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

type saveCollegeRequest struct {
	Name     string               `json:"name"`
	Location string               `json:"location"`
	Phone    string               `json:"phone"`
	Email    string               `json:"email"`
	Programs []saveProgramRequest `json:"programs"`
}

type saveProgramRequest struct {
	CourseID            string                   `json:"course_id"`
	MinimumGPA          float64                  `json:"minimum_gpa"`
	SubjectRequirements []saveRequirementRequest `json:"subject_requirements"`
}

type saveRequirementRequest struct {
	Subject       string  `json:"subject"`
	MinGrade      string  `json:"min_grade"`
	MinGradePoint float64 `json:"min_grade_point"`
}

// handleSaveCollege creates (POST) or replaces (PUT with path ID) a college.
func (s *Server) handleSaveCollege(w http.ResponseWriter, r *http.Request) {
	var req saveCollegeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cmd := command.SaveCollegeCommand{
		ID:       r.PathValue("id"),
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	for _, p := range req.Programs {
		program := command.ProgramInput{
			CourseID:   p.CourseID,
			MinimumGPA: p.MinimumGPA,
		}
		for _, sr := range p.SubjectRequirements {
			program.SubjectRequirements = append(program.SubjectRequirements, command.RequirementInput{
				Subject:       sr.Subject,
				MinGrade:      sr.MinGrade,
				MinGradePoint: sr.MinGradePoint,
			})
		}
		cmd.Programs = append(cmd.Programs, program)
	}

	college, err := s.deps.ManageCatalog.SaveCollege(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if cmd.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, query.ToCollegeDTO(college))
}

// handleDeleteCollege removes a college from the catalog.
func (s *Server) handleDeleteCollege(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ManageCatalog.DeleteCollege(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "college deleted"})
}

type saveCourseRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	DurationYears int    `json:"duration_years"`
}

// handleSaveCourse creates (POST) or replaces (PUT with path ID) a course.
func (s *Server) handleSaveCourse(w http.ResponseWriter, r *http.Request) {
	var req saveCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cmd := command.SaveCourseCommand{
		ID:            r.PathValue("id"),
		Name:          req.Name,
		Description:   req.Description,
		DurationYears: req.DurationYears,
	}

	course, err := s.deps.ManageCatalog.SaveCourse(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if cmd.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, query.ToCourseDTO(course))
}

// handleDeleteCourse removes a course.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ManageCatalog.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST/ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return false
	}
	return true
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var domainErr *shared.DomainError
	message := err.Error()
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", message)
	case shared.IsNoMarks(err):
		writeJSONError(w, http.StatusUnprocessableEntity, "no_marks_found", message)
	case errors.Is(err, shared.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "forbidden", message)
	case shared.IsUnauthorized(err):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", message)
	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", message)
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_input", message)
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
