// Package main seeds the database with the SEE +2 admissions catalog and a
// sample student, for local development and demos.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/unihub/college-match-hub/config"
	"github.com/unihub/college-match-hub/internal/application/command"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/infrastructure/persistence/postgres"
	"github.com/unihub/college-match-hub/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.DefaultOptions())

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	studentRepo := postgres.NewStudentRepository(conn)
	markRepo := postgres.NewMarkRepository(conn)
	collegeRepo := postgres.NewCollegeRepository(conn)
	courseRepo := postgres.NewCourseRepository(conn)

	existing, err := courseRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Info("catalog already seeded, nothing to do", logger.Int("courses", len(existing)))
		return nil
	}

	// Seeding goes through the command handlers so it exercises the same
	// validation the API does. No event bus: there is no cache to invalidate
	// and GPA stays as entered.
	catalogCmd := command.NewManageCatalogHandler(collegeRepo, courseRepo, nil)
	registerCmd := command.NewRegisterStudentHandler(studentRepo, nil)
	recordMarkCmd := command.NewRecordMarkHandler(studentRepo, markRepo, nil)
	prefsCmd := command.NewUpdatePreferencesHandler(studentRepo, nil)

	log.Info("seeding courses...")
	courseIDs := make(map[string]string, len(sampleCourses))
	for _, c := range sampleCourses {
		course, err := catalogCmd.SaveCourse(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to seed course %q: %w", c.Name, err)
		}
		courseIDs[course.Name] = course.ID
	}
	log.Info("courses seeded", logger.Int("count", len(courseIDs)))

	log.Info("seeding colleges...")
	colleges := sampleColleges(courseIDs)
	for _, c := range colleges {
		if _, err := catalogCmd.SaveCollege(ctx, c); err != nil {
			return fmt.Errorf("failed to seed college %q: %w", c.Name, err)
		}
	}
	log.Info("colleges seeded", logger.Int("count", len(colleges)))

	if err := seedSampleStudent(ctx, registerCmd, recordMarkCmd, prefsCmd, courseIDs, log); err != nil {
		return err
	}

	log.Info("seed completed")
	return nil
}

var sampleCourses = []command.SaveCourseCommand{
	{Name: "Science", Description: "Science stream with Physics, Chemistry, Biology/Mathematics", DurationYears: 2},
	{Name: "Management", Description: "Management and Business Studies", DurationYears: 2},
	{Name: "Humanities", Description: "Arts and Humanities with Social Sciences", DurationYears: 2},
	{Name: "Computer Science", Description: "Computer Science and Information Technology", DurationYears: 2},
	{Name: "Commerce", Description: "Commerce and Accounting", DurationYears: 2},
}

// sampleColleges builds the Kathmandu valley +2 catalog keyed by the seeded
// course IDs.
func sampleColleges(courses map[string]string) []command.SaveCollegeCommand {
	return []command.SaveCollegeCommand{
		{
			Name:     "Trinity International College",
			Location: "Dillibazar, Kathmandu",
			Phone:    "+977-1-4444333",
			Email:    "info@trinity.edu.np",
			Programs: []command.ProgramInput{
				{
					CourseID:   courses["Science"],
					MinimumGPA: 3.2,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "B", MinGradePoint: 3.0},
						{Subject: "Science", MinGrade: "B", MinGradePoint: 3.0},
						{Subject: "English", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
				{
					CourseID:   courses["Management"],
					MinimumGPA: 2.8,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "C+", MinGradePoint: 2.4},
						{Subject: "English", MinGrade: "B", MinGradePoint: 3.0},
					},
				},
			},
		},
		{
			Name:     "Kathmandu Model College",
			Location: "Bagbazar, Kathmandu",
			Phone:    "+977-1-4444555",
			Email:    "info@kmc.edu.np",
			Programs: []command.ProgramInput{
				{
					CourseID:   courses["Science"],
					MinimumGPA: 3.0,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "C+", MinGradePoint: 2.4},
						{Subject: "Science", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
				{
					CourseID:   courses["Management"],
					MinimumGPA: 2.5,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "English", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
				{
					CourseID:   courses["Computer Science"],
					MinimumGPA: 3.0,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "B", MinGradePoint: 3.0},
						{Subject: "Science", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
			},
		},
		{
			Name:     "Global College International",
			Location: "Kalanki, Kathmandu",
			Phone:    "+977-1-4444777",
			Email:    "info@gci.edu.np",
			Programs: []command.ProgramInput{
				{
					CourseID:   courses["Management"],
					MinimumGPA: 3.0,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "English", MinGrade: "B", MinGradePoint: 3.0},
						{Subject: "Mathematics", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
				{
					CourseID:   courses["Commerce"],
					MinimumGPA: 2.8,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
			},
		},
		{
			Name:     "National College",
			Location: "Lagankhel, Lalitpur",
			Phone:    "+977-1-5544333",
			Email:    "info@nationalcollege.edu.np",
			Programs: []command.ProgramInput{
				{
					CourseID:   courses["Humanities"],
					MinimumGPA: 2.5,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "English", MinGrade: "C+", MinGradePoint: 2.4},
						{Subject: "Social Studies", MinGrade: "C", MinGradePoint: 2.0},
					},
				},
				{
					CourseID:   courses["Management"],
					MinimumGPA: 2.8,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "English", MinGrade: "C+", MinGradePoint: 2.4},
					},
				},
			},
		},
		{
			Name:     "St. Xavier's College",
			Location: "Maitighar, Kathmandu",
			Phone:    "+977-1-4444222",
			Email:    "info@sxc.edu.np",
			Programs: []command.ProgramInput{
				{
					CourseID:   courses["Science"],
					MinimumGPA: 3.5,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "B+", MinGradePoint: 3.4},
						{Subject: "Science", MinGrade: "B+", MinGradePoint: 3.4},
						{Subject: "English", MinGrade: "B", MinGradePoint: 3.0},
					},
				},
				{
					CourseID:   courses["Management"],
					MinimumGPA: 3.2,
					SubjectRequirements: []command.RequirementInput{
						{Subject: "Mathematics", MinGrade: "B", MinGradePoint: 3.0},
						{Subject: "English", MinGrade: "B+", MinGradePoint: 3.4},
					},
				},
			},
		},
	}
}

func seedSampleStudent(
	ctx context.Context,
	register *command.RegisterStudentHandler,
	recordMark *command.RecordMarkHandler,
	prefs *command.UpdatePreferencesHandler,
	courses map[string]string,
	log *logger.Logger,
) error {
	log.Info("seeding sample student...")

	result, err := register.Handle(ctx, command.RegisterStudentCommand{
		Name:       "John Doe",
		Email:      "student@example.com",
		Phone:      "+977-9841000000",
		Password:   "password123",
		GPA:        3.2,
		TotalMarks: 380,
	})
	if err != nil {
		if errors.Is(err, shared.ErrStudentAlreadyExists) {
			log.Info("sample student already exists, skipping")
			return nil
		}
		return fmt.Errorf("failed to seed sample student: %w", err)
	}

	sampleMarks := []command.RecordMarkCommand{
		{StudentID: result.StudentID, Subject: "Mathematics", Grade: "B", GradePoint: 3.0},
		{StudentID: result.StudentID, Subject: "Science", Grade: "B+", GradePoint: 3.4},
		{StudentID: result.StudentID, Subject: "English", Grade: "A-", GradePoint: 3.6},
		{StudentID: result.StudentID, Subject: "Social Studies", Grade: "B-", GradePoint: 2.8},
		{StudentID: result.StudentID, Subject: "Nepali", Grade: "B+", GradePoint: 3.4},
	}
	for _, m := range sampleMarks {
		if _, err := recordMark.Handle(ctx, m); err != nil {
			return fmt.Errorf("failed to seed mark %q: %w", m.Subject, err)
		}
	}

	err = prefs.Handle(ctx, command.UpdatePreferencesCommand{
		StudentID: result.StudentID,
		CourseIDs: []string{courses["Science"], courses["Computer Science"]},
	})
	if err != nil {
		return fmt.Errorf("failed to seed preferences: %w", err)
	}

	log.Info("sample student created", logger.Email("student@example.com"))
	return nil
}
