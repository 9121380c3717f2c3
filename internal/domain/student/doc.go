// Package student contains the student domain model of College Match Hub.
//
// It is part of the business core. The package defines:
//
//   - Entities: StudentRecord (aggregate root), Mark
//   - Value Objects: Role, Preferences
//   - The repository interfaces implemented in infrastructure/persistence
//
// # Architectural principles
//
// The package follows Clean Architecture and DDD:
//
//  1. No external dependencies beyond the shared domain package
//  2. Dependency Inversion - interfaces here, implementations in infrastructure
//  3. Rich Domain Model - invariants enforced inside the entities
//
// # Main entities
//
// StudentRecord is the central entity, holding the academic record and
// stated preferences:
//
//	record, err := NewStudent(NewStudentParams{
//	    ID:           uuid.New().String(),
//	    Name:         "Aarav Shrestha",
//	    Email:        "aarav@example.com",
//	    PasswordHash: hash,
//	    GPA:          3.2,
//	    TotalMarks:   410,
//	})
//
// Mark is a single subject grade owned by exactly one student:
//
//	mark, err := NewMark(NewMarkParams{
//	    ID:         uuid.New().String(),
//	    StudentID:  record.ID,
//	    Subject:    "Mathematics",
//	    Grade:      "A",
//	    GradePoint: 3.6,
//	})
//	err = record.AddMark(mark)
//
// The stored GPA and the recorded marks are deliberately not reconciled on
// write. Recomputing the GPA from marks is an explicit command (see
// application/command.RecomputeGPAHandler) so that reads stay free of side
// effects.
package student
