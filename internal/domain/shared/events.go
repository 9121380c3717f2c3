// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the domain; mark events drive the asynchronous GPA recompute.
const (
	// Student events
	EventStudentRegistered     EventType = "student.registered"
	EventStudentProfileUpdated EventType = "student.profile_updated"
	EventStudentPreferencesSet EventType = "student.preferences_set"
	EventStudentGPARecomputed  EventType = "student.gpa_recomputed"

	// Mark events
	EventMarkRecorded  EventType = "mark.recorded"
	EventMarkUpdated   EventType = "mark.updated"
	EventMarkRetracted EventType = "mark.retracted"

	// Catalog events
	EventCollegeCreated EventType = "catalog.college_created"
	EventCollegeUpdated EventType = "catalog.college_updated"
	EventCollegeDeleted EventType = "catalog.college_deleted"
	EventCourseCreated  EventType = "catalog.course_created"
	EventCourseUpdated  EventType = "catalog.course_updated"
	EventCourseDeleted  EventType = "catalog.course_deleted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a published domain event. Handlers run
// asynchronously; returned errors are logged by the bus, not retried.
type EventHandler func(ctx context.Context, event Event) error

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// SimpleEvent is an event whose type and aggregate ID are the whole story.
type SimpleEvent struct {
	BaseEvent
}

// Payload implements Event interface.
func (e SimpleEvent) Payload() map[string]interface{} {
	return nil
}

// NewSimpleEvent creates an event with no payload beyond its aggregate.
func NewSimpleEvent(eventType EventType, aggregateID string) SimpleEvent {
	return SimpleEvent{BaseEvent: NewBaseEvent(eventType, aggregateID)}
}

// ═══════════════════════════════════════════════════════════════════════════
// Mark Events
// ═══════════════════════════════════════════════════════════════════════════

// MarkRecordedEvent is emitted when a grade is recorded for a student.
type MarkRecordedEvent struct {
	BaseEvent
	StudentID  string  `json:"student_id"`
	MarkID     string  `json:"mark_id"`
	Subject    string  `json:"subject"`
	GradePoint float64 `json:"grade_point"`
}

// Payload implements Event interface.
func (e MarkRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id":  e.StudentID,
		"mark_id":     e.MarkID,
		"subject":     e.Subject,
		"grade_point": e.GradePoint,
	}
}

// NewMarkRecordedEvent creates a new MarkRecordedEvent.
func NewMarkRecordedEvent(studentID, markID, subject string, gradePoint float64) MarkRecordedEvent {
	return MarkRecordedEvent{
		BaseEvent:  NewBaseEvent(EventMarkRecorded, studentID),
		StudentID:  studentID,
		MarkID:     markID,
		Subject:    subject,
		GradePoint: gradePoint,
	}
}

// MarkRetractedEvent is emitted when a recorded grade is removed.
type MarkRetractedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	MarkID    string `json:"mark_id"`
	Subject   string `json:"subject"`
}

// Payload implements Event interface.
func (e MarkRetractedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"mark_id":    e.MarkID,
		"subject":    e.Subject,
	}
}

// NewMarkRetractedEvent creates a new MarkRetractedEvent.
func NewMarkRetractedEvent(studentID, markID, subject string) MarkRetractedEvent {
	return MarkRetractedEvent{
		BaseEvent: NewBaseEvent(EventMarkRetracted, studentID),
		StudentID: studentID,
		MarkID:    markID,
		Subject:   subject,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a new student registers.
type StudentRegisteredEvent struct {
	BaseEvent
	Email string  `json:"email"`
	Name  string  `json:"name"`
	GPA   float64 `json:"gpa"`
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
		"name":  e.Name,
		"gpa":   e.GPA,
	}
}

// NewStudentRegisteredEvent creates a new StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID, email, name string, gpa float64) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent: NewBaseEvent(EventStudentRegistered, studentID),
		Email:     email,
		Name:      name,
		GPA:       gpa,
	}
}

// StudentGPARecomputedEvent is emitted after the stored GPA is refreshed
// from the current mark set.
type StudentGPARecomputedEvent struct {
	BaseEvent
	StudentID string  `json:"student_id"`
	OldGPA    float64 `json:"old_gpa"`
	NewGPA    float64 `json:"new_gpa"`
	MarkCount int     `json:"mark_count"`
}

// Payload implements Event interface.
func (e StudentGPARecomputedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"old_gpa":    e.OldGPA,
		"new_gpa":    e.NewGPA,
		"mark_count": e.MarkCount,
	}
}

// NewStudentGPARecomputedEvent creates a new StudentGPARecomputedEvent.
func NewStudentGPARecomputedEvent(studentID string, oldGPA, newGPA float64, markCount int) StudentGPARecomputedEvent {
	return StudentGPARecomputedEvent{
		BaseEvent: NewBaseEvent(EventStudentGPARecomputed, studentID),
		StudentID: studentID,
		OldGPA:    oldGPA,
		NewGPA:    newGPA,
		MarkCount: markCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Catalog Events
// ═══════════════════════════════════════════════════════════════════════════

// CatalogChangedEvent is emitted when reference data (colleges or courses)
// is created, updated, or deleted. Consumers use it to invalidate caches.
type CatalogChangedEvent struct {
	BaseEvent
	Entity string `json:"entity"` // "college" or "course"
}

// Payload implements Event interface.
func (e CatalogChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"entity": e.Entity,
	}
}

// NewCatalogChangedEvent creates a new CatalogChangedEvent.
func NewCatalogChangedEvent(eventType EventType, entityID, entity string) CatalogChangedEvent {
	return CatalogChangedEvent{
		BaseEvent: NewBaseEvent(eventType, entityID),
		Entity:    entity,
	}
}
