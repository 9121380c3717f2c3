package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Shared by the command handler tests in this package.
// ═══════════════════════════════════════════════════════════════════════════

type memStudentRepo struct {
	mu       sync.Mutex
	students map[string]*student.StudentRecord
}

func newMemStudentRepo(records ...*student.StudentRecord) *memStudentRepo {
	repo := &memStudentRepo{students: make(map[string]*student.StudentRecord)}
	for _, r := range records {
		repo.students[r.ID] = r
	}
	return repo
}

func (r *memStudentRepo) Create(ctx context.Context, record *student.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.students {
		if existing.Email == record.Email {
			return shared.ErrStudentAlreadyExists
		}
	}
	r.students[record.ID] = record
	return nil
}

func (r *memStudentRepo) GetByID(ctx context.Context, id string) (*student.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *memStudentRepo) GetByEmail(ctx context.Context, email string) (*student.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.students {
		if record.Email == email {
			clone := *record
			return &clone, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (r *memStudentRepo) Update(ctx context.Context, record *student.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[record.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	clone := *record
	r.students[record.ID] = &clone
	return nil
}

func (r *memStudentRepo) UpdateGPA(ctx context.Context, id string, gpa shared.GPA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.students[id]
	if !ok {
		return shared.ErrStudentNotFound
	}
	record.GPA = gpa
	return nil
}

func (r *memStudentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *memStudentRepo) List(ctx context.Context, page shared.Pagination) ([]*student.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]*student.StudentRecord, 0, len(r.students))
	for _, record := range r.students {
		clone := *record
		records = append(records, &clone)
	}
	return records, nil
}

func (r *memStudentRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students), nil
}

type memMarkRepo struct {
	mu    sync.Mutex
	marks map[string]*student.Mark
}

func newMemMarkRepo() *memMarkRepo {
	return &memMarkRepo{marks: make(map[string]*student.Mark)}
}

func (r *memMarkRepo) Add(ctx context.Context, mark *student.Mark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.marks {
		if existing.StudentID == mark.StudentID && existing.Subject.Key() == mark.Subject.Key() {
			return shared.ErrDuplicateSubjectMark
		}
	}
	clone := *mark
	r.marks[mark.ID] = &clone
	return nil
}

func (r *memMarkRepo) GetByID(ctx context.Context, id string) (*student.Mark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mark, ok := r.marks[id]
	if !ok {
		return nil, shared.ErrMarkNotFound
	}
	clone := *mark
	return &clone, nil
}

func (r *memMarkRepo) ListByStudent(ctx context.Context, studentID string) ([]student.Mark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marks []student.Mark
	for _, mark := range r.marks {
		if mark.StudentID == studentID {
			marks = append(marks, *mark)
		}
	}
	return marks, nil
}

func (r *memMarkRepo) Update(ctx context.Context, mark *student.Mark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.marks[mark.ID]; !ok {
		return shared.ErrMarkNotFound
	}
	clone := *mark
	r.marks[mark.ID] = &clone
	return nil
}

func (r *memMarkRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.marks[id]; !ok {
		return shared.ErrMarkNotFound
	}
	delete(r.marks, id)
	return nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event shared.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// fakeTokenIssuer mints predictable tokens and remembers which refresh
// tokens it issued.
type fakeTokenIssuer struct {
	counter int
	issued  map[string]string // refresh token -> student ID
	failing bool
}

func newFakeTokenIssuer() *fakeTokenIssuer {
	return &fakeTokenIssuer{issued: make(map[string]string)}
}

func (f *fakeTokenIssuer) IssueAccessToken(studentID string, role string) (string, error) {
	if f.failing {
		return "", fmt.Errorf("signer unavailable")
	}
	return fmt.Sprintf("access-%s-%s", studentID, role), nil
}

func (f *fakeTokenIssuer) IssueRefreshToken(studentID string) (string, error) {
	if f.failing {
		return "", fmt.Errorf("signer unavailable")
	}
	f.counter++
	token := fmt.Sprintf("refresh-%s-%d", studentID, f.counter)
	f.issued[token] = studentID
	return token, nil
}

func (f *fakeTokenIssuer) VerifyRefreshToken(token string) (string, error) {
	studentID, ok := f.issued[token]
	if !ok {
		return "", fmt.Errorf("unknown token")
	}
	return studentID, nil
}
