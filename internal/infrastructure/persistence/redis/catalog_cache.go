package redis

import (
	"context"
	"errors"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG SNAPSHOT CACHE
// Implements catalog.CollegeCache. The snapshot is a flat JSON document of
// the whole resolved catalog; colleges are stored via an explicit DTO so the
// cache format stays stable independent of domain struct changes.
// ══════════════════════════════════════════════════════════════════════════════

// CatalogCache caches the resolved college catalog as a single snapshot.
type CatalogCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewCatalogCache creates a catalog snapshot cache with the default TTL.
func NewCatalogCache(cache *Cache) *CatalogCache {
	return &CatalogCache{cache: cache, ttl: TTLCatalogSnapshot}
}

// GetAll returns the cached catalog, or ErrCacheMiss.
func (c *CatalogCache) GetAll(ctx context.Context) ([]*catalog.College, error) {
	var snapshot []collegeDoc
	if err := c.cache.Get(ctx, CatalogSnapshotKey(), &snapshot); err != nil {
		return nil, err
	}

	colleges := make([]*catalog.College, 0, len(snapshot))
	for _, doc := range snapshot {
		colleges = append(colleges, doc.toDomain())
	}
	return colleges, nil
}

// SetAll stores the catalog snapshot.
func (c *CatalogCache) SetAll(ctx context.Context, colleges []*catalog.College) error {
	snapshot := make([]collegeDoc, 0, len(colleges))
	for _, college := range colleges {
		snapshot = append(snapshot, newCollegeDoc(college))
	}
	return c.cache.Set(ctx, CatalogSnapshotKey(), snapshot, c.ttl)
}

// Invalidate drops the cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, CatalogSnapshotKey())
}

// ─────────────────────────────────────────────────────────────────────────────
// Cache documents
// ─────────────────────────────────────────────────────────────────────────────

type collegeDoc struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Location  string       `json:"location"`
	Phone     string       `json:"phone"`
	Email     string       `json:"email"`
	Programs  []programDoc `json:"programs"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type programDoc struct {
	ID           string           `json:"id"`
	MinimumGPA   float64          `json:"minimum_gpa"`
	Course       courseDoc        `json:"course"`
	Requirements []requirementDoc `json:"requirements"`
}

type courseDoc struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	DurationYears int       `json:"duration_years"`
	CreatedAt     time.Time `json:"created_at"`
}

type requirementDoc struct {
	Subject       string  `json:"subject"`
	MinGrade      string  `json:"min_grade"`
	MinGradePoint float64 `json:"min_grade_point"`
}

func newCollegeDoc(college *catalog.College) collegeDoc {
	doc := collegeDoc{
		ID:        college.ID,
		Name:      college.Name,
		Location:  college.Location,
		Phone:     college.Contact.Phone,
		Email:     college.Contact.Email,
		CreatedAt: college.CreatedAt,
		UpdatedAt: college.UpdatedAt,
	}

	for _, program := range college.Programs {
		pdoc := programDoc{
			ID:         program.ID,
			MinimumGPA: program.MinimumGPA,
			Course: courseDoc{
				ID:            program.Course.ID,
				Name:          program.Course.Name,
				Description:   program.Course.Description,
				DurationYears: program.Course.DurationYears,
				CreatedAt:     program.Course.CreatedAt,
			},
		}
		for _, req := range program.SubjectRequirements {
			pdoc.Requirements = append(pdoc.Requirements, requirementDoc{
				Subject:       req.Subject.String(),
				MinGrade:      req.MinGrade,
				MinGradePoint: req.MinGradePoint,
			})
		}
		doc.Programs = append(doc.Programs, pdoc)
	}

	return doc
}

func (d collegeDoc) toDomain() *catalog.College {
	college := &catalog.College{
		ID:       d.ID,
		Name:     d.Name,
		Location: d.Location,
		Contact: catalog.Contact{
			Phone: d.Phone,
			Email: d.Email,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	for _, pdoc := range d.Programs {
		program := catalog.OfferedProgram{
			ID:         pdoc.ID,
			MinimumGPA: pdoc.MinimumGPA,
			Course: catalog.Course{
				ID:            pdoc.Course.ID,
				Name:          pdoc.Course.Name,
				Description:   pdoc.Course.Description,
				DurationYears: pdoc.Course.DurationYears,
				CreatedAt:     pdoc.Course.CreatedAt,
			},
		}
		for _, rdoc := range pdoc.Requirements {
			program.SubjectRequirements = append(program.SubjectRequirements, catalog.SubjectRequirement{
				Subject:       shared.Subject(rdoc.Subject),
				MinGrade:      rdoc.MinGrade,
				MinGradePoint: rdoc.MinGradePoint,
			})
		}
		college.Programs = append(college.Programs, program)
	}

	return college
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHED COLLEGE READER
// Decorates the repository's ListAll with the snapshot cache. Cache errors
// other than a miss fall through to the repository: a degraded cache must
// never take search down. A circuit breaker stops reads from waiting out
// Redis timeouts once the cache starts failing.
// ══════════════════════════════════════════════════════════════════════════════

// CachedCollegeReader serves full-catalog reads from the snapshot cache,
// falling back to the underlying repository and repopulating on miss.
type CachedCollegeReader struct {
	repo    catalog.CollegeRepository
	cache   catalog.CollegeCache
	breaker *circuitbreaker.CircuitBreaker
}

// NewCachedCollegeReader creates a cache-backed catalog reader.
func NewCachedCollegeReader(repo catalog.CollegeRepository, cache catalog.CollegeCache) *CachedCollegeReader {
	return &CachedCollegeReader{
		repo:    repo,
		cache:   cache,
		breaker: circuitbreaker.CacheBreaker(nil),
	}
}

// ListAll returns the full catalog, preferring the cached snapshot.
func (r *CachedCollegeReader) ListAll(ctx context.Context) ([]*catalog.College, error) {
	var colleges []*catalog.College
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var cacheErr error
		colleges, cacheErr = r.cache.GetAll(ctx)
		if errors.Is(cacheErr, ErrCacheMiss) {
			// A miss is a normal outcome, not a cache failure.
			colleges = nil
			return nil
		}
		return cacheErr
	})
	if err == nil && colleges != nil {
		return colleges, nil
	}

	colleges, err = r.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// Best effort repopulation, skipped while the breaker is open.
	if !r.breaker.IsOpen() {
		_ = r.cache.SetAll(ctx, colleges)
	}

	return colleges, nil
}
