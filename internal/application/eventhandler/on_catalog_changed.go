package eventhandler

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON CATALOG CHANGED HANDLER
// Catalog writes are rare; reads dominate. The resolved catalog is cached as
// a whole, so any college or course write simply drops the cache and lets the
// next read repopulate it.
// ══════════════════════════════════════════════════════════════════════════════

// OnCatalogChangedHandler invalidates the college catalog cache when the
// catalog is modified.
type OnCatalogChangedHandler struct {
	cache catalog.CollegeCache
	log   *logger.Logger
}

// NewOnCatalogChangedHandler creates a new catalog change subscriber.
func NewOnCatalogChangedHandler(cache catalog.CollegeCache, log *logger.Logger) *OnCatalogChangedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnCatalogChangedHandler{
		cache: cache,
		log:   log.With(logger.Component("on_catalog_changed")),
	}
}

// EventTypes lists the event types this handler subscribes to.
func (h *OnCatalogChangedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventCollegeCreated,
		shared.EventCollegeUpdated,
		shared.EventCollegeDeleted,
		shared.EventCourseCreated,
		shared.EventCourseUpdated,
		shared.EventCourseDeleted,
	}
}

// Handle drops the cached catalog.
func (h *OnCatalogChangedHandler) Handle(ctx context.Context, event shared.Event) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		return err
	}
	h.log.Info("catalog cache invalidated",
		logger.String("event_type", string(event.EventType())),
		logger.String("entity_id", event.AggregateID()),
	)
	return nil
}
