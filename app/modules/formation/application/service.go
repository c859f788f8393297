// Package formationservice implements the editing operations over the
// formation store: saving and loading positions, scenarios and sequences,
// token placement, reordering, dirty tracking and bulk import.
package formationservice

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/events"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationdb "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/infrastructure/repositories"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
)

// PlaybackGuard rejects edits that would race an in-flight animation.
type PlaybackGuard interface {
	Busy() bool
}

// FormationService implements the formation editing operations.
type FormationService struct {
	store    *formationstore.Store
	db       formationdb.FormationDB
	bus      eventbus.EventBus
	playback PlaybackGuard
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	// Dirty checks run on every pointer-move tick; the limiter keeps the
	// recomputation (and any resulting event) from running more often
	// than the board can render anyway.
	dirtyLimiter *rate.Limiter
}

// NewFormationService creates a new FormationService.
func NewFormationService(
	store *formationstore.Store,
	db formationdb.FormationDB,
	bus eventbus.EventBus,
	playback PlaybackGuard,
	logger *slog.Logger,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *FormationService {
	return &FormationService{
		store:        store,
		db:           db,
		bus:          bus,
		playback:     playback,
		logger:       logger,
		metrics:      m,
		tracer:       tracer,
		dirtyLimiter: rate.NewLimiter(rate.Every(rateDirtyInterval), 1),
	}
}

func (s *FormationService) publish(ctx context.Context, topic string, payload any) {
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		s.logger.Error("Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

// refreshModified re-derives the dirty flag and announces a flip.
func (s *FormationService) refreshModified(ctx context.Context) bool {
	modified, changed := s.store.RecomputeModified()
	if changed {
		s.metrics.DirtyFlips.Inc()
		s.publish(ctx, events.ModifiedChangedTopic, events.ModifiedChangedPayload{Modified: modified})
	}
	return modified
}

func (s *FormationService) publishLoaded(ctx context.Context) {
	s.publish(ctx, events.ItemLoadedTopic, events.ItemLoadedPayload{Loaded: s.store.Loaded()})
}
