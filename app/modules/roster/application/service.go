// Package rosterservice manages the player roster: creation, edits,
// deletion with cascades into saved formations, and drag reordering.
package rosterservice

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	rosterdb "github.com/Harbor-City-Volleyball/courtplan/app/modules/roster/infrastructure/repositories"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// PositionWriter persists positions that a roster cascade touched. It is
// implemented by the formation repository.
type PositionWriter interface {
	SavePositions(ctx context.Context, positions []sharedtypes.Position) error
}

// RosterService implements the roster operations.
type RosterService struct {
	store      *formationstore.Store
	playerDB   rosterdb.PlayerDB
	positionDB PositionWriter
	bus        eventbus.EventBus
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// NewRosterService creates a new RosterService.
func NewRosterService(
	store *formationstore.Store,
	playerDB rosterdb.PlayerDB,
	positionDB PositionWriter,
	bus eventbus.EventBus,
	logger *slog.Logger,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *RosterService {
	return &RosterService{
		store:      store,
		playerDB:   playerDB,
		positionDB: positionDB,
		bus:        bus,
		logger:     logger,
		metrics:    m,
		tracer:     tracer,
	}
}

func (s *RosterService) publish(ctx context.Context, topic string, payload any) {
	if err := s.bus.Publish(ctx, topic, payload); err != nil {
		s.logger.Error("Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}
