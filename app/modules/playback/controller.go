// Package playback drives the court through a flattened sequence timeline.
// The controller is a small state machine (Idle -> Positioned -> Animating)
// that owns all live-court mutation while a transition is in flight.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/events"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// State is the controller's playback state.
type State string

const (
	// StateIdle is edit mode: no timeline loaded, index -1.
	StateIdle State = "idle"
	// StatePositioned means a formation step is shown and settled.
	StatePositioned State = "positioned"
	// StateAnimating means token coordinates are being interpolated.
	StateAnimating State = "animating"
)

// Controller walks a flattened timeline forward and backward, animating
// tokens between steps.
type Controller struct {
	store   *formationstore.Store
	bus     eventbus.EventBus
	runner  *Runner
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu         sync.Mutex
	state      State
	steps      []formationdomain.Step
	index      int
	sequenceID string
	generation int
	cancelAnim context.CancelFunc
}

// NewController creates a playback controller.
func NewController(
	store *formationstore.Store,
	bus eventbus.EventBus,
	clock Clock,
	duration time.Duration,
	tick time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *Controller {
	return &Controller{
		store:   store,
		bus:     bus,
		runner:  NewRunner(clock, duration, tick),
		logger:  logger,
		metrics: m,
		tracer:  tracer,
		state:   StateIdle,
		index:   -1,
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Index returns the current step index, -1 in edit mode.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Steps returns a copy of the loaded timeline.
func (c *Controller) Steps() []formationdomain.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]formationdomain.Step(nil), c.steps...)
}

// Busy reports whether a transition is in flight. Other components use
// this to reject conflicting operations while tokens are moving.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAnimating
}

// LoadSequence flattens a sequence and shows its first step instantly.
// Steps whose position has been deleted out from under the sequence are
// dropped rather than failing the load.
func (c *Controller) LoadSequence(ctx context.Context, sequenceID string) error {
	ctx, span := c.tracer.Start(ctx, "playback.LoadSequence")
	defer span.End()

	seq, ok := c.store.SequenceByID(sequenceID)
	if !ok {
		return fmt.Errorf("load sequence %s: %w", sequenceID, formationdomain.ErrNotFound)
	}

	steps := c.resolvableSteps(formationdomain.Flatten(seq, c.store.Scenarios()))
	if len(steps) == 0 {
		c.logger.Info("Sequence flattened to zero steps",
			slog.String("sequence_id", sequenceID),
		)
		return ErrEmptySequence
	}

	c.mu.Lock()
	if c.state == StateAnimating {
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	}
	c.steps = steps
	c.index = 0
	c.sequenceID = sequenceID
	c.state = StatePositioned
	first := steps[0]
	c.mu.Unlock()

	// First display is instantaneous; stale placements drop silently.
	pos, _ := c.store.PositionByID(first.PositionID)
	c.store.LoadPositionTokens(pos)
	c.store.SetLoaded(&sharedtypes.LoadedItem{
		Kind: sharedtypes.LoadedSequence,
		ID:   seq.ID,
		Name: seq.Name,
	})
	c.publishLoaded(ctx)
	c.refreshModified(ctx)
	c.publishStep(ctx, 0, first)
	c.metrics.PlaybackTransitions.WithLabelValues("load").Inc()
	return nil
}

// PlayNext advances one step. From the last step it signals completion and
// drops back to edit mode instead of erroring.
func (c *Controller) PlayNext(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "playback.PlayNext")
	defer span.End()

	c.mu.Lock()
	switch c.state {
	case StateAnimating:
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	case StateIdle:
		c.mu.Unlock()
		return ErrNotLoaded
	}

	next, ok := c.nextResolvableLocked(c.index, +1)
	if !ok {
		// Walked off the end: sequence complete, back to edit mode.
		seqID := c.sequenceID
		count := len(c.steps)
		c.resetLocked()
		c.mu.Unlock()
		c.publish(ctx, events.SequenceCompletedTopic, events.SequenceCompletedPayload{
			SequenceID: seqID,
			StepCount:  count,
		})
		c.metrics.PlaybackTransitions.WithLabelValues("complete").Inc()
		return nil
	}

	c.beginTransitionLocked(ctx, next, "forward")
	c.mu.Unlock()
	return nil
}

// PlayPrev steps backward. Only valid past the first step.
func (c *Controller) PlayPrev(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "playback.PlayPrev")
	defer span.End()

	c.mu.Lock()
	switch c.state {
	case StateAnimating:
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	case StateIdle:
		c.mu.Unlock()
		return ErrNotLoaded
	}

	prev, ok := c.nextResolvableLocked(c.index, -1)
	if !ok {
		c.mu.Unlock()
		return ErrAtStart
	}

	c.beginTransitionLocked(ctx, prev, "backward")
	c.mu.Unlock()
	return nil
}

// PlayScenario loads a scenario as a two-step timeline: the start position
// appears instantly, then the court immediately animates to the end.
func (c *Controller) PlayScenario(ctx context.Context, scenarioID string) error {
	ctx, span := c.tracer.Start(ctx, "playback.PlayScenario")
	defer span.End()

	sc, ok := c.store.ScenarioByID(scenarioID)
	if !ok {
		return fmt.Errorf("play scenario %s: %w", scenarioID, formationdomain.ErrNotFound)
	}

	// The loaded pointer and selection move only after the busy check has
	// passed; a rejected request leaves the editor untouched.
	return c.playPair(ctx, sc.StartPositionID, sc.EndPositionID, sc.ID, "scenario", func() {
		c.store.SetLoaded(&sharedtypes.LoadedItem{
			Kind: sharedtypes.LoadedScenario,
			ID:   sc.ID,
			Name: sc.Name,
		})
		c.store.SetScenarioSelection(sc.StartPositionID, sc.EndPositionID)
		c.publishLoaded(ctx)
	})
}

// PlayAnimation runs a standalone start->end animation, e.g. for two
// positions dropped into the scenario slots but not yet saved.
func (c *Controller) PlayAnimation(ctx context.Context, startID, endID string) error {
	ctx, span := c.tracer.Start(ctx, "playback.PlayAnimation")
	defer span.End()
	return c.playPair(ctx, startID, endID, "", "animation", nil)
}

// playPair runs a two-step start/end timeline. The commit callback, if any,
// fires once the request has claimed the controller, so rejected requests
// cannot leak editor-state changes.
func (c *Controller) playPair(ctx context.Context, startID, endID, scenarioID, label string, commit func()) error {
	startPos, ok := c.store.PositionByID(startID)
	if !ok {
		return fmt.Errorf("start position %s: %w", startID, formationdomain.ErrNotFound)
	}
	if _, ok := c.store.PositionByID(endID); !ok {
		return fmt.Errorf("end position %s: %w", endID, formationdomain.ErrNotFound)
	}

	steps := []formationdomain.Step{
		{PositionID: startID, ItemIndex: 0, Role: formationdomain.RoleScenarioStart, ScenarioID: scenarioID},
		{PositionID: endID, ItemIndex: 0, Role: formationdomain.RoleScenarioEnd, ScenarioID: scenarioID},
	}

	c.mu.Lock()
	if c.state == StateAnimating {
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	}
	c.steps = steps
	c.index = 0
	c.sequenceID = ""
	c.state = StatePositioned
	c.mu.Unlock()

	if commit != nil {
		commit()
	}
	c.store.LoadPositionTokens(startPos)
	c.publishStep(ctx, 0, steps[0])

	c.mu.Lock()
	c.beginTransitionLocked(ctx, 1, label)
	c.mu.Unlock()
	return nil
}

// ResetToStartPosition animates the court back to the start implied by the
// loaded item, from wherever the tokens currently are. Tokens already in
// place are skipped per-token but still participate in the join. A loaded
// sequence resets even after a completed run-through: its timeline is
// re-flattened from the store, not read from the cleared controller.
func (c *Controller) ResetToStartPosition(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "playback.ResetToStartPosition")
	defer span.End()

	loaded := c.store.Loaded()
	if loaded == nil {
		return ErrNotLoaded
	}

	if loaded.Kind == sharedtypes.LoadedSequence {
		return c.resetSequence(ctx, loaded.ID)
	}

	positionID, err := c.startPositionFor(loaded)
	if err != nil {
		return err
	}

	steps := []formationdomain.Step{
		{PositionID: positionID, ItemIndex: 0, Role: formationdomain.RolePosition},
	}

	c.mu.Lock()
	if c.state == StateAnimating {
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	}
	c.steps = steps
	c.sequenceID = ""
	c.index = -1
	c.state = StatePositioned
	c.beginTransitionLocked(ctx, 0, "reset")
	c.mu.Unlock()
	return nil
}

// resetSequence rebuilds the timeline for a loaded sequence and animates
// back to its first resolvable step. Completing a run-through clears the
// controller's steps while the loaded pointer keeps naming the sequence,
// so the timeline always comes from the stored sequence here.
func (c *Controller) resetSequence(ctx context.Context, sequenceID string) error {
	seq, ok := c.store.SequenceByID(sequenceID)
	if !ok {
		return fmt.Errorf("sequence %s: %w", sequenceID, formationdomain.ErrNotFound)
	}
	steps := c.resolvableSteps(formationdomain.Flatten(seq, c.store.Scenarios()))
	if len(steps) == 0 {
		return ErrEmptySequence
	}

	c.mu.Lock()
	if c.state == StateAnimating {
		c.mu.Unlock()
		c.metrics.BusyRejections.Inc()
		return ErrBusy
	}
	c.steps = steps
	c.sequenceID = sequenceID
	c.index = -1
	c.state = StatePositioned
	c.beginTransitionLocked(ctx, 0, "reset")
	c.mu.Unlock()
	return nil
}

// Cancel aborts an in-flight transition, enters edit mode, and discards
// the stale completion so it cannot mutate state that has moved on.
func (c *Controller) Cancel(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateAnimating {
		c.mu.Unlock()
		return
	}
	from := c.index
	cancel := c.cancelAnim
	c.generation++
	c.resetLocked()
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.publish(ctx, events.PlaybackCancelledTopic, events.PlaybackCancelledPayload{
		FromIndex: from,
	})
	c.metrics.PlaybackTransitions.WithLabelValues("cancelled").Inc()
}

// --- internals ---

func (c *Controller) resetLocked() {
	c.state = StateIdle
	c.index = -1
	c.steps = nil
	c.sequenceID = ""
	c.cancelAnim = nil
}

// resolvableSteps drops steps whose position id no longer resolves.
func (c *Controller) resolvableSteps(steps []formationdomain.Step) []formationdomain.Step {
	out := steps[:0]
	for _, step := range steps {
		if _, ok := c.store.PositionByID(step.PositionID); ok {
			out = append(out, step)
		} else {
			c.logger.Warn("Skipping step with missing position",
				slog.String("position_id", step.PositionID),
				slog.Int("item_index", step.ItemIndex),
			)
		}
	}
	return out
}

// nextResolvableLocked finds the nearest step index in the given direction
// whose position still exists, skipping deleted ones.
func (c *Controller) nextResolvableLocked(from, dir int) (int, bool) {
	for i := from + dir; i >= 0 && i < len(c.steps); i += dir {
		if _, ok := c.store.PositionByID(c.steps[i].PositionID); ok {
			return i, true
		}
		c.logger.Warn("Skipping step with missing position",
			slog.String("position_id", c.steps[i].PositionID),
			slog.Int("step_index", i),
		)
	}
	return 0, false
}

// beginTransitionLocked starts animating toward the step at target. The
// caller holds the mutex and has already rejected overlapping requests.
func (c *Controller) beginTransitionLocked(ctx context.Context, target int, label string) {
	step := c.steps[target]
	pos, _ := c.store.PositionByID(step.PositionID)

	// Placements whose player left the roster behave like departures.
	kept := pos.PlayerPositions[:0]
	for _, pp := range pos.PlayerPositions {
		if _, ok := c.store.PlayerByID(pp.PlayerID); ok {
			kept = append(kept, pp)
		}
	}
	pos.PlayerPositions = kept

	tr := BuildTransition(c.store.LiveCourt(), pos.PlayerPositions)

	animCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.state = StateAnimating
	c.cancelAnim = cancel
	c.generation++
	gen := c.generation

	started := c.runner.clock.Now()
	go func() {
		err := c.runner.Run(animCtx, c.store, tr)
		cancel()
		c.finishTransition(ctx, gen, target, step, label, started, err)
	}()
}

func (c *Controller) finishTransition(ctx context.Context, gen, target int, step formationdomain.Step, label string, started time.Time, err error) {
	c.mu.Lock()
	if gen != c.generation {
		// Cancelled and superseded; this completion is stale.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.resetLocked()
		c.mu.Unlock()
		c.logger.Warn("Transition aborted", slog.Any("error", err))
		return
	}
	c.state = StatePositioned
	c.index = target
	c.cancelAnim = nil
	c.mu.Unlock()

	c.metrics.TweenJoinDuration.Observe(c.runner.clock.Now().Sub(started).Seconds())
	c.metrics.PlaybackTransitions.WithLabelValues(label).Inc()
	c.publishStep(ctx, target, step)
}

func (c *Controller) startPositionFor(loaded *sharedtypes.LoadedItem) (string, error) {
	switch loaded.Kind {
	case sharedtypes.LoadedPosition:
		if loaded.ID == "" {
			return "", fmt.Errorf("unsaved position: %w", formationdomain.ErrNotFound)
		}
		return loaded.ID, nil
	case sharedtypes.LoadedScenario:
		start, _ := c.store.ScenarioSelection()
		if start == "" {
			return "", fmt.Errorf("scenario has no start position: %w", formationdomain.ErrNotFound)
		}
		return start, nil
	}
	return "", ErrNotLoaded
}

func (c *Controller) publishStep(ctx context.Context, index int, step formationdomain.Step) {
	c.mu.Lock()
	count := len(c.steps)
	c.mu.Unlock()
	c.publish(ctx, events.StepChangedTopic, events.StepChangedPayload{
		StepIndex:  index,
		StepCount:  count,
		PositionID: step.PositionID,
		ItemIndex:  step.ItemIndex,
		Role:       string(step.Role),
		ScenarioID: step.ScenarioID,
	})
}

func (c *Controller) publishLoaded(ctx context.Context) {
	c.publish(ctx, events.ItemLoadedTopic, events.ItemLoadedPayload{Loaded: c.store.Loaded()})
}

func (c *Controller) refreshModified(ctx context.Context) {
	modified, changed := c.store.RecomputeModified()
	if changed {
		c.metrics.DirtyFlips.Inc()
		c.publish(ctx, events.ModifiedChangedTopic, events.ModifiedChangedPayload{Modified: modified})
	}
}

func (c *Controller) publish(ctx context.Context, topic string, payload any) {
	if err := c.bus.Publish(ctx, topic, payload); err != nil {
		c.logger.Error("Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}
