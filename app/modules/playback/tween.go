package playback

import (
	"context"
	"math"
	"sync"
	"time"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// Tween moves one token from one coordinate to another over the fixed
// transition duration.
type Tween struct {
	PlayerID string
	From     sharedtypes.Coord
	To       sharedtypes.Coord
}

// Transition is everything one step change does to the court: moving
// tokens tween, departing tokens are removed, and arriving tokens appear
// directly at their target (they were not visible before, so there is
// nothing to tween from).
type Transition struct {
	Moves       []Tween
	Removals    []string
	Appearances []Tween
}

// CourtWriter is the slice of the formation store the runner mutates.
type CourtWriter interface {
	PlaceToken(playerID string, x, y int) bool
	RemoveToken(playerID string)
}

// BuildTransition diffs the live court against a target placement list.
// Tokens already at their target still get a zero-delta tween: they finish
// immediately but participate in the completion join.
func BuildTransition(live map[string]sharedtypes.Coord, target []sharedtypes.PlacedPlayer) Transition {
	var tr Transition

	targetByPlayer := make(map[string]sharedtypes.Coord, len(target))
	for _, pp := range target {
		targetByPlayer[pp.PlayerID] = sharedtypes.Coord{X: pp.X, Y: pp.Y}
	}

	for _, pp := range target {
		to := sharedtypes.Coord{X: pp.X, Y: pp.Y}
		if from, onCourt := live[pp.PlayerID]; onCourt {
			tr.Moves = append(tr.Moves, Tween{PlayerID: pp.PlayerID, From: from, To: to})
		} else {
			tr.Appearances = append(tr.Appearances, Tween{PlayerID: pp.PlayerID, From: to, To: to})
		}
	}

	for playerID := range live {
		if _, stays := targetByPlayer[playerID]; !stays {
			tr.Removals = append(tr.Removals, playerID)
		}
	}

	return tr
}

// Runner drives transitions: one tween goroutine per moving token, all
// joined before the transition counts as complete. The join always
// resolves within the fixed duration because progress is derived from the
// clock, not from per-frame deltas.
type Runner struct {
	clock    Clock
	duration time.Duration
	tick     time.Duration
}

// NewRunner creates a transition runner with a fixed duration per step.
func NewRunner(clock Clock, duration, tick time.Duration) *Runner {
	return &Runner{clock: clock, duration: duration, tick: tick}
}

// Run executes the transition against the court. It returns nil once every
// token's tween has finished and the removals/appearances are applied, or
// ctx.Err() if cancelled mid-flight; a cancelled run leaves whatever
// intermediate coordinates were already written.
func (r *Runner) Run(ctx context.Context, court CourtWriter, tr Transition) error {
	start := r.clock.Now()

	var wg sync.WaitGroup
	for _, tw := range tr.Moves {
		wg.Add(1)
		go func(tw Tween) {
			defer wg.Done()
			r.runTween(ctx, court, tw, start)
		}(tw)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Departures and arrivals settle with the same join.
	for _, playerID := range tr.Removals {
		court.RemoveToken(playerID)
	}
	for _, tw := range tr.Appearances {
		court.PlaceToken(tw.PlayerID, tw.To.X, tw.To.Y)
	}

	return nil
}

func (r *Runner) runTween(ctx context.Context, court CourtWriter, tw Tween, start time.Time) {
	if tw.From == tw.To {
		// Already in place; nothing to animate but the join still waits
		// for this tween to report done.
		court.PlaceToken(tw.PlayerID, tw.To.X, tw.To.Y)
		return
	}

	ticker := r.clock.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			progress := float64(now.Sub(start)) / float64(r.duration)
			if progress >= 1 {
				court.PlaceToken(tw.PlayerID, tw.To.X, tw.To.Y)
				return
			}
			if progress < 0 {
				progress = 0
			}
			x := lerp(tw.From.X, tw.To.X, progress)
			y := lerp(tw.From.Y, tw.To.Y, progress)
			court.PlaceToken(tw.PlayerID, x, y)
		}
	}
}

func lerp(from, to int, t float64) int {
	return int(math.Round(float64(from) + (float64(to)-float64(from))*t))
}
