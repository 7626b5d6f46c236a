// Package classify implements the shooter auto-classification state
// machine: a monotonic, one-rank-at-a-time promotion ladder driven by
// recent evaluation history.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Level is an ordered skill tier. Promotions move exactly one rank;
// demotion never happens automatically.
type Level int

const (
	LevelRegular Level = iota
	LevelMedio
	LevelConfiable
	LevelExperto
)

func (l Level) String() string {
	switch l {
	case LevelRegular:
		return "REGULAR"
	case LevelMedio:
		return "MEDIO"
	case LevelConfiable:
		return "CONFIABLE"
	case LevelExperto:
		return "EXPERTO"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel maps a stored level name onto a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REGULAR":
		return LevelRegular, nil
	case "MEDIO":
		return LevelMedio, nil
	case "CONFIABLE":
		return LevelConfiable, nil
	case "EXPERTO":
		return LevelExperto, nil
	}
	return LevelRegular, fmt.Errorf("unknown shooter level %q", s)
}

// LevelForScore maps an evaluation's final score (0-100) to a level.
func LevelForScore(score float64) Level {
	switch {
	case score >= 90:
		return LevelExperto
	case score >= 70:
		return LevelConfiable
	case score >= 40:
		return LevelMedio
	}
	return LevelRegular
}

// windowSize is how many recent finished-session evaluations the rule
// inspects, and requiredMajority how many of them must agree.
const (
	windowSize       = 5
	requiredMajority = 4
)

// Evaluation is one finished-session evaluation result.
type Evaluation struct {
	FinalScore     float64
	Classification Level
	Date           time.Time
}

// Store is the history/level persistence the classifier needs.
type Store interface {
	// RecentEvaluations returns up to limit finished-session evaluations
	// for the shooter, newest first.
	RecentEvaluations(ctx context.Context, shooterID int64, limit int) ([]Evaluation, error)
	ShooterLevel(ctx context.Context, shooterID int64) (Level, error)
	SetShooterLevel(ctx context.Context, shooterID int64, level Level) error
}

// Decision reports what the classifier concluded for one shooter.
type Decision struct {
	ShooterID int64
	Current   Level
	Proposed  Level
	Promoted  bool
	Reason    string
}

// Classifier drives the promotion state machine. Promotion is the only
// mutation it ever performs.
type Classifier struct {
	store Store
}

func New(store Store) *Classifier {
	return &Classifier{store: store}
}

// Evaluate decides whether the shooter should advance one level, without
// persisting anything. The rule inspects the five most recent finished
// evaluations: if at least four of them map to the same level and that
// level is exactly one rank above the shooter's current one, the shooter
// is promoted.
func (c *Classifier) Evaluate(ctx context.Context, shooterID int64) (Decision, error) {
	current, err := c.store.ShooterLevel(ctx, shooterID)
	if err != nil {
		return Decision{}, fmt.Errorf("shooter %d: %w", shooterID, err)
	}
	d := Decision{ShooterID: shooterID, Current: current, Proposed: current}

	evals, err := c.store.RecentEvaluations(ctx, shooterID, windowSize)
	if err != nil {
		return Decision{}, fmt.Errorf("shooter %d: loading evaluations: %w", shooterID, err)
	}
	if len(evals) < windowSize {
		d.Reason = fmt.Sprintf("only %d of %d required evaluations", len(evals), windowSize)
		return d, nil
	}

	counts := make(map[Level]int, 4)
	for _, e := range evals[:windowSize] {
		counts[LevelForScore(e.FinalScore)]++
	}

	majority, found := LevelRegular, false
	for lvl, n := range counts {
		if n >= requiredMajority {
			majority, found = lvl, true
			break
		}
	}
	if !found {
		d.Reason = "no level reached the required majority"
		return d, nil
	}

	if majority <= current {
		d.Reason = fmt.Sprintf("majority level %s does not exceed current %s", majority, current)
		return d, nil
	}
	if majority != current+1 {
		d.Reason = fmt.Sprintf("majority level %s is more than one rank above %s", majority, current)
		return d, nil
	}

	d.Proposed = majority
	d.Promoted = true
	d.Reason = fmt.Sprintf("%d of %d evaluations at %s", counts[majority], windowSize, majority)
	return d, nil
}

// Apply evaluates the shooter and persists the promotion when one is due.
func (c *Classifier) Apply(ctx context.Context, shooterID int64) (Decision, error) {
	d, err := c.Evaluate(ctx, shooterID)
	if err != nil {
		return Decision{}, err
	}
	if !d.Promoted {
		return d, nil
	}
	if err := c.store.SetShooterLevel(ctx, shooterID, d.Proposed); err != nil {
		return Decision{}, fmt.Errorf("shooter %d: persisting level %s: %w", shooterID, d.Proposed, err)
	}
	return d, nil
}
