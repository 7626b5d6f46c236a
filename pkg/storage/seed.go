package storage

import (
	"context"
	"fmt"

	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
)

// CreateShooter inserts a shooter and returns its id.
func (d *DB) CreateShooter(ctx context.Context, name string) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `INSERT INTO shooters (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateSession opens a session for a shooter and returns its id.
func (d *DB) CreateSession(ctx context.Context, shooterID int64) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `INSERT INTO sessions (shooter_id) VALUES (?)`, shooterID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishSession marks a session as finished so its evaluations count for
// auto-classification.
func (d *DB) FinishSession(ctx context.Context, sessionID int64) error {
	res, err := d.sql.ExecContext(ctx, `UPDATE sessions SET finished = 1 WHERE id = ?`, sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	return nil
}

// CreateExercise attaches an exercise with its ammunition allocation to a
// session and returns its id.
func (d *DB) CreateExercise(ctx context.Context, sessionID int64, allocated, declaredUsed int) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `
INSERT INTO exercises (session_id, allocated_ammunition, declared_used) VALUES (?,?,?)`,
		sessionID, allocated, declaredUsed)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddEvaluation records a session evaluation result for a shooter.
func (d *DB) AddEvaluation(ctx context.Context, shooterID, sessionID int64, finalScore float64, classification string) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO evaluations (shooter_id, session_id, final_score, classification) VALUES (?,?,?,?)`,
		shooterID, sessionID, finalScore, classification)
	return err
}

// Seed loads a small demo dataset: one shooter with a finished session of
// three exercises, two of them already analyzed.
func (d *DB) Seed(ctx context.Context) error {
	shooterID, err := d.CreateShooter(ctx, "demo shooter")
	if err != nil {
		return err
	}
	sessionID, err := d.CreateSession(ctx, shooterID)
	if err != nil {
		return err
	}

	type seedExercise struct {
		allocated int
		declared  int
		analyzed  bool
		inside    int
		outside   int
	}
	for i, se := range []seedExercise{
		{allocated: 10, declared: 10, analyzed: true, inside: 9, outside: 1},
		{allocated: 5, declared: 5, analyzed: true, inside: 3, outside: 0},
		{allocated: 8, declared: 0, analyzed: false},
	} {
		exID, err := d.CreateExercise(ctx, sessionID, se.allocated, se.declared)
		if err != nil {
			return err
		}
		if !se.analyzed {
			continue
		}
		if err := d.SetExerciseImage(ctx, exID, fmt.Sprintf("seed/target-%d.jpg", i+1)); err != nil {
			return err
		}
		an := seedAnalysis(se.inside, se.outside)
		if err := d.SaveAnalysis(ctx, exID, an); err != nil {
			return err
		}
	}

	for _, score := range []float64{55, 48, 61, 44, 52} {
		if err := d.AddEvaluation(ctx, shooterID, sessionID, score, "MEDIO"); err != nil {
			return err
		}
	}
	return d.FinishSession(ctx, sessionID)
}

func seedAnalysis(inside, outside int) reconcile.AnalysisSnapshot {
	return reconcile.AnalysisSnapshot{
		TotalImpacts:        inside + outside,
		FreshInside:         inside,
		FreshOutside:        outside,
		HasScoring:          true,
		TotalScore:          inside * 8,
		AverageScorePerShot: 8,
		MaxScore:            9,
		ScoreDistribution:   map[string]int{"8": inside},
		GroupDiameter:       95,
	}
}
