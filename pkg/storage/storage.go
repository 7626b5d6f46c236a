// Package storage persists shooters, sessions, exercises, analyses and
// evaluations in SQLite, and implements the store interfaces consumed by
// the reconcile and classify packages.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/whoAngeel/proshooter-backend-sub000/pkg/classify"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS shooters (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  level       TEXT NOT NULL DEFAULT 'REGULAR',
  created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS sessions (
  id                         INTEGER PRIMARY KEY,
  shooter_id                 INTEGER NOT NULL REFERENCES shooters(id),
  started_at                 DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  finished                   INTEGER NOT NULL DEFAULT 0 CHECK (finished IN (0,1)),
  total_shots_fired          INTEGER NOT NULL DEFAULT 0,
  total_hits                 INTEGER NOT NULL DEFAULT 0,
  accuracy_percentage        REAL NOT NULL DEFAULT 0,
  total_session_score        INTEGER NOT NULL DEFAULT 0,
  average_score_per_exercise REAL NOT NULL DEFAULT 0,
  average_score_per_shot     REAL NOT NULL DEFAULT 0,
  best_shot_score            INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sessions_shooter ON sessions(shooter_id);
CREATE TABLE IF NOT EXISTS exercises (
  id                     INTEGER PRIMARY KEY,
  session_id             INTEGER NOT NULL REFERENCES sessions(id),
  allocated_ammunition   INTEGER NOT NULL DEFAULT 0,
  declared_used          INTEGER NOT NULL DEFAULT 0,
  reaction_time          REAL,
  image_path             TEXT,
  ammunition_used        INTEGER NOT NULL DEFAULT 0,
  hits                   INTEGER NOT NULL DEFAULT 0,
  accuracy_percentage    REAL NOT NULL DEFAULT 0,
  total_score            INTEGER NOT NULL DEFAULT 0,
  average_score_per_shot REAL NOT NULL DEFAULT 0,
  max_score_achieved     INTEGER NOT NULL DEFAULT 0,
  score_distribution     TEXT,
  group_diameter         REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_exercises_session ON exercises(session_id);
CREATE TABLE IF NOT EXISTS analyses (
  id                     INTEGER PRIMARY KEY,
  exercise_id            INTEGER NOT NULL REFERENCES exercises(id),
  created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  total_impacts          INTEGER NOT NULL DEFAULT 0,
  fresh_inside           INTEGER NOT NULL DEFAULT 0,
  fresh_outside          INTEGER NOT NULL DEFAULT 0,
  has_scoring            INTEGER NOT NULL DEFAULT 0 CHECK (has_scoring IN (0,1)),
  total_score            INTEGER NOT NULL DEFAULT 0,
  average_score_per_shot REAL NOT NULL DEFAULT 0,
  max_score              INTEGER NOT NULL DEFAULT 0,
  score_distribution     TEXT,
  group_diameter         REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_analyses_exercise ON analyses(exercise_id, created_at);
CREATE TABLE IF NOT EXISTS evaluations (
  id             INTEGER PRIMARY KEY,
  shooter_id     INTEGER NOT NULL REFERENCES shooters(id),
  session_id     INTEGER REFERENCES sessions(id),
  final_score    REAL NOT NULL,
  classification TEXT NOT NULL,
  evaluated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_evaluations_shooter ON evaluations(shooter_id, evaluated_at);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetExercise loads the reconciliation snapshot for one exercise.
func (d *DB) GetExercise(ctx context.Context, id int64) (reconcile.ExerciseSnapshot, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT e.id, e.session_id, s.shooter_id, e.allocated_ammunition, e.declared_used, e.reaction_time, e.image_path
FROM exercises e JOIN sessions s ON s.id = e.session_id
WHERE e.id = ?`, id)

	var (
		ex       reconcile.ExerciseSnapshot
		reaction sql.NullFloat64
		image    sql.NullString
	)
	err := row.Scan(&ex.ID, &ex.SessionID, &ex.ShooterID, &ex.Allocated, &ex.DeclaredUsed, &reaction, &image)
	if errors.Is(err, sql.ErrNoRows) {
		return reconcile.ExerciseSnapshot{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return reconcile.ExerciseSnapshot{}, err
	}
	if reaction.Valid {
		v := reaction.Float64
		ex.ReactionTime = &v
	}
	ex.HasImage = image.Valid && image.String != ""
	return ex, nil
}

// SetExerciseImage associates a target image with an exercise.
func (d *DB) SetExerciseImage(ctx context.Context, id int64, path string) error {
	res, err := d.sql.ExecContext(ctx, `UPDATE exercises SET image_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	return nil
}

// SaveAnalysis stores a new analysis snapshot for the exercise. Earlier
// analyses are kept; GetLatestAnalysis always picks the newest one.
func (d *DB) SaveAnalysis(ctx context.Context, exerciseID int64, an reconcile.AnalysisSnapshot) error {
	dist, err := encodeDistribution(an.ScoreDistribution)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `
INSERT INTO analyses (exercise_id, total_impacts, fresh_inside, fresh_outside, has_scoring,
                      total_score, average_score_per_shot, max_score, score_distribution, group_diameter)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		exerciseID, an.TotalImpacts, an.FreshInside, an.FreshOutside, boolToInt(an.HasScoring),
		an.TotalScore, an.AverageScorePerShot, an.MaxScore, dist, an.GroupDiameter)
	return err
}

// GetLatestAnalysis returns the newest analysis for the exercise, or
// found=false when none exists yet.
func (d *DB) GetLatestAnalysis(ctx context.Context, exerciseID int64) (reconcile.AnalysisSnapshot, bool, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT total_impacts, fresh_inside, fresh_outside, has_scoring,
       total_score, average_score_per_shot, max_score, score_distribution, group_diameter
FROM analyses WHERE exercise_id = ?
ORDER BY created_at DESC, id DESC LIMIT 1`, exerciseID)

	var (
		an         reconcile.AnalysisSnapshot
		hasScoring int
		dist       sql.NullString
	)
	err := row.Scan(&an.TotalImpacts, &an.FreshInside, &an.FreshOutside, &hasScoring,
		&an.TotalScore, &an.AverageScorePerShot, &an.MaxScore, &dist, &an.GroupDiameter)
	if errors.Is(err, sql.ErrNoRows) {
		return reconcile.AnalysisSnapshot{}, false, nil
	}
	if err != nil {
		return reconcile.AnalysisSnapshot{}, false, err
	}
	an.HasScoring = hasScoring == 1
	an.ScoreDistribution, err = decodeDistribution(dist)
	if err != nil {
		return reconcile.AnalysisSnapshot{}, false, err
	}
	return an, true, nil
}

// UpdateExerciseMetrics overwrites the exercise's stored metrics in one
// statement. Full overwrite, never a merge: that is what makes re-running
// a consolidation safe.
func (d *DB) UpdateExerciseMetrics(ctx context.Context, exerciseID int64, m reconcile.MetricsUpdate) error {
	dist, err := encodeDistribution(m.ScoreDistribution)
	if err != nil {
		return err
	}
	res, err := d.sql.ExecContext(ctx, `
UPDATE exercises SET
  ammunition_used = ?, hits = ?, accuracy_percentage = ?,
  total_score = ?, average_score_per_shot = ?, max_score_achieved = ?,
  score_distribution = ?, group_diameter = ?
WHERE id = ?`,
		m.AmmunitionUsed, m.Hits, m.AccuracyPercentage,
		m.TotalScore, m.AverageScorePerShot, m.MaxScoreAchieved,
		dist, m.GroupDiameter, exerciseID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}
	return nil
}

func (d *DB) ListSessionExerciseIDs(ctx context.Context, sessionID int64) ([]int64, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id FROM exercises WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListSessionMetrics loads the stored metrics of every exercise attached
// to the session, consolidated or not; unconsolidated ones contribute the
// zero values their columns default to.
func (d *DB) ListSessionMetrics(ctx context.Context, sessionID int64) ([]reconcile.MetricsUpdate, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT ammunition_used, hits, accuracy_percentage, total_score,
       average_score_per_shot, max_score_achieved, score_distribution, group_diameter
FROM exercises WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reconcile.MetricsUpdate
	for rows.Next() {
		var (
			m    reconcile.MetricsUpdate
			dist sql.NullString
		)
		if err := rows.Scan(&m.AmmunitionUsed, &m.Hits, &m.AccuracyPercentage, &m.TotalScore,
			&m.AverageScorePerShot, &m.MaxScoreAchieved, &dist, &m.GroupDiameter); err != nil {
			return nil, err
		}
		m.ScoreDistribution, err = decodeDistribution(dist)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) UpdateSessionTotals(ctx context.Context, sessionID int64, t reconcile.SessionTotals) error {
	res, err := d.sql.ExecContext(ctx, `
UPDATE sessions SET
  total_shots_fired = ?, total_hits = ?, accuracy_percentage = ?,
  total_session_score = ?, average_score_per_exercise = ?,
  average_score_per_shot = ?, best_shot_score = ?
WHERE id = ?`,
		t.TotalShotsFired, t.TotalHits, t.AccuracyPercentage,
		t.TotalSessionScore, t.AverageScorePerExercise,
		t.AverageScorePerShot, t.BestShotScore, sessionID)
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

// GetSessionTotals reads back the stored totals for one session.
func (d *DB) GetSessionTotals(ctx context.Context, sessionID int64) (reconcile.SessionTotals, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT total_shots_fired, total_hits, accuracy_percentage, total_session_score,
       average_score_per_exercise, average_score_per_shot, best_shot_score,
       (SELECT COUNT(*) FROM exercises WHERE session_id = sessions.id)
FROM sessions WHERE id = ?`, sessionID)

	var t reconcile.SessionTotals
	err := row.Scan(&t.TotalShotsFired, &t.TotalHits, &t.AccuracyPercentage, &t.TotalSessionScore,
		&t.AverageScorePerExercise, &t.AverageScorePerShot, &t.BestShotScore, &t.ExerciseCount)
	if errors.Is(err, sql.ErrNoRows) {
		return reconcile.SessionTotals{}, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	return t, err
}

// RecentEvaluations returns up to limit finished-session evaluations for
// the shooter, newest first.
func (d *DB) RecentEvaluations(ctx context.Context, shooterID int64, limit int) ([]classify.Evaluation, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT ev.final_score, ev.classification, ev.evaluated_at
FROM evaluations ev JOIN sessions s ON s.id = ev.session_id
WHERE ev.shooter_id = ? AND s.finished = 1
ORDER BY ev.evaluated_at DESC, ev.id DESC
LIMIT ?`, shooterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []classify.Evaluation
	for rows.Next() {
		var (
			e           classify.Evaluation
			class       string
			evaluatedAt string
		)
		if err := rows.Scan(&e.FinalScore, &class, &evaluatedAt); err != nil {
			return nil, err
		}
		if e.Classification, err = classify.ParseLevel(class); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse("2006-01-02 15:04:05", evaluatedAt); perr == nil {
			e.Date = t
		} else if t2, perr2 := time.Parse(time.RFC3339, evaluatedAt); perr2 == nil {
			e.Date = t2
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) ShooterLevel(ctx context.Context, shooterID int64) (classify.Level, error) {
	var level string
	err := d.sql.QueryRowContext(ctx, `SELECT level FROM shooters WHERE id = ?`, shooterID).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return classify.LevelRegular, fmt.Errorf("shooter %d: %w", shooterID, ErrNotFound)
	}
	if err != nil {
		return classify.LevelRegular, err
	}
	return classify.ParseLevel(level)
}

func (d *DB) SetShooterLevel(ctx context.Context, shooterID int64, level classify.Level) error {
	res, err := d.sql.ExecContext(ctx, `UPDATE shooters SET level = ? WHERE id = ?`, level.String(), shooterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("shooter %d: %w", shooterID, ErrNotFound)
	}
	return nil
}

type ShooterStats struct {
	ShooterID    int64
	Name         string
	Level        string
	SessionCount int
	ExerciseHits int
	AvgAccuracy  float64
}

func (d *DB) GetStats(ctx context.Context) ([]ShooterStats, error) {
	query := `
		SELECT
			sh.id,
			sh.name,
			sh.level,
			COUNT(DISTINCT s.id),
			COALESCE(SUM(s.total_hits), 0),
			COALESCE(AVG(s.accuracy_percentage), 0)
		FROM shooters sh
		LEFT JOIN sessions s ON s.shooter_id = sh.id
		GROUP BY sh.id
		ORDER BY sh.name;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ShooterStats
	for rows.Next() {
		var s ShooterStats
		if err := rows.Scan(&s.ShooterID, &s.Name, &s.Level, &s.SessionCount, &s.ExerciseHits, &s.AvgAccuracy); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func encodeDistribution(dist map[string]int) (interface{}, error) {
	if len(dist) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(dist)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeDistribution(ns sql.NullString) (map[string]int, error) {
	dist := map[string]int{}
	if !ns.Valid || ns.String == "" {
		return dist, nil
	}
	if err := json.Unmarshal([]byte(ns.String), &dist); err != nil {
		return nil, fmt.Errorf("corrupt score distribution: %w", err)
	}
	return dist, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
