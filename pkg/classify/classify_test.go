package classify

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	level     Level
	evals     []Evaluation
	setCalls  int
	lastLevel Level
}

func (s *fakeStore) RecentEvaluations(_ context.Context, _ int64, limit int) ([]Evaluation, error) {
	if len(s.evals) < limit {
		return s.evals, nil
	}
	return s.evals[:limit], nil
}

func (s *fakeStore) ShooterLevel(_ context.Context, _ int64) (Level, error) {
	return s.level, nil
}

func (s *fakeStore) SetShooterLevel(_ context.Context, _ int64, level Level) error {
	s.setCalls++
	s.lastLevel = level
	return nil
}

func evalsWithScores(scores ...float64) []Evaluation {
	out := make([]Evaluation, len(scores))
	for i, sc := range scores {
		out[i] = Evaluation{
			FinalScore:     sc,
			Classification: LevelForScore(sc),
			Date:           time.Date(2026, 8, 30-i, 12, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{95, LevelExperto},
		{90, LevelExperto},
		{89.9, LevelConfiable},
		{70, LevelConfiable},
		{69.9, LevelMedio},
		{40, LevelMedio},
		{39.9, LevelRegular},
		{0, LevelRegular},
	}
	for _, c := range cases {
		if got := LevelForScore(c.score); got != c.want {
			t.Fatalf("LevelForScore(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestEvaluatePromotesOneRank(t *testing.T) {
	// 4 of 5 evaluations at MEDIO while shooter is REGULAR.
	s := &fakeStore{level: LevelRegular, evals: evalsWithScores(45, 50, 42, 60, 20)}

	d, err := New(s).Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Promoted || d.Proposed != LevelMedio {
		t.Fatalf("expected promotion to MEDIO, got %+v", d)
	}
}

func TestEvaluateNoSkipping(t *testing.T) {
	// 4 of 5 at EXPERTO while shooter is REGULAR: two ranks away, no move.
	s := &fakeStore{level: LevelRegular, evals: evalsWithScores(95, 92, 97, 91, 20)}

	d, err := New(s).Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Promoted {
		t.Fatalf("promotion must not skip ranks: %+v", d)
	}
	if d.Proposed != LevelRegular {
		t.Fatalf("proposed level should stay at current: %+v", d)
	}
}

func TestEvaluateNeverDemotes(t *testing.T) {
	// All evaluations at REGULAR while shooter is CONFIABLE.
	s := &fakeStore{level: LevelConfiable, evals: evalsWithScores(10, 20, 15, 5, 30)}

	d, err := New(s).Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Promoted || d.Proposed != LevelConfiable {
		t.Fatalf("classifier must never demote: %+v", d)
	}
}

func TestEvaluateRequiresMajority(t *testing.T) {
	// Only 3 of 5 at MEDIO.
	s := &fakeStore{level: LevelRegular, evals: evalsWithScores(45, 50, 42, 20, 10)}

	d, err := New(s).Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Promoted {
		t.Fatalf("3 of 5 must not promote: %+v", d)
	}
}

func TestEvaluateRequiresFullWindow(t *testing.T) {
	s := &fakeStore{level: LevelRegular, evals: evalsWithScores(45, 50, 42, 60)}

	d, err := New(s).Evaluate(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Promoted {
		t.Fatalf("fewer than 5 evaluations must be a no-op: %+v", d)
	}
}

func TestApplyPersistsPromotionOnly(t *testing.T) {
	promote := &fakeStore{level: LevelMedio, evals: evalsWithScores(75, 80, 72, 88, 50)}
	d, err := New(promote).Apply(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Promoted || promote.setCalls != 1 || promote.lastLevel != LevelConfiable {
		t.Fatalf("expected one persisted promotion to CONFIABLE, got %+v setCalls=%d", d, promote.setCalls)
	}

	noop := &fakeStore{level: LevelExperto, evals: evalsWithScores(95, 96, 97, 98, 99)}
	d, err = New(noop).Apply(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Promoted || noop.setCalls != 0 {
		t.Fatalf("no promotion expected at top rank, got %+v setCalls=%d", d, noop.setCalls)
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelRegular, LevelMedio, LevelConfiable, LevelExperto} {
		got, err := ParseLevel(lvl.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != lvl {
			t.Fatalf("round trip %s -> %s", lvl, got)
		}
	}
	if _, err := ParseLevel("LEGENDARY"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
