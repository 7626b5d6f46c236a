package detection

import (
	"fmt"

	"github.com/whoAngeel/proshooter-backend-sub000/pkg/scoring"
)

// ScoredRecord carries the detector fields plus the scoring fields added
// by the engine.
type ScoredRecord struct {
	Record
	Score          int
	Zone           string
	DistancePixels float64
	DistanceRatio  float64
}

// FilterFresh returns the records whose freshness flag is set. Keeping the
// filtered slice around lets the caller merge scores back by index later.
func FilterFresh(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Fresh {
			out = append(out, r)
		}
	}
	return out
}

// ToShotCoordinates converts detector records into shot coordinates for
// the scoring engine. When onlyFresh is set, stale (covered) impacts are
// dropped. A record without center coordinates becomes (0,0) and is
// logged: one malformed detection must not invalidate the whole analysis,
// but it can distort group statistics, so it is worth noticing.
func ToShotCoordinates(records []Record, onlyFresh bool, log Logger) []scoring.ShotCoordinate {
	if log == nil {
		log = nopLogger{}
	}
	out := make([]scoring.ShotCoordinate, 0, len(records))
	for i, r := range records {
		if onlyFresh && !r.Fresh {
			continue
		}
		if !r.HasCenter {
			log.Warnf("detection %d has no center coordinates, degrading to (0,0)", i)
			out = append(out, scoring.ShotCoordinate{Confidence: r.Confidence})
			continue
		}
		out = append(out, scoring.ShotCoordinate{
			X:          r.CenterX,
			Y:          r.CenterY,
			Confidence: r.Confidence,
		})
	}
	return out
}

// MergeScores pairs each scored shot with the detector record it came
// from, by index. The records slice must be the same one the coordinates
// were built from (typically FilterFresh output).
func MergeScores(records []Record, scores []scoring.ShotScore) ([]ScoredRecord, error) {
	if len(records) != len(scores) {
		return nil, fmt.Errorf("record/score count mismatch: %d records, %d scores", len(records), len(scores))
	}
	out := make([]ScoredRecord, len(records))
	for i, r := range records {
		out[i] = ScoredRecord{
			Record:         r,
			Score:          scores[i].Score,
			Zone:           scores[i].Zone,
			DistancePixels: scores[i].DistancePixels,
			DistanceRatio:  scores[i].DistanceRatio,
		}
	}
	return out, nil
}
