package reconcile

import "testing"

func TestValidateAmmunition(t *testing.T) {
	cases := []struct {
		name         string
		allocated    int
		detected     int
		status       ValidationStatus
		recommended  int
		wantWarning  bool
		manualReview bool
	}{
		{"perfect match", 10, 10, StatusPerfectMatch, 10, false, false},
		{"small miss count", 10, 8, StatusPotentialMisses, 8, true, false},
		{"misses at review boundary", 10, 7, StatusPotentialMisses, 7, true, true}, // diff=3, strictly > 2
		{"misses below boundary", 10, 9, StatusPotentialMisses, 9, true, false},
		{"assignment error", 5, 9, StatusAssignmentError, 5, true, true},
		{"assignment error small", 5, 6, StatusAssignmentError, 5, true, false},
		{"no allocation", 0, 6, StatusNoAllocation, 6, true, false},
		{"no allocation no impacts", 0, 0, StatusNoAllocation, 0, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ValidateAmmunition(c.allocated, c.allocated, c.detected)
			if got.Status != c.status {
				t.Fatalf("status = %s, want %s", got.Status, c.status)
			}
			if got.RecommendedUsed != c.recommended {
				t.Fatalf("recommended = %d, want %d", got.RecommendedUsed, c.recommended)
			}
			if (got.Warning != "") != c.wantWarning {
				t.Fatalf("warning = %q, wantWarning=%v", got.Warning, c.wantWarning)
			}
			if got.NeedsManualReview != c.manualReview {
				t.Fatalf("needsManualReview = %v, want %v", got.NeedsManualReview, c.manualReview)
			}
			if got.Allocated != c.allocated || got.DetectedImpacts != c.detected {
				t.Fatalf("input counts not echoed back: %+v", got)
			}
		})
	}
}

func TestValidateAmmunitionManualReviewOnlyOnMismatch(t *testing.T) {
	// NO_ALLOCATION never needs manual review, however large the count.
	if got := ValidateAmmunition(0, 0, 50); got.NeedsManualReview {
		t.Fatal("NO_ALLOCATION must not flag manual review")
	}
	if got := ValidateAmmunition(10, 10, 10); got.NeedsManualReview {
		t.Fatal("PERFECT_MATCH must not flag manual review")
	}
}
