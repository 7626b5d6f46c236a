// Package reconcile turns declared ammunition counts and detector-observed
// impacts into one authoritative exercise record, and rolls exercise
// metrics up into session totals.
package reconcile

import "fmt"

// ValidationStatus classifies the relation between allocated ammunition
// and detected impacts.
type ValidationStatus string

const (
	StatusPerfectMatch    ValidationStatus = "PERFECT_MATCH"
	StatusPotentialMisses ValidationStatus = "POTENTIAL_MISSES"
	StatusAssignmentError ValidationStatus = "ASSIGNMENT_ERROR"
	StatusNoAllocation    ValidationStatus = "NO_ALLOCATION"
)

// manualReviewThreshold: a mismatch larger than this many rounds flags the
// exercise for manual review.
const manualReviewThreshold = 2

// AmmunitionValidation is the reconciliation verdict for one exercise.
// A mismatch is never an error: misses and mis-declared counts are normal
// operator behavior, so disagreement surfaces as a status plus warning.
// RecommendedUsed is advisory only and never overwrites the declared count.
type AmmunitionValidation struct {
	Allocated         int
	CurrentlyUsed     int
	DetectedImpacts   int
	RecommendedUsed   int
	Status            ValidationStatus
	Warning           string
	NeedsManualReview bool
}

// ValidateAmmunition reconciles the operator-declared counts against the
// detector's impact count.
func ValidateAmmunition(allocated, currentlyUsed, detected int) AmmunitionValidation {
	v := AmmunitionValidation{
		Allocated:       allocated,
		CurrentlyUsed:   currentlyUsed,
		DetectedImpacts: detected,
	}

	switch {
	case allocated == 0:
		v.Status = StatusNoAllocation
		v.RecommendedUsed = detected
		v.Warning = "no ammunition assigned, using detected impacts as reference"
	case allocated == detected:
		v.Status = StatusPerfectMatch
		v.RecommendedUsed = detected
	case allocated > detected:
		v.Status = StatusPotentialMisses
		v.RecommendedUsed = detected
		v.Warning = fmt.Sprintf("assigned %d rounds but only %d impacts detected, possible misses", allocated, detected)
	default:
		v.Status = StatusAssignmentError
		v.RecommendedUsed = allocated
		v.Warning = fmt.Sprintf("%d impacts detected but only %d rounds assigned, review the assignment", detected, allocated)
	}

	if v.Status == StatusPotentialMisses || v.Status == StatusAssignmentError {
		diff := allocated - detected
		if diff < 0 {
			diff = -diff
		}
		v.NeedsManualReview = diff > manualReviewThreshold
	}
	return v
}
