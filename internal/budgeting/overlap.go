package budgeting

import "github.com/IKER-Finance/iker-finance-backend-sub000/internal/models"

// Overlaps reports whether two budgets compete for the same spending: same user and
// category, both active, and intersecting closed windows.
func Overlaps(a, b *models.Budget) bool {
	if a.UserID != b.UserID || a.CategoryID != b.CategoryID {
		return false
	}
	if !a.IsActive || !b.IsActive {
		return false
	}
	return !a.StartDate.After(b.EndDate) && !b.StartDate.After(a.EndDate)
}

// ConflictingBudget returns the first budget in existing that candidate overlaps, or
// nil. The candidate itself (same ID) is skipped, as is any budget on either side
// that allows overlap.
//
// This is a pure check. Callers that need it to hold across concurrent writers must
// run it and the write under the same lock or database transaction.
func ConflictingBudget(candidate *models.Budget, existing []models.Budget) *models.Budget {
	if candidate.AllowOverlap {
		return nil
	}
	for i := range existing {
		other := &existing[i]
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if other.AllowOverlap {
			continue
		}
		if Overlaps(candidate, other) {
			return other
		}
	}
	return nil
}

// HasOverlap reports whether candidate conflicts with any budget in existing.
func HasOverlap(candidate *models.Budget, existing []models.Budget) bool {
	return ConflictingBudget(candidate, existing) != nil
}
