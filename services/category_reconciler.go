package services

import (
	"strings"

	"github.com/fenilmodi00/ipo-companion/models"
)

// ReconcileCategory finds the application breakup record for a subscription category.
//
// The two feeds share no identifier, so matching is a substring heuristic: both labels
// are lower-cased, one trailing "s" is stripped from the subscription category, and the
// first record whose label contains it (or is contained in it) wins. Labels sharing a
// common word can match the wrong record, e.g. "Retail" and "Retail Individual".
// Returns nil when nothing matches.
func ReconcileCategory(subscriptionCategory string, records []models.ApplicationBreakupRecord) *models.ApplicationBreakupRecord {
	needle := strings.ToLower(strings.TrimSpace(subscriptionCategory))
	needle = strings.TrimSuffix(needle, "s")
	if needle == "" {
		return nil
	}

	for i := range records {
		label := strings.ToLower(strings.TrimSpace(records[i].Category))
		if label == "" {
			continue
		}
		if strings.Contains(label, needle) || strings.Contains(needle, label) {
			return &records[i]
		}
	}

	return nil
}
