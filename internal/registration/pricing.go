package registration

import (
	"math"
	"time"
)

// ComputeUpgradeCredit is the amount owed when switching from cur to a more
// expensive package priced at newPrice. The member is credited the unused,
// time-prorated value of the package being abandoned:
//
//	totalDays      = ceil(endDate - startDate)
//	usedDays       = max(0, floor(now - startDate))
//	remainingValue = currentPrice - (currentPrice/totalDays) * usedDays
//	credit         = max(0, newPrice - remainingValue)
//
// The floor at zero guards against a negative charge when remainingValue
// exceeds newPrice.
func ComputeUpgradeCredit(newPrice float64, cur *PackageRegistration, now time.Time) float64 {
	start := cur.EffectiveStart()

	var end time.Time
	if cur.EndDate != nil {
		end = *cur.EndDate
	} else {
		// No end date means nothing has been consumed against a bounded term;
		// the full current price is credited.
		return math.Max(0, newPrice-cur.CurrentPrice())
	}

	totalDays := math.Ceil(end.Sub(start).Hours() / 24)
	if totalDays < 1 {
		totalDays = 1
	}

	usedDays := math.Floor(now.Sub(start).Hours() / 24)
	if usedDays < 0 {
		usedDays = 0
	}

	currentPrice := cur.CurrentPrice()
	dailyRate := currentPrice / totalDays
	remainingValue := currentPrice - dailyRate*usedDays

	credit := newPrice - remainingValue
	if credit < 0 {
		return 0
	}
	return credit
}
