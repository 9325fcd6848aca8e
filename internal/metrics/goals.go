package metrics

import (
	"math"
	"time"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/store"
)

// GoalOutlook is the funding picture for one savings goal, measured against
// the profile's liquid assets.
type GoalOutlook struct {
	GoalID            string       `json:"goalId"`
	Name              string       `json:"name"`
	TargetAmount      float64      `json:"targetAmount"`
	TargetAmountCents ledger.Cents `json:"targetAmountCents"`
	TargetDate        time.Time    `json:"targetDate"`

	PercentFunded float64 `json:"percentFunded"`
	// MonthsRemaining is zero for goals whose target date has passed.
	MonthsRemaining int `json:"monthsRemaining"`
	// RequiredMonthly is the contribution needed to reach the target on
	// time. Funded goals report zero; past-due unfunded goals report the
	// whole shortfall.
	RequiredMonthly      float64      `json:"requiredMonthly"`
	RequiredMonthlyCents ledger.Cents `json:"requiredMonthlyCents"`
	OnTrack              bool         `json:"onTrack"`
}

// goalOutlooks derives the outlook for every goal of the profile, in
// snapshot order.
func (c *Calculator) goalOutlooks(snap *store.Snapshot, customerID string, liquid ledger.Cents) []GoalOutlook {
	goals := snap.GoalsFor(customerID)
	if len(goals) == 0 {
		return nil
	}
	now := c.now()

	outlooks := make([]GoalOutlook, 0, len(goals))
	for _, g := range goals {
		o := GoalOutlook{
			GoalID:            g.ID,
			Name:              g.Name,
			TargetAmount:      g.TargetAmount.Dollars(),
			TargetAmountCents: g.TargetAmount,
			TargetDate:        g.TargetDate,
			MonthsRemaining:   monthsBetween(now, g.TargetDate),
		}

		if g.TargetAmount > 0 {
			o.PercentFunded = float64(liquid) / float64(g.TargetAmount) * 100
			if o.PercentFunded > 100 {
				o.PercentFunded = 100
			}
			if o.PercentFunded < 0 {
				o.PercentFunded = 0
			}
		}

		shortfall := g.TargetAmount - liquid
		switch {
		case shortfall <= 0:
			o.OnTrack = true
		case o.MonthsRemaining == 0:
			// Past due with money still to save: the whole shortfall is
			// due now.
			o.RequiredMonthlyCents = shortfall
		default:
			o.RequiredMonthlyCents = ledger.Cents(math.Ceil(float64(shortfall) / float64(o.MonthsRemaining)))
			o.OnTrack = true
		}
		o.RequiredMonthly = o.RequiredMonthlyCents.Dollars()

		outlooks = append(outlooks, o)
	}
	return outlooks
}

// monthsBetween counts whole calendar months from now until the target
// date, never negative.
func monthsBetween(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if months < 0 {
		return 0
	}
	return months
}
