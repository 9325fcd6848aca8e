package spending

import (
	"math"
	"time"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/store"
)

// compare relates the current window total to the profile's prior windows of
// the same length. History starts at the window containing the earliest
// recorded transaction; windows with no spending inside that range count as
// zero so quiet months drag the average down rather than vanishing.
func (a *Aggregator) compare(snap *store.Snapshot, accountIDs []string, total ledger.Cents, start time.Time, month int) Comparison {
	last := a.windowTotal(snap, accountIDs, stepWindow(start, month, -1), start)

	var (
		sum   ledger.Cents
		best  ledger.Cents
		count int
	)
	if earliest, ok := snap.EarliestTransaction(accountIDs); ok {
		for cursor := alignWindow(earliest, month); cursor.Before(start); cursor = stepWindow(cursor, month, 1) {
			t := a.windowTotal(snap, accountIDs, cursor, stepWindow(cursor, month, 1))
			sum += t
			if count == 0 || t < best {
				best = t
			}
			count++
		}
	}

	cmp := Comparison{
		LastPeriod:      last.Dollars(),
		LastPeriodCents: last,
		Trend:           trendOf(total, last),
	}
	if count > 0 {
		avg := ledger.Cents(math.Round(float64(sum) / float64(count)))
		cmp.AveragePeriod = avg.Dollars()
		cmp.AveragePeriodCents = avg
		cmp.BestPeriod = best.Dollars()
		cmp.BestPeriodCents = best
	}
	if last > 0 {
		cmp.ChangeFromLastPct = float64(total-last) / float64(last) * 100
	}
	return cmp
}

// windowTotal sums regular-category debit spending for one window.
func (a *Aggregator) windowTotal(snap *store.Snapshot, accountIDs []string, start, end time.Time) ledger.Cents {
	total, _, _ := a.aggregateWindow(snap, accountIDs, start, end)
	return total
}

// alignWindow snaps a timestamp to the start of the window containing it.
func alignWindow(ts time.Time, month int) time.Time {
	ts = ts.UTC()
	if month == 0 {
		return time.Date(ts.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// stepWindow moves a window start by n windows of the configured length.
func stepWindow(start time.Time, month, n int) time.Time {
	if month == 0 {
		return start.AddDate(n, 0, 0)
	}
	return start.AddDate(0, n, 0)
}

// trendOf maps the exact cent difference to a direction. Only a zero
// difference reads as stable.
func trendOf(total, last ledger.Cents) string {
	switch {
	case total > last:
		return TrendUp
	case total < last:
		return TrendDown
	default:
		return TrendStable
	}
}

// project fills the pace fields: elapsed days, daily average and the
// straight-line projection to the end of the window. Fully elapsed windows
// project exactly their total; windows that have not started yet project
// zero.
func (a *Aggregator) project(analysis *SpendingAnalysis) {
	totalDays := daysBetween(analysis.PeriodStart, analysis.PeriodEnd)
	analysis.TotalDays = totalDays

	now := a.now().UTC()
	var elapsed int
	switch {
	case !now.Before(analysis.PeriodEnd):
		elapsed = totalDays
	case now.Before(analysis.PeriodStart):
		elapsed = 0
	default:
		elapsed = daysBetween(analysis.PeriodStart, now) + 1
	}
	analysis.ElapsedDays = elapsed
	if elapsed == 0 {
		return
	}

	daily := ledger.Cents(math.Round(float64(analysis.TotalCents) / float64(elapsed)))
	projected := ledger.Cents(math.Round(float64(analysis.TotalCents) * float64(totalDays) / float64(elapsed)))
	analysis.DailyAverage = daily.Dollars()
	analysis.DailyAverageCents = daily
	analysis.ProjectedTotal = projected.Dollars()
	analysis.ProjectedTotalCents = projected
}

// daysBetween counts whole days from a to b. Both windows and the clock are
// normalized to UTC so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
