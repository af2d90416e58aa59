// Package report derives period metrics and chart-ready aggregates from the
// full transaction list. Computation is pure: "now" is an explicit parameter
// so snapshots are reproducible.
package report

import (
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

type (
	// CategoryAmount is one slice of the proportional breakdown chart.
	CategoryAmount struct {
		Name   string     `json:"name"`
		Amount core.Money `json:"amount"`
	}

	// DailyAmount is one bar of the daily trend chart. Day is 1-based.
	DailyAmount struct {
		Day    int        `json:"day"`
		Amount core.Money `json:"amount"`
	}

	// Snapshot is a consistent view of the current reporting period.
	Snapshot struct {
		Year  int `json:"year"`
		Month int `json:"month"` // 1-12

		CurrentExpense core.Money `json:"currentExpense"`
		CurrentIncome  core.Money `json:"currentIncome"`
		LastExpense    core.Money `json:"lastExpense"`
		LastIncome     core.Money `json:"lastIncome"`

		// Signed relative change vs the prior month. A prior-period total of
		// zero yields +1 when spending appeared and 0 otherwise.
		ExpenseChange float64 `json:"expenseChange"`
		IncomeChange  float64 `json:"incomeChange"`

		// Current-month expense totals grouped by category, insertion-ordered
		// by first occurrence in the (date-descending) transaction list.
		// Empty when there is no data: consumers render a "no data" state.
		ByCategory []CategoryAmount `json:"byCategory"`

		// Dense per-calendar-day expense sums for the whole current month,
		// one entry per day 1..len, zero-filled.
		ByDay []DailyAmount `json:"byDay"`
	}
)

// Compute derives a Snapshot from the full transaction list at the given
// instant. Transactions with a zero date are excluded from period subsets
// but never fail the computation.
func Compute(now time.Time, txs []core.Transaction) Snapshot {
	curYear, curMonth := now.Year(), now.Month()
	lastYear, lastMonth := curYear, curMonth-1
	if lastMonth < time.January {
		lastMonth = time.December
		lastYear--
	}

	snap := Snapshot{Year: curYear, Month: int(curMonth)}

	var current, last []core.Transaction
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		y, m := tx.Date.Year(), tx.Date.Month()
		switch {
		case y == curYear && m == curMonth:
			current = append(current, tx)
		case y == lastYear && m == lastMonth:
			last = append(last, tx)
		}
	}

	for _, tx := range current {
		if tx.Type == core.Expense {
			snap.CurrentExpense.Cents += tx.Amount.Cents
		} else {
			snap.CurrentIncome.Cents += tx.Amount.Cents
		}
	}
	for _, tx := range last {
		if tx.Type == core.Expense {
			snap.LastExpense.Cents += tx.Amount.Cents
		} else {
			snap.LastIncome.Cents += tx.Amount.Cents
		}
	}

	snap.ExpenseChange = changeRatio(snap.CurrentExpense.Cents, snap.LastExpense.Cents)
	snap.IncomeChange = changeRatio(snap.CurrentIncome.Cents, snap.LastIncome.Cents)

	snap.ByCategory = categoryAggregate(current)
	snap.ByDay = dailyAggregate(now, current)

	return snap
}

// changeRatio implements the zero-denominator rule: new spending where there
// was none counts as a 100% increase, nothing-to-nothing is no change.
func changeRatio(current, last int64) float64 {
	if last == 0 {
		if current > 0 {
			return 1
		}
		return 0
	}
	return float64(current-last) / float64(last)
}

func categoryAggregate(current []core.Transaction) []CategoryAmount {
	var out []CategoryAmount
	index := make(map[string]int)
	for _, tx := range current {
		if tx.Type != core.Expense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}
		out[i].Amount.Cents += tx.Amount.Cents
	}
	return out
}

// dailyAggregate always spans the full month, including days "now" has not
// reached yet; days without transactions contribute zero.
func dailyAggregate(now time.Time, current []core.Transaction) []DailyAmount {
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	out := make([]DailyAmount, daysInMonth)
	for i := range out {
		out[i].Day = i + 1
	}
	for _, tx := range current {
		if tx.Type != core.Expense {
			continue
		}
		d := tx.Date.Day()
		if d >= 1 && d <= daysInMonth {
			out[d-1].Amount.Cents += tx.Amount.Cents
		}
	}
	return out
}
