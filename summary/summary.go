// Package summary aggregates expense slices into the monthly and yearly
// report shapes. Sums are carried in decimal so float inputs cannot drift
// below currency precision.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"expensetracker/models"
)

// Monthly computes the total, count and per-category breakdown for one
// calendar month. The breakdown is ordered by descending total, category
// ascending on ties. expenses is expected to be pre-filtered to the month
// and is returned as-is in Details.
func Monthly(userID, year, month int, expenses []models.Expense) models.MonthlySummary {
	if expenses == nil {
		expenses = []models.Expense{}
	}

	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
	}

	breakdown := make([]models.CategoryTotal, 0, len(byCategory))
	for category, sum := range byCategory {
		breakdown = append(breakdown, models.CategoryTotal{
			Category: category,
			Total:    toFloat(sum),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return models.MonthlySummary{
		UserID:            userID,
		Year:              year,
		Month:             month,
		TotalSpent:        toFloat(total),
		TotalExpenses:     len(expenses),
		CategoryBreakdown: breakdown,
		Details:           expenses,
	}
}

// Yearly computes per-month totals for one calendar year. The result always
// has twelve entries, months 1..12 in order, zero for months without
// expenses. expenses is expected to be pre-filtered to the year.
func Yearly(userID, year int, expenses []models.Expense) models.YearlySummary {
	var totals [13]decimal.Decimal
	for _, e := range expenses {
		m := int(e.CreatedAt.Month())
		totals[m] = totals[m].Add(decimal.NewFromFloat(e.Amount))
	}

	months := make([]models.MonthTotal, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, models.MonthTotal{
			Month:      m,
			TotalSpent: toFloat(totals[m]),
		})
	}

	return models.YearlySummary{UserID: userID, Year: year, Months: months}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
