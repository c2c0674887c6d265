package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

// Rows 把一组出差转换为可以保存和输出的行，位置从 1 开始
func Rows(delegations []domain.Delegation, pricing domain.Pricing) []domain.RunDelegation {
	rows := make([]domain.RunDelegation, 0, len(delegations))
	for i, d := range delegations {
		rows = append(rows, domain.RunDelegation{
			Position:        i + 1,
			StartName:       d.Trip.StartName,
			EndName:         d.Trip.EndName,
			Kilometres:      d.Trip.Kilometres,
			DurationSeconds: d.Trip.DurationSeconds,
			Days:            d.Days,
			MealsReduction:  d.MealsReduction,
			Cost:            d.Cost(pricing),
		})
	}
	return rows
}

func Total(rows []domain.RunDelegation) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Cost
	}
	return total
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Line 输出一次出差，没有行程时长时省略 travel time
func Line(r domain.RunDelegation) string {
	line := fmt.Sprintf("cost: %.2f; start: %s; end: %s; km: %s", r.Cost, r.StartName, r.EndName, formatNumber(r.Kilometres))
	if r.DurationSeconds > 0 {
		line += fmt.Sprintf("; travel time: %d h %d min", r.DurationSeconds/3600, r.DurationSeconds%3600/60)
	}
	return line + fmt.Sprintf("; days: %d; meals: %d", r.Days, r.MealsReduction)
}

// WriteText 逐行输出每次出差，最后输出总费用
func WriteText(w io.Writer, rows []domain.RunDelegation) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, Line(r)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "TOTAL: %.2f\n", Total(rows))
	return err
}
