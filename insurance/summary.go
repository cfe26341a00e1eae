package insurance

import (
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/warp/insurance-dashboard/chart"
)

// PremiumSummary is the headline of one tab: the latest premium and how it
// moved since the previous one.
type PremiumSummary struct {
	LatestDate      string `json:"latest_date,omitempty"`
	LatestPremium   string `json:"latest_premium,omitempty"`
	PreviousPremium string `json:"previous_premium,omitempty"`
	Change          string `json:"change,omitempty"`
	Claims          int    `json:"claims"`
	Periods         int    `json:"periods"`
}

// Summary covers both tabs. A nil entry means the tab's data is unavailable.
type Summary struct {
	Currency string          `json:"currency"`
	Home     *PremiumSummary `json:"home,omitempty"`
	Auto     *PremiumSummary `json:"auto,omitempty"`
}

// summarize reduces a premium series to its latest two dates.
func summarize(pts []chart.Point, currency string) *PremiumSummary {
	s := &PremiumSummary{Periods: len(pts)}
	if len(pts) == 0 {
		return s
	}
	sorted := append([]chart.Point(nil), pts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X.Before(sorted[j].X) })

	latest := sorted[len(sorted)-1]
	s.LatestDate = latest.X.Format("2006-01-02")
	s.LatestPremium = formatMoney(latest.Y, currency)
	if len(sorted) > 1 {
		prev := sorted[len(sorted)-2]
		s.PreviousPremium = formatMoney(prev.Y, currency)
		s.Change = formatMoney(latest.Y.Sub(prev.Y), currency)
	}
	return s
}

// formatMoney renders an amount in the currency's minor units, e.g. $1,250.00.
func formatMoney(d decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		code = money.USD
		cur = money.GetCurrency(code)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// totalSeriesOf picks the premium series used for the headline: the single
// Premium series, or the sum per date when premiums are split by insurer.
func totalSeriesOf(c *chart.Chart) []chart.Point {
	if s, ok := c.Find(totalSeries); ok {
		return s.Points
	}
	if s, ok := c.Find(premiumTrace); ok {
		return s.Points
	}
	if len(c.Panels) == 0 {
		return nil
	}
	byDate := make(map[string]chart.Point)
	var order []string
	for _, s := range c.Panels[0].Series {
		for _, p := range s.Points {
			k := p.X.Format("2006-01-02")
			acc, ok := byDate[k]
			if !ok {
				order = append(order, k)
				acc = chart.Point{X: p.X, Y: decimal.Zero}
			}
			acc.Y = acc.Y.Add(p.Y)
			byDate[k] = acc
		}
	}
	out := make([]chart.Point, 0, len(order))
	for _, k := range order {
		out = append(out, byDate[k])
	}
	return out
}
