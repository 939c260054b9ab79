// Package bonus computes the report-completion cash bonus.
package bonus

import "errors"

// ErrNegativeCount is returned when scheduled or reported is below zero.
var ErrNegativeCount = errors.New("bonus: counts must be non-negative")

type Tier string

const (
	TierNone       Tier = "none"
	TierMedium     Tier = "medium"
	TierMediumHigh Tier = "medium-high"
	TierHigh       Tier = "high"
)

// Per-report rates for each tier.
const (
	RateHigh       int64 = 400000
	RateMediumHigh int64 = 300000
	RateMedium     int64 = 200000
)

type threshold struct {
	minPercent float64
	tier       Tier
	rate       int64
}

// Ordered highest first; the first match wins.
var thresholds = []threshold{
	{minPercent: 70, tier: TierHigh, rate: RateHigh},
	{minPercent: 50, tier: TierMediumHigh, rate: RateMediumHigh},
	{minPercent: 30, tier: TierMedium, rate: RateMedium},
}

type Result struct {
	Scheduled  int     `json:"scheduled"`
	Reported   int     `json:"reported"`
	Percentage float64 `json:"percentage"`
	Rate       int64   `json:"rate"`
	Total      int64   `json:"total"`
	Tier       Tier    `json:"tier"`
}

// Compute maps scheduled/reported counts to a tier and payout.
// The payout is rate * reported, not a flat amount per tier.
func Compute(scheduled, reported int) (Result, error) {
	if scheduled < 0 || reported < 0 {
		return Result{}, ErrNegativeCount
	}

	res := Result{Scheduled: scheduled, Reported: reported, Tier: TierNone}
	if scheduled > 0 {
		res.Percentage = float64(reported) * 100 / float64(scheduled)
	}

	for _, th := range thresholds {
		if res.Percentage >= th.minPercent {
			res.Tier = th.tier
			res.Rate = th.rate
			break
		}
	}

	res.Total = res.Rate * int64(reported)
	return res, nil
}

// Day is one dated input row for Summarize.
type Day struct {
	Date      string
	Scheduled int
	Reported  int
}

type DayResult struct {
	Date string `json:"date"`
	Result
}

type Summary struct {
	Days           []DayResult `json:"days"`
	TotalScheduled int         `json:"total_scheduled"`
	TotalReported  int         `json:"total_reported"`
	TotalBonus     int64       `json:"total_bonus"`
}

// Summarize computes each day's bonus and the period totals.
func Summarize(days []Day) (Summary, error) {
	sum := Summary{Days: make([]DayResult, 0, len(days))}
	for _, d := range days {
		res, err := Compute(d.Scheduled, d.Reported)
		if err != nil {
			return Summary{}, err
		}
		sum.Days = append(sum.Days, DayResult{Date: d.Date, Result: res})
		sum.TotalScheduled += d.Scheduled
		sum.TotalReported += d.Reported
		sum.TotalBonus += res.Total
	}
	return sum, nil
}
