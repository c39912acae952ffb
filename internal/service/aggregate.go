package service

import (
	"time"

	"github.com/lifestats/lifestats/internal/model"
)

// startOfDay truncates a time to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayTotals sums entry values per metric per calendar day (UTC). Keys of the
// inner map are days since windowStart.
func dayTotals(entries []*model.MetricEntry, windowStart time.Time, days int) map[string]map[int]float64 {
	totals := make(map[string]map[int]float64)
	for _, e := range entries {
		day := int(startOfDay(e.Timestamp).Sub(windowStart).Hours() / 24)
		if day < 0 || day >= days {
			continue
		}
		if totals[e.MetricKey] == nil {
			totals[e.MetricKey] = make(map[int]float64)
		}
		totals[e.MetricKey][day] += e.Value
	}
	return totals
}

// computeWindow builds per-metric stats for the `days` calendar days ending
// today. A metric with no entries in the window gets a nil average; its goal
// evaluation still runs so max-type goals count empty days as met.
func computeWindow(entries []*model.MetricEntry, configs []*model.MetricConfig, now time.Time, days int) model.WindowStats {
	windowStart := startOfDay(now).AddDate(0, 0, -(days - 1))
	totals := dayTotals(entries, windowStart, days)

	stats := model.WindowStats{
		Days:        days,
		Averages:    make(map[string]*float64, len(configs)),
		GoalDaysMet: make(map[string]int, len(configs)),
		Completion:  make(map[string]float64, len(configs)),
	}

	for _, cfg := range configs {
		perDay := totals[cfg.MetricKey]

		if len(perDay) > 0 {
			var sum float64
			for _, v := range perDay {
				sum += v
			}
			avg := sum / float64(days)
			stats.Averages[cfg.MetricKey] = &avg
		} else {
			stats.Averages[cfg.MetricKey] = nil
		}

		if !cfg.HasGoal() {
			continue
		}

		met := 0
		for day := 0; day < days; day++ {
			if cfg.GoalMet(perDay[day]) {
				met++
			}
		}
		stats.GoalDaysMet[cfg.MetricKey] = met
		stats.Completion[cfg.MetricKey] = float64(met) / float64(days) * 100
	}

	return stats
}

// computeWeekly builds the weekly window plus per-day totals for the last 7
// calendar days, oldest first.
func computeWeekly(entries []*model.MetricEntry, configs []*model.MetricConfig, now time.Time) model.WeeklyStats {
	days := model.WindowDays[model.WindowWeekly]
	windowStart := startOfDay(now).AddDate(0, 0, -(days - 1))
	totals := dayTotals(entries, windowStart, days)

	weekly := model.WeeklyStats{
		WindowStats: computeWindow(entries, configs, now, days),
		DailyTotals: make(map[string][]float64, len(configs)),
	}

	for _, cfg := range configs {
		series := make([]float64, days)
		for day := 0; day < days; day++ {
			series[day] = totals[cfg.MetricKey][day]
		}
		weekly.DailyTotals[cfg.MetricKey] = series
	}

	return weekly
}

// computeAggregates builds the full multi-window response.
func computeAggregates(entries []*model.MetricEntry, configs []*model.MetricConfig, now time.Time) *model.AggregatedMetrics {
	return &model.AggregatedMetrics{
		Daily:       computeWindow(entries, configs, now, model.WindowDays[model.WindowDaily]),
		Weekly:      computeWeekly(entries, configs, now),
		Monthly:     computeWindow(entries, configs, now, model.WindowDays[model.WindowMonthly]),
		Quarterly:   computeWindow(entries, configs, now, model.WindowDays[model.WindowQuarterly]),
		Yearly:      computeWindow(entries, configs, now, model.WindowDays[model.WindowYearly]),
		GeneratedAt: now,
	}
}
