package opendigger

import "regexp"

// * Metric file names published by OpenDigger under <base>/<owner>/<repo>/<metric>.json
const (
	MetricIssuesNew              = "issues_new"
	MetricIssuesClosed           = "issues_closed"
	MetricIssueComments          = "issue_comments"
	MetricChangeRequests         = "change_requests"
	MetricChangeRequestsAccepted = "change_requests_accepted"
	MetricChangeRequestsReviews  = "change_requests_reviews"
	MetricCodeChangeLinesAdd     = "code_change_lines_add"
	MetricCodeChangeLinesRemove  = "code_change_lines_remove"
	MetricActivity               = "activity"
	MetricActiveDatesAndTimes    = "active_dates_and_times"
)

// * Period is the granularity of a series key
type Period string

const (
	PeriodYear    Period = "year"
	PeriodQuarter Period = "quarter"
	PeriodMonth   Period = "month"
)

var (
	yearKey    = regexp.MustCompile(`^\d{4}$`)
	quarterKey = regexp.MustCompile(`^\d{4}Q[1-4]$`)
	monthKey   = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// * PeriodOf classifies a series key, ok is false for keys like "2021-10-raw"
func PeriodOf(key string) (Period, bool) {
	switch {
	case monthKey.MatchString(key):
		return PeriodMonth, true
	case quarterKey.MatchString(key):
		return PeriodQuarter, true
	case yearKey.MatchString(key):
		return PeriodYear, true
	}
	return "", false
}

// * Series holds a numeric metric keyed by period ("2023", "2023Q1", "2023-01")
type Series map[string]float64

// * HourlySeries holds 168 counters (7 days x 24 hours, Monday first) per period
type HourlySeries map[string][]int

const HoursPerWeek = 7 * 24
