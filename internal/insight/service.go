// Package insight implements the repository insight lookups served by the
// /api/insight endpoints. Each lookup reshapes one or more OpenDigger series.
package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/metrics"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/opendigger"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
)

// Lookup names, used as metric labels and snapshot keys.
const (
	LookupIssue               = "issue"
	LookupPR                  = "pr"
	LookupCodeFrequency       = "code_frequency"
	LookupActivity            = "activity"
	LookupActiveDatesAndTimes = "active_dates_and_times"
)

// Lookups lists every lookup name in endpoint order.
var Lookups = []string{LookupIssue, LookupPR, LookupCodeFrequency, LookupActivity, LookupActiveDatesAndTimes}

var (
	issueMetrics = []labelled{
		{opendigger.MetricIssuesNew, "open"},
		{opendigger.MetricIssuesClosed, "close"},
		{opendigger.MetricIssueComments, "comment"},
	}
	prMetrics = []labelled{
		{opendigger.MetricChangeRequests, "open"},
		{opendigger.MetricChangeRequestsAccepted, "merge"},
		{opendigger.MetricChangeRequestsReviews, "reviews"},
	}
)

// * Source is the upstream metrics dataset, satisfied by *opendigger.Client
type Source interface {
	GetSeries(ctx context.Context, repoName, metric string) (opendigger.Series, error)
	GetHourlySeries(ctx context.Context, repoName, metric string) (opendigger.HourlySeries, error)
}

type Service struct {
	source   Source
	recorder metrics.Recorder
}

func NewService(source Source, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Service{source: source, recorder: recorder}
}

func (s *Service) GetIssueData(ctx context.Context, repoName string) (any, error) {
	return s.periodData(ctx, LookupIssue, repoName, issueMetrics)
}

func (s *Service) GetPRData(ctx context.Context, repoName string) (any, error) {
	return s.periodData(ctx, LookupPR, repoName, prMetrics)
}

// * GetCodeFrequency returns monthly added and removed lines, removals negated
func (s *Service) GetCodeFrequency(ctx context.Context, repoName string) (result any, err error) {
	defer s.observe(LookupCodeFrequency, time.Now(), &err)

	series, err := s.fetchAll(ctx, repoName, []labelled{
		{opendigger.MetricCodeChangeLinesAdd, "add"},
		{opendigger.MetricCodeChangeLinesRemove, "remove"},
	})
	if err != nil {
		return nil, err
	}

	points := []Point{}
	for _, lm := range []string{"add", "remove"} {
		sign := 1.0
		if lm == "remove" {
			sign = -1
		}
		for date, v := range series[lm] {
			if p, _ := opendigger.PeriodOf(date); p != opendigger.PeriodMonth {
				continue
			}
			points = append(points, Point{Date: date, Type: lm, Value: sign * v})
		}
	}
	sortPoints(points, []string{"add", "remove"})

	return points, nil
}

func (s *Service) GetActivityData(ctx context.Context, repoName string) (result any, err error) {
	defer s.observe(LookupActivity, time.Now(), &err)

	series, err := s.source.GetSeries(ctx, repoName, opendigger.MetricActivity)
	if err != nil {
		return nil, err
	}

	points := []Point{}
	for date, v := range series {
		if p, _ := opendigger.PeriodOf(date); p == opendigger.PeriodMonth {
			points = append(points, Point{Date: date, Value: v})
		}
	}
	sortPoints(points, nil)

	return points, nil
}

// GetActiveDatesAndTimes returns the weekday/hour heatmap of the most recent
// year. When the yearly entry is missing the monthly entries of that year are
// summed instead.
func (s *Service) GetActiveDatesAndTimes(ctx context.Context, repoName string) (result any, err error) {
	defer s.observe(LookupActiveDatesAndTimes, time.Now(), &err)

	series, err := s.source.GetHourlySeries(ctx, repoName, opendigger.MetricActiveDatesAndTimes)
	if err != nil {
		return nil, err
	}

	latest := ""
	for key := range series {
		if p, ok := opendigger.PeriodOf(key); !ok || p == opendigger.PeriodQuarter {
			continue
		}
		if year := key[:4]; year > latest {
			latest = year
		}
	}
	if latest == "" {
		return nil, errors.NewKind(
			errors.KindNotFound,
			"METRIC_EMPTY",
			"No active dates and times recorded",
			fmt.Sprintf("OpenDigger has no %s entries for %s", opendigger.MetricActiveDatesAndTimes, repoName),
			nil,
			errors.LevelInfo,
		)
	}

	totals := make([]int, opendigger.HoursPerWeek)
	if yearly, ok := series[latest]; ok {
		copy(totals, yearly)
	} else {
		for key, counters := range series {
			if p, _ := opendigger.PeriodOf(key); p == opendigger.PeriodMonth && strings.HasPrefix(key, latest) {
				for i, c := range counters {
					totals[i] += c
				}
			}
		}
	}

	cells := make([]HeatCell, 0, opendigger.HoursPerWeek)
	for i, v := range totals {
		cells = append(cells, HeatCell{Day: i/24 + 1, Hour: i % 24, Value: v})
	}

	return ActiveDatesAndTimes{Year: latest, Cells: cells}, nil
}

// * Lookup dispatches by lookup name, used by the snapshot refresher
func (s *Service) Lookup(ctx context.Context, name, repoName string) (any, error) {
	switch name {
	case LookupIssue:
		return s.GetIssueData(ctx, repoName)
	case LookupPR:
		return s.GetPRData(ctx, repoName)
	case LookupCodeFrequency:
		return s.GetCodeFrequency(ctx, repoName)
	case LookupActivity:
		return s.GetActivityData(ctx, repoName)
	case LookupActiveDatesAndTimes:
		return s.GetActiveDatesAndTimes(ctx, repoName)
	}
	return nil, errors.NewKind(
		errors.KindInvalidInput,
		"UNKNOWN_LOOKUP",
		"Unknown insight metric",
		fmt.Sprintf("'%s' is not one of %s", name, strings.Join(Lookups, ", ")),
		nil,
		errors.LevelInfo,
	)
}

func (s *Service) periodData(ctx context.Context, lookup, repoName string, sources []labelled) (result any, err error) {
	defer s.observe(lookup, time.Now(), &err)

	series, err := s.fetchAll(ctx, repoName, sources)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(sources))
	data := PeriodData{Year: []Point{}, Quarter: []Point{}, Month: []Point{}}
	for i, src := range sources {
		order[i] = src.label
		for date, v := range series[src.label] {
			period, ok := opendigger.PeriodOf(date)
			if !ok {
				continue
			}
			p := Point{Date: date, Type: src.label, Value: v}
			switch period {
			case opendigger.PeriodYear:
				data.Year = append(data.Year, p)
			case opendigger.PeriodQuarter:
				data.Quarter = append(data.Quarter, p)
			case opendigger.PeriodMonth:
				data.Month = append(data.Month, p)
			}
		}
	}

	sortPoints(data.Year, order)
	sortPoints(data.Quarter, order)
	sortPoints(data.Month, order)

	return data, nil
}

// fetchAll fetches the series concurrently, keyed by label. The first error
// cancels the remaining requests.
func (s *Service) fetchAll(ctx context.Context, repoName string, sources []labelled) (map[string]opendigger.Series, error) {
	results := make([]opendigger.Series, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			series, err := s.source.GetSeries(gctx, repoName, src.metric)
			if err != nil {
				return err
			}
			results[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]opendigger.Series, len(sources))
	for i, src := range sources {
		out[src.label] = results[i]
	}
	return out, nil
}

func (s *Service) observe(lookup string, start time.Time, errp *error) {
	outcome := metrics.OutcomeSuccess
	if *errp != nil {
		outcome = string(errors.KindOf(*errp))
	}
	s.recorder.ObserveLookup(lookup, time.Since(start), outcome)
}

// sortPoints orders by date, then by the position of the type in order.
func sortPoints(points []Point, order []string) {
	rank := make(map[string]int, len(order))
	for i, t := range order {
		rank[t] = i
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return rank[points[i].Type] < rank[points[j].Type]
	})
}
