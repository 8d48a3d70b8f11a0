package quality

import (
	"context"
	"time"

	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// Trend summarizes quality-report history over a time window.
type Trend struct {
	Start        time.Time
	End          time.Time
	ReportCount  int
	MeanOverall  float64
	MeanScores   core.SubScores
	LevelCounts  map[core.QualityLevel]int
	Direction    float64 // Mean of the window's second half minus its first half; positive is improving
	DegradedRate float64 // Fraction of reports evaluated without the embedder
}

// TrendOverRange aggregates the reports created in [start, end).
// An empty window yields a zero-count trend, not an error.
func TrendOverRange(ctx context.Context, reports storage.ReportRepository, start, end time.Time) (*Trend, error) {
	if reports == nil {
		return nil, ErrReportRepositoryRequired
	}

	history, err := reports.GetReportsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	trend := &Trend{
		Start:       start,
		End:         end,
		ReportCount: len(history),
		LevelCounts: make(map[core.QualityLevel]int),
	}
	if len(history) == 0 {
		return trend, nil
	}

	var overall float64
	var sums core.SubScores
	degraded := 0
	for _, report := range history {
		overall += report.OverallScore
		sums.Basic += report.SubScores.Basic
		sums.Semantic += report.SubScores.Semantic
		sums.Relevance += report.SubScores.Relevance
		sums.Completeness += report.SubScores.Completeness
		sums.Coherence += report.SubScores.Coherence
		trend.LevelCounts[report.Level]++
		if report.Degraded {
			degraded++
		}
	}

	n := float64(len(history))
	trend.MeanOverall = overall / n
	trend.MeanScores = core.SubScores{
		Basic:        sums.Basic / n,
		Semantic:     sums.Semantic / n,
		Relevance:    sums.Relevance / n,
		Completeness: sums.Completeness / n,
		Coherence:    sums.Coherence / n,
	}
	trend.DegradedRate = float64(degraded) / n
	trend.Direction = direction(history)
	return trend, nil
}

// direction compares the mean overall score of the window's second
// half against its first half. Reports arrive in creation order, so a
// positive value means quality is improving.
func direction(history []*core.QualityReport) float64 {
	if len(history) < 2 {
		return 0
	}
	mid := len(history) / 2
	return mean(history[mid:]) - mean(history[:mid])
}

func mean(reports []*core.QualityReport) float64 {
	if len(reports) == 0 {
		return 0
	}
	total := 0.0
	for _, report := range reports {
		total += report.OverallScore
	}
	return total / float64(len(reports))
}
