package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recallit/core"
)

func makeReport(query, response string, score float64, createdAt time.Time) *core.QualityReport {
	return &core.QualityReport{
		Query:        query,
		Response:     response,
		OverallScore: score,
		Level:        core.LevelForScore(score),
		SubScores: core.SubScores{
			Basic:        score,
			Semantic:     score,
			Relevance:    score,
			Completeness: score,
			Coherence:    score,
		},
		CreatedAt: createdAt,
	}
}

func TestReportAppendAndGet(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	report := makeReport("what is platonism?", "A view about abstract objects.", 0.75, now)
	stored, err := repos.Reports.AppendReport(ctx, report)
	if err != nil {
		t.Fatalf("Failed to append report: %v", err)
	}
	if stored.Id == 0 {
		t.Fatal("Expected non-zero report ID")
	}

	results, err := repos.Reports.GetRecentReports(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get recent reports: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(results))
	}
	if results[0].Query != report.Query {
		t.Fatalf("Expected query %q, got %q", report.Query, results[0].Query)
	}
	if results[0].Level != core.QualityGood {
		t.Fatalf("Expected level good, got %s", results[0].Level)
	}
}

func TestReportDateRange(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	reports := []*core.QualityReport{
		makeReport("q1", "r1", 0.5, now.Add(-2*time.Hour)),
		makeReport("q2", "r2", 0.6, now.Add(-1*time.Hour)),
		makeReport("q3", "r3", 0.7, now),
	}
	for _, report := range reports {
		if _, err := repos.Reports.AppendReport(ctx, report); err != nil {
			t.Fatalf("Failed to append report: %v", err)
		}
	}

	results, err := repos.Reports.GetReportsByDateRange(ctx, now.Add(-90*time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Failed to get reports by date range: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(results))
	}
	if results[0].Query != "q2" || results[1].Query != "q3" {
		t.Fatalf("Expected chronological order q2, q3, got %s, %s", results[0].Query, results[1].Query)
	}
}

func TestReportRecentOrderAndLimit(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 5; i++ {
		report := makeReport(
			"query", "response "+string(rune('a'+i)),
			0.5, now.Add(time.Duration(i)*time.Minute),
		)
		if _, err := repos.Reports.AppendReport(ctx, report); err != nil {
			t.Fatalf("Failed to append report: %v", err)
		}
	}

	results, err := repos.Reports.GetRecentReports(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get recent reports: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(results))
	}
	if results[0].Response != "response e" {
		t.Fatalf("Expected newest report first, got %q", results[0].Response)
	}
	if !results[0].CreatedAt.After(results[1].CreatedAt) {
		t.Fatal("Expected reports in newest-first order")
	}
}

func TestReportRepeatedPairOverwrites(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := makeReport("same query", "same response", 0.4, now.Add(-time.Hour))
	if _, err := repos.Reports.AppendReport(ctx, first); err != nil {
		t.Fatalf("Failed to append report: %v", err)
	}
	second := makeReport("same query", "same response", 0.9, now)
	if _, err := repos.Reports.AppendReport(ctx, second); err != nil {
		t.Fatalf("Failed to re-append report: %v", err)
	}

	results, err := repos.Reports.GetRecentReports(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get recent reports: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 report after overwrite, got %d", len(results))
	}
	if results[0].OverallScore != 0.9 {
		t.Fatalf("Expected latest score 0.9, got %f", results[0].OverallScore)
	}
}
