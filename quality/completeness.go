package quality

import "strings"

// Markers of concrete detail versus generic hedging.
var (
	detailMarkers = []string{
		"for example", "for instance", "specifically", "in particular",
		"such as", "namely", "e.g.",
	}
	hedgeMarkers = []string{
		"generally", "often", "usually", "typically", "in general",
		"sometimes", "in some cases",
	}
)

// completenessScore blends aspect coverage (0.5), information density
// relative to the query length (0.3), and the balance of specific
// detail over generic hedging (0.2).
func completenessScore(query, response string) float64 {
	coverage := aspectCoverage(query, response)
	density := informationDensity(query, response)
	specificity := specificityBalance(response)
	return clamp01(0.5*coverage + 0.3*density + 0.2*specificity)
}

// splitAspects breaks a query into sub-clauses on conjunctions and
// commas. A query with no conjunctions is a single aspect.
func splitAspects(query string) []string {
	lower := strings.ToLower(query)
	for _, conj := range []string{" and ", " or ", " as well as ", ";"} {
		lower = strings.ReplaceAll(lower, conj, ",")
	}

	var aspects []string
	for _, part := range strings.Split(lower, ",") {
		if len(contentTerms(part)) > 0 {
			aspects = append(aspects, part)
		}
	}
	return aspects
}

// aspectCoverage is the fraction of query aspects with at least one
// content term present in the response.
func aspectCoverage(query, response string) float64 {
	aspects := splitAspects(query)
	if len(aspects) == 0 {
		return 0
	}

	responseTerms := termSet(response)
	covered := 0
	for _, aspect := range aspects {
		for _, term := range contentTerms(aspect) {
			if responseTerms[term] {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(aspects))
}

// informationDensity rewards responses substantially longer than the
// query, saturating at twice the query length.
func informationDensity(query, response string) float64 {
	queryWords := wordCount(query)
	if queryWords == 0 {
		return 0
	}
	return clamp01(float64(wordCount(response)) / float64(2*queryWords))
}

// specificityBalance scores the mix of detail markers against hedge
// markers. A response using neither is neutral.
func specificityBalance(response string) float64 {
	lower := strings.ToLower(response)
	detail := countOccurrences(lower, detailMarkers)
	hedge := countOccurrences(lower, hedgeMarkers)
	if detail+hedge == 0 {
		return 0.5
	}
	return clamp01(0.5 + 0.5*float64(detail-hedge)/float64(detail+hedge))
}

func countOccurrences(text string, markers []string) int {
	count := 0
	for _, marker := range markers {
		count += strings.Count(text, marker)
	}
	return count
}
