package quality

import "strings"

// Interrogative markers that imply the response should explain, not
// just mention.
var questionWords = []string{"what", "how", "why"}

// Explanatory phrases that satisfy a question-form query.
var explanatoryMarkers = []string{
	" is ", " are ", " means ", " refers to ", " because ",
	" defined as ", " consists of ", " works by ", " due to ",
	" the view ", " the idea ", " describes ",
}

// relevanceScore blends three signals: how much of the query the
// response echoes (0.4), whether a question-form query gets
// explanatory language back (0.3), and how much of the retrieved
// documents' vocabulary the response reuses (0.3).
func relevanceScore(query, response string, docs []string) float64 {
	echo := overlapFraction(query, response)
	qa := questionAnswerScore(query, response)
	utilization := sourceUtilization(response, docs)
	return clamp01(0.4*echo + 0.3*qa + 0.3*utilization)
}

// questionAnswerScore checks that a what/how/why query is answered
// with explanatory language. Non-question queries score neutral.
func questionAnswerScore(query, response string) float64 {
	lowerQuery := " " + strings.ToLower(query) + " "
	isQuestion := false
	for _, word := range questionWords {
		if strings.Contains(lowerQuery, " "+word+" ") || strings.HasPrefix(strings.TrimSpace(strings.ToLower(query)), word) {
			isQuestion = true
			break
		}
	}
	if !isQuestion {
		return 0.5
	}

	lowerResponse := " " + strings.ToLower(response) + " "
	for _, marker := range explanatoryMarkers {
		if strings.Contains(lowerResponse, marker) {
			return 1.0
		}
	}
	return 0.0
}

// sourceUtilization returns the fraction of the retrieved documents'
// vocabulary reused in the response. No documents scores neutral: the
// response cannot be penalized for sources it never had.
func sourceUtilization(response string, docs []string) float64 {
	if len(docs) == 0 {
		return 0.5
	}

	vocabulary := make(map[string]bool)
	for _, doc := range docs {
		for _, term := range contentTerms(doc) {
			vocabulary[term] = true
		}
	}
	if len(vocabulary) == 0 {
		return 0.5
	}

	responseTerms := termSet(response)
	reused := 0
	for term := range vocabulary {
		if responseTerms[term] {
			reused++
		}
	}
	return float64(reused) / float64(len(vocabulary))
}
