package quality

import "github.com/poiesic/recallit/core"

// recommendationThreshold is the sub-score below which an axis earns a
// recommendation.
const recommendationThreshold = 0.5

// recommendations derives deterministic advice from the axes that fell
// short, in a fixed order so repeated evaluations agree.
func recommendations(scores core.SubScores) []string {
	var recs []string
	if scores.Basic < recommendationThreshold {
		recs = append(recs, "mirror the query's key terms and aim for a fuller response")
	}
	if scores.Semantic < recommendationThreshold {
		recs = append(recs, "align the response more closely with the query and the retrieved material")
	}
	if scores.Relevance < recommendationThreshold {
		recs = append(recs, "make better use of retrieved source material")
	}
	if scores.Completeness < recommendationThreshold {
		recs = append(recs, "address every part of the question with concrete detail")
	}
	if scores.Coherence < recommendationThreshold {
		recs = append(recs, "add transitions and structural markers to the response")
	}
	return recs
}
