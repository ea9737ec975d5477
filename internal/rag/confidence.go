package rag

import "strings"

var legalTerms = []string{
	"shall", "must", "may", "required", "prohibited", "liability",
	"jurisdiction", "compliance", "enforcement", "penalty", "breach",
	"contract", "agreement",
}

var implicationIndicators = []string{
	"implication", "impact", "consequence", "result", "effect", "outcome",
}

// CalculateConfidence maps a weighted score over the answer and its citations
// to a low/medium/high label. An answer with no citations is always low,
// regardless of the other factors.
func CalculateConfidence(answer string, citations []Citation) Confidence {
	if len(citations) == 0 {
		return ConfidenceLow
	}

	score := confidenceScore(answer, citations)
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// confidenceScore combines five weighted factors: citation count, distinct
// sources, answer length, structural sections, and page-complete citations.
// Each factor saturates at its cap so no single one dominates.
func confidenceScore(answer string, citations []Citation) float64 {
	score := 0.0

	citationCount := len(citations)
	if citationCount > 3 {
		citationCount = 3
	}
	score += float64(citationCount) / 3 * 0.3

	uniqueSources := countUniqueSources(citations)
	if uniqueSources > 2 {
		uniqueSources = 2
	}
	score += float64(uniqueSources) / 2 * 0.2

	words := len(strings.Fields(answer))
	if words > 200 {
		words = 200
	}
	score += float64(words) / 200 * 0.2

	if hasStructure(answer) {
		score += 0.2
	}

	withPages := 0
	for _, c := range citations {
		if c.Page != nil {
			withPages++
		}
	}
	score += float64(withPages) / float64(len(citations)) * 0.3

	return score
}

// AssessQuality reports display-only diagnostics about the generated analysis.
// None of these feed back into the confidence score.
func AssessQuality(answer string, citations []Citation) QualityMetrics {
	lower := strings.ToLower(answer)
	return QualityMetrics{
		HasStructure:             hasStructure(answer),
		HasCitations:             len(citations) > 0,
		CitationCount:            len(citations),
		UniqueSources:            countUniqueSources(citations),
		AnswerLength:             len(answer),
		HasLegalTerms:            containsAny(lower, legalTerms),
		HasPracticalImplications: containsAny(lower, implicationIndicators),
	}
}

func hasStructure(answer string) bool {
	upper := strings.ToUpper(answer)
	for _, header := range primarySectionHeaders {
		if strings.Contains(upper, header) {
			return true
		}
	}
	return false
}

func countUniqueSources(citations []Citation) int {
	seen := make(map[string]struct{}, len(citations))
	for _, c := range citations {
		seen[c.Source] = struct{}{}
	}
	return len(seen)
}
