package rag

import "strings"

// ApplyLengthConstraints truncates an answer to the word or character limit
// the question asked for. Truncation prefers a complete-sentence ending and
// marks itself with a trailing ellipsis. Runs after post-processing, so the
// result is never re-formatted.
func ApplyLengthConstraints(answer string, analysis Analysis) string {
	if answer == "" {
		return answer
	}

	if analysis.WordLimit > 0 {
		words := strings.Fields(answer)
		if len(words) > analysis.WordLimit {
			answer = strings.Join(words[:analysis.WordLimit], " ")
			answer = preferSentenceEnding(answer)
			if !strings.HasSuffix(answer, "...") {
				answer += "..."
			}
		}
	}

	if analysis.CharLimit > 0 {
		runes := []rune(answer)
		if len(runes) > analysis.CharLimit {
			truncated := string(runes[:analysis.CharLimit])
			// Back up to a word boundary when one falls near the cut
			if idx := strings.LastIndex(truncated, " "); idx > analysis.CharLimit*4/5 {
				truncated = truncated[:idx]
			}
			answer = truncated
			if !strings.HasSuffix(answer, "...") {
				answer += "..."
			}
		}
	}

	return answer
}

// preferSentenceEnding drops a trailing sentence fragment left by word
// truncation, when at least one complete sentence remains.
func preferSentenceEnding(answer string) string {
	if strings.HasSuffix(answer, ".") || strings.HasSuffix(answer, "!") || strings.HasSuffix(answer, "?") {
		return answer
	}
	sentences := strings.Split(answer, ". ")
	if len(sentences) > 1 {
		return strings.Join(sentences[:len(sentences)-1], ". ") + "."
	}
	return answer
}
