package rag

import (
	"regexp"
	"strconv"
	"strings"
)

// ResponseStyle classifies the desired answer shape.
type ResponseStyle string

const (
	StyleConcise  ResponseStyle = "concise"
	StyleDetailed ResponseStyle = "detailed"
	StyleStandard ResponseStyle = "standard"
)

// Analysis describes the response shape a question asks for. Computed fresh
// per question, never persisted.
type Analysis struct {
	WordLimit     int // 0 when no limit requested
	CharLimit     int // 0 when no limit requested
	IsSummary     bool
	IsDetailed    bool
	IsSpecific    bool
	ResponseStyle ResponseStyle
}

var (
	wordLimitRe = regexp.MustCompile(`(\d+)\s*words?`)
	charLimitRe = regexp.MustCompile(`(\d+)\s*characters?`)

	summaryKeywords  = []string{"summarize", "summary", "brief", "short", "concise"}
	detailedKeywords = []string{"detailed", "comprehensive", "full", "complete"}
	specificKeywords = []string{"specific", "particular", "exact"}
)

// Analyze classifies a question's desired response shape from surface text
// patterns. This is a deterministic lexical classifier: any explicit limit or
// summary intent wins over detail intent, which wins over the standard style.
func Analyze(question string) Analysis {
	lower := strings.ToLower(question)

	a := Analysis{}

	if m := wordLimitRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.WordLimit = n
		}
	}
	if m := charLimitRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.CharLimit = n
		}
	}

	a.IsSummary = containsAny(lower, summaryKeywords)
	a.IsDetailed = containsAny(lower, detailedKeywords)
	a.IsSpecific = containsAny(lower, specificKeywords)

	switch {
	case a.WordLimit > 0 || a.CharLimit > 0 || a.IsSummary:
		a.ResponseStyle = StyleConcise
	case a.IsDetailed:
		a.ResponseStyle = StyleDetailed
	default:
		a.ResponseStyle = StyleStandard
	}

	return a
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
