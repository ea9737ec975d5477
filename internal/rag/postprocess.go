package rag

import (
	"fmt"
	"regexp"
	"strings"
)

// sectionHeaders are the named answer sections required by the prompt
// templates. primarySectionHeaders are the ones the confidence scorer and
// quality metrics look for.
var (
	sectionHeaders        = []string{"SUMMARY", "KEY FINDINGS", "DETAILED ANALYSIS", "RELEVANT PROVISIONS", "IMPLICATIONS"}
	primarySectionHeaders = []string{"SUMMARY", "KEY FINDINGS", "DETAILED ANALYSIS"}
)

// Transform is a named pure text rewrite. Transforms run in a fixed order;
// later passes assume the normalization done by earlier ones.
type Transform struct {
	Name  string
	Apply func(string) string
}

// Pipeline returns the ordered post-processing transforms for an answer with
// the given citations. The composed pipeline is idempotent: re-applying it to
// its own output yields no further change.
func Pipeline(citations []Citation) []Transform {
	return []Transform{
		{"repair_trailing_citation", func(s string) string { return repairTrailingCitation(s, citations) }},
		{"balance_parentheses", balanceParentheses},
		{"reflow_sections", reflowSections},
		{"normalize_bullets", normalizeBullets},
		{"space_before_citations", spaceBeforeCitations},
		{"normalize_header_spacing", normalizeHeaderSpacing},
		{"collapse_blank_lines", collapseBlankLines},
		{"strip_header_emphasis", stripHeaderEmphasis},
		{"standardize_citations", standardizeCitations},
	}
}

// PostProcess applies the full rewrite pipeline to a generated answer.
// Empty input passes through unchanged; no step may fault on it.
func PostProcess(answer string, citations []Citation) string {
	if answer == "" {
		return answer
	}
	for _, t := range Pipeline(citations) {
		answer = t.Apply(answer)
	}
	return answer
}

// repairTrailingCitation completes a trailing unclosed citation opening using
// the first available citation, or a placeholder if none exist.
// Post-condition: the answer no longer ends with an opening parenthesis.
func repairTrailingCitation(answer string, citations []Citation) string {
	trimmed := strings.TrimRight(answer, " ")
	if !strings.HasSuffix(trimmed, "(") {
		return answer
	}

	base := strings.TrimRight(trimmed, "( ")
	if len(citations) == 0 {
		return base + " (citation missing)"
	}

	c := citations[0]
	if c.Page != nil {
		return fmt.Sprintf("%s (Source: %s:%d)", base, c.Source, *c.Page)
	}
	return fmt.Sprintf("%s (Source: %s)", base, c.Source)
}

// balanceParentheses appends as many closing parentheses as needed to match
// unmatched opening ones.
func balanceParentheses(answer string) string {
	diff := strings.Count(answer, "(") - strings.Count(answer, ")")
	if diff > 0 {
		answer += strings.Repeat(")", diff)
	}
	return answer
}

// reflowSections rewrites the answer line by line: blank lines are dropped,
// lines exactly matching a section-header name become a ##-header, and short
// trailing-colon lines become sub-headers. Lines already shaped as markdown
// headers pass through untouched, which keeps the pass idempotent.
func reflowSections(answer string) string {
	var out []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(line, "#"):
			out = append(out, line)
		case isSectionHeader(upper):
			clean := strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
			out = append(out, "", "## "+clean)
		case strings.HasSuffix(line, ":") && len(line) < 50 && !isSectionHeaderWithColon(upper):
			out = append(out, "", "### "+line)
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func isSectionHeader(upper string) bool {
	for _, header := range sectionHeaders {
		if upper == header {
			return true
		}
	}
	return false
}

func isSectionHeaderWithColon(upper string) bool {
	for _, header := range sectionHeaders {
		if upper == header+":" {
			return true
		}
	}
	return false
}

// normalizeBullets rewrites all bullet glyphs to a single consistent marker.
func normalizeBullets(answer string) string {
	return strings.ReplaceAll(answer, "•", "*")
}

var missingCitationSpaceRe = regexp.MustCompile(`([^\s(])\(Source:`)

// spaceBeforeCitations ensures a space precedes every citation opening marker.
func spaceBeforeCitations(answer string) string {
	return missingCitationSpaceRe.ReplaceAllString(answer, "$1 (Source:")
}

// normalizeHeaderSpacing normalizes blank-line runs around markdown headers to
// exactly one blank line before and after.
func normalizeHeaderSpacing(answer string) string {
	lines := strings.Split(answer, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ") {
			for len(out) > 0 && out[len(out)-1] == "" {
				out = out[:len(out)-1]
			}
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, line)

			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j < len(lines) {
				out = append(out, "")
			}
			i = j
			continue
		}
		out = append(out, line)
		i++
	}
	return strings.Join(out, "\n")
}

var blankLineRunRe = regexp.MustCompile(`\n{3,}`)

// collapseBlankLines collapses runs of three or more consecutive newlines to
// exactly two.
func collapseBlankLines(answer string) string {
	return blankLineRunRe.ReplaceAllString(answer, "\n\n")
}

var (
	headerEmphasisRe   = regexp.MustCompile(`(##+) \*\*([^*]+)\*\*`)
	bulletLabelColonRe = regexp.MustCompile(`\* \*\*([^*]+)\*\*:`)
	bulletLabelPlainRe = regexp.MustCompile(`\* \*\*([^*]+)\*\*`)
)

// stripHeaderEmphasis removes redundant bold markers immediately wrapping
// headers and bullet labels.
func stripHeaderEmphasis(answer string) string {
	answer = headerEmphasisRe.ReplaceAllString(answer, "$1 $2")
	answer = bulletLabelColonRe.ReplaceAllString(answer, "* $1:")
	answer = bulletLabelPlainRe.ReplaceAllString(answer, "* $1")
	return answer
}

var (
	adjacentCitationsRe = regexp.MustCompile(`\(Source:\s*([^():]+?)\s*:\s*(\d+(?:,\s*\d+)*)\s*\)\s*\(Source:\s*([^():]+?)\s*:\s*(\d+)\s*\)`)
	citationInternalRe  = regexp.MustCompile(`\(Source:\s*([^()]*?)\s*\)`)
)

// standardizeCitations merges adjacent same-file citations that differ only by
// page into one citation listing both pages, and normalizes internal spacing
// inside citation parentheses.
func standardizeCitations(answer string) string {
	answer = mergeAdjacentCitations(answer)
	answer = citationInternalRe.ReplaceAllString(answer, "(Source: $1)")
	return answer
}

// mergeAdjacentCitations repeatedly folds "(Source: f:1) (Source: f:2)" pairs
// into "(Source: f:1, 2)". Chains of three or more collapse because the first
// citation's page part may already be a comma list.
func mergeAdjacentCitations(answer string) string {
	offset := 0
	for {
		m := adjacentCitationsRe.FindStringSubmatchIndex(answer[offset:])
		if m == nil {
			return answer
		}

		file1 := answer[offset+m[2] : offset+m[3]]
		pages := answer[offset+m[4] : offset+m[5]]
		file2 := answer[offset+m[6] : offset+m[7]]
		page2 := answer[offset+m[8] : offset+m[9]]

		if file1 == file2 {
			merged := fmt.Sprintf("(Source: %s:%s, %s)", file1, pages, page2)
			answer = answer[:offset+m[0]] + merged + answer[offset+m[1]:]
			// Re-scan from the merged citation to catch chains
			continue
		}

		// Different files: step past the first citation and keep scanning
		offset += m[0] + 1
	}
}
