package rag

import (
	"fmt"
	"strings"
)

// groundingPrompt is the fixed instruction template for standard and detailed
// answers. It pins the section names, the citation grammar, and the
// lease-specific extraction targets.
const groundingPrompt = `You are an expert legal research assistant specializing in residential lease agreements. Your task is to provide comprehensive, well-structured answers based solely on the provided document excerpts.

## RESPONSE FORMAT REQUIREMENTS:

1. **STRUCTURE YOUR ANSWER** with clear sections using headers:
   - SUMMARY (2-3 sentences overview focusing on key lease terms)
   - KEY FINDINGS (bullet points of main lease provisions)
   - DETAILED ANALYSIS (comprehensive explanation of lease terms)
   - RELEVANT PROVISIONS (specific clauses/sections with exact text)
   - IMPLICATIONS (practical impact for tenant/landlord)

2. **CITATION FORMAT**: Every factual statement must end with (Source: [filename]:[page])
   - Use exact page numbers when available
   - If page number is missing, use (Source: [filename])
   - Never leave incomplete citations
   - Use consistent citation format throughout

3. **LEASE-SPECIFIC GUIDELINES**:
   - Always identify: lease term dates, rent amount, payment schedule, security deposit
   - Highlight: tenant obligations, landlord obligations, property details
   - Note: utilities, parking, maintenance, termination conditions
   - Include: property address, tenant/landlord names if available

4. **FORMATTING GUIDELINES**:
   - Use **bold** for emphasis on key terms
   - Use bullet points (*) consistently for all lists
   - Use numbered lists for sequential items
   - Use blockquotes (>) for direct quotes from the lease
   - Add proper line breaks between sections

5. **MARKDOWN FORMATTING**:
   - Start each section with ## HEADER
   - Add blank lines between sections
   - Use consistent bullet point style (*)
   - Ensure proper spacing around citations

## IF INFORMATION IS INSUFFICIENT:
If key lease information (rent, dates, property details) is missing, clearly state what information is available and what is missing. Do not make assumptions about missing information.

## QUESTION:
%s

## DOCUMENT EXCERPTS:
%s

Now provide a comprehensive, well-structured lease analysis following the format requirements above. Ensure proper markdown formatting with clear section separation and consistent citation style.`

// concisePrompt is the alternate template for concise answers. It injects an
// explicit length constraint instruction and a worked formatting example.
const concisePrompt = `You are an expert legal research assistant specializing in residential lease agreements. Your task is to provide a %s response to the user's question based on the provided document excerpts.

%s%s## RESPONSE FORMAT REQUIREMENTS:

1. **STRUCTURE YOUR ANSWER** with clear sections using headers:
   - SUMMARY (2-3 sentences overview focusing on key lease terms)
   - KEY FINDINGS (bullet points of main lease provisions)

2. **CITATION FORMAT**: Every factual statement must end with (Source: [filename]:[page])
   - Use exact page numbers when available
   - If page number is missing, use (Source: [filename])
   - Never leave incomplete citations

3. **MARKDOWN FORMATTING**:
   - Start each section with ## HEADER (no bold formatting)
   - Add a blank line after each section header before starting content
   - Use consistent bullet point style (*)
   - Ensure proper spacing around citations

## QUESTION:
%s

## DOCUMENT EXCERPTS:
%s

Now provide a %s, well-structured lease analysis following the format requirements above.

**FORMATTING EXAMPLE:**
` + "```" + `
## SUMMARY

This is the summary content with proper spacing.

## KEY FINDINGS

* First finding (Source: file.pdf:1)
* Second finding (Source: file.pdf:2)
` + "```"

// BuildPrompt assembles the instruction template for the generator from the
// question, the retrieved context, and the question analysis. Concise-style
// questions get the alternate template with the length constraint injected.
func BuildPrompt(question, context string, analysis Analysis) string {
	if analysis.ResponseStyle != StyleConcise {
		return fmt.Sprintf(groundingPrompt, question, context)
	}

	var lengthConstraint string
	switch {
	case analysis.WordLimit > 0:
		lengthConstraint = fmt.Sprintf("IMPORTANT: Your entire response must be %d words or fewer. Count your words carefully and stop at the limit.\n\n", analysis.WordLimit)
	case analysis.CharLimit > 0:
		lengthConstraint = fmt.Sprintf("IMPORTANT: Your entire response must be %d characters or fewer. Count your characters carefully and stop at the limit.\n\n", analysis.CharLimit)
	}

	var styleInstruction string
	if analysis.IsSummary {
		styleInstruction = "Provide a concise summary focusing on the most important lease terms. Use simple, clear language.\n\n"
	}

	style := string(analysis.ResponseStyle)
	return fmt.Sprintf(concisePrompt, style, lengthConstraint, styleInstruction, question, context, style)
}

// BuildContext concatenates retrieved chunks into the context block supplied
// to the generator, in retrieved/ranked order.
func BuildContext(chunks []Chunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		page := "Unknown"
		if chunk.Page != nil {
			page = fmt.Sprintf("%d", *chunk.Page)
		}
		blocks = append(blocks, fmt.Sprintf("Document: %s (Page: %s)\n%s", chunk.Source, page, chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// ContextTokens counts whitespace-delimited tokens across the retrieved
// chunks, reported to the caller as a rough context-size measure.
func ContextTokens(chunks []Chunk) int {
	total := 0
	for _, chunk := range chunks {
		total += len(strings.Fields(chunk.Text))
	}
	return total
}
