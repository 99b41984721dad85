// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package qa answers free-text questions over a previously produced
// summary. Answers are built only from lines of the existing summary,
// never from new claims, and every citation is restricted to the
// caller-provided scope: a canvas-level summary queried with a narrower
// selection must not leak evidence from outside the selection.
package qa

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/canvas-engine/internal/synthesis"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

// ScopeFallbackLine is emitted when an intent matched but no summary
// line did.
const ScopeFallbackLine = "Not enough information for this scope."

// NoAnswerLine is the residual fallback when intent handling produced
// no lines at all.
const NoAnswerLine = "Not enough information in the current scope to answer."

// CapabilitiesLine is the default response for questions matching no
// intent.
const CapabilitiesLine = "I can answer questions about goals, decisions, constraints, gaps, where to start, or condense and expand the summary."

// fallbackCiteCap bounds how many scope block IDs a fallback line cites.
const fallbackCiteCap = 2

// Response is the answer to one question: bullet lines with trailing
// citation numbers, plus the exchange's own citation table renumbered
// from 1.
type Response struct {
	Answer    string           `json:"answer" yaml:"answer"`
	Citations []types.Citation `json:"citations" yaml:"citations"`
}

// intent is one recognized question category. Intents are checked in
// declaration order; the first whose phrases match wins.
type intent struct {
	name string

	// phrases match against the question text.
	phrases []string

	// selectors match against summary lines. Empty selectors mean the
	// intent reuses the summary's leading lines, which open with the
	// "about" section.
	selectors []string

	// refine narrows a merged line to the segments (and their evidence)
	// matching these keywords. Empty means no sub-line attribution.
	refine []string

	// cap bounds the number of answer lines.
	cap int
}

var intents = []intent{
	{
		name:    "goal",
		phrases: []string{"goal", "purpose", "objective", "aim", "trying to", "why does"},
		cap:     2,
	},
	{
		name:    "about",
		phrases: []string{"about", "what is this", "what is it", "overview", "topic", "theme"},
		cap:     3,
	},
	{
		name:      "decisions",
		phrases:   []string{"decision", "decide", "decided", "agreed", "chosen"},
		selectors: []string{"decision", "tension", "decided", "agreed"},
		refine:    []string{"decision", "decided", "agreed", "chosen"},
		cap:       3,
	},
	{
		name:      "constraints",
		phrases:   []string{"constraint", "assumption", "limit", "requirement", "must"},
		selectors: []string{"constraint", "must", "require", "limit", "cannot", "compliance"},
		refine:    []string{"constraint", "must", "require", "limit", "cannot", "compliance"},
		cap:       3,
	},
	{
		name:      "start",
		phrases:   []string{"start", "begin", "first", "which block", "where do i", "read next"},
		selectors: []string{"start with block"},
		cap:       3,
	},
	{
		name:      "gaps",
		phrases:   []string{"missing", "gap", "not covered", "unknown", "lack", "unanswered"},
		selectors: []string{"open question", "uncertain", "not sure", "?", "unknown", "tbd"},
		cap:       3,
	},
	{
		name:    "shorten",
		phrases: []string{"shorten", "condense", "tl;dr", "brief", "shorter"},
		cap:     2,
	},
	{
		name:    "expand",
		phrases: []string{"expand", "rephrase", "elaborate", "more detail", "longer"},
		cap:     8,
	},
}

// qaLine is one reconstructed summary line with scope-filtered evidence.
type qaLine struct {
	text     string
	blockIDs []string
}

// citeMarkerRe strips the trailing citation marker from a rendered line.
var citeMarkerRe = regexp.MustCompile(`\s*\[\d+\]$`)

// Answer answers a question using only the given summary's text, spans,
// and citation table, restricted to scopeIDs. It never fails: an empty
// question yields an empty response, a question matching no intent
// yields the capabilities line, and an intent with no matching lines
// yields a fixed fallback attributed to at most two scope blocks.
// Citation numbers are assigned by a fresh registry, so they are
// self-contained and start from 1 regardless of the summary's own
// numbering.
func Answer(question string, scopeIDs []string, summary *types.Summary) Response {
	if strings.TrimSpace(question) == "" || summary == nil {
		return Response{}
	}

	lines := reconstruct(summary, scopeIDs)
	selected := route(question, lines, scopeIDs)

	if len(selected) == 0 {
		selected = []qaLine{{text: NoAnswerLine, blockIDs: headIDs(scopeIDs, fallbackCiteCap)}}
	}

	return renderAnswer(selected)
}

// reconstruct maps each spanned line of the summary back to its text
// and evidence block IDs, filtered to scope. Lines with no in-scope
// evidence are dropped: they cannot be cited without leaking.
func reconstruct(summary *types.Summary, scopeIDs []string) []qaLine {
	inScope := make(map[string]bool, len(scopeIDs))
	for _, id := range scopeIDs {
		inScope[id] = true
	}

	byNumber := make(map[int][]string, len(summary.Citations))
	for _, c := range summary.Citations {
		byNumber[c.N] = c.BlockIDs
	}

	var lines []qaLine
	for _, sp := range summary.Spans {
		if sp.Start < 0 || sp.End > len(summary.Text) || sp.Start >= sp.End {
			continue
		}
		text := summary.Text[sp.Start:sp.End]
		text = strings.TrimPrefix(text, "- ")
		text = citeMarkerRe.ReplaceAllString(text, "")

		var ids []string
		for _, n := range sp.Citations {
			for _, id := range byNumber[n] {
				if inScope[id] {
					ids = append(ids, id)
				}
			}
		}
		if len(ids) == 0 {
			continue
		}
		lines = append(lines, qaLine{text: text, blockIDs: ids})
	}
	return lines
}

// route classifies the question and selects answer lines for the
// matched intent. An intent with no matching lines yields the scope
// fallback attributed to the leading scope IDs, even when the scope
// excludes every cited block. Questions matching no intent get the
// capabilities line cited to at most one in-scope block.
func route(question string, lines []qaLine, scopeIDs []string) []qaLine {
	q := strings.ToLower(question)

	for _, in := range intents {
		if !matchesAny(q, in.phrases) {
			continue
		}
		selected := selectLines(in, lines)
		if len(selected) == 0 {
			return []qaLine{{text: ScopeFallbackLine, blockIDs: headIDs(scopeIDs, fallbackCiteCap)}}
		}
		return selected
	}

	return []qaLine{{text: CapabilitiesLine, blockIDs: headLineIDs(lines, 1)}}
}

// selectLines picks lines for one intent. Keyword intents match line
// text against selectors and optionally refine merged lines to the
// matching segments; selector-less intents take the leading lines.
func selectLines(in intent, lines []qaLine) []qaLine {
	var selected []qaLine
	for _, ln := range lines {
		if len(selected) >= in.cap {
			break
		}
		if len(in.selectors) > 0 && !matchesAny(strings.ToLower(ln.text), in.selectors) {
			continue
		}
		if len(in.refine) > 0 {
			ln = refineLine(ln, in.refine)
		}
		selected = append(selected, ln)
	}
	return selected
}

// refineLine narrows a merged line to the segments matching keywords.
// Merged lines join units with "; " in evidence order, so when segment
// and evidence counts agree each segment is attributed to its own
// block. Lines that cannot be paired are kept whole.
func refineLine(ln qaLine, keywords []string) qaLine {
	segments := strings.Split(ln.text, "; ")
	if len(segments) < 2 || len(segments) != len(ln.blockIDs) {
		return ln
	}

	var keptText []string
	var keptIDs []string
	for i, seg := range segments {
		if matchesAny(strings.ToLower(seg), keywords) {
			keptText = append(keptText, seg)
			keptIDs = append(keptIDs, ln.blockIDs[i])
		}
	}
	if len(keptText) == 0 {
		return ln
	}
	return qaLine{text: strings.Join(keptText, "; "), blockIDs: keptIDs}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// headIDs returns up to n leading scope IDs for fallback attribution.
func headIDs(scopeIDs []string, n int) []string {
	if len(scopeIDs) > n {
		scopeIDs = scopeIDs[:n]
	}
	return scopeIDs
}

// headLineIDs returns up to n block IDs drawn from the reconstructed
// lines, in line order.
func headLineIDs(lines []qaLine, n int) []string {
	var ids []string
	for _, ln := range lines {
		for _, id := range ln.blockIDs {
			if len(ids) >= n {
				return ids
			}
			ids = append(ids, id)
		}
	}
	return ids
}

// renderAnswer emits one bullet per selected line with a trailing
// citation number from a fresh registry. Lines without evidence render
// without a marker.
func renderAnswer(lines []qaLine) Response {
	reg := synthesis.NewRegistry()
	var b strings.Builder

	for i, ln := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(ln.blockIDs) == 0 {
			b.WriteString("- " + ln.text)
			continue
		}
		n := reg.Ensure(ln.blockIDs)
		b.WriteString(fmt.Sprintf("- %s [%d]", ln.text, n))
	}

	return Response{Answer: b.String(), Citations: reg.Table()}
}
