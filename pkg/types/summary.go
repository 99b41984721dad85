// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScopeKind records whether a summary was computed over an explicit
// selection or the whole canvas.
type ScopeKind string

const (
	ScopeSelection ScopeKind = "selection"
	ScopeCanvas    ScopeKind = "canvas"
)

// Scope bounds the set of block IDs a summary or answer may draw
// evidence from.
type Scope struct {
	// Kind is selection or canvas.
	Kind ScopeKind `json:"kind" yaml:"kind"`

	// BlockIDs lists the blocks within the scope.
	BlockIDs []string `json:"block_ids" yaml:"block_ids"`
}

// Citation is a numbered reference from a synthesized statement to the
// block IDs that justify it. Within one summary or answer a given
// normalized set of block IDs always maps to the same number.
type Citation struct {
	// N is the citation label, assigned in first-use order from 1.
	N int `json:"n" yaml:"n"`

	// BlockIDs is the deduplicated evidence set in first-use order.
	// Set identity for numbering is order-insensitive.
	BlockIDs []string `json:"block_ids" yaml:"block_ids"`
}

// Span locates one rendered summary line within the full text together
// with the citation numbers that apply to it. The renderer currently
// assigns one citation per line; the field is a list so multi-citation
// lines remain representable.
type Span struct {
	// Start and End are the line's [start, end) byte offsets in Text.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Citations lists the citation numbers applying to the line.
	Citations []int `json:"citations" yaml:"citations"`
}

// Summary is the structured, cited synthesis produced from a set of
// blocks. Its citation table and spans are immutable once produced.
type Summary struct {
	// Title is derived deterministically from the input block count.
	Title string `json:"title" yaml:"title"`

	// Text is the rendered synthesis: heading lines followed by bullet
	// lines, sections in fixed order, empty sections omitted.
	Text string `json:"text" yaml:"text"`

	// Spans maps each bullet line of Text to its citation numbers.
	Spans []Span `json:"spans" yaml:"spans"`

	// Citations is the ordered citation table for Text.
	Citations []Citation `json:"citations" yaml:"citations"`

	// EvidenceBlockIDs lists every input block ID, cited or not.
	EvidenceBlockIDs []string `json:"evidence_block_ids" yaml:"evidence_block_ids"`

	// Scope records which blocks the summary was computed over. QA calls
	// are restricted to it.
	Scope Scope `json:"scope" yaml:"scope"`
}

// QAExchange is one question/answer pair over a summary. Citations are
// renumbered from 1 for the exchange and restricted to the active scope.
type QAExchange struct {
	// Question is the user's free-text question.
	Question string `json:"question" yaml:"question"`

	// Answer is bullet lines with trailing citation numbers.
	Answer string `json:"answer" yaml:"answer"`

	// Citations is the exchange's own citation table.
	Citations []Citation `json:"citations" yaml:"citations"`
}
