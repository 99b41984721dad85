// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis turns an unordered set of canvas blocks into a
// structured, cited summary. The pipeline is deterministic and rule
// based: unit splitting, keyword classification, fixed-order section
// grouping, and first-use citation numbering. It performs no I/O and
// never fails for well-typed input.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/pdiddy/canvas-engine/internal/classify"
	"github.com/pdiddy/canvas-engine/internal/extract"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Section headings, emitted in this order. A heading with zero matched
// content is omitted entirely.
const (
	HeadingAbout     = "What this seems to be about"
	HeadingTensions  = "Key tensions / open questions"
	HeadingSecondary = "Secondary considerations"
	HeadingReadNext  = "Best blocks to read next"
)

// FallbackLine is emitted when no section matched any content.
const FallbackLine = "Not enough information from the selected artifacts."

// UnknownBlockID is the sentinel evidence ID used when the input block
// list is empty.
const UnknownBlockID = "unknown"

// Tunable section caps. The exact numbers bound output length and are
// not load-bearing; they are fixed here and overridable via
// types.SynthesisConfig.
const (
	defaultMaxLineWords   = 24
	defaultAboutLines     = 2
	defaultTensionUnits   = 4
	defaultReadNextBlocks = 3
)

const truncationMarker = "…"

// line is one bullet with its evidence block IDs.
type line struct {
	text     string
	blockIDs []string
}

// section groups rendered lines under a heading.
type section struct {
	heading string
	lines   []line
}

// taggedUnit pairs a candidate unit with its classification.
type taggedUnit struct {
	extract.Unit
	tags classify.TagSet
}

// Summarize produces a summary of blocks under the given scope using
// the default caps.
func Summarize(blocks []types.Block, scope types.Scope) *types.Summary {
	return SummarizeWith(types.SynthesisConfig{}, blocks, scope)
}

// SummarizeWith produces a summary of blocks under the given scope.
// Zero-valued caps in cfg select the package defaults. The input list
// may be empty; the result then carries the fallback line attributed to
// the sentinel ID. No input block is ever dropped from
// EvidenceBlockIDs, even if none of its content was quotable.
func SummarizeWith(cfg types.SynthesisConfig, blocks []types.Block, scope types.Scope) *types.Summary {
	cfg = withDefaults(cfg)

	units := classifyUnits(blocks)
	sections := groupSections(cfg, units, blocks)

	if empty(sections) {
		sections = []section{fallbackSection(blocks)}
	}

	reg := NewRegistry()
	text, spans := render(cfg, sections, reg)

	return &types.Summary{
		Title:            title(len(blocks)),
		Text:             text,
		Spans:            spans,
		Citations:        reg.Table(),
		EvidenceBlockIDs: types.BlockIDs(blocks),
		Scope:            scope,
	}
}

func withDefaults(cfg types.SynthesisConfig) types.SynthesisConfig {
	if cfg.MaxLineWords <= 0 {
		cfg.MaxLineWords = defaultMaxLineWords
	}
	if cfg.AboutLines <= 0 {
		cfg.AboutLines = defaultAboutLines
	}
	if cfg.TensionUnits <= 0 {
		cfg.TensionUnits = defaultTensionUnits
	}
	if cfg.ReadNextBlocks <= 0 {
		cfg.ReadNextBlocks = defaultReadNextBlocks
	}
	return cfg
}

// title derives the summary title from the input block count.
func title(n int) string {
	if n == 1 {
		return "Summary of 1 artifact"
	}
	return fmt.Sprintf("Summary of %d artifacts", n)
}

// classifyUnits splits every block into units and classifies each one.
func classifyUnits(blocks []types.Block) []taggedUnit {
	raw := extract.UnitsAll(blocks)
	units := make([]taggedUnit, len(raw))
	for i, u := range raw {
		units[i] = taggedUnit{Unit: u, tags: classify.Tags(u.Text)}
	}
	return units
}

// normalize is the dedup key for a unit's text.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// groupSections assigns units to the fixed ordered sections. A unit may
// be pulled into more than one section when it matches more than one
// tag; within a single section duplicate units are removed, preferring
// the earliest occurrence.
func groupSections(cfg types.SynthesisConfig, units []taggedUnit, blocks []types.Block) []section {
	about := aboutSection(cfg, units)
	tensions, usedInTensions := tensionsSection(cfg, units)
	secondary := secondarySection(units, usedInTensions)
	readNext := readNextSection(cfg, blocks)
	return []section{about, tensions, secondary, readNext}
}

// aboutSection selects untagged units and reference units, capped.
func aboutSection(cfg types.SynthesisConfig, units []taggedUnit) section {
	sec := section{heading: HeadingAbout}
	seen := make(map[string]bool)
	for _, u := range units {
		if len(sec.lines) >= cfg.AboutLines {
			break
		}
		if len(u.tags) != 0 && !u.tags.Has(classify.Reference) {
			continue
		}
		key := normalize(u.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		sec.lines = append(sec.lines, line{text: u.Text, blockIDs: []string{u.BlockID}})
	}
	return sec
}

// tensionsSection merges decision, risk, constraint, and question units
// into one combined line. It returns the normalized texts it consumed
// so the secondary section can skip constraints already surfaced here.
func tensionsSection(cfg types.SynthesisConfig, units []taggedUnit) (section, map[string]bool) {
	sec := section{heading: HeadingTensions}
	used := make(map[string]bool)

	var texts []string
	var ids []string
	for _, u := range units {
		if len(texts) >= cfg.TensionUnits {
			break
		}
		if !u.tags.Any(classify.Decision, classify.Risk, classify.Constraint, classify.Question) {
			continue
		}
		key := normalize(u.Text)
		if used[key] {
			continue
		}
		used[key] = true
		texts = append(texts, u.Text)
		ids = append(ids, u.BlockID)
	}

	if len(texts) > 0 {
		sec.lines = append(sec.lines, line{text: strings.Join(texts, "; "), blockIDs: ids})
	}
	return sec, used
}

// secondarySection lists audience units and constraints not already
// used in the tensions line, each as its own bullet.
func secondarySection(units []taggedUnit, usedInTensions map[string]bool) section {
	sec := section{heading: HeadingSecondary}
	seen := make(map[string]bool)
	for _, u := range units {
		key := normalize(u.Text)
		if seen[key] {
			continue
		}
		isAudience := u.tags.Has(classify.Audience)
		isUnusedConstraint := u.tags.Has(classify.Constraint) && !usedInTensions[key]
		if !isAudience && !isUnusedConstraint {
			continue
		}
		seen[key] = true
		sec.lines = append(sec.lines, line{text: u.Text, blockIDs: []string{u.BlockID}})
	}
	return sec
}

// readNextSection points at up to N distinct text or link blocks worth
// reading in full.
func readNextSection(cfg types.SynthesisConfig, blocks []types.Block) section {
	sec := section{heading: HeadingReadNext}
	seen := make(map[string]bool)
	for _, b := range blocks {
		if len(sec.lines) >= cfg.ReadNextBlocks {
			break
		}
		if b.Type != types.BlockText && b.Type != types.BlockLink {
			continue
		}
		if b.ID == "" || seen[b.ID] {
			continue
		}
		if strings.TrimSpace(extract.Content(b)) == "" {
			continue
		}
		seen[b.ID] = true
		sec.lines = append(sec.lines, line{
			text:     fmt.Sprintf("Start with block %s (%s)", b.ID, b.Type),
			blockIDs: []string{b.ID},
		})
	}
	return sec
}

// fallbackSection attributes the fallback line to the first input block,
// or to the sentinel ID when there are no input blocks.
func fallbackSection(blocks []types.Block) section {
	id := UnknownBlockID
	if len(blocks) > 0 && blocks[0].ID != "" {
		id = blocks[0].ID
	}
	return section{lines: []line{{text: FallbackLine, blockIDs: []string{id}}}}
}

func empty(sections []section) bool {
	for _, s := range sections {
		if len(s.lines) > 0 {
			return false
		}
	}
	return true
}

// render emits headings and bullet lines, assigning citation numbers
// through reg and recording a span per bullet line. Span offsets cover
// the whole rendered line excluding its trailing newline.
func render(cfg types.SynthesisConfig, sections []section, reg *Registry) (string, []types.Span) {
	var b strings.Builder
	var spans []types.Span

	for _, sec := range sections {
		if len(sec.lines) == 0 {
			continue
		}
		if sec.heading != "" {
			b.WriteString(sec.heading)
			b.WriteString("\n")
		}
		for _, ln := range sec.lines {
			n := reg.Ensure(ln.blockIDs)
			rendered := fmt.Sprintf("- %s [%d]", truncate(ln.text, cfg.MaxLineWords), n)
			start := b.Len()
			b.WriteString(rendered)
			spans = append(spans, types.Span{
				Start:     start,
				End:       b.Len(),
				Citations: []int{n},
			})
			b.WriteString("\n")
		}
	}

	return b.String(), spans
}

// truncate bounds a bullet to maxWords words, appending the truncation
// marker. It never splits inside a word.
func truncate(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + " " + truncationMarker
}
