// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract produces the plain-text semantic content of canvas
// blocks and splits it into candidate units for classification.
package extract

import (
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// Content returns a block's plain-text semantic content. Text blocks
// yield their raw text; image blocks yield the caption (pixel content is
// never interpreted); link blocks yield label and URL space-joined;
// summary blocks yield the title followed by the rendered text. Missing
// optional fields degrade to empty content, never an error.
func Content(b types.Block) string {
	switch b.Type {
	case types.BlockText:
		return b.Text
	case types.BlockImage:
		return b.Caption
	case types.BlockLink:
		return joinNonEmpty(b.Label, b.URL)
	case types.BlockSummary:
		if b.Summary == nil {
			return ""
		}
		return joinNonEmpty(b.Summary.Title, b.Summary.Text)
	default:
		return ""
	}
}

// joinNonEmpty space-joins the non-empty parts.
func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Unit is one candidate statement with provenance to its source block.
type Unit struct {
	// Text is the trimmed unit content, never empty.
	Text string

	// BlockID identifies the source block.
	BlockID string

	// BlockType is the source block's variant.
	BlockType types.BlockType
}

// unitBoundary reports whether r terminates a text unit. Text blocks
// split on sentence-ending punctuation, semicolons, and newlines.
func unitBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', ';', '\n':
		return true
	}
	return false
}

// Units splits a block's extracted content into candidate units. Text
// blocks are split at unit boundaries with surrounding whitespace
// trimmed and empty fragments discarded; link, image, and summary
// blocks contribute their whole extracted content as a single unit.
// A block with no usable content contributes no units.
func Units(b types.Block) []Unit {
	content := Content(b)
	if strings.TrimSpace(content) == "" {
		return nil
	}

	if b.Type != types.BlockText {
		return []Unit{{
			Text:      strings.TrimSpace(content),
			BlockID:   b.ID,
			BlockType: b.Type,
		}}
	}

	var units []Unit
	for _, frag := range strings.FieldsFunc(content, unitBoundary) {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		units = append(units, Unit{
			Text:      frag,
			BlockID:   b.ID,
			BlockType: b.Type,
		})
	}
	return units
}

// UnitsAll splits every block in input order and concatenates the
// results, preserving unit order within each block.
func UnitsAll(blocks []types.Block) []Unit {
	var units []Unit
	for _, b := range blocks {
		units = append(units, Units(b)...)
	}
	return units
}
