// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BlockType discriminates the closed set of block variants on the canvas.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockImage   BlockType = "image"
	BlockLink    BlockType = "link"
	BlockSummary BlockType = "summary"
)

// ValidBlockTypes is the accepted set of BlockType values.
var ValidBlockTypes = map[BlockType]bool{
	BlockText:    true,
	BlockImage:   true,
	BlockLink:    true,
	BlockSummary: true,
}

// Block is an atomic, independently positioned unit of content on the
// canvas. Variants share geometry and identity; variant-specific fields
// are populated according to Type and empty otherwise.
type Block struct {
	// ID uniquely identifies the block. It never changes after creation
	// and is the unit of evidence reference throughout the system.
	ID string `json:"id" yaml:"id"`

	// Type selects the variant: text, image, link, or summary.
	Type BlockType `json:"type" yaml:"type"`

	// X, Y are the block's canvas position.
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`

	// Width is the block's rendered width.
	Width float64 `json:"width" yaml:"width"`

	// Height is the block's rendered height. Zero means auto-sized.
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Text is the free-form content of a text block.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Src is the source reference of an image block. Pixel content is
	// never interpreted; only the caption participates in summarization.
	Src string `json:"src,omitempty" yaml:"src,omitempty"`

	// Caption is the optional caption of an image block.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`

	// Label and URL form the content of a link block.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`

	// Summary carries a previously generated summary when this block was
	// produced by dropping a summary back onto the canvas.
	Summary *Summary `json:"summary,omitempty" yaml:"summary,omitempty"`

	// CreatedAt and UpdatedAt track the block's lifecycle.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// BlockIDs returns the identifiers of blocks in input order.
func BlockIDs(blocks []Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}
