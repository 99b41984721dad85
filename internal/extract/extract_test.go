package extract

import (
	"testing"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name  string
		block types.Block
		want  string
	}{
		{
			name:  "text block returns raw text",
			block: types.Block{ID: "t1", Type: types.BlockText, Text: "Some note."},
			want:  "Some note.",
		},
		{
			name:  "image block returns caption",
			block: types.Block{ID: "i1", Type: types.BlockImage, Src: "a.png", Caption: "A diagram"},
			want:  "A diagram",
		},
		{
			name:  "image block without caption returns empty",
			block: types.Block{ID: "i2", Type: types.BlockImage, Src: "b.png"},
			want:  "",
		},
		{
			name:  "link block joins label and URL",
			block: types.Block{ID: "l1", Type: types.BlockLink, Label: "spec", URL: "https://x"},
			want:  "spec https://x",
		},
		{
			name:  "link block with empty label yields URL only",
			block: types.Block{ID: "l2", Type: types.BlockLink, URL: "https://y"},
			want:  "https://y",
		},
		{
			name: "summary block joins title and text",
			block: types.Block{ID: "s1", Type: types.BlockSummary, Summary: &types.Summary{
				Title: "Summary of 2 artifacts",
				Text:  "What this seems to be about\n- a line [1]\n",
			}},
			want: "Summary of 2 artifacts What this seems to be about\n- a line [1]\n",
		},
		{
			name:  "summary block without payload returns empty",
			block: types.Block{ID: "s2", Type: types.BlockSummary},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Content(tt.block); got != tt.want {
				t.Errorf("Content() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnits(t *testing.T) {
	tests := []struct {
		name      string
		block     types.Block
		wantTexts []string
	}{
		{
			name:      "text splits on sentence punctuation",
			block:     types.Block{ID: "t1", Type: types.BlockText, Text: "First point. Second point! Third?"},
			wantTexts: []string{"First point", "Second point", "Third"},
		},
		{
			name:      "text splits on semicolons and newlines",
			block:     types.Block{ID: "t2", Type: types.BlockText, Text: "alpha; beta\ngamma"},
			wantTexts: []string{"alpha", "beta", "gamma"},
		},
		{
			name:      "empty fragments discarded",
			block:     types.Block{ID: "t3", Type: types.BlockText, Text: "one.. ;\n\n two."},
			wantTexts: []string{"one", "two"},
		},
		{
			name:      "whitespace-only text yields no units",
			block:     types.Block{ID: "t4", Type: types.BlockText, Text: "   \n  "},
			wantTexts: nil,
		},
		{
			name:      "link block is a single unit",
			block:     types.Block{ID: "l1", Type: types.BlockLink, Label: "spec", URL: "https://x"},
			wantTexts: []string{"spec https://x"},
		},
		{
			name:      "image caption is a single unit",
			block:     types.Block{ID: "i1", Type: types.BlockImage, Caption: "Flow chart. With periods."},
			wantTexts: []string{"Flow chart. With periods."},
		},
		{
			name:      "captionless image yields no units",
			block:     types.Block{ID: "i2", Type: types.BlockImage, Src: "c.png"},
			wantTexts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := Units(tt.block)
			if len(units) != len(tt.wantTexts) {
				t.Fatalf("got %d units, want %d: %+v", len(units), len(tt.wantTexts), units)
			}
			for i, want := range tt.wantTexts {
				if units[i].Text != want {
					t.Errorf("unit[%d].Text = %q, want %q", i, units[i].Text, want)
				}
				if units[i].BlockID != tt.block.ID {
					t.Errorf("unit[%d].BlockID = %q, want %q", i, units[i].BlockID, tt.block.ID)
				}
			}
		})
	}
}

func TestUnitsAllPreservesOrder(t *testing.T) {
	blocks := []types.Block{
		{ID: "a", Type: types.BlockText, Text: "one. two."},
		{ID: "b", Type: types.BlockLink, Label: "ref", URL: "https://z"},
	}

	units := UnitsAll(blocks)
	wantIDs := []string{"a", "a", "b"}
	if len(units) != len(wantIDs) {
		t.Fatalf("got %d units, want %d", len(units), len(wantIDs))
	}
	for i, want := range wantIDs {
		if units[i].BlockID != want {
			t.Errorf("unit[%d].BlockID = %q, want %q", i, units[i].BlockID, want)
		}
	}
}
