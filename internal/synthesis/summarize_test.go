package synthesis

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

func scenarioBlocks() []types.Block {
	return []types.Block{
		{ID: "t1", Type: types.BlockText, Text: "Decision draft: ship the list view first."},
		{ID: "t2", Type: types.BlockText, Text: "Open question: how do we handle empty states?"},
		{ID: "l1", Type: types.BlockLink, Label: "spec", URL: "https://x"},
	}
}

func selectionScope(blocks []types.Block) types.Scope {
	return types.Scope{Kind: types.ScopeSelection, BlockIDs: types.BlockIDs(blocks)}
}

// lineIDs returns the evidence block IDs of the first spanned line
// containing substr, or nil if no line matches.
func lineIDs(t *testing.T, s *types.Summary, substr string) []string {
	t.Helper()
	byNumber := make(map[int][]string)
	for _, c := range s.Citations {
		byNumber[c.N] = c.BlockIDs
	}
	for _, sp := range s.Spans {
		line := s.Text[sp.Start:sp.End]
		if !strings.Contains(line, substr) {
			continue
		}
		var ids []string
		for _, n := range sp.Citations {
			ids = append(ids, byNumber[n]...)
		}
		return ids
	}
	return nil
}

func TestSummarizeScenario(t *testing.T) {
	blocks := scenarioBlocks()
	s := Summarize(blocks, selectionScope(blocks))

	if s.Title != "Summary of 3 artifacts" {
		t.Errorf("Title = %q", s.Title)
	}

	if !strings.Contains(s.Text, HeadingTensions) {
		t.Fatalf("summary lacks tensions section:\n%s", s.Text)
	}

	ids := lineIDs(t, s, "Decision draft")
	sort.Strings(ids)
	if !reflect.DeepEqual(ids, []string{"t1", "t2"}) {
		t.Errorf("tensions line cites %v, want [t1 t2]", ids)
	}
	if !strings.Contains(s.Text, "Open question: how do we handle empty states") {
		t.Errorf("tensions line did not merge the question unit:\n%s", s.Text)
	}

	// The link must surface in the about or read-next section.
	if got := lineIDs(t, s, "spec https://x"); !reflect.DeepEqual(got, []string{"l1"}) {
		if got = lineIDs(t, s, "block l1"); !reflect.DeepEqual(got, []string{"l1"}) {
			t.Errorf("no line cites the link block l1:\n%s", s.Text)
		}
	}
}

func TestSummarizeEvidenceMatchesInput(t *testing.T) {
	blocks := scenarioBlocks()
	s := Summarize(blocks, selectionScope(blocks))

	got := append([]string(nil), s.EvidenceBlockIDs...)
	want := []string{"t1", "t2", "l1"}
	sort.Strings(got)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EvidenceBlockIDs = %v, want %v", s.EvidenceBlockIDs, want)
	}
}

func TestSummarizeCitationInvariants(t *testing.T) {
	blocks := scenarioBlocks()
	s := Summarize(blocks, selectionScope(blocks))

	evidence := make(map[string]bool)
	for _, id := range s.EvidenceBlockIDs {
		evidence[id] = true
	}

	numbers := make(map[int]int)
	for _, c := range s.Citations {
		numbers[c.N]++
		for _, id := range c.BlockIDs {
			if !evidence[id] {
				t.Errorf("citation %d references %q outside evidence", c.N, id)
			}
		}
	}
	for n, count := range numbers {
		if count != 1 {
			t.Errorf("citation number %d appears %d times in the table", n, count)
		}
	}

	for _, sp := range s.Spans {
		if sp.Start < 0 || sp.End > len(s.Text) || sp.Start >= sp.End {
			t.Errorf("invalid span [%d, %d)", sp.Start, sp.End)
			continue
		}
		if !strings.HasPrefix(s.Text[sp.Start:sp.End], "- ") {
			t.Errorf("span [%d, %d) does not cover a bullet line: %q", sp.Start, sp.End, s.Text[sp.Start:sp.End])
		}
		for _, n := range sp.Citations {
			if numbers[n] != 1 {
				t.Errorf("span references citation %d missing from the table", n)
			}
		}
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	blocks := scenarioBlocks()
	scope := selectionScope(blocks)

	first := Summarize(blocks, scope)
	second := Summarize(blocks, scope)

	if first.Text != second.Text {
		t.Errorf("texts differ between runs")
	}
	if !reflect.DeepEqual(first.Citations, second.Citations) {
		t.Errorf("citation tables differ: %v vs %v", first.Citations, second.Citations)
	}
	if !reflect.DeepEqual(first.Spans, second.Spans) {
		t.Errorf("spans differ between runs")
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := Summarize(nil, types.Scope{Kind: types.ScopeSelection})

	if s.Title != "Summary of 0 artifacts" {
		t.Errorf("Title = %q", s.Title)
	}
	if !strings.Contains(s.Text, FallbackLine) {
		t.Errorf("Text = %q, want fallback line", s.Text)
	}
	if len(s.EvidenceBlockIDs) != 0 {
		t.Errorf("EvidenceBlockIDs = %v, want empty", s.EvidenceBlockIDs)
	}
	if len(s.Citations) != 1 || !reflect.DeepEqual(s.Citations[0].BlockIDs, []string{UnknownBlockID}) {
		t.Errorf("Citations = %v, want one sentinel entry", s.Citations)
	}
	if len(s.Spans) != 1 {
		t.Errorf("Spans = %v, want one fallback span", s.Spans)
	}
}

func TestSummarizeContentlessBlockFallsBack(t *testing.T) {
	blocks := []types.Block{{ID: "i1", Type: types.BlockImage, Src: "x.png"}}
	s := Summarize(blocks, selectionScope(blocks))

	if !strings.Contains(s.Text, FallbackLine) {
		t.Errorf("Text = %q, want fallback line", s.Text)
	}
	if got := lineIDs(t, s, FallbackLine); !reflect.DeepEqual(got, []string{"i1"}) {
		t.Errorf("fallback cites %v, want the first input block", got)
	}
	if !reflect.DeepEqual(s.EvidenceBlockIDs, []string{"i1"}) {
		t.Errorf("EvidenceBlockIDs = %v: contentless blocks must not be dropped", s.EvidenceBlockIDs)
	}
}

func TestSummarizeSingleBlock(t *testing.T) {
	blocks := []types.Block{{ID: "solo", Type: types.BlockText, Text: "The forest grows quietly."}}
	s := Summarize(blocks, selectionScope(blocks))

	if s.Title != "Summary of 1 artifact" {
		t.Errorf("Title = %q", s.Title)
	}
	if !strings.Contains(s.Text, HeadingAbout) {
		t.Errorf("untagged unit should land in the about section:\n%s", s.Text)
	}
	if ids := lineIDs(t, s, "The forest grows quietly"); !reflect.DeepEqual(ids, []string{"solo"}) {
		t.Errorf("about line cites %v, want [solo]", ids)
	}
}

func TestSummarizeOmitsEmptySections(t *testing.T) {
	// Only an audience signal: about and tensions stay empty.
	blocks := []types.Block{{ID: "a1", Type: types.BlockText, Text: "The audience here is stakeholder review."}}
	s := Summarize(blocks, selectionScope(blocks))

	if strings.Contains(s.Text, HeadingTensions) {
		t.Errorf("tensions heading emitted with no content:\n%s", s.Text)
	}
	if !strings.Contains(s.Text, HeadingSecondary) {
		t.Errorf("audience unit should land in secondary considerations:\n%s", s.Text)
	}
}

func TestSummarizeTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("word ", 40) + "end"
	blocks := []types.Block{{ID: "t1", Type: types.BlockText, Text: long}}
	s := Summarize(blocks, selectionScope(blocks))

	for _, sp := range s.Spans {
		line := s.Text[sp.Start:sp.End]
		if !strings.Contains(line, "word") {
			continue
		}
		if !strings.Contains(line, "…") {
			t.Errorf("long line not truncated: %q", line)
		}
		words := strings.Fields(strings.TrimPrefix(line, "- "))
		if len(words) > defaultMaxLineWords+2 {
			t.Errorf("truncated line still has %d words: %q", len(words), line)
		}
		return
	}
	t.Fatal("no line with the long content found")
}

func TestSummarizeScopeRecorded(t *testing.T) {
	blocks := scenarioBlocks()
	scope := types.Scope{Kind: types.ScopeCanvas, BlockIDs: types.BlockIDs(blocks)}
	s := Summarize(blocks, scope)

	if s.Scope.Kind != types.ScopeCanvas {
		t.Errorf("Scope.Kind = %q, want canvas", s.Scope.Kind)
	}
	if !reflect.DeepEqual(s.Scope.BlockIDs, []string{"t1", "t2", "l1"}) {
		t.Errorf("Scope.BlockIDs = %v", s.Scope.BlockIDs)
	}
}
