// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns semantic signal categories to units of text
// by case-insensitive keyword matching. Categories are independent: a
// unit may carry zero, one, or several tags, because natural text
// commonly blends concerns and single-category assignment would lose
// information the evidence trail depends on.
package classify

import (
	"sort"
	"strings"
)

// Category is one member of the closed signal category set.
type Category string

const (
	Decision   Category = "decision"
	Constraint Category = "constraint"
	Risk       Category = "risk"
	Question   Category = "question"
	Audience   Category = "audience"
	Reference  Category = "reference"
)

// keywords maps each category to its matching phrases. Matching is
// case-insensitive substring containment.
var keywords = map[Category][]string{
	Decision: {
		"decision", "decided", "decide", "draft", "tentative", "we decided",
		"agreed", "chosen", "ship",
	},
	Constraint: {
		"constraint", "must", "require", "cannot", "limit", "legal",
		"compliance", "deadline", "budget",
	},
	Risk: {
		"risk", "risky", "danger", "blocker", "fragile", "liability",
		"exposure", "failure mode",
	},
	Question: {
		"open question", "uncertain", "not sure", "tension", "tradeoff",
		"risk", "concern", "?", "unknown", "tbd",
	},
	Audience: {
		"audience", "stakeholder", "customer", "reader", "user research",
		"for the team", "non-technical",
	},
	Reference: {
		"http://", "https://", "www.", "see ", "source:", "link:", "ref:",
	},
}

// TagSet is the set of categories matched by one unit of text.
type TagSet map[Category]bool

// Has reports whether the set contains c.
func (s TagSet) Has(c Category) bool { return s[c] }

// Any reports whether the set contains at least one of cs.
func (s TagSet) Any(cs ...Category) bool {
	for _, c := range cs {
		if s[c] {
			return true
		}
	}
	return false
}

// Sorted returns the tags in alphabetical order, for stable output.
// An empty set yields nil.
func (s TagSet) Sorted() []Category {
	if len(s) == 0 {
		return nil
	}
	tags := make([]Category, 0, len(s))
	for c := range s {
		tags = append(tags, c)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Tags classifies text against every category and returns the matched
// set. An empty or whitespace-only text matches nothing. Pure function.
func Tags(text string) TagSet {
	tags := make(TagSet)
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return tags
	}
	for cat, words := range keywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				tags[cat] = true
				break
			}
		}
	}
	return tags
}
