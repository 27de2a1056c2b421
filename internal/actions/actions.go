// Package actions suggests small, safe micro-actions for a detected pattern.
//
// Suggestions come from a fixed bank keyed by mood category. The category is
// chosen by looking for its name in the pattern description; descriptions
// that mention distress also get a referral line.
package actions

import (
	"math/rand"
	"strings"
	"sync"
)

// SafetyReferral is appended once to suggestions for distress-related patterns.
const SafetyReferral = "If these feelings persist, consider reaching out to a trusted friend or mental health professional."

// FallbackCategory is used when no category keyword appears in a description.
const FallbackCategory = "neutral"

// categories lists bank keys in match order. The first one found wins.
var categories = []string{"anxious", "sad", "happy", "calm", "neutral"}

var bank = map[string][3]string{
	"anxious": {
		"Take a short deep breathing break",
		"Go for a 10-minute walk outdoors",
		"Write down one thing you're grateful for",
	},
	"sad": {
		"Reach out to a friend or family member",
		"Listen to uplifting music",
		"Do a small act of kindness",
	},
	"happy": {
		"Reflect on what made today positive",
		"Capture your good mood in a journal",
		"Encourage someone else with positivity",
	},
	"calm": {
		"Maintain your evening relaxation routine",
		"Spend a few minutes in mindful silence",
		"Enjoy a quiet tea or light reading",
	},
	"neutral": {
		"Take a short mindful pause during your day",
		"Stretch gently for 5 minutes",
		"Spend a moment appreciating your surroundings",
	},
}

var distressKeywords = []string{"sad", "anxious", "stress", "depressed", "lonely"}

// Category returns the bank category a description maps to.
func Category(description string) string {
	lower := strings.ToLower(description)
	for _, c := range categories {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return FallbackCategory
}

// Distress reports whether the description mentions a distress keyword.
func Distress(description string) bool {
	lower := strings.ToLower(description)
	for _, k := range distressKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Suggestions returns a copy of the bank entries for category, or nil if the
// category is unknown.
func Suggestions(category string) []string {
	s, ok := bank[category]
	if !ok {
		return nil
	}
	return append([]string(nil), s[:]...)
}

// Selector orders the three suggestions of a category. Implementations must
// return a permutation of their input.
type Selector interface {
	Select(suggestions []string) []string
}

// OrderedSelector keeps bank order.
type OrderedSelector struct{}

// Select returns suggestions unchanged.
func (OrderedSelector) Select(suggestions []string) []string { return suggestions }

// ShuffleSelector shuffles with its own seeded source, so a given seed yields
// the same sequence of orderings across runs.
type ShuffleSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffleSelector creates a ShuffleSelector seeded with seed.
func NewShuffleSelector(seed int64) *ShuffleSelector {
	return &ShuffleSelector{rng: rand.New(rand.NewSource(seed))}
}

// Select returns the suggestions in shuffled order.
func (s *ShuffleSelector) Select(suggestions []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(suggestions), func(i, j int) {
		suggestions[i], suggestions[j] = suggestions[j], suggestions[i]
	})
	return suggestions
}

// Generator produces micro-actions for pattern descriptions.
type Generator struct {
	selector Selector
}

// NewGenerator creates a Generator. A nil selector means OrderedSelector.
func NewGenerator(selector Selector) *Generator {
	if selector == nil {
		selector = OrderedSelector{}
	}
	return &Generator{selector: selector}
}

// For returns three suggestions for description, followed by SafetyReferral
// when the description mentions distress. The result is a fresh slice.
func (g *Generator) For(description string) []string {
	out := g.selector.Select(Suggestions(Category(description)))
	if Distress(description) {
		out = append(out, SafetyReferral)
	}
	return out
}
