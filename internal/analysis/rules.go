// Package analysis scores morning-pages text with keyword and regex heuristics.
package analysis

import (
	"regexp"
	"strings"
)

// Rule kinds.
const (
	KindPattern   = "pattern"
	KindPredicate = "predicate"
)

// Problem is a static craft diagnostic attached to a rule.
type Problem struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Suggestion  string `json:"suggestion" yaml:"suggestion"`
	Exercise    string `json:"exercise" yaml:"exercise"`
}

// Rule detects one writing problem in a sample.
type Rule interface {
	Kind() string
	Problem() Problem
	Detect(s *Sample) bool
}

// PatternRule fires on regex match volume. With Density set, it compares
// matches per word against Density once the sample has more than MinWords
// words; otherwise it fires when total matches exceed MaxMatches.
type PatternRule struct {
	Info       Problem
	Patterns   []*regexp.Regexp
	MaxMatches int
	Density    float64
	MinWords   int
}

// Kind implements Rule.
func (r *PatternRule) Kind() string { return KindPattern }

// Problem implements Rule.
func (r *PatternRule) Problem() Problem { return r.Info }

// Detect implements Rule.
func (r *PatternRule) Detect(s *Sample) bool {
	matches := r.Matches(s.Text)
	if r.Density > 0 {
		if s.WordCount <= r.MinWords || s.WordCount == 0 {
			return false
		}
		return float64(matches)/float64(s.WordCount) > r.Density
	}
	return matches > r.MaxMatches
}

// Matches counts the hits of all patterns in text.
func (r *PatternRule) Matches(text string) int {
	total := 0
	for _, p := range r.Patterns {
		total += len(p.FindAllStringIndex(text, -1))
	}
	return total
}

// PredicateRule fires when Check reports true.
type PredicateRule struct {
	Info  Problem
	Check func(s *Sample) bool
}

// Kind implements Rule.
func (r *PredicateRule) Kind() string { return KindPredicate }

// Problem implements Rule.
func (r *PredicateRule) Problem() Problem { return r.Info }

// Detect implements Rule.
func (r *PredicateRule) Detect(s *Sample) bool {
	if r.Check == nil {
		return false
	}
	return r.Check(s)
}

var (
	_ Rule = (*PatternRule)(nil)
	_ Rule = (*PredicateRule)(nil)
)

// DetectProblems evaluates rules in order and keeps the first three hits.
func DetectProblems(s *Sample, rules []Rule) []Problem {
	out := make([]Problem, 0, maxProblems)
	for _, r := range rules {
		if len(out) == maxProblems {
			break
		}
		if r.Detect(s) {
			out = append(out, r.Problem())
		}
	}
	return out
}

var (
	passivePattern  = regexp.MustCompile(`(?i)\b(was|were|been|being|is|are|am)\s+\w+ed\b`)
	byAgentPattern  = regexp.MustCompile(`(?i)\bby\s+(the|a|an)\s+\w+`)
	fillerPattern   = regexp.MustCompile(`(?i)\b(thing|stuff|something|somehow|somewhat|really|very|quite|just|basically|actually|literally)\b`)
	weakVerbPattern = regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being|have|has|had|do|does|did|go|went|gone|get|got|make|made)\b`)
	firstPerson     = regexp.MustCompile(`\bI\b`)
)

var defaultRules = []Rule{
	&PatternRule{
		Info: Problem{
			Name:        "Passive Voice Overuse",
			Description: "Your writing relies heavily on passive constructions",
			Suggestion:  "Tomorrow, try rewriting sentences with the actor first.",
			Exercise:    "Pick any paragraph and rewrite every sentence starting with who or what is doing the action.",
		},
		Patterns:   []*regexp.Regexp{passivePattern, byAgentPattern},
		MaxMatches: 5,
	},
	&PatternRule{
		Info: Problem{
			Name:        "Vague Language",
			Description: "You're using filler words that dilute meaning",
			Suggestion:  `Tomorrow, ban the word "thing" entirely.`,
			Exercise:    "List 10 specific nouns for objects in your room. Practice precision.",
		},
		Patterns:   []*regexp.Regexp{fillerPattern},
		MaxMatches: 5,
	},
	&PredicateRule{
		Info: Problem{
			Name:        "Repetitive Sentence Openings",
			Description: "Many sentences start the same way",
			Suggestion:  "Vary your openings: verb, prepositional phrase, dependent clause.",
			Exercise:    "Write 5 sentences about the same subject, each starting differently.",
		},
		Check: repetitiveOpenings,
	},
	&PredicateRule{
		Info: Problem{
			Name:        "I-Heavy Writing",
			Description: `The word "I" dominates your pages`,
			Suggestion:  "Try writing a section in second or third person.",
			Exercise:    `Describe your morning routine without using "I" once.`,
		},
		Check: firstPersonHeavy,
	},
	&PredicateRule{
		Info: Problem{
			Name:        "Choppy Rhythm",
			Description: "Sentences are consistently short",
			Suggestion:  "Try combining thoughts with conjunctions.",
			Exercise:    "Merge three short sentences into one flowing sentence.",
		},
		Check: func(s *Sample) bool {
			return s.WordCount > 0 && s.AvgSentenceLength < 8
		},
	},
	&PredicateRule{
		Info: Problem{
			Name:        "Sprawling Sentences",
			Description: "Your sentences run long",
			Suggestion:  "Practice the period. Stop at 20 words.",
			Exercise:    "Find your longest sentence and break it into three thoughts.",
		},
		Check: func(s *Sample) bool {
			return s.AvgSentenceLength > 30
		},
	},
	&PatternRule{
		Info: Problem{
			Name:        "Weak Verb Dependency",
			Description: "Relying on generic verbs instead of vivid ones",
			Suggestion:  `Hunt for "is/was/have/get" and replace with specific verbs.`,
			Exercise:    "List 10 verbs that describe how people move (not walk/run).",
		},
		Patterns: []*regexp.Regexp{weakVerbPattern},
		Density:  0.15,
		MinWords: 100,
	},
	&PredicateRule{
		Info: Problem{
			Name:        "No Questions Asked",
			Description: "Only statements — no inquiry",
			Suggestion:  "Ask at least 5 genuine questions tomorrow.",
			Exercise:    `Start tomorrow with: "What am I not seeing?"`,
		},
		Check: func(s *Sample) bool {
			return len(s.Sentences) > 10 && s.QuestionCount == 0
		},
	},
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

func repetitiveOpenings(s *Sample) bool {
	counts := map[string]int{}
	for _, sentence := range s.Sentences {
		fields := strings.Fields(sentence)
		if len(fields) == 0 {
			continue
		}
		first := strings.ToLower(fields[0])
		counts[first]++
		if counts[first] > 3 {
			return true
		}
	}
	return false
}

func firstPersonHeavy(s *Sample) bool {
	if s.WordCount <= 100 {
		return false
	}
	count := len(firstPerson.FindAllStringIndex(s.Text, -1))
	return float64(count)/float64(s.WordCount) > 0.05
}
