// Package analysis scores morning-pages text with keyword and regex heuristics.
package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// WordGoal is the daily word target.
const WordGoal = 750

const (
	maxTopTags       = 3
	maxRepeatedWords = 5
	maxProblems      = 3
	minRepeatCount   = 3
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Report is the result of analyzing a draft.
type Report struct {
	WordCount          int            `json:"wordCount" yaml:"wordCount"`
	SentenceCount      int            `json:"sentenceCount" yaml:"sentenceCount"`
	AvgSentenceLength  int            `json:"avgSentenceLength" yaml:"avgSentenceLength"`
	VocabularyRichness int            `json:"vocabularyRichness" yaml:"vocabularyRichness"`
	TopMoods           []string       `json:"topMoods" yaml:"topMoods"`
	TopThemes          []string       `json:"topThemes" yaml:"topThemes"`
	RepeatedWords      []RepeatedWord `json:"repeatedWords" yaml:"repeatedWords"`
	Problems           []Problem      `json:"problems" yaml:"problems"`
	Progress           int            `json:"progress" yaml:"progress"`
}

// RepeatedWord is a long word the writer keeps returning to.
type RepeatedWord struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Sample holds the quantities derived from a text that problem rules inspect.
type Sample struct {
	Text              string
	Words             []string
	Sentences         []string
	WordCount         int
	AvgSentenceLength int
	QuestionCount     int
}

// Analyze computes a fresh report for text. It keeps no state between calls.
func Analyze(text string) Report {
	sample := NewSample(text)

	return Report{
		WordCount:          sample.WordCount,
		SentenceCount:      len(sample.Sentences),
		AvgSentenceLength:  sample.AvgSentenceLength,
		VocabularyRichness: vocabularyRichness(sample.Words),
		TopMoods:           rankTags(text, moodVocabulary),
		TopThemes:          rankTags(text, themeVocabulary),
		RepeatedWords:      repeatedWords(sample.Words),
		Problems:           DetectProblems(sample, DefaultRules()),
		Progress:           progress(sample.WordCount),
	}
}

// NewSample tokenizes text into words and sentences.
func NewSample(text string) *Sample {
	words := Words(text)
	sentences := Sentences(text)
	avg := 0
	if len(sentences) > 0 {
		avg = roundRatio(len(words), len(sentences))
	}
	return &Sample{
		Text:              text,
		Words:             words,
		Sentences:         sentences,
		WordCount:         len(words),
		AvgSentenceLength: avg,
		QuestionCount:     strings.Count(text, "?"),
	}
}

// Words returns the lower-cased whitespace-delimited tokens of text.
func Words(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Sentences splits text on runs of sentence terminators and drops blank segments.
func Sentences(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// WordCount is a shortcut for len(Words(text)).
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func vocabularyRichness(words []string) int {
	if len(words) == 0 {
		return 0
	}
	unique := map[string]struct{}{}
	for _, w := range words {
		if utf8.RuneCountInString(w) > 3 {
			unique[w] = struct{}{}
		}
	}
	return roundRatio(100*len(unique), len(words))
}

func repeatedWords(words []string) []RepeatedWord {
	counts := map[string]int{}
	order := make([]string, 0)
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 4 {
			continue
		}
		if _, ok := counts[w]; !ok {
			order = append(order, w)
		}
		counts[w]++
	}

	out := make([]RepeatedWord, 0, maxRepeatedWords)
	for _, w := range order {
		if counts[w] >= minRepeatCount {
			out = append(out, RepeatedWord{Word: w, Count: counts[w]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > maxRepeatedWords {
		out = out[:maxRepeatedWords]
	}
	return out
}

func progress(wordCount int) int {
	return Percent(wordCount, WordGoal)
}

// Percent returns words as a share of goal, rounded to the nearest percent
// and capped at 100. A non-positive goal counts as reached.
func Percent(words, goal int) int {
	if goal <= 0 {
		return 100
	}
	p := roundRatio(100*words, goal)
	if p > 100 {
		return 100
	}
	return p
}

func roundRatio(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den)))
}
