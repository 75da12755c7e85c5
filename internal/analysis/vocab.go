// Package analysis scores morning-pages text with keyword and regex heuristics.
package analysis

import (
	"regexp"
	"sort"
)

// Tag is a named keyword set used for mood or theme scoring.
type Tag struct {
	Name     string
	Keywords []string

	patterns []*regexp.Regexp
}

// Keywords match as case-insensitive substrings, so "now" also counts in "know".
func newTag(name string, keywords ...string) Tag {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	}
	return Tag{Name: name, Keywords: keywords, patterns: patterns}
}

// Score counts every keyword occurrence in text.
func (t Tag) Score(text string) int {
	score := 0
	for _, p := range t.patterns {
		score += len(p.FindAllStringIndex(text, -1))
	}
	return score
}

var moodVocabulary = []Tag{
	newTag("contemplative", "wonder", "think", "perhaps", "maybe", "seems", "feels", "remember", "imagine", "dream", "thought"),
	newTag("urgent", "must", "need", "now", "quickly", "hurry", "important", "critical", "immediately", "desperate", "urgent"),
	newTag("joyful", "happy", "love", "beautiful", "wonderful", "amazing", "grateful", "joy", "delight", "laugh", "smile"),
	newTag("melancholic", "sad", "miss", "lost", "gone", "empty", "alone", "tired", "heavy", "dark", "grey"),
	newTag("anxious", "worry", "afraid", "scared", "nervous", "stress", "panic", "fear", "anxious", "dread", "uncertain"),
	newTag("determined", "will", "must", "going to", "decide", "commit", "focus", "achieve", "goal", "plan", "ready"),
	newTag("curious", "why", "how", "what if", "wonder", "discover", "explore", "question", "curious", "investigate", "learn"),
	newTag("peaceful", "calm", "quiet", "still", "peace", "gentle", "soft", "rest", "breathe", "slow", "ease"),
}

var themeVocabulary = []Tag{
	newTag("relationships", "friend", "family", "love", "mother", "father", "partner", "child", "brother", "sister", "people"),
	newTag("work", "work", "job", "career", "project", "deadline", "meeting", "boss", "colleague", "office", "business"),
	newTag("creativity", "write", "create", "art", "story", "poem", "music", "paint", "design", "imagine", "craft"),
	newTag("time", "yesterday", "tomorrow", "future", "past", "memory", "year", "month", "week", "morning", "night"),
	newTag("self", "I am", "myself", "identity", "who", "become", "grow", "change", "learn", "understand", "realize"),
	newTag("nature", "sky", "tree", "water", "sun", "moon", "wind", "rain", "earth", "flower", "bird"),
	newTag("home", "home", "room", "house", "door", "window", "bed", "kitchen", "space", "place", "belong"),
}

// TagScore pairs a tag name with its keyword hit count.
type TagScore struct {
	Name  string
	Score int
}

// ScoreTags scores every tag with a non-zero hit count, keeping vocabulary order.
func ScoreTags(text string, vocab []Tag) []TagScore {
	scores := make([]TagScore, 0, len(vocab))
	for _, tag := range vocab {
		if s := tag.Score(text); s > 0 {
			scores = append(scores, TagScore{Name: tag.Name, Score: s})
		}
	}
	return scores
}

// Equal scores keep vocabulary order.
func rankTags(text string, vocab []Tag) []string {
	scores := ScoreTags(text, vocab)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxTopTags {
		scores = scores[:maxTopTags]
	}
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Name
	}
	return out
}
