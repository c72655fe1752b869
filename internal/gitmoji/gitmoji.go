// Package gitmoji picks a gitmoji (https://gitmoji.dev/) for a commit message.
package gitmoji

import (
	"math/rand/v2"
	"strings"
)

const (
	keywordScore     = 40
	prefixScore      = 10
	descriptionScore = 15
	maxScore         = 100

	// A match must score strictly above this to be used.
	minScore = 30
)

// Gitmoji is one entry of the emoji table.
type Gitmoji struct {
	Emoji       string
	Code        string
	Description string
	Keywords    []string
}

var gitmojis = []Gitmoji{
	{Emoji: "🎨", Code: ":art:", Description: "Improve structure/format", Keywords: []string{"format", "structure", "style", "lint"}},
	{Emoji: "⚡️", Code: ":zap:", Description: "Improve performance", Keywords: []string{"performance", "speed", "optimize", "fast"}},
	{Emoji: "🔥", Code: ":fire:", Description: "Remove code/files", Keywords: []string{"remove", "delete", "clean", "unused"}},
	{Emoji: "🐛", Code: ":bug:", Description: "Fix bug", Keywords: []string{"fix", "bug", "issue", "error", "crash"}},
	{Emoji: "✨", Code: ":sparkles:", Description: "New feature", Keywords: []string{"feature", "new", "add", "implement"}},
	{Emoji: "📝", Code: ":memo:", Description: "Add documentation", Keywords: []string{"docs", "documentation", "comment", "readme"}},
	{Emoji: "🚀", Code: ":rocket:", Description: "Deploy stuff", Keywords: []string{"deploy", "release", "publish", "launch"}},
	{Emoji: "💅", Code: ":nail_care:", Description: "Polish code", Keywords: []string{"polish", "refine", "improve"}},
	{Emoji: "✅", Code: ":white_check_mark:", Description: "Add tests", Keywords: []string{"test", "tests", "testing"}},
	{Emoji: "🔒️", Code: ":lock:", Description: "Security fix", Keywords: []string{"security", "auth", "encrypt"}},
	{Emoji: "⬆️", Code: ":arrow_up:", Description: "Upgrade dependencies", Keywords: []string{"upgrade", "update", "dependency", "dependencies"}},
	{Emoji: "⬇️", Code: ":arrow_down:", Description: "Downgrade dependencies", Keywords: []string{"downgrade"}},
	{Emoji: "📦️", Code: ":package:", Description: "Update packages", Keywords: []string{"package", "npm", "yarn", "bundler"}},
	{Emoji: "🔧", Code: ":wrench:", Description: "Configuration", Keywords: []string{"config", "configuration", "settings"}},
	{Emoji: "🌐", Code: ":globe_with_meridians:", Description: "i18n/localization", Keywords: []string{"i18n", "translation", "locale", "language"}},
	{Emoji: "♿️", Code: ":wheelchair:", Description: "Accessibility", Keywords: []string{"accessibility", "a11y", "aria"}},
	{Emoji: "🚨", Code: ":rotating_light:", Description: "Fix warnings", Keywords: []string{"warning", "lint"}},
	{Emoji: "🔍️", Code: ":mag:", Description: "SEO", Keywords: []string{"seo"}},
	{Emoji: "🍎", Code: ":apple:", Description: "macOS fix", Keywords: []string{"macos", "mac", "apple"}},
	{Emoji: "🐧", Code: ":penguin:", Description: "Linux fix", Keywords: []string{"linux", "ubuntu"}},
	{Emoji: "🐍", Code: ":snake:", Description: "Python changes", Keywords: []string{"python", "django", "flask", "pip", "pytorch"}},
	{Emoji: "📚", Code: ":books:", Description: "Node.js/JavaScript", Keywords: []string{"node", "npm", "javascript", "express", "typescript"}},
	{Emoji: "🦀", Code: ":crab:", Description: "Rust changes", Keywords: []string{"rust", "cargo", "tokio", "wasm"}},
	{Emoji: "☕", Code: ":coffee:", Description: "Java changes", Keywords: []string{"java", "spring", "maven", "gradle", "jvm"}},
	{Emoji: "🐳", Code: ":whale:", Description: "Docker changes", Keywords: []string{"docker", "container", "dockerfile", "image"}},
}

// All returns a copy of the emoji table in its fixed order.
func All() []Gitmoji {
	out := make([]Gitmoji, len(gitmojis))
	copy(out, gitmojis)
	return out
}

// Score rates how well g matches message, from 0 to 100.
func Score(message string, g Gitmoji) int {
	msg := strings.ToLower(message)
	score := 0

	for _, kw := range g.Keywords {
		if strings.Contains(msg, kw) {
			score += keywordScore
		}
		if len(kw) >= 3 && strings.Contains(msg, kw[:3]) {
			score += prefixScore
		}
	}

	for _, word := range strings.Fields(strings.ToLower(g.Description)) {
		if len(word) > 2 && strings.Contains(msg, word) {
			score += descriptionScore
		}
	}

	return min(score, maxScore)
}

// FindBest returns the highest scoring entry above the confidence threshold.
// Ties keep the earlier entry. Blank messages never match.
func FindBest(message string) (Gitmoji, bool) {
	if strings.TrimSpace(message) == "" {
		return Gitmoji{}, false
	}

	var best Gitmoji
	bestScore := minScore
	found := false
	for _, g := range gitmojis {
		if s := Score(message, g); s > bestScore {
			best, bestScore, found = g, s, true
		}
	}
	return best, found
}

// Prepend puts the emoji in front of message.
func Prepend(message string, g Gitmoji) string {
	return g.Emoji + " " + message
}

// Selector decorates messages, falling back to a random entry when no
// keyword match is confident enough.
type Selector struct {
	rng *rand.Rand
}

// NewSelector returns a Selector drawing fallbacks from rng. A nil rng uses
// the automatically seeded global source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Random returns a uniformly chosen entry.
func (s *Selector) Random() Gitmoji {
	if s.rng == nil {
		return gitmojis[rand.IntN(len(gitmojis))]
	}
	return gitmojis[s.rng.IntN(len(gitmojis))]
}

// Pick returns the best match for message or a random entry. ok is false
// for blank messages, which get no emoji.
func (s *Selector) Pick(message string) (g Gitmoji, ok bool) {
	if strings.TrimSpace(message) == "" {
		return Gitmoji{}, false
	}
	if g, ok := FindBest(message); ok {
		return g, true
	}
	return s.Random(), true
}

// Decorate prefixes message with its emoji. Blank messages are returned
// unchanged.
func (s *Selector) Decorate(message string) string {
	g, ok := s.Pick(message)
	if !ok {
		return message
	}
	return Prepend(message, g)
}
