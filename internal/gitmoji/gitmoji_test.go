package gitmoji

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byCode(t *testing.T, code string) Gitmoji {
	t.Helper()
	for _, g := range gitmojis {
		if g.Code == code {
			return g
		}
	}
	t.Fatalf("no gitmoji %s", code)
	return Gitmoji{}
}

func TestTable(t *testing.T) {
	all := All()
	require.Len(t, all, 25)
	assert.Equal(t, ":art:", all[0].Code)
	assert.Equal(t, ":whale:", all[len(all)-1].Code)

	seen := make(map[string]bool)
	for _, g := range all {
		assert.NotEmpty(t, g.Emoji)
		assert.NotEmpty(t, g.Description)
		assert.False(t, seen[g.Code], "duplicate code %s", g.Code)
		seen[g.Code] = true
		for _, kw := range g.Keywords {
			assert.Equal(t, strings.ToLower(kw), kw, "keywords are matched against lower-cased text")
		}
	}

	all[0].Emoji = "x"
	assert.NotEqual(t, "x", gitmojis[0].Emoji, "All must return a copy")
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		message string
		code    string
		want    int
	}{
		{name: "keyword and prefix", message: "speed", code: ":zap:", want: 50},
		{name: "capped", message: "fix crash on startup", code: ":bug:", want: 100},
		{name: "description word only", message: "fix", code: ":rotating_light:", want: 15},
		{name: "case insensitive", message: "Update DOCKERFILE", code: ":whale:", want: 100},
		{name: "prefix only", message: "optional", code: ":zap:", want: 10},
		{name: "no match", message: "nothing relevant", code: ":crab:", want: 0},
		{name: "empty message", message: "", code: ":bug:", want: 0},
		{name: "keyword prefix and description", message: "seo", code: ":mag:", want: 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.message, byCode(t, tt.code)))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	messages := []string{
		"",
		"fix fix fix bug bug crash error issue",
		"Add tests and documentation for the new feature",
		"upgrade dependencies, update npm packages and docker image",
		"🎉",
	}
	for _, msg := range messages {
		for _, g := range gitmojis {
			s := Score(msg, g)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestScoreExactKeyword(t *testing.T) {
	for _, g := range gitmojis {
		for _, kw := range g.Keywords {
			assert.GreaterOrEqual(t, Score(kw, g), 40, "%s on %s", kw, g.Code)
		}
	}
}

func TestFindBest(t *testing.T) {
	tests := []struct {
		message string
		code    string
	}{
		{message: "fix crash on startup", code: ":bug:"},
		{message: "Add tests for parser", code: ":white_check_mark:"},
		{message: "Remove unused helpers", code: ":fire:"},
		{message: "bump tokio and cargo lock", code: ":crab:"},
		// art and rotating_light both score 50; the earlier entry wins.
		{message: "lint", code: ":art:"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			g, ok := FindBest(tt.message)
			require.True(t, ok)
			assert.Equal(t, tt.code, g.Code)
		})
	}
}

func TestRandomOnlyDrawsTableEntries(t *testing.T) {
	s := NewSelector(rand.New(rand.NewPCG(3, 9)))
	for i := 0; i < 500; i++ {
		g := s.Random()
		assert.NotEqual(t, ":star:", g.Code)
		assert.Contains(t, gitmojis, g)
	}

	for _, g := range gitmojis {
		assert.Zero(t, Score("general", g), g.Code)
	}
}

func TestFindBestNoConfidentMatch(t *testing.T) {
	for _, msg := range []string{"", "   \n\t", "zzz qqq"} {
		_, ok := FindBest(msg)
		assert.False(t, ok, "%q", msg)
	}
}

func TestSelectorDecorate(t *testing.T) {
	s := NewSelector(rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, "🐛 fix crash on startup", s.Decorate("fix crash on startup"))
	assert.Equal(t, "", s.Decorate(""))
	assert.Equal(t, "  ", s.Decorate("  "))
}

func TestSelectorRandomFallbackIsSeeded(t *testing.T) {
	a := NewSelector(rand.New(rand.NewPCG(42, 7)))
	b := NewSelector(rand.New(rand.NewPCG(42, 7)))

	for i := 0; i < 20; i++ {
		ga, ok := a.Pick("zzz qqq")
		require.True(t, ok)
		gb, _ := b.Pick("zzz qqq")
		assert.Equal(t, ga, gb)
		assert.Contains(t, gitmojis, ga)
	}

	got := a.Decorate("zzz qqq")
	assert.True(t, strings.HasSuffix(got, " zzz qqq"))
}

func TestSelectorNilRand(t *testing.T) {
	s := NewSelector(nil)
	g := s.Random()
	assert.Contains(t, gitmojis, g)
}
