package match

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"Identical", "cucumbers", "cucumbers", 1},
		{"BothEmpty", "", "", 1},
		{"OneEmpty", "cucumbers", "", 0},
		{"Transposition", "appel", "apple", 0.8},
		{"MissingPlural", "cucumber", "cucumbers", 2 * 8.0 / 17.0},
		{"Disjoint", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			assert.True(t, got > tt.want-1e-9 && got < tt.want+1e-9,
				"Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		})
	}
}

func TestRatioSymmetricBounds(t *testing.T) {
	pairs := [][2]string{
		{"spaghetti", "spagetti"},
		{"tomatoes", "tomato"},
		{"north", "nort"},
	}
	for _, p := range pairs {
		r := Ratio(p[0], p[1])
		assert.True(t, r >= 0 && r <= 1)
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"cherry tomatoes", "spaghetti", "cucumbers"}

	t.Run("TypoResolves", func(t *testing.T) {
		got, ok := Closest("cucmbers", candidates, 0.75)
		assert.True(t, ok)
		assert.Equal(t, "cucumbers", got)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got, ok := Closest("SPAGHETTI", candidates, 0.75)
		assert.True(t, ok)
		assert.Equal(t, "spaghetti", got)
	})

	t.Run("BelowCutoff", func(t *testing.T) {
		_, ok := Closest("zzz", candidates, 0.75)
		assert.False(t, ok)
	})

	t.Run("FirstOfEqualWins", func(t *testing.T) {
		got, ok := Closest("abcd", []string{"abcx", "abcy"}, 0.7)
		assert.True(t, ok)
		assert.Equal(t, "abcx", got)
	})
}

func TestCutoffFor(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cutoff float64
		want   float64
	}{
		{"LongTextKeepsCutoff", "cucumbers", 0.6, 0.6},
		{"ShortTextRaised", "box", 0.6, 0.8},
		{"FourRunesRaised", "abcd", 0.75, 0.8},
		{"FiveRunesKept", "abcde", 0.75, 0.75},
		{"AlreadyHighKept", "box", 0.9, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CutoffFor(tt.text, tt.cutoff))
		})
	}
}

func TestResolve(t *testing.T) {
	items := []string{"cherry tomatoes", "cucumbers"}
	aliases := map[string]string{"cherry": "cherry tomatoes"}

	tests := []struct {
		name     string
		text     string
		want     string
		wantKind Kind
	}{
		{"Exact", "cucumbers", "cucumbers", Exact},
		{"ExactCaseFolded", "Cucumbers", "cucumbers", Exact},
		{"Alias", "cherry", "cherry tomatoes", Alias},
		{"FuzzyItem", "cucmbers", "cucumbers", Fuzzy},
		{"FuzzyAliasResolvesToTarget", "chery", "cherry tomatoes", Fuzzy},
		{"NoMatch", "zucchini", "", None},
		{"Empty", "  ", "", None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := Resolve(tt.text, items, aliases, 0.75)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "exact", Exact.String())
	assert.Equal(t, "alias", Alias.String())
	assert.Equal(t, "fuzzy", Fuzzy.String())
}
