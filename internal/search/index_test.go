package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "go", "1", "23"}, Tokenize("Hello, World! Go 1.23"))
	assert.Equal(t, []string{"博", "客", "blog"}, Tokenize("博客 blog"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestIndex_PrefixAndConjunction(t *testing.T) {
	ix := New()
	ix.Add(0, "Writing a markdown parser", 3)
	ix.Add(0, "frontmatter and markdown bodies", 1)
	ix.Add(1, "Counting page views", 3)
	ix.Add(1, "a mutex guarded map of markdown slugs", 1)
	ix.Add(2, "Unrelated notes", 3)

	assert.Equal(t, []int{0, 1}, ix.Search("mark"))
	assert.Equal(t, []int{1}, ix.Search("markdown views"))
	assert.Equal(t, []int{0}, ix.Search("PARSER"))
	assert.Empty(t, ix.Search("nothing-here"))
	assert.Nil(t, ix.Search("   "))
}

func TestIndex_RanksByWeightThenDoc(t *testing.T) {
	ix := New()
	ix.Add(0, "go", 1)
	ix.Add(1, "go go", 3)
	ix.Add(2, "go", 1)

	assert.Equal(t, []int{1, 0, 2}, ix.Search("go"))
	assert.Equal(t, 1, ix.Terms())
}
