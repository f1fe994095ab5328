// Package search is a small in-memory full text index over the loaded
// posts. Terms live in a double-array trie so a query word matches every
// indexed term it prefixes.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vcaesar/cedar"
)

// maxExpansions caps how many indexed terms one query word may expand to.
const maxExpansions = 256

// Index maps terms to the documents that contain them. Documents are
// identified by small integers chosen by the caller; lower ids win ties.
// An Index is not safe for concurrent writes, but once built it may be
// searched from many goroutines.
type Index struct {
	trie     *cedar.Cedar
	postings []map[int]int // term id -> doc -> weight
}

func New() *Index {
	return &Index{trie: cedar.New()}
}

// Add indexes text for doc. weight multiplies the score of every term.
func (ix *Index) Add(doc int, text string, weight int) {
	for _, term := range Tokenize(text) {
		key := []byte(term)
		id, err := ix.trie.Get(key)
		if err != nil {
			id = len(ix.postings)
			if err := ix.trie.Insert(key, id); err != nil {
				continue
			}
			ix.postings = append(ix.postings, make(map[int]int))
		}
		ix.postings[id][doc] += weight
	}
}

// Search returns the ids of documents matching every word of query,
// best match first.
func (ix *Index) Search(query string) []int {
	words := Tokenize(query)
	if len(words) == 0 {
		return nil
	}

	var scores map[int]int
	for _, word := range words {
		matched := ix.match(word)
		if scores == nil {
			scores = matched
			continue
		}
		for doc, score := range scores {
			if extra, ok := matched[doc]; ok {
				scores[doc] = score + extra
			} else {
				delete(scores, doc)
			}
		}
	}

	docs := make([]int, 0, len(scores))
	for doc := range scores {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if scores[docs[i]] != scores[docs[j]] {
			return scores[docs[i]] > scores[docs[j]]
		}
		return docs[i] < docs[j]
	})
	return docs
}

// match collects the weighted documents of every term starting with word.
func (ix *Index) match(word string) map[int]int {
	out := make(map[int]int)
	for _, node := range ix.trie.PrefixPredict([]byte(word), maxExpansions) {
		id, err := ix.trie.Value(node)
		if err != nil || id < 0 || id >= len(ix.postings) {
			continue
		}
		for doc, weight := range ix.postings[id] {
			out[doc] += weight
		}
	}
	return out
}

// Terms returns the number of distinct indexed terms.
func (ix *Index) Terms() int {
	return len(ix.postings)
}

// Tokenize lowercases text and splits it into words of letters and digits.
// Han characters are emitted one per token since they carry no spaces.
func Tokenize(text string) []string {
	var (
		tokens []string
		sb     strings.Builder
	)
	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}
