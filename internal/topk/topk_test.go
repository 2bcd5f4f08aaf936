package topk_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/topk"
)

// SelectorSuite exercises the bounded selector.
type SelectorSuite struct {
	suite.Suite
}

func candidate(score int, order uint64) topk.Candidate {
	return topk.Candidate{Score: score, Cipher: cipher.KindCaesar, Order: order}
}

// TestDefaultCapacity checks that a non-positive K falls back to DefaultK.
func (s *SelectorSuite) TestDefaultCapacity() {
	require.Equal(s.T(), topk.DefaultK, topk.New(0).Cap())
	require.Equal(s.T(), topk.DefaultK, topk.New(-3).Cap())
	require.Equal(s.T(), 7, topk.New(7).Cap())
}

// TestBelowCapacityKeepsEverything fills without evicting.
func (s *SelectorSuite) TestBelowCapacityKeepsEverything() {
	sel := topk.New(5)
	for i, score := range []int{3, 1, 2} {
		sel.Insert(candidate(score, uint64(i)))
	}
	require.Equal(s.T(), 3, sel.Len())

	sorted := sel.Sorted()
	require.Equal(s.T(), []int{3, 2, 1}, scores(sorted))
}

// TestEvictsMinimum replaces the lowest candidate only with a better one.
func (s *SelectorSuite) TestEvictsMinimum() {
	sel := topk.New(3)
	for i, score := range []int{10, 20, 30} {
		sel.Insert(candidate(score, uint64(i)))
	}

	sel.Insert(candidate(5, 3))
	require.Equal(s.T(), []int{30, 20, 10}, scores(sel.Sorted()), "lower score must be discarded")

	sel.Insert(candidate(10, 4))
	require.Equal(s.T(), uint64(0), mustMin(s.T(), sel).Order, "equal score arriving later must be discarded")

	sel.Insert(candidate(25, 5))
	require.Equal(s.T(), []int{30, 25, 20}, scores(sel.Sorted()))
}

// TestAdmitsMatchesInsert checks the pre-check agrees with Insert.
func (s *SelectorSuite) TestAdmitsMatchesInsert() {
	sel := topk.New(2)
	require.True(s.T(), sel.Admits(0, 0))

	sel.Insert(candidate(10, 0))
	sel.Insert(candidate(20, 1))

	require.False(s.T(), sel.Admits(9, 2))
	require.False(s.T(), sel.Admits(10, 2))
	require.True(s.T(), sel.Admits(11, 2))
}

// TestBest returns the highest candidate, earliest on ties.
func (s *SelectorSuite) TestBest() {
	sel := topk.New(4)
	_, ok := sel.Best()
	require.False(s.T(), ok)

	sel.Insert(candidate(7, 2))
	sel.Insert(candidate(9, 5))
	sel.Insert(candidate(9, 3))
	sel.Insert(candidate(1, 0))

	best, ok := sel.Best()
	require.True(s.T(), ok)
	require.Equal(s.T(), 9, best.Score)
	require.Equal(s.T(), uint64(3), best.Order)
}

// TestBoundAndEvictionInvariant streams random scores and checks that the
// selector holds exactly the top K and that nothing evicted beats what is kept.
func (s *SelectorSuite) TestBoundAndEvictionInvariant() {
	const k = 5
	rng := rand.New(rand.NewSource(42))
	sel := topk.New(k)

	all := make([]int, 0, 1000)
	for i := 0; i < 1000; i++ {
		score := rng.Intn(200)
		all = append(all, score)
		sel.Insert(candidate(score, uint64(i)))
		require.LessOrEqual(s.T(), sel.Len(), k)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(all)))
	require.Equal(s.T(), all[:k], scores(sel.Sorted()))

	kth := mustMin(s.T(), sel).Score
	for _, score := range all[k:] {
		require.LessOrEqual(s.T(), score, kth)
	}
}

// TestMergeMatchesSequential checks that splitting a stream across selectors
// and merging gives the same result as one selector, for any split.
func (s *SelectorSuite) TestMergeMatchesSequential() {
	rng := rand.New(rand.NewSource(7))
	stream := make([]topk.Candidate, 500)
	for i := range stream {
		// narrow score range forces many ties
		stream[i] = candidate(rng.Intn(10), uint64(i))
	}

	whole := topk.New(5)
	for _, c := range stream {
		whole.Insert(c)
	}

	for _, parts := range []int{2, 3, 7} {
		merged := topk.New(5)
		size := (len(stream) + parts - 1) / parts
		// merge in reverse to show order does not matter
		for p := parts - 1; p >= 0; p-- {
			part := topk.New(5)
			end := (p + 1) * size
			if end > len(stream) {
				end = len(stream)
			}
			for _, c := range stream[p*size : end] {
				part.Insert(c)
			}
			merged.Merge(part)
		}
		require.Equal(s.T(), whole.Sorted(), merged.Sorted(), "parts=%d", parts)
	}
}

// TestMergeNil is a no-op.
func (s *SelectorSuite) TestMergeNil() {
	sel := topk.New(2)
	sel.Insert(candidate(1, 0))
	sel.Merge(nil)
	require.Equal(s.T(), 1, sel.Len())
}

// TestReset empties the selector.
func (s *SelectorSuite) TestReset() {
	sel := topk.New(2)
	sel.Insert(candidate(1, 0))
	sel.Reset()
	require.Equal(s.T(), 0, sel.Len())
	require.Equal(s.T(), 2, sel.Cap())
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorSuite))
}

func TestNewCandidate(t *testing.T) {
	c := topk.NewCandidate(42, cipher.KindCaesar, cipher.ShiftKey(3), "plain", 80, 9)
	require.Equal(t, "shift 3", c.Params)
	require.Equal(t, "Caesar", c.CipherType())
	require.Equal(t, "plain", c.Preview)
	require.Equal(t, uint64(9), c.Order)

	c = topk.NewCandidate(1, cipher.KindPolybius, cipher.NoKey{Kind: cipher.KindPolybius}, "", 80, 0)
	require.Equal(t, "Polybius Square", c.Params)

	c = topk.NewCandidate(1, cipher.KindReverse, nil, "", 80, 0)
	require.Equal(t, "Reverse", c.Params)
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("a", 100)
	require.Len(t, topk.Preview(long, 80), 80)
	require.Equal(t, "short", topk.Preview("short", 80))
	require.Len(t, topk.Preview(long, 0), topk.DefaultPreviewLength)

	// multi-byte characters are never split
	accented := strings.Repeat("é", 90)
	require.Equal(t, strings.Repeat("é", 80), topk.Preview(accented, 80))
}

func scores(cs []topk.Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Score
	}
	return out
}

func mustMin(t *testing.T, sel *topk.Selector) topk.Candidate {
	t.Helper()
	c, ok := sel.Min()
	require.True(t, ok)
	return c
}
