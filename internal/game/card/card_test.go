package card

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_ResetHasEveryCard(t *testing.T) {
	t.Parallel()

	d := NewDeck(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, 0, d.Len())

	d.Reset()
	require.Equal(t, DeckSize, d.Len())

	cards := d.Cards()
	for i, c := range cards {
		assert.Equal(t, Card(i+1), c)
	}
}

func TestDeck_DrawOneWithoutReplacement(t *testing.T) {
	t.Parallel()

	d := NewDeck(rand.New(rand.NewPCG(42, 7)))
	d.Reset()

	seen := make(map[Card]bool)
	for range DeckSize {
		c, ok := d.DrawOne()
		require.True(t, ok)
		assert.True(t, c.Valid(), "card %d out of range", c)
		assert.False(t, seen[c], "card %d drawn twice", c)
		seen[c] = true
	}

	assert.Len(t, seen, DeckSize)
	assert.Equal(t, 0, d.Len())

	// Exhausted deck is a normal condition
	_, ok := d.DrawOne()
	assert.False(t, ok)
}

func TestDeck_ResetAfterDraws(t *testing.T) {
	t.Parallel()

	d := NewDeck(nil)
	d.Reset()
	for range 30 {
		_, _ = d.DrawOne()
	}
	assert.Equal(t, DeckSize-30, d.Len())

	d.Reset()
	assert.Equal(t, DeckSize, d.Len())
}

func TestCard_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, Card(1).Valid())
	assert.True(t, Card(100).Valid())
	assert.False(t, Card(0).Valid())
	assert.False(t, Card(101).Valid())
	assert.False(t, Card(-3).Valid())
	assert.Equal(t, "42", Card(42).String())
}

func TestHandHelpers(t *testing.T) {
	t.Parallel()

	hand := []Card{3, 17, 42, 88}

	t.Run("ContainsAll", func(t *testing.T) {
		assert.True(t, ContainsAll(hand, []Card{42, 3}))
		assert.True(t, ContainsAll(hand, nil))
		assert.False(t, ContainsAll(hand, []Card{42, 43}))
		// duplicates need as many copies in hand
		assert.False(t, ContainsAll(hand, []Card{42, 42}))
	})

	t.Run("RemoveCards", func(t *testing.T) {
		left := RemoveCards(hand, []Card{17, 88})
		assert.Equal(t, []Card{3, 42}, left)
		assert.Equal(t, []Card{3, 17, 42, 88}, hand, "input must not be modified")
	})

	t.Run("Merge", func(t *testing.T) {
		assert.Equal(t, []Card{1, 3, 17, 42, 50, 88}, Merge(hand, []Card{50, 1}))
	})

	t.Run("Sorted", func(t *testing.T) {
		assert.Equal(t, []Card{5, 9, 60}, Sorted([]Card{60, 5, 9}))
	})

	t.Run("IntConversion", func(t *testing.T) {
		assert.Equal(t, []int{3, 17, 42, 88}, ToInts(hand))
		assert.Equal(t, hand, FromInts([]int{3, 17, 42, 88}))
	})
}
