package pile

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/take-eleven/internal/game/card"
)

func TestCanPushCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pile     []card.Card
		card     card.Card
		expected bool
	}{
		{name: "empty pile never accepts", pile: nil, card: 5, expected: false},
		{name: "empty non-nil pile", pile: []card.Card{}, card: 5, expected: false},
		{name: "next card", pile: []card.Card{10}, card: 11, expected: true},
		{name: "gap of ten", pile: []card.Card{10}, card: 20, expected: true},
		{name: "gap of eleven", pile: []card.Card{10}, card: 21, expected: false},
		{name: "equal to top", pile: []card.Card{10}, card: 10, expected: false},
		{name: "below top", pile: []card.Card{10}, card: 9, expected: false},
		{name: "top 90 reaches 100", pile: []card.Card{90}, card: 100, expected: true},
		{name: "top 90 does not wrap", pile: []card.Card{90}, card: 1, expected: false},
		{name: "top 95 above", pile: []card.Card{95}, card: 100, expected: true},
		{name: "top 95 wraps to 5", pile: []card.Card{95}, card: 5, expected: true},
		{name: "top 95 wraps not to 6", pile: []card.Card{95}, card: 6, expected: false},
		{name: "top 91 wraps to 1", pile: []card.Card{91}, card: 1, expected: true},
		{name: "top 91 not 2", pile: []card.Card{91}, card: 2, expected: false},
		{name: "top 100 wraps to 10", pile: []card.Card{100}, card: 10, expected: true},
		{name: "top 100 not 11", pile: []card.Card{100}, card: 11, expected: false},
		{name: "uses last card only", pile: []card.Card{3, 12}, card: 21, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CanPushCard(tt.pile, tt.card))
		})
	}
}

func TestCanPushOnTop_Exhaustive(t *testing.T) {
	t.Parallel()

	for top := card.MinCard; top <= card.MaxCard; top++ {
		for c := card.MinCard; c <= card.MaxCard; c++ {
			var want bool
			if top <= 90 {
				want = top < c && c <= top+10
			} else {
				want = c > top || c <= top-90
			}
			assert.Equal(t, want, CanPushOnTop(top, c), "top=%d card=%d", top, c)
		}
	}
}

func newDeck(seed uint64) *card.Deck {
	d := card.NewDeck(rand.New(rand.NewPCG(seed, seed+1)))
	d.Reset()
	return d
}

func TestTable_SeedAndPush(t *testing.T) {
	t.Parallel()

	deck := newDeck(1)
	table := NewTable()
	table.Seed(deck)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 1, table.Size(0))
	assert.Equal(t, card.DeckSize-1, deck.Len())
	assert.False(t, table.AllEmpty())

	top, ok := table.Top(0)
	require.True(t, ok)

	table.Push(0, []card.Card{top + 200, top + 100}) // values do not matter here, order does
	p, ok := table.Get(0)
	require.True(t, ok)
	assert.Equal(t, []card.Card{top, top + 100, top + 200}, p)
	assert.Equal(t, 3, table.CardCount())
}

func TestTable_TakeKeepsSlotAndReplenishes(t *testing.T) {
	t.Parallel()

	deck := newDeck(2)
	table := NewTable()
	table.Seed(deck)
	first, _ := table.Top(0)

	taken := table.Take(0, deck)
	assert.Equal(t, []card.Card{first}, taken)

	// slot 0 kept as an empty pile, two new piles appended
	require.Equal(t, 3, table.Len())
	assert.Equal(t, 0, table.Size(0))
	assert.Equal(t, 1, table.Size(1))
	assert.Equal(t, 1, table.Size(2))
	_, ok := table.Top(0)
	assert.False(t, ok)
	assert.Equal(t, card.DeckSize-3, deck.Len())
}

func TestTable_TakeWithExhaustedDeck(t *testing.T) {
	t.Parallel()

	deck := newDeck(3)
	table := NewTable()
	table.Seed(deck)

	// leave exactly one card in the deck
	for deck.Len() > 1 {
		_, _ = deck.DrawOne()
	}

	table.Take(0, deck)
	assert.Equal(t, 2, table.Len(), "only one replacement pile can be drawn")

	table.Take(1, deck)
	assert.Equal(t, 2, table.Len())
	assert.True(t, table.AllEmpty())
}

func TestTable_GetOutOfRange(t *testing.T) {
	t.Parallel()

	table := NewTable()
	assert.True(t, table.AllEmpty())
	assert.False(t, table.Exists(0))
	assert.False(t, table.Exists(-1))

	_, ok := table.Get(3)
	assert.False(t, ok)
	assert.Equal(t, 0, table.Size(3))
}

func TestTable_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	deck := newDeck(4)
	table := NewTable()
	table.Seed(deck)

	snap := table.Snapshot()
	snap[0][0] = 0
	top, _ := table.Top(0)
	assert.NotEqual(t, card.Card(0), top)
}
