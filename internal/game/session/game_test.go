package session

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/take-eleven/internal/apperrors"
	"github.com/palemoky/take-eleven/internal/game/bull"
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/pile"
	"github.com/palemoky/take-eleven/internal/game/rule"
	"github.com/palemoky/take-eleven/internal/protocol"
)

func newTestSession(t *testing.T, ids ...string) *GameSession {
	t.Helper()
	gs := NewGameSession(DefaultConfig(), rand.New(rand.NewPCG(1, 2)))
	for _, id := range ids {
		_, err := gs.Register(id, "nick-"+id)
		require.NoError(t, err)
	}
	return gs
}

func startSession(t *testing.T, ids ...string) *GameSession {
	t.Helper()
	gs := newTestSession(t, ids...)
	for _, id := range ids {
		_, err := gs.SetReady(id, true)
		require.NoError(t, err)
	}
	require.True(t, gs.Started())
	return gs
}

func arrange(gs *GameSession, hands map[string][]card.Card, piles ...[]card.Card) {
	gs.Arrange(hands, piles...)
}

func cards(values ...int) []card.Card {
	return card.FromInts(values)
}

func TestGameSession_StartDealsRound(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a", "b", "c")

	started, err := gs.SetReady("a", true)
	require.NoError(t, err)
	assert.False(t, started)

	started, err = gs.SetReady("b", true)
	require.NoError(t, err)
	assert.False(t, started)

	started, err = gs.SetReady("c", true)
	require.NoError(t, err)
	assert.True(t, started)

	assert.True(t, gs.Started())
	assert.Equal(t, 1, gs.Round())
	assert.Equal(t, 0, gs.Turn())
	assert.Equal(t, "a", gs.CurrentPlayerID())
	assert.Equal(t, 10, gs.FreeBull())
	assert.Equal(t, 10, gs.BullTotal())
	assert.Equal(t, 1, gs.table.Len())
	assert.Equal(t, 1, gs.table.Size(0))

	for _, p := range gs.room.Ordered() {
		assert.Len(t, p.Hand, 10)
		assert.IsIncreasing(t, p.Hand)
		assert.Zero(t, p.Bull)
	}
	assert.Equal(t, card.DeckSize, gs.CardCount())
	assert.Equal(t, card.DeckSize-31, gs.deck.Len())
}

func TestGameSession_SinglePlayerNeverStarts(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a")
	started, err := gs.SetReady("a", true)
	require.NoError(t, err)
	assert.False(t, started)
	assert.False(t, gs.Started())
	assert.Empty(t, gs.CurrentPlayerID())
}

func TestGameSession_LobbyOperationsRejectedWhileStarted(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")

	_, err := gs.Register("c", "late")
	assert.ErrorIs(t, err, apperrors.ErrRegisterGameStarted)

	_, err = gs.SetReady("a", false)
	assert.ErrorIs(t, err, apperrors.ErrReadyGameStarted)

	_, err = gs.Logout("a")
	assert.ErrorIs(t, err, apperrors.ErrLogoutGameStarted)

	_, err = gs.SetReady("ghost", true)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = gs.Logout("ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGameSession_LogoutCanStartRound(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a", "b", "c")
	_, _ = gs.SetReady("a", true)
	_, _ = gs.SetReady("b", true)
	require.False(t, gs.Started())

	started, err := gs.Logout("c")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, 2, gs.PlayerCount())
}

func TestGameSession_LoginAndFetch(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a", "b")

	_, _, err := gs.Login("ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	no, started, err := gs.Login("b")
	require.NoError(t, err)
	assert.Equal(t, 1, no)
	assert.False(t, started)

	_, err = gs.Fetch("ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, _ = gs.SetReady("a", true)
	_, _ = gs.SetReady("b", true)

	p, err := gs.Fetch("a")
	require.NoError(t, err)
	assert.Equal(t, "nick-a", p.Nickname)
	assert.Len(t, p.Hand, 10)

	// the returned hand is a copy
	p.Hand[0] = 0
	assert.NotEqual(t, card.Card(0), gs.room.Players["a"].Hand[0])

	rec := ToPlayerRecord(p)
	assert.Equal(t, 0, rec.No)
	assert.Len(t, rec.Hand, 10)
}

func TestGameSession_EndToEnd(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	arrange(gs, map[string][]card.Card{
		"a": cards(5, 30),
		"b": cards(60, 61),
	}, cards(3))

	// a pushes a valid card: turn moves to b and pile 0 grows by one
	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(5)}}})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Equal(t, 0, out.Diff.PlayerNo)
	assert.Equal(t, []PileInc{{No: 0, Num: 1}}, out.Diff.PilesInc)
	assert.Equal(t, -1, out.Diff.PileDecNo)
	assert.Nil(t, out.Diff.TargetNo)
	assert.Equal(t, 1, gs.Turn())
	assert.Equal(t, 2, gs.table.Size(0))

	// b cannot push 60 on 5, passes
	out, err = gs.Action("b", ActionRequest{})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Empty(t, out.Diff.PilesInc)
	assert.Equal(t, 0, gs.Turn())

	// a empties the hand: round finishes
	out, err = gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(30)}}})
	require.ErrorIs(t, err, apperrors.ErrCardNotPushable)
	require.Nil(t, out)

	gs.room.Players["a"].Hand = cards(7)
	out, err = gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(7)}}})
	require.NoError(t, err)
	require.True(t, out.Finished())

	// the status snapshot is taken before settlement
	assert.True(t, out.Status.Started)
	assert.Equal(t, protocol.StateBroadcastGameStatus, out.Status.State)
	require.NotNil(t, out.Status.Diff)
	assert.Equal(t, 0, out.Status.Diff.PlayerNo)
	assert.Equal(t, 3, out.Status.Piles[0].Num)

	res := out.Result
	assert.False(t, gs.Started())
	assert.Equal(t, 1, res.Round)
	require.Len(t, res.Players, 2)
	assert.Equal(t, 0, res.Players[0].NewHead)
	assert.Equal(t, 0, res.Players[0].Head)
	assert.Equal(t, rule.ScoreOf(60)+rule.ScoreOf(61), res.Players[1].NewHead)
	assert.Equal(t, 4, res.Players[1].Head)
	for _, p := range gs.room.Players {
		assert.False(t, p.Ready)
	}

	end := res.Payload()
	assert.Equal(t, protocol.StateBroadcastGameEnd, end.State)
	assert.False(t, end.Started)
	assert.Equal(t, [][]int{{3, 5, 7}}, end.Piles)
	assert.Equal(t, []int{60, 61}, end.Players[1].Hand)

	// next round adds on top of the previous score
	_, _ = gs.SetReady("a", true)
	_, _ = gs.SetReady("b", true)
	require.True(t, gs.Started())
	assert.Equal(t, 2, gs.Round())
	assert.Equal(t, 4, gs.room.Players["b"].Head)
	assert.Zero(t, gs.room.Players["b"].Bull)
}

func TestGameSession_FinishWhenAllPilesEmpty(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	arrange(gs, map[string][]card.Card{
		"a": cards(50),
		"b": cards(70),
	}, cards(3, 4), nil)

	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0}}})
	require.NoError(t, err)
	require.True(t, out.Finished())
	assert.Equal(t, 0, out.Diff.PileDecNo)
	assert.Zero(t, out.Diff.BullDiff)
	assert.Equal(t, 2, gs.table.Len(), "deck is empty so nothing is replenished")

	a := out.Result.Players[0]
	assert.Equal(t, []card.Card{3, 4, 50}, a.Hand)
	assert.Equal(t, rule.ScoreOf(3)+rule.ScoreOf(4)+rule.ScoreOf(50), a.NewHead)
}

func TestGameSession_PickReplenishes(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	handA := card.Sorted(gs.room.Players["a"].Hand)
	first, _ := gs.table.Top(0)
	before := gs.deck.Len()

	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0}}})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Equal(t, 0, out.Diff.PileDecNo)
	assert.Zero(t, out.Diff.BullDiff, "a single card does not award a bull")
	assert.Equal(t, card.Merge(handA, []card.Card{first}), gs.room.Players["a"].Hand)

	// the taken slot stays, two one-card piles are appended
	assert.Equal(t, 3, gs.table.Len())
	assert.Equal(t, 0, gs.table.Size(0))
	assert.Equal(t, before-2, gs.deck.Len())
	assert.Equal(t, card.DeckSize, gs.CardCount())
	assert.Equal(t, 10, gs.FreeBull())
}

func TestGameSession_PickThreeTakesFromPool(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	arrange(gs, map[string][]card.Card{
		"a": cards(50),
		"b": cards(70),
	}, cards(3, 4, 6), cards(80))

	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0}}})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Equal(t, 1, out.Diff.BullDiff)
	assert.Nil(t, out.Diff.TargetNo)
	assert.Equal(t, 1, gs.room.Players["a"].Bull)
	assert.Equal(t, 9, gs.FreeBull())
	assert.Equal(t, 10, gs.BullTotal())
}

func TestGameSession_StealWhenPoolDry(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b", "c")
	arrange(gs, map[string][]card.Card{
		"a": cards(50),
		"b": cards(70),
		"c": cards(90),
	}, cards(3, 4, 6), cards(80))
	gs.pool = bull.NewPool(0)
	gs.room.Players["a"].Bull = 1
	gs.room.Players["b"].Bull = 3
	gs.room.Players["c"].Bull = 1

	pick := func(target *int) ActionRequest {
		return ActionRequest{Stacks: []Stack{{PileNo: 0}}, TargetNo: target}
	}
	seat := func(n int) *int { return &n }

	_, err := gs.Action("a", pick(nil))
	assert.ErrorIs(t, err, apperrors.ErrTargetNotFound)
	_, err = gs.Action("a", pick(seat(5)))
	assert.ErrorIs(t, err, apperrors.ErrTargetNotFound)
	_, err = gs.Action("a", pick(seat(0)))
	assert.ErrorIs(t, err, apperrors.ErrTargetNotFound, "cannot steal from yourself")
	_, err = gs.Action("a", pick(seat(2)))
	assert.ErrorIs(t, err, apperrors.ErrNeitherAtMaxBull)

	gs.room.Players["c"].Bull = 0
	_, err = gs.Action("a", pick(seat(2)))
	assert.ErrorIs(t, err, apperrors.ErrTargetHasNoTokens)

	// a has 1 stack allowed; b holds the maximum so the steal is legal
	out, err := gs.Action("a", pick(seat(1)))
	require.NoError(t, err)
	require.NotNil(t, out.Diff.TargetNo)
	assert.Equal(t, 1, *out.Diff.TargetNo)
	assert.Equal(t, 1, out.Diff.BullDiff)
	assert.Equal(t, 2, gs.room.Players["a"].Bull)
	assert.Equal(t, 2, gs.room.Players["b"].Bull)
	assert.Equal(t, 4, gs.BullTotal())
}

func TestGameSession_ActionValidation(t *testing.T) {
	t.Parallel()

	type setup func(gs *GameSession)

	tests := []struct {
		name  string
		id    string
		setup setup
		req   ActionRequest
		want  error
	}{
		{
			name: "unknown player",
			id:   "ghost",
			req:  ActionRequest{},
			want: apperrors.ErrUserNotFound,
		},
		{
			name: "not your turn",
			id:   "b",
			req:  ActionRequest{},
			want: apperrors.ErrNotYourTurn,
		},
		{
			name: "two stacks without bulls",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(12)}, {PileNo: 1, Cards: cards(55)}}},
			want: apperrors.ErrTooManyStacks,
		},
		{
			name: "pile does not exist",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 7, Cards: cards(12)}}},
			want: apperrors.ErrPileNotFound,
		},
		{
			name: "negative pile",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: -1}}},
			want: apperrors.ErrPileNotFound,
		},
		{
			name: "several cards without bulls",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(12, 14)}}},
			want: apperrors.ErrTooManyCards,
		},
		{
			name: "card not in hand",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(13)}}},
			want: apperrors.ErrCardNotInHand,
		},
		{
			name:  "same card twice",
			id:    "a",
			setup: func(gs *GameSession) { gs.room.Players["a"].Bull = 2 },
			req:   ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(12)}, {PileNo: 0, Cards: cards(12)}}},
			want:  apperrors.ErrCardNotInHand,
		},
		{
			name: "card too far from top",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(55)}}},
			want: apperrors.ErrCardNotPushable,
		},
		{
			name: "push onto empty pile",
			id:   "a",
			req:  ActionRequest{Stacks: []Stack{{PileNo: 2, Cards: cards(12)}}},
			want: apperrors.ErrCardNotPushable,
		},
		{
			name:  "second card checked against the first",
			id:    "a",
			setup: func(gs *GameSession) { gs.room.Players["a"].Bull = 1 },
			req:   ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(12, 55)}}},
			want:  apperrors.ErrCardNotPushable,
		},
		{
			name:  "push then pick",
			id:    "a",
			setup: func(gs *GameSession) { gs.room.Players["a"].Bull = 2 },
			req:   ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(12)}, {PileNo: 1}}},
			want:  apperrors.ErrMixPickAndPush,
		},
		{
			name:  "two picks",
			id:    "a",
			setup: func(gs *GameSession) { gs.room.Players["a"].Bull = 2 },
			req:   ActionRequest{Stacks: []Stack{{PileNo: 0}, {PileNo: 1}}},
			want:  apperrors.ErrMixPickAndPush,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gs := startSession(t, "a", "b")
			arrange(gs, map[string][]card.Card{
				"a": cards(12, 14, 55),
				"b": cards(70),
			}, cards(10), cards(50), nil)
			if tt.setup != nil {
				tt.setup(gs)
			}

			handBefore := card.Sorted(gs.room.Players["a"].Hand)
			pilesBefore := gs.table.Snapshot()
			bullBefore := gs.room.Players["a"].Bull

			out, err := gs.Action(tt.id, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)

			// no partial mutation
			assert.Equal(t, handBefore, gs.room.Players["a"].Hand)
			assert.Equal(t, pilesBefore, gs.table.Snapshot())
			assert.Equal(t, bullBefore, gs.room.Players["a"].Bull)
			assert.Equal(t, 0, gs.Turn())
		})
	}
}

func TestGameSession_ActionBeforeStart(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a", "b")
	_, err := gs.Action("a", ActionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrGameNotStarted)

	_, err = gs.Action("ghost", ActionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGameSession_MultiStackPushWithBulls(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	arrange(gs, map[string][]card.Card{
		"a": cards(12, 14, 55, 80, 99),
		"b": cards(70),
	}, cards(10), cards(50), cards(95))
	gs.room.Players["a"].Bull = 3

	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{
		{PileNo: 0, Cards: cards(14, 12)},
		{PileNo: 1, Cards: cards(55)},
		{PileNo: 2, Cards: cards(99)},
	}})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Equal(t, []PileInc{{No: 0, Num: 2}, {No: 1, Num: 1}, {No: 2, Num: 1}}, out.Diff.PilesInc)
	assert.Equal(t, [][]card.Card{{10, 12, 14}, {50, 55}, {95, 99}}, gs.table.Snapshot())
	assert.Equal(t, cards(80), gs.room.Players["a"].Hand)
	assert.True(t, gs.Started())
	assert.Equal(t, 1, gs.Turn())
}

func TestGameSession_WraparoundPush(t *testing.T) {
	t.Parallel()

	gs := startSession(t, "a", "b")
	arrange(gs, map[string][]card.Card{
		"a": cards(4, 40),
		"b": cards(70),
	}, cards(96))

	out, err := gs.Action("a", ActionRequest{Stacks: []Stack{{PileNo: 0, Cards: cards(4)}}})
	require.NoError(t, err)
	assert.Equal(t, []PileInc{{No: 0, Num: 1}}, out.Diff.PilesInc)
	top, _ := gs.table.Top(0)
	assert.Equal(t, card.Card(4), top)
}

func TestGameSession_Statuses(t *testing.T) {
	t.Parallel()

	gs := newTestSession(t, "a", "b")
	basic := gs.BasicStatus()
	assert.Equal(t, protocol.StateBroadcastGameBasic, basic.State)
	assert.False(t, basic.Started)
	require.Len(t, basic.Players, 2)
	assert.Equal(t, "nick-a", basic.Players[0].Nickname)

	_, _ = gs.SetReady("a", true)
	_, _ = gs.SetReady("b", true)
	arrange(gs, map[string][]card.Card{"a": cards(12), "b": cards(70, 71)}, cards(10), nil)

	detail := gs.DetailStatus(protocol.StateBroadcastGameStart, nil)
	assert.Equal(t, protocol.StateBroadcastGameStart, detail.State)
	assert.True(t, detail.Started)
	assert.Equal(t, 1, detail.Round)
	assert.Equal(t, 10, detail.FreeBull)
	require.Len(t, detail.Piles, 2)
	require.NotNil(t, detail.Piles[0].Top)
	assert.Equal(t, 10, *detail.Piles[0].Top)
	assert.Equal(t, 1, detail.Piles[0].Num)
	assert.Nil(t, detail.Piles[1].Top)
	assert.Nil(t, detail.Diff)
	assert.Equal(t, 2, detail.Players[1].HandNum)

	out, err := gs.Action("a", ActionRequest{})
	require.NoError(t, err)
	detail = gs.DetailStatus(protocol.StateBroadcastGameStatus, &out.Diff)
	require.NotNil(t, detail.Diff)
	assert.Equal(t, -1, detail.Diff.PileDecNo)
	assert.Equal(t, 1, detail.Turn)
}

func TestRoundResult_Record(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	res := &RoundResult{
		Round:     3,
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
		Players:   []PlayerResult{{Nickname: "a", Head: 9, NewHead: 4, Hand: cards(33)}},
	}
	rec := res.Record()
	assert.Equal(t, 3, rec.Round)
	assert.Equal(t, int64(90), rec.Duration)
	assert.Equal(t, start.Add(90*time.Second).Unix(), rec.EndedAt)
	assert.Equal(t, []int{33}, rec.Players[0].Hand)
}

// randomMove 找一个合法操作：优先放牌，其次收非空牌堆，实在不行就跳过
func randomMove(gs *GameSession, rng *rand.Rand) ActionRequest {
	id := gs.CurrentPlayerID()
	p := gs.room.Players[id]

	for _, c := range p.Hand {
		for no := range gs.table.Len() {
			if top, ok := gs.table.Top(no); ok && pile.CanPushOnTop(top, c) {
				return ActionRequest{Stacks: []Stack{{PileNo: no, Cards: []card.Card{c}}}}
			}
		}
	}

	order := rng.Perm(gs.table.Len())
	for _, no := range order {
		if gs.table.Size(no) == 0 {
			continue
		}
		req := ActionRequest{Stacks: []Stack{{PileNo: no}}}
		if !bull.Triggers(gs.table.Size(no)) || !gs.pool.Dry() {
			return req
		}
		for seat := range gs.room.Count() {
			s := seat
			if gs.validateSteal(p, &s) == nil {
				req.TargetNo = &s
				return req
			}
		}
	}
	return ActionRequest{}
}

func TestGameSession_RandomPlayConservesCardsAndTokens(t *testing.T) {
	t.Parallel()

	for seed := range uint64(5) {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewPCG(seed, 99))
			gs := NewGameSession(DefaultConfig(), rng)
			ids := []string{"a", "b", "c", "d"}
			for _, id := range ids {
				_, err := gs.Register(id, id)
				require.NoError(t, err)
				_, err = gs.SetReady(id, true)
				require.NoError(t, err)
			}
			require.True(t, gs.Started())

			bulls := gs.BullTotal()
			require.Equal(t, 10, bulls)

			for range 2000 {
				if !gs.Started() {
					break
				}
				id := gs.CurrentPlayerID()
				out, err := gs.Action(id, randomMove(gs, rng))
				require.NoError(t, err)

				assert.Equal(t, card.DeckSize, gs.CardCount())
				assert.LessOrEqual(t, gs.BullTotal(), bulls)
				bulls = gs.BullTotal()
				assert.GreaterOrEqual(t, gs.Turn(), 0)
				assert.Less(t, gs.Turn(), gs.PlayerCount())

				if out.Finished() {
					total := 0
					for _, pr := range out.Result.Players {
						assert.Equal(t, rule.ScoreOfHand(pr.Hand), pr.NewHead)
						total += pr.NewHead
					}
					assert.GreaterOrEqual(t, total, 0)
				}
			}
		})
	}
}
