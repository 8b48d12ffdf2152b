package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	two := 2
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"join keeps nickname case", "join Alice Bob", Command{Kind: CmdJoin, Nickname: "Alice Bob"}},
		{"join without nickname", "join", Command{Kind: CmdJoin}},
		{"ready alias", "R", Command{Kind: CmdReady}},
		{"unready", "unready", Command{Kind: CmdUnready}},
		{"push one card", "push 0 23", Command{Kind: CmdPush, PileNo: 0, Cards: []int{23}}},
		{"push several cards", "p 3 23 25 27", Command{Kind: CmdPush, PileNo: 3, Cards: []int{23, 25, 27}}},
		{"pick", "pick 1", Command{Kind: CmdPick, PileNo: 1}},
		{"pick with target", "take 1 2", Command{Kind: CmdPick, PileNo: 1, Target: &two}},
		{"pass", "  pass  ", Command{Kind: CmdPass}},
		{"fetch alias", "hand", Command{Kind: CmdFetch}},
		{"rank default page", "rank", Command{Kind: CmdRank, Limit: 10}},
		{"rank page 3", "rank 3", Command{Kind: CmdRank, Offset: 20, Limit: 10}},
		{"history", "history 5", Command{Kind: CmdHistory, Limit: 5}},
		{"help", "?", Command{Kind: CmdHelp}},
		{"quit", "exit", Command{Kind: CmdQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseCommand("   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)

	_, err = ParseCommand("bid 3")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	for _, line := range []string{"push", "push 0", "push 0 x", "pick", "pick 1 2 3", "pick a", "rank 0", "history -1"} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}
