// Package input handles keyboard input processing.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind 命令类型
type CommandKind int

const (
	CmdJoin CommandKind = iota
	CmdLogin
	CmdReady
	CmdUnready
	CmdPush
	CmdPick
	CmdPass
	CmdFetch
	CmdLogout
	CmdRank
	CmdHistory
	CmdOnline
	CmdHelp
	CmdQuit
)

// Command 解析后的一条命令
type Command struct {
	Kind     CommandKind
	Nickname string
	PileNo   int
	Cards    []int
	Target   *int
	Offset   int
	Limit    int
}

var (
	ErrEmptyCommand   = errors.New("请输入命令")
	ErrUnknownCommand = errors.New("未知命令，输入 help 查看帮助")
)

var aliases = map[string]CommandKind{
	"join":        CmdJoin,
	"register":    CmdJoin,
	"login":       CmdLogin,
	"ready":       CmdReady,
	"r":           CmdReady,
	"unready":     CmdUnready,
	"push":        CmdPush,
	"p":           CmdPush,
	"pick":        CmdPick,
	"take":        CmdPick,
	"pass":        CmdPass,
	"fetch":       CmdFetch,
	"hand":        CmdFetch,
	"logout":      CmdLogout,
	"rank":        CmdRank,
	"leaderboard": CmdRank,
	"history":     CmdHistory,
	"online":      CmdOnline,
	"help":        CmdHelp,
	"rules":       CmdHelp,
	"?":           CmdHelp,
	"quit":        CmdQuit,
	"exit":        CmdQuit,
}

// ParseCommand 解析一行输入
//
//	push <牌堆> <牌...>   放牌，例如 push 0 23 25
//	pick <牌堆> [玩家]    收走牌堆，公共池为空时指定被抢的玩家座位号
//	pass                  过
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}

	kind, ok := aliases[fields[0]]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	cmd := Command{Kind: kind}
	args := fields[1:]

	switch kind {
	case CmdJoin:
		// 昵称保留原始大小写
		original := strings.Fields(line)
		cmd.Nickname = strings.Join(original[1:], " ")

	case CmdPush:
		if len(args) < 2 {
			return Command{}, errors.New("用法: push <牌堆> <牌...>")
		}
		nums, err := atoiAll(args)
		if err != nil {
			return Command{}, err
		}
		cmd.PileNo, cmd.Cards = nums[0], nums[1:]

	case CmdPick:
		if len(args) < 1 || len(args) > 2 {
			return Command{}, errors.New("用法: pick <牌堆> [玩家座位号]")
		}
		nums, err := atoiAll(args)
		if err != nil {
			return Command{}, err
		}
		cmd.PileNo = nums[0]
		if len(nums) == 2 {
			cmd.Target = &nums[1]
		}

	case CmdRank:
		cmd.Limit = 10
		if len(args) > 0 {
			page, err := strconv.Atoi(args[0])
			if err != nil || page < 1 {
				return Command{}, errors.New("用法: rank [页码]")
			}
			cmd.Offset = (page - 1) * cmd.Limit
		}

	case CmdHistory:
		cmd.Limit = 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return Command{}, errors.New("用法: history [局数]")
			}
			cmd.Limit = n
		}
	}
	return cmd, nil
}

func atoiAll(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("不是数字: %s", a)
		}
		out[i] = n
	}
	return out, nil
}
