package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/connect4/bench"
	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/minimax"
)

const (
	defaultRandomMoves = 20
	// beyond this many empty cells the reference search takes too long
	maxVerifyEmpties = 14
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// optionalInt parses the first argument, if any.
func optionalInt(cmd *shellcmd, defaultI int) (int, error) {
	if len(cmd.args) == 0 {
		return defaultI, nil
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd.cmd, err)
	}
	if n < 0 {
		return 0, errors.New(cmd.cmd + ": argument must not be negative")
	}
	return n, nil
}

func (sc *ShellController) displayBoard() *Response {
	return msg(sc.board.ToDisplayText(sc.notation()))
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		resp, err := usage("standard")
		if err == nil && sc.gitVersion != "" {
			resp.message = "connect4 " + sc.gitVersion + "\n" + resp.message
		}
		return resp, err
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.board.Clear()
	return sc.displayBoard(), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("load needs a move string")
	}
	b, err := board.FromMoves(strings.Join(cmd.args, ""), sc.notation())
	if err != nil {
		return nil, err
	}
	sc.board = b
	log.Debug().Str("moves", b.String()).Msg("loaded-position")
	return sc.displayBoard(), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("play needs at least one column")
	}
	// play on a copy so a bad move leaves the position alone
	b := *sc.board
	if err := b.PlayMoves(strings.Join(cmd.args, ""), sc.notation()); err != nil {
		return nil, err
	}
	*sc.board = b
	return sc.displayBoard(), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	n, err := optionalInt(cmd, 1)
	if err != nil {
		return nil, err
	}
	if n > sc.board.MoveCount() {
		return nil, fmt.Errorf("cannot undo %d moves, only %d played", n, sc.board.MoveCount())
	}
	for i := 0; i < n; i++ {
		sc.board.UndoMove()
	}
	return sc.displayBoard(), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return sc.displayBoard(), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	return msg(fmt.Sprintf("%q (%d moves)", sc.board.MoveString(sc.notation()),
		sc.board.MoveCount())), nil
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	n, err := optionalInt(cmd, defaultRandomMoves)
	if err != nil {
		return nil, err
	}
	sc.board = board.RandomPlayout(n)
	return sc.displayBoard(), nil
}

// gameOver returns an error if there is nothing left to search.
func (sc *ShellController) gameOver() error {
	if sc.board.HasWon() || sc.board.IsFull() {
		return errors.New("the game is over")
	}
	return nil
}

func (sc *ShellController) formatScores(scores [board.Width]int) string {
	n := sc.notation()
	header := lo.Map(scores[:], func(_ int, col int) string {
		return fmt.Sprintf("%4c", n.ColumnLabel(col))
	})
	values := lo.Map(scores[:], func(s int, _ int) string {
		if s == board.IllegalMove {
			return fmt.Sprintf("%4s", "-")
		}
		return fmt.Sprintf("%4d", s)
	})
	return strings.Join(header, "") + "\n" + strings.Join(values, "")
}

// describeScore says who wins a position with the given score, and when.
func describeScore(b *board.Board, score int) string {
	onTurn := b.PlayerOnTurn()
	other := board.FirstPlayer
	if onTurn == board.FirstPlayer {
		other = board.SecondPlayer
	}
	switch {
	case score > 0:
		return fmt.Sprintf("%v wins with stone %d", onTurn, board.MaxScore-score)
	case score < 0:
		return fmt.Sprintf("%v wins with stone %d", other, board.MaxScore+score)
	}
	return "draw"
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if err := sc.gameOver(); err != nil {
		return nil, err
	}
	solver := sc.getSolver()
	startNodes := solver.ExploredNodes()
	tstart := time.Now()
	scores := solver.Analyze(*sc.board)
	elapsed := time.Since(tstart)
	return msg(fmt.Sprintf("%s\n(%d nodes, %v)", sc.formatScores(scores),
		solver.ExploredNodes()-startNodes, elapsed.Round(time.Microsecond))), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if err := sc.gameOver(); err != nil {
		return nil, err
	}
	solver := sc.getSolver()
	startNodes := solver.ExploredNodes()
	tstart := time.Now()
	score := solver.Solve(*sc.board)
	elapsed := time.Since(tstart)
	return msg(fmt.Sprintf("score %d: %s\n(%d nodes, %v)", score,
		describeScore(sc.board, score), solver.ExploredNodes()-startNodes,
		elapsed.Round(time.Microsecond))), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if err := sc.gameOver(); err != nil {
		return nil, err
	}
	col, score := sc.getSolver().BestMove(*sc.board)
	return msg(fmt.Sprintf("best column %c, score %d: %s",
		sc.notation().ColumnLabel(col), score, describeScore(sc.board, score))), nil
}

func (sc *ShellController) line(cmd *shellcmd) (*Response, error) {
	if err := sc.gameOver(); err != nil {
		return nil, err
	}
	n, err := optionalInt(cmd, board.Size)
	if err != nil {
		return nil, err
	}
	pv := sc.getSolver().PrincipalVariation(*sc.board, n)
	return msg(fmt.Sprintf("%s (score %d: %s)", pv.MoveString(int(sc.notation())),
		pv.Score, describeScore(sc.board, pv.Score))), nil
}

func (sc *ShellController) verify(cmd *shellcmd) (*Response, error) {
	if err := sc.gameOver(); err != nil {
		return nil, err
	}
	if empties := board.Size - sc.board.MoveCount(); empties > maxVerifyEmpties {
		return nil, fmt.Errorf("verify needs at most %d empty cells, there are %d",
			maxVerifyEmpties, empties)
	}
	got := sc.getSolver().Analyze(*sc.board)
	want := minimax.AnalyzeAlphaBeta(*sc.board)
	if got != want {
		log.Error().Str("moves", sc.board.String()).
			Ints("solver", got[:]).Ints("reference", want[:]).
			Msg("verify-mismatch")
		return nil, fmt.Errorf("mismatch:\nsolver:\n%s\nreference:\n%s",
			sc.formatScores(got), sc.formatScores(want))
	}
	return msg("ok\n" + sc.formatScores(got)), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	if sc.solver != nil {
		sc.solver.Reset()
	}
	return msg("transposition table cleared"), nil
}

var settableOptions = []string{config.ConfigNotation, config.ConfigTTCapacity}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		lines := lo.Map(settableOptions, func(opt string, _ int) string {
			return fmt.Sprintf("%-14s%v", opt, sc.config.Get(opt))
		})
		return msg(strings.Join(lines, "\n")), nil
	}
	opt := cmd.args[0]
	if !lo.Contains(settableOptions, opt) {
		return nil, errors.New("option " + opt + " cannot be set; options are " +
			strings.Join(settableOptions, ", "))
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(opt))), nil
	}
	val, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, err
	}
	old := sc.config.Get(opt)
	sc.config.Set(opt, val)
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(opt, old)
		return nil, err
	}
	if opt == config.ConfigTTCapacity {
		// the next search allocates a table of the new size
		sc.solver = nil
	}
	return msg("set " + opt + " to " + cmd.args[1]), nil
}

func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	suite := bench.DefaultSuite()
	if len(cmd.args) > 0 {
		var err error
		suite, err = bench.LoadSuite(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	nrandom, err := cmd.options.IntDefault("random", 0)
	if err != nil {
		return nil, err
	}
	if nrandom > 0 {
		suite.Positions = append(suite.Positions,
			bench.RandomSuite(nrandom, board.Size-16, board.Size-12).Positions...)
	}
	runs, err := cmd.options.IntDefault("runs", sc.config.GetInt(config.ConfigBenchRuns))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigBenchThreads))
	if err != nil {
		return nil, err
	}
	runner := &bench.Runner{Threads: threads, Runs: runs, Capacity: sc.config.TTCapacity()}
	report, err := runner.Run(context.Background(), suite)
	if err != nil {
		return nil, err
	}
	return msg(report.String()), nil
}
