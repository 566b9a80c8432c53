package shell

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/negamax"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errQuit              = errors.New("sending quit signal")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string

	board *board.Board
	// solver is created on first use, since sizing its table may be
	// expensive.
	solver *negamax.Solver
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newShellController(cfg, nil)
	sc.execPath = execPath
	sc.gitVersion = gitVersion

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mconnect4>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// newShellController builds a controller without a terminal; messages go
// to out.
func newShellController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{
		out:    out,
		config: cfg,
		board:  board.NewBoard(),
	}
}

func (sc *ShellController) notation() board.Notation {
	return sc.config.Notation()
}

func (sc *ShellController) getSolver() *negamax.Solver {
	if sc.solver == nil {
		sc.solver = negamax.NewSolver(sc.config.TTCapacity())
	}
	return sc.solver
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func isOption(field string) bool {
	return len(field) > 1 && field[0] == '-' && unicode.IsLetter(rune(field[1]))
}

// extractFields splits a command line into the command, its positional
// arguments and its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		if !isOption(fields[i]) {
			cmd.args = append(cmd.args, fields[i])
			continue
		}
		if i == len(fields)-1 {
			return nil, errWrongOptionSyntax
		}
		key := fields[i][1:]
		cmd.options[key] = append(cmd.options[key], fields[i+1])
		i++
	}
	return cmd, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "random":
		return sc.random(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "solve":
		return sc.solve(cmd)
	case "best":
		return sc.best(cmd)
	case "line":
		return sc.line(cmd)
	case "verify":
		return sc.verify(cmd)
	case "reset":
		return sc.reset(cmd)
	case "set":
		return sc.set(cmd)
	case "bench":
		return sc.bench(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, errors.New("unrecognized command " + cmd.cmd + "; try help")
	}
}

// Execute runs a single command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errNoData) || errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup logs what the solver did over the session.
func (sc *ShellController) Cleanup() {
	if sc.solver == nil {
		return
	}
	stats := sc.solver.TableStats()
	log.Info().Uint64("nodes", sc.solver.ExploredNodes()).
		Int("tt-capacity", stats.Capacity).
		Uint64("tt-lookups", stats.Lookups).
		Uint64("tt-hits", stats.Hits).
		Uint64("tt-collisions", stats.Collisions).
		Msg("solver-session-stats")
}
