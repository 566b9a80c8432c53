package shell

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/connect4/board"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("c4_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// runMoveCommand runs load or play with the moves in the first Lua
// argument, and pushes the board text. Errors are raised in Lua.
func runMoveCommand(L *lua.LState, fn func(*ShellController, *shellcmd) (*Response, error), name string) int {
	lv := L.CheckString(1)
	sc := getShell(L)
	r, err := fn(sc, &shellcmd{cmd: name, args: []string{lv}})
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.RaiseError("%s: %s", name, err.Error())
		return 0
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Load(L *lua.LState) int {
	return runMoveCommand(L, (*ShellController).load, "load")
}

func Play(L *lua.LState) int {
	return runMoveCommand(L, (*ShellController).play, "play")
}

func Analyze(L *lua.LState) int {
	sc := getShell(L)
	if err := sc.gameOver(); err != nil {
		L.RaiseError("analyze: %s", err.Error())
		return 0
	}
	scores := sc.getSolver().Analyze(*sc.board)
	tbl := L.NewTable()
	for col, s := range scores {
		// full columns stay nil
		if s != board.IllegalMove {
			tbl.RawSetInt(col+1, lua.LNumber(s))
		}
	}
	L.Push(tbl)
	return 1
}

func Solve(L *lua.LState) int {
	sc := getShell(L)
	if err := sc.gameOver(); err != nil {
		L.RaiseError("solve: %s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(sc.getSolver().Solve(*sc.board)))
	return 1
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LString(sc.board.ToDisplayText(sc.notation())))
	return 1
}

func (sc *ShellController) scriptPath(path string) string {
	if filepath.IsAbs(path) || sc.execPath == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	// fall back to a script shipped next to the binary
	return filepath.Join(sc.execPath, path)
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := sc.scriptPath(cmd.args[0])

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("c4_shell", lsc)
	L.SetGlobal("c4_load", L.NewFunction(Load))
	L.SetGlobal("c4_play", L.NewFunction(Play))
	L.SetGlobal("c4_analyze", L.NewFunction(Analyze))
	L.SetGlobal("c4_solve", L.NewFunction(Solve))
	L.SetGlobal("c4_show", L.NewFunction(Show))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
