package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/negamax"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-runs")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"bench": {
		Options: []string{"-runs", "-threads", "-random"},
	},
	"set": {
		Args: settableOptions,
	},
	"help": {
		Args: []string{"scores", "notation", "set", "bench", "script"},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "load", "play", "undo", "show", "moves", "random",
	"analyze", "solve", "best", "line", "verify", "reset", "set", "bench",
	"script", "exit",
}

// playableColumns lists the labels of the columns that can take a stone.
func (c *ShellCompleter) playableColumns() []string {
	var cols []string
	if c.sc.board.HasWon() {
		return cols
	}
	n := c.sc.notation()
	for col := 0; col < board.Width; col++ {
		if c.sc.board.CanPlay(col) {
			cols = append(cols, string(n.ColumnLabel(col)))
		}
	}
	return cols
}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to the cursor position
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	// Check if we're in the middle of typing a word or just after a space
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case cmdName == "play":
			completions = c.playableColumns()
		case cmdName == "set" && lastCompleteField == "notation":
			completions = []string{"0", "1"}
		case cmdName == "set" && lastCompleteField == "tt-capacity":
			completions = []string{"0", strconv.Itoa(negamax.DefaultCapacity)}
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				// If we're typing something that starts with -, show options
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else if len(fields) == 1 || (len(fields) == 2 && !endsWithSpace) {
					completions = metadata.Args
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
