package runner

import (
	"fmt"
	"slices"
	"strings"
)

// Command is one parsed learner command line.
type Command struct {
	Name string
	// Args are the whitespace-separated arguments.
	Args []string
	// Rest is everything after the verb, spacing preserved.
	Rest string
}

const (
	CmdSelect   = "select"
	CmdInput    = "input"
	CmdConnect  = "connect"
	CmdClick    = "click"
	CmdContinue = "continue"
	CmdElements = "elements"
	CmdScore    = "score"
	CmdHint     = "hint"
	CmdHelp     = "help"
	CmdQuit     = "quit"
)

var aliases = map[string]string{
	"s":     CmdSelect,
	"i":     CmdInput,
	"=":     CmdInput,
	"link":  CmdConnect,
	"press": CmdClick,
	"next":  CmdContinue,
	"n":     CmdContinue,
	"ls":    CmdElements,
	"?":     CmdHelp,
	"q":     CmdQuit,
	"exit":  CmdQuit,
}

var commands = []string{CmdSelect, CmdInput, CmdConnect, CmdClick, CmdContinue, CmdElements, CmdScore, CmdHint, CmdHelp, CmdQuit}

// Help lists the commands understood by the runner.
const Help = `Commands:
  select <element|name|value>   select a node, slot, edge, line or value
  input <text>                  type an answer
  connect <source> <target>     draw a pointer
  click <label>                 press a button
  continue (or empty line)      move past a message
  elements                      list what can be pointed at
  score | hint | help | quit`

// ParseCommand splits a command line into its verb and arguments.
// An empty line continues.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Name: CmdContinue}, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	name := strings.ToLower(verb)
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if !slices.Contains(commands, name) {
		return Command{}, fmt.Errorf("unknown command %q (try help)", verb)
	}
	rest = strings.TrimSpace(rest)
	cmd := Command{Name: name, Args: strings.Fields(rest), Rest: rest}

	switch name {
	case CmdSelect, CmdClick:
		if rest == "" {
			return Command{}, fmt.Errorf("%s needs an argument", name)
		}
	case CmdConnect:
		if len(cmd.Args) != 2 {
			return Command{}, fmt.Errorf("connect needs a source and a target")
		}
	}
	return cmd, nil
}
