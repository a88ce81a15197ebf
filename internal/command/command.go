// Package command parses and executes the text commands a player sends to a
// running session.
package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/help"
)

// ErrUnknownCommand is returned for input no command matches.
var ErrUnknownCommand = errors.New("unknown command")

type Command struct {
	Name string
	Args []string
}

// Result is what a command produced for the connection that issued it.
type Result struct {
	Text      string
	ShowState bool // Push a state frame after the reply
	NewRun    bool // Replace the session with a fresh run
	Quit      bool // Close the connection

	// Rename is the name the player asked for. The caller validates and
	// applies it.
	Rename string
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// IntArg parses argument i as a non-negative index.
func (c *Command) IntArg(i int, usage string) (int, error) {
	if err := c.RequireArgs(i+1, usage); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(c.Args[i])
	if err != nil || n < 0 {
		return 0, errors.New(usage)
	}
	return n, nil
}

func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// Execute runs the command against s. Game rule violations come back as
// errors wrapping the game package's sentinels.
func (c *Command) Execute(s *game.Session) (Result, error) {
	switch c.Name {
	case "help", "h", "?":
		return c.executeHelp()
	case "start", "fight", "next":
		return c.executeStart(s)
	case "rewards", "r":
		return c.executeRewards(s)
	case "claim", "take":
		return c.executeClaim(s)
	case "upgrade", "u":
		return c.executeUpgrade(s)
	case "skip":
		return c.executeSkip(s)
	case "state", "status", "st":
		return Result{Text: statusLine(s), ShowState: true}, nil
	case "log":
		return c.executeLog(s)
	case "name":
		if len(c.Args) == 0 {
			return Result{Text: "You are " + s.Player().Name + "."}, nil
		}
		return Result{Rename: strings.Join(c.Args, " ")}, nil
	case "abandon", "giveup":
		s.Abandon()
		return Result{Text: s.Summary().String(), ShowState: true}, nil
	case "new", "restart":
		return Result{Text: "Starting a new run.", NewRun: true}, nil
	case "quit", "exit":
		return Result{Text: "Goodbye!", Quit: true}, nil
	case "":
		return Result{}, nil
	}
	return Result{}, ErrUnknownCommand
}

// executeHelp lists the commands, or shows a topic from the help file.
func (c *Command) executeHelp() (Result, error) {
	h := help.GetInstance()
	if len(c.Args) == 0 {
		text := c.getHelpText()
		if h != nil {
			text += "\n\nTopics: " + strings.Join(h.Topics(), ", ") + " (type 'help <topic>')"
		}
		return Result{Text: text}, nil
	}
	if h == nil {
		return Result{Text: "No help topics are loaded."}, nil
	}
	return Result{Text: h.GetHelpText(strings.Join(c.Args, " "))}, nil
}

func (c *Command) getHelpText() string {
	return `Commands:
  start            - Start the next floor's battle (aliases: fight, next)
  rewards          - List the reward offers after a won floor (alias: r)
  claim <n>        - Claim offer n of the reward list (alias: take)
  upgrade <n>      - Apply upgrade option n to the claimed skill (alias: u)
  skip             - Skip the rewards and go to the next floor
  state            - Show the run status and push a state frame (aliases: status, st)
  log [n]          - Show the last n battle log lines
  name [name]      - Show your name, or change it before the first floor
  abandon          - End the run now (alias: giveup)
  new              - Start a new run (alias: restart)
  help [topic]     - Show this list, or help on a topic (aliases: h, ?)
  quit             - Disconnect (alias: exit)`
}
