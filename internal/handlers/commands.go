package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get state
	"o": 2, // open x y
	"f": 2, // flag x y
	"c": 2, // chord x y
	"p": 3, // press x y buttons
	"u": 0, // release
	"r": 0, // restart
}

var ErrBadCommand = errors.New("bad command")

func parseInt(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an int", ErrBadCommand, what)
	}
	return n, nil
}

func parseXY(args []string) (mines.Position, error) {
	x, err := parseInt(args[0], "x")
	if err != nil {
		return mines.Position{}, err
	}
	y, err := parseInt(args[1], "y")
	if err != nil {
		return mines.Position{}, err
	}
	return mines.Pos(x, y), nil
}

func parseButtons(s string) (mines.Button, error) {
	n, err := parseInt(s, "buttons")
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > int(mines.Both) {
		return 0, fmt.Errorf("%w: buttons must be 1, 2 or 3", ErrBadCommand)
	}
	return mines.Button(n), nil
}

// parseCommand turns one command line into an intent. The get command
// yields a nil intent.
func parseCommand(line string) (mines.Intent, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrBadCommand)
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrBadCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return nil, fmt.Errorf("%w: %q takes %d arguments", ErrBadCommand, parts[0], nargs)
	}

	switch parts[0] {
	case "g":
		return nil, nil
	case "u":
		return mines.Released{}, nil
	case "r":
		return mines.RestartRequested{}, nil
	}

	pos, err := parseXY(parts[1:3])
	if err != nil {
		return nil, err
	}
	switch parts[0] {
	case "o":
		return mines.Clicked{Pos: pos, Button: mines.Primary}, nil
	case "f":
		return mines.Clicked{Pos: pos, Button: mines.Secondary}, nil
	case "c":
		return mines.Clicked{Pos: pos, Button: mines.Primary, Held: mines.Secondary}, nil
	default:
		held, err := parseButtons(parts[3])
		if err != nil {
			return nil, err
		}
		return mines.Pressed{Pos: pos, Held: held}, nil
	}
}

// runBatch applies newline separated commands in order. It stops at the
// first failing command, reporting its line. Once the game is over only a
// restart still applies; other commands are skipped.
func runBatch(s *mines.Session, batch string) (line int, err error) {
	for i, text := range byPiece(strings.TrimSpace(batch), "\n") {
		in, err := parseCommand(text)
		if err != nil {
			return i, err
		}
		if in == nil {
			continue
		}
		if _, restart := in.(mines.RestartRequested); !restart && s.Status() != mines.InProgress {
			continue
		}
		if err := s.Handle(in); err != nil {
			return i, err
		}
	}
	return 0, nil
}
