package mines

import (
	"encoding"
	"fmt"
	"slices"
	"strings"
)

type Difficulty int8

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
)

var Difficulties = []Difficulty{Beginner, Intermediate, Expert}

type GameParams struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) Unpack() (width, height, mineCount int) {
	return p.Width, p.Height, p.MineCount
}

func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

func (d Difficulty) Params() GameParams {
	switch d {
	case Intermediate:
		return GameParams{Width: 16, Height: 16, MineCount: 40}
	case Expert:
		return GameParams{Width: 30, Height: 16, MineCount: 99}
	default:
		return GameParams{Width: 9, Height: 9, MineCount: 10}
	}
}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("difficulty(%d)", int8(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner, nil
	case "intermediate":
		return Intermediate, nil
	case "expert":
		return Expert, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

var (
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
)

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
