package handlers

import (
	"net/url"

	"github.com/vancomm/sweeper/internal/mines"
)

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
	Name       string `schema:"name"`
}

func ParseNewGameDTO(src url.Values) (difficulty mines.Difficulty, name string, err error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return 0, "", err
	}
	if dto.Difficulty == "" {
		return mines.Beginner, dto.Name, nil
	}
	difficulty, err = mines.ParseDifficulty(dto.Difficulty)
	return difficulty, dto.Name, err
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src url.Values) (mines.Position, error) {
	var dto PositionDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Position{}, err
	}
	return mines.Pos(dto.X, dto.Y), nil
}

type PressDTO struct {
	PositionDTO
	Buttons int `schema:"buttons"`
}

func ParsePress(src url.Values) (mines.Position, mines.Button, error) {
	dto := PressDTO{Buttons: int(mines.Primary)}
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Position{}, 0, err
	}
	if dto.Buttons <= 0 || dto.Buttons > int(mines.Both) {
		return mines.Position{}, 0, ErrBadCommand
	}
	return mines.Pos(dto.X, dto.Y), mines.Button(dto.Buttons), nil
}

// GameDTO is a session snapshot tagged with the id of its room.
type GameDTO struct {
	ID string `json:"id"`
	mines.Snapshot
}

type RecordsDTO struct {
	Difficulty string `schema:"difficulty"`
	Limit      int    `schema:"limit"`
}

type RecordDTO struct {
	Rank       int              `json:"rank"`
	Name       string           `json:"name"`
	Difficulty mines.Difficulty `json:"difficulty"`
	ElapsedMs  int64            `json:"elapsed_ms"`
	Clock      string           `json:"clock"`
}
