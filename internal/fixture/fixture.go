// Package fixture supplies mock boards and calls for offline
// operation, used when platform credentials are absent. The data ships
// inside the binary as zstd-compressed JSON.
package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/sih3rron/boardcall/internal/callmatch"
	"github.com/sih3rron/boardcall/internal/miro"
)

//go:embed data/boards.json.zst
var boardsData []byte

//go:embed data/calls.json.zst
var callsData []byte

// BoardFixture is one mock board with its items.
type BoardFixture struct {
	Board miro.Board  `json:"board"`
	Items []miro.Item `json:"items"`
}

// Boards returns the mock board list.
func Boards() ([]miro.Board, error) {
	fixtures, err := boardFixtures()
	if err != nil {
		return nil, err
	}
	boards := make([]miro.Board, len(fixtures))
	for i, f := range fixtures {
		boards[i] = f.Board
	}
	return boards, nil
}

// BoardItems returns the items of one mock board.
func BoardItems(boardID string) ([]miro.Item, error) {
	fixtures, err := boardFixtures()
	if err != nil {
		return nil, err
	}
	for _, f := range fixtures {
		if f.Board.ID == boardID {
			return f.Items, nil
		}
	}
	return nil, fmt.Errorf("no fixture board %q", boardID)
}

// Calls returns the mock call list.
func Calls() ([]callmatch.Call, error) {
	var calls []callmatch.Call
	if err := decode(callsData, &calls); err != nil {
		return nil, fmt.Errorf("decode call fixtures: %w", err)
	}
	return calls, nil
}

func boardFixtures() ([]BoardFixture, error) {
	var fixtures []BoardFixture
	if err := decode(boardsData, &fixtures); err != nil {
		return nil, fmt.Errorf("decode board fixtures: %w", err)
	}
	return fixtures, nil
}

func decode(compressed []byte, out any) error {
	decoder, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	data, err := io.ReadAll(decoder)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	return json.Unmarshal(data, out)
}
