package gateway

import (
	"context"
	"time"

	"github.com/sih3rron/boardcall/internal/callmatch"
	"github.com/sih3rron/boardcall/internal/fixture"
	"github.com/sih3rron/boardcall/internal/miro"
)

// OfflineBoards serves board fixtures when no whiteboard credentials
// are configured.
type OfflineBoards struct{}

func (OfflineBoards) ListBoards(ctx context.Context) ([]miro.Board, error) {
	return fixture.Boards()
}

func (OfflineBoards) BoardTexts(ctx context.Context, boardID string) ([]string, error) {
	items, err := fixture.BoardItems(boardID)
	if err != nil {
		return nil, err
	}
	return miro.Texts(items), nil
}

// OfflineCalls serves call fixtures when no call-platform credentials
// are configured. The date window still applies.
type OfflineCalls struct{}

func (OfflineCalls) ListCalls(ctx context.Context, from, to time.Time) ([]callmatch.Call, error) {
	calls, err := fixture.Calls()
	if err != nil {
		return nil, err
	}
	var filtered []callmatch.Call
	for _, c := range calls {
		if !from.IsZero() && c.Started.Before(from) {
			continue
		}
		if !to.IsZero() && c.Started.After(to) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}
