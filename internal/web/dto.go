package web

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lmercier/pongtracker/internal/domain"
)

var (
	ErrMissingPlayer = errors.New("both players must be present")
	ErrSamePlayer    = errors.New("a player cannot play against themselves")
	ErrBadScore      = errors.New("scores must be between 0 and 11")
)

// createMatchRequest is the new-match form. With realtime set the scores are
// ignored and the match starts at 0-0 on the tracker.
type createMatchRequest struct {
	playerA  int64
	playerB  int64
	scoreA   int
	scoreB   int
	realtime bool
}

func parseCreateMatchRequest(ctx *fiber.Ctx) (createMatchRequest, error) {
	req := createMatchRequest{
		realtime: ctx.FormValue("realtime") == "on",
	}
	req.playerA, _ = strconv.ParseInt(ctx.FormValue("playerA"), 10, 64)
	req.playerB, _ = strconv.ParseInt(ctx.FormValue("playerB"), 10, 64)
	if !req.realtime {
		var err error
		req.scoreA, err = strconv.Atoi(ctx.FormValue("scoreA"))
		if err != nil {
			return createMatchRequest{}, ErrBadScore
		}
		req.scoreB, err = strconv.Atoi(ctx.FormValue("scoreB"))
		if err != nil {
			return createMatchRequest{}, ErrBadScore
		}
	}
	if err := req.Validate(); err != nil {
		return createMatchRequest{}, err
	}
	return req, nil
}

func (c createMatchRequest) Validate() error {
	var err error
	if c.playerA == 0 || c.playerB == 0 {
		err = errors.Join(err, ErrMissingPlayer)
	}
	if c.playerA != 0 && c.playerA == c.playerB {
		err = errors.Join(err, ErrSamePlayer)
	}
	if !c.realtime {
		if c.scoreA < 0 || c.scoreB < 0 || c.scoreA > domain.WinningScore || c.scoreB > domain.WinningScore {
			err = errors.Join(err, ErrBadScore)
		}
	}
	return err
}

type updateScoreRequest struct {
	matchID int64
	scoreA  int
	scoreB  int
}

func parseUpdateScoreRequest(ctx *fiber.Ctx) (updateScoreRequest, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return updateScoreRequest{}, domain.ErrMatchNotFound
	}
	scoreA, err := strconv.Atoi(ctx.FormValue("scoreA"))
	if err != nil {
		return updateScoreRequest{}, ErrBadScore
	}
	scoreB, err := strconv.Atoi(ctx.FormValue("scoreB"))
	if err != nil {
		return updateScoreRequest{}, ErrBadScore
	}
	return updateScoreRequest{
		matchID: id,
		scoreA:  scoreA,
		scoreB:  scoreB,
	}, nil
}
