package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"

	embedded "github.com/lmercier/pongtracker"
	authservice "github.com/lmercier/pongtracker/auth/service"
	"github.com/lmercier/pongtracker/auth/users"
	"github.com/lmercier/pongtracker/internal/config"
	"github.com/lmercier/pongtracker/internal/domain"
	"github.com/lmercier/pongtracker/internal/service"
	"github.com/lmercier/pongtracker/internal/web/webpath"
)

type Server struct {
	auth          *authservice.Service
	playerService *service.PlayerService
	app           *fiber.App
	cfg           config.Server
}

func New(ps *service.PlayerService, cfg config.Server, authService *authservice.Service) (*Server, error) {
	server := Server{
		playerService: ps,
		auth:          authService,
		cfg:           cfg,
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)
	engine.AddFunc("FormatDate", formatDate)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(webpath.Api, func(c *fiber.Ctx) error {
		tokenCookie := c.Cookies("token")
		user, err := authService.Auth(c.Context(), tokenCookie, c.Method(), c.OriginalURL())
		if err != nil {
			switch {
			case errors.Is(err, authservice.ErrForbidden):
				c.Status(fiber.StatusForbidden)
			case errors.Is(err, authservice.ErrNotAuthorized):
				c.Status(fiber.StatusUnauthorized)
			default:
				c.Status(fiber.StatusInternalServerError)
			}
			return nil
		}
		c.Context().SetUserValue(userKey, user)
		return c.Next()
	})
	app.Get(webpath.Signin, server.HandleGetSignIn)
	app.Post(webpath.Signin, server.HandlePostSignIn)
	app.Get(webpath.Signup, server.HandleGetSignup)
	app.Post(webpath.Signup, server.HandlePostSignup)
	app.Get(webpath.Signout, server.HandleSignOut)
	app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.Redirect(webpath.Api)
	})

	app.Get(webpath.ApiHome, server.handleMain)
	app.Get(webpath.ApiMatchesList, server.handleMatches)
	app.Get(webpath.ApiNewMatch, server.handleCreateMatchGet)
	app.Post(webpath.ApiNewMatch, server.handleCreateMatchPost)
	app.Get(webpath.ApiTracker, server.handleTracker)
	app.Post(webpath.ApiMatchScore, server.handleUpdateScore)
	app.Get(webpath.ApiGetPlayers, server.HandlePlayerInfo)
	app.Get(webpath.ApiNewPlayer, server.handleNewPlayerGet)
	app.Post(webpath.ApiNewPlayer, server.handleNewPlayerPost)
	app.Get(webpath.ApiEloHistory, server.handleEloHistory)
	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

const userKey = "user"

func userFromCtx(ctx *fiber.Ctx) users.User {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	return user
}

func (s *Server) handleMain(ctx *fiber.Ctx) error {
	ratings, err := s.playerService.GetRatings(ctx.Context())
	if err != nil {
		return err
	}
	total, err := s.playerService.TotalMatches(ctx.Context())
	if err != nil {
		return err
	}
	races, err := s.playerService.CloseRaces(ctx.Context())
	if err != nil {
		return err
	}
	d := newData("Rating").
		WithButton("rating").
		WithUser(userFromCtx(ctx)).
		With("Players", ratings).
		With("TotalMatches", total).
		With("CloseRaces", races)
	if weekly, ok, err := s.playerService.PlayerOfWeek(ctx.Context()); err != nil {
		return err
	} else if ok {
		d = d.With("PlayerOfWeek", weekly)
	}
	if monthly, ok, err := s.playerService.PlayerOfMonth(ctx.Context()); err != nil {
		return err
	} else if ok {
		d = d.With("PlayerOfMonth", monthly)
	}
	return ctx.Render("index", d, "layouts/main")
}

func (s *Server) handleMatches(ctx *fiber.Ctx) error {
	matches, err := s.playerService.GetMatches(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("matches", newData("Matches").
		WithButton("matches").
		WithUser(userFromCtx(ctx)).
		With("Matches", matches), "layouts/main")
}

func (s *Server) handleCreateMatchGet(ctx *fiber.Ctx) error {
	players, err := s.playerService.ListPlayers(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Render("newMatch", newData("New match").
		WithButton("newMatch").
		WithUser(userFromCtx(ctx)).
		With("Players", players), "layouts/main")
}

func (s *Server) handleCreateMatchPost(ctx *fiber.Ctx) error {
	req, err := parseCreateMatchRequest(ctx)
	if err != nil {
		return s.renderCreateMatchError(ctx, err)
	}
	if req.realtime {
		_, err = s.playerService.CreateMatch(ctx.Context(), req.playerA, req.playerB)
		if err != nil {
			return s.renderCreateMatchError(ctx, err)
		}
		return ctx.Redirect(webpath.ApiTracker)
	}
	_, err = s.playerService.CreateMatchWithScore(ctx.Context(), req.playerA, req.playerB, req.scoreA, req.scoreB)
	if err != nil {
		return s.renderCreateMatchError(ctx, err)
	}
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) renderCreateMatchError(ctx *fiber.Ctx, err error) error {
	players, listErr := s.playerService.ListPlayers(ctx.Context())
	if listErr != nil {
		return listErr
	}
	return ctx.Render("newMatch", newData("New match").
		WithButton("newMatch").
		WithUser(userFromCtx(ctx)).
		With("Players", players).
		WithErrors(err), "layouts/main")
}

// handleTracker shows the live score page for the in-progress match, or
// sends the user to the new-match form when there is none.
func (s *Server) handleTracker(ctx *fiber.Ctx) error {
	match, ok, err := s.playerService.CurrentMatch(ctx.Context())
	if err != nil {
		return err
	}
	if !ok {
		return ctx.Redirect(webpath.ApiNewMatch)
	}
	return ctx.Render("tracker", newData("Score tracker").
		WithButton("tracker").
		WithUser(userFromCtx(ctx)).
		With("Match", match), "layouts/main")
}

type scoreResponse struct {
	MatchID  int64  `json:"matchId"`
	ScoreA   int    `json:"scoreA"`
	ScoreB   int    `json:"scoreB"`
	Finished bool   `json:"finished"`
	Winner   string `json:"winner,omitempty"`
}

func (s *Server) handleUpdateScore(ctx *fiber.Ctx) error {
	req, err := parseUpdateScoreRequest(ctx)
	if err != nil {
		return scoreError(ctx, err)
	}
	match, err := s.playerService.UpdateMatchScore(ctx.Context(), req.matchID, req.scoreA, req.scoreB)
	if err != nil {
		return scoreError(ctx, err)
	}
	resp := scoreResponse{
		MatchID:  match.ID,
		ScoreA:   match.ScoreA,
		ScoreB:   match.ScoreB,
		Finished: match.IsFinished(),
	}
	if resp.Finished {
		resp.Winner = match.Winner.Name
	}
	return ctx.JSON(resp)
}

func scoreError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrMatchNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrMatchAlreadyFinished):
		status = fiber.StatusConflict
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) HandlePlayerInfo(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return err
	}
	data, err := s.playerService.GetPlayerData(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.Render("playerCard", newData(data.Player.Name).
		WithButton("playerCard").
		WithUser(userFromCtx(ctx)).
		With("Card", data), "layouts/main")
}

type ratingPointResponse struct {
	Date time.Time `json:"date"`
	Elo  int       `json:"elo"`
}

type playerHistoryResponse struct {
	PlayerID int64                 `json:"playerId"`
	Name     string                `json:"name"`
	Color    string                `json:"color"`
	Points   []ratingPointResponse `json:"points"`
}

// handleEloHistory serves the rating chart data. The players query param is
// a comma-separated id list; empty means everyone.
func (s *Server) handleEloHistory(ctx *fiber.Ctx) error {
	var ids []int64
	if raw := ctx.Query("players"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad player id"})
			}
			ids = append(ids, id)
		}
	}
	histories, err := s.playerService.EloHistory(ctx.Context(), ids)
	if err != nil {
		return err
	}
	resp := make([]playerHistoryResponse, 0, len(histories))
	for _, history := range histories {
		points := make([]ratingPointResponse, 0, len(history.Points))
		for _, point := range history.Points {
			points = append(points, ratingPointResponse{
				Date: point.Date,
				Elo:  point.Elo,
			})
		}
		resp = append(resp, playerHistoryResponse{
			PlayerID: history.Player.ID,
			Name:     history.Player.Name,
			Color:    history.Player.Color,
			Points:   points,
		})
	}
	return ctx.JSON(resp)
}

func (s *Server) HandleGetSignIn(ctx *fiber.Ctx) error {
	return ctx.Render("signin", newData("Sign in"), "layouts/main")
}

func (s *Server) HandlePostSignIn(ctx *fiber.Ctx) error {
	req, err := parseSignInRequest(ctx)
	if err != nil {
		return ctx.Render("signin", newData("Sign in").WithErrors(err), "layouts/main")
	}
	user, err := s.auth.Login(ctx.Context(), req.name, req.password)
	if err != nil {
		return ctx.Render("signin", newData("Sign in").WithErrors(err), "layouts/main")
	}
	cookie, err := s.auth.GenerateJWTCookie(user.ID, s.cfg.Host)
	if err != nil {
		return err
	}
	ctx.Cookie(cookie)
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) HandleGetSignup(ctx *fiber.Ctx) error {
	return ctx.Render("signup", newData("Sign up"), "layouts/main")
}

func (s *Server) HandlePostSignup(ctx *fiber.Ctx) error {
	req, err := parseSignUpRequest(ctx)
	if err != nil {
		return ctx.Render("signup", newData("Sign up").WithErrors(err), "layouts/main")
	}
	_, err = s.auth.SignUp(ctx.Context(), req.name, req.password)
	if err != nil {
		return ctx.Render("signup", newData("Sign up").WithErrors(err), "layouts/main")
	}
	return ctx.Redirect(webpath.Signin)
}

func (s *Server) HandleSignOut(ctx *fiber.Ctx) error {
	ctx.ClearCookie("token")
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) handleNewPlayerGet(ctx *fiber.Ctx) error {
	return ctx.Render("newPlayer", newData("New player").
		WithButton("newPlayer").
		WithUser(userFromCtx(ctx)), "layouts/main")
}

func (s *Server) handleNewPlayerPost(ctx *fiber.Ctx) error {
	name := ctx.FormValue("name", "")
	color := ctx.FormValue("color", "")
	isGuest := ctx.FormValue("guest") == "on"
	_, err := s.playerService.CreatePlayer(ctx.Context(), name, color, isGuest)
	if err != nil {
		return ctx.Render("newPlayer", newData("New player").
			WithButton("newPlayer").
			WithUser(userFromCtx(ctx)).
			WithErrors(err), "layouts/main")
	}
	return ctx.Redirect(webpath.ApiHome)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04")
}
