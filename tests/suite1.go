package tests

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/suite"

	sel "github.com/lmercier/pongtracker/tests/selectors"
)

type TestSuite1 struct {
	suite.Suite
	process *Process
}

var (
	serverConfigPath string
	botConfigPath    string
)

func init() {
	flag.StringVar(&serverConfigPath, "server-config", "", "path to server config")
	flag.StringVar(&botConfigPath, "bot-config", "", "path to bot config")
}

func (s *TestSuite1) SetupSuite() {
	s.Require().NotEmpty(serverConfigPath, "-server-config MUST be set")
	s.Require().NotEmpty(botConfigPath, "-bot-config MUST be set")
	p := NewProcess(context.Background(), "../bin/server",
		"-server-config", serverConfigPath,
		"-bot-config", botConfigPath)
	s.process = p
	err := p.Start(context.Background())
	if err != nil {
		s.T().Errorf("can't start process: %v", err)
	}

	if err := waitForStartup(time.Second * 5); err != nil {
		s.T().Fatalf("unable to start app: %v", err)
	}
}

func waitForStartup(duration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	ticker := time.NewTicker(time.Second / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r, _ := http.Get("http://0.0.0.0:3000/")
			if r != nil && r.StatusCode == http.StatusOK {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *TestSuite1) TearDownSuite() {
	exitCode, err := s.process.Stop()
	if err != nil {
		s.T().Logf("can't stop process: %v", err)
	}
	s.T().Logf("process finished with code %d", exitCode)
}

func (s *TestSuite1) TestHandlers() {
	ctx, cancelTimeout := context.WithTimeout(context.Background(), time.Second*10)
	defer cancelTimeout()

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(ctx,
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api/matches-list`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api/matches`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/api/elo-history`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signin`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signout`),
		s.CheckGuestAccessGranted(`http://0.0.0.0:3000/signup`),
		chromedp.Navigate(`http://0.0.0.0:3000/signin`),
		chromedp.WaitVisible(sel.SignInFormUsername),
		chromedp.WaitVisible(sel.SignInFormPass),
		chromedp.Navigate(`http://0.0.0.0:3000/api/matches`),
		chromedp.WaitVisible(sel.NewMatchFormPlayerA),
		chromedp.WaitVisible(sel.NewMatchFormPlayerB),
	)
	if err != nil {
		s.T().Fatal(err.Error())
	}
}

func (s *TestSuite1) CheckGuestAccessDenied(path string) chromedp.Tasks {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, err := chromedp.RunResponse(ctx,
				chromedp.Navigate(path))
			if err != nil {
				return err
			}
			if resp.Status != http.StatusForbidden {
				s.T().Errorf("guest access to %s must be denied with 403, got %d", path, resp.Status)
			}
			return nil
		}),
	}
}

func (s *TestSuite1) CheckGuestAccessGranted(path string) chromedp.Tasks {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			resp, err := chromedp.RunResponse(ctx,
				chromedp.Navigate(path))
			if err != nil {
				return err
			}
			if resp.Status != http.StatusOK {
				s.T().Errorf("guest access to %s must be allowed with 200, got %d", path, resp.Status)
			}
			return nil
		}),
	}
}
