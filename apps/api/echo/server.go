package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/assistant"
	"github.com/academia-hq/academia/core/bulletin"
	"github.com/academia-hq/academia/core/docreq"
	"github.com/academia-hq/academia/core/messaging"
	"github.com/academia-hq/academia/core/school"
	"github.com/academia-hq/academia/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		UserSvc      user.Service
		SchoolSvc    school.Service
		BulletinSvc  bulletin.Service
		MessagingSvc messaging.Service
		DocreqSvc    docreq.Service
		AssistantSvc assistant.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	initJWTConfig(opts.Conf)
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() {
		_ = s.Stop(context.Background())
	})
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerSchoolAPI(v1, jwt, s.opts.SchoolSvc)
	registerBulletinAPI(v1, jwt, s.opts.BulletinSvc)
	registerMessagingAPI(v1, jwt, s.opts.MessagingSvc)
	registerDocreqAPI(v1, jwt, s.opts.DocreqSvc)
	registerAssistantAPI(v1, s.opts.AssistantSvc, s.opts.Logger)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Academia API!")
}
