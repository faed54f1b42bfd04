package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/academia-hq/academia/apps/api/echo"
	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/assistant"
	"github.com/academia-hq/academia/core/bulletin"
	"github.com/academia-hq/academia/core/certification"
	"github.com/academia-hq/academia/core/docreq"
	"github.com/academia-hq/academia/core/messaging"
	"github.com/academia-hq/academia/core/school"
	"github.com/academia-hq/academia/core/user"
	"github.com/academia-hq/academia/services/email"
	"github.com/academia-hq/academia/services/logger"
	"github.com/academia-hq/academia/storage/database"
	"github.com/academia-hq/academia/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	appLogger := logsvc.NewRollbarLogger(std, conf)
	appLogger.Enable(!(conf.Debug || conf.TestMode))

	if err := run(conf, appLogger); err != nil {
		appLogger.Fatal("server error", err)
	}
}

func run(conf *core.Config, appLogger core.Logger) error {
	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	bulletinSvc := bulletin.NewService(sqlxrepos.NewBulletinRepository(db))
	messagingSvc := messaging.NewService(sqlxrepos.NewMessagingRepository(db))
	docreqSvc := docreq.NewService(sqlxrepos.NewDocreqRepository(db), usrSvc, mailSvc)

	catalog, catalogErr := certification.LoadCatalog(conf.Assistant.CatalogPath)
	if catalogErr != nil {
		appLogger.Warn("certification catalog unavailable", catalogErr)
	}
	assistantSvc := assistant.NewService(catalog, catalogErr, assistant.NewClient(conf.Assistant))

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:         conf.Server.Addr,
		Conf:         conf,
		Logger:       appLogger,
		UserSvc:      usrSvc,
		SchoolSvc:    schoolSvc,
		BulletinSvc:  bulletinSvc,
		MessagingSvc: messagingSvc,
		DocreqSvc:    docreqSvc,
		AssistantSvc: assistantSvc,
	})

	serverErrs := make(chan error, 1)
	go func() {
		appLogger.Info("server listening on " + conf.Server.Addr)
		serverErrs <- app.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrs:
		return err
	case sig := <-shutdown:
		appLogger.Info("shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
