package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/uniwayhq/uniway/apps/api/echo"
	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/activity"
	"github.com/uniwayhq/uniway/core/invoice"
	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/student"
	"github.com/uniwayhq/uniway/core/task"
	"github.com/uniwayhq/uniway/core/user"
	"github.com/uniwayhq/uniway/core/workflow"
	emailsvc "github.com/uniwayhq/uniway/services/email"
	logsvc "github.com/uniwayhq/uniway/services/logger"
	"github.com/uniwayhq/uniway/storage/database"
	sqlxrepos "github.com/uniwayhq/uniway/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	activitySvc := activity.NewService(sqlxrepos.NewActivityRepository(db), logger)
	partnerSvc := partner.NewService(sqlxrepos.NewPartnerRepository(db))
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(db))
	invoiceSvc := invoice.NewService(sqlxrepos.NewInvoiceRepository(db))
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)

	engine := workflow.NewEngine(
		sqlxrepos.NewTaskRepository(db),
		sqlxrepos.NewInvoiceRepository(db),
		activitySvc,
		logger,
	)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), partnerSvc, engine, activitySvc, logger)
	studentSvc.OnVisaGranted(func(st student.Student) {
		if st.Email == "" {
			return
		}
		mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: st.Name, Address: st.Email}},
			Subject:      "Visa Granted!",
			TemplateName: "visa_granted",
			TemplateData: struct {
				Name    string
				Country string
			}{Name: st.Name, Country: st.TargetCountry},
		})
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	user.LoadCommonPasswords(conf)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			StudentSvc:  studentSvc,
			PartnerSvc:  partnerSvc,
			TaskSvc:     taskSvc,
			InvoiceSvc:  invoiceSvc,
			ActivitySvc: activitySvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
