package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/luminalearn/lumina/apps/api/echo"
	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
	logsvc "github.com/luminalearn/lumina/services/logger"
	"github.com/luminalearn/lumina/storage/database"
	dummydb "github.com/luminalearn/lumina/storage/database/dummy"
	sqlxrepos "github.com/luminalearn/lumina/storage/database/sqlx"
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

	// set up repositories
	var (
		identityRepo   identity.Repository
		catalogRepo    catalog.Repository
		enrollmentRepo enrollment.Repository
		courseworkRepo coursework.Repository
		attendanceRepo attendance.Repository
	)
	if conf.Database.Engine == "dummy" {
		db, err := dummydb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		identityRepo = dummydb.NewIdentityRepository(db)
		catalogRepo = dummydb.NewCatalogRepository(db)
		enrollmentRepo = dummydb.NewEnrollmentRepository(db)
		courseworkRepo = dummydb.NewCourseworkRepository(db)
		attendanceRepo = dummydb.NewAttendanceRepository(db)
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		identityRepo = sqlxrepos.NewIdentityRepository(db)
		catalogRepo = sqlxrepos.NewCatalogRepository(db)
		enrollmentRepo = sqlxrepos.NewEnrollmentRepository(db)
		courseworkRepo = sqlxrepos.NewCourseworkRepository(db)
		attendanceRepo = sqlxrepos.NewAttendanceRepository(db)
	}

	// set up services
	identitySvc := identity.NewService(identityRepo)
	catalogSvc := catalog.NewService(catalogRepo, identitySvc)
	enrollmentSvc := enrollment.NewService(enrollmentRepo, identitySvc, catalogSvc)
	courseworkSvc := coursework.NewService(courseworkRepo, catalogSvc, enrollmentSvc, conf)
	attendanceSvc := attendance.NewService(attendanceRepo, catalogSvc, enrollmentSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	identity.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			IdentitySvc:   identitySvc,
			CatalogSvc:    catalogSvc,
			EnrollmentSvc: enrollmentSvc,
			CourseworkSvc: courseworkSvc,
			AttendanceSvc: attendanceSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
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

	if err = database.Migrate(db); err != nil {
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
