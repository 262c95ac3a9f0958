package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/identity"
)

type attendanceApi struct {
	svc        *attendance.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	lg := g.Group("/lectures/:lectureID", jwt)
	lg.POST("/session", api.startSession)
	lg.DELETE("/session", api.closeSession)
	lg.GET("/session", api.retrieveSession)

	lg.POST("/attendance", api.mark)
	lg.POST("/attendance/manual", api.markManual)
	lg.GET("/attendance", api.attendees)
	lg.GET("/attendance/:studentID", api.retrieveRecord)

	g.GET("/courses/:courseID/students/:studentID/attendance", api.stats, jwt)
}

// Handlers

// startSession opens (or reopens) a verification window for a lecture and
// returns the session token. This is the only place the token ever leaves
// the server; the teacher is expected to relay it to the room out of band.
func (api *attendanceApi) startSession(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data StartSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartSessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.StartSession(actor, ctx.Param("lectureID"), time.Duration(data.DurationSeconds)*time.Second)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, SessionResponse{
		LectureID: sess.LectureID,
		Token:     sess.Token,
		StartTime: sess.StartTime,
		EndTime:   sess.EndTime,
		IsActive:  sess.IsActive,
	})
}

func (api *attendanceApi) closeSession(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.CloseSession(actor, ctx.Param("lectureID")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) retrieveSession(ctx echo.Context) error {
	sess, err := api.svc.GetSession(ctx.Param("lectureID"))
	if err != nil {
		return err
	}
	// Session.Token is never serialized here.
	return ctx.JSON(http.StatusOK, sess)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendanceRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.MarkAttendance(actor, ctx.Param("lectureID"), data.Token)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) markManual(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data ManualAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ManualAttendanceRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.MarkManual(actor, ctx.Param("lectureID"), identity.ID(data.StudentID))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) attendees(ctx echo.Context) error {
	attendees, err := api.svc.Attendees(ctx.Param("lectureID"))
	if err != nil {
		return err
	}
	if attendees == nil {
		attendees = []identity.ID{}
	}
	return ctx.JSON(http.StatusOK, attendees)
}

func (api *attendanceApi) retrieveRecord(ctx echo.Context) error {
	rec, err := api.svc.GetRecord(ctx.Param("lectureID"), identity.ID(ctx.Param("studentID")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(identity.ID(ctx.Param("studentID")), ctx.Param("courseID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

type (
	StartSessionRequest struct {
		DurationSeconds int64 `json:"duration_seconds" validate:"required,min=1"`
	}

	SessionResponse struct {
		LectureID string    `json:"lecture_id"`
		Token     string    `json:"token"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		IsActive  bool      `json:"is_active"`
	}

	MarkAttendanceRequest struct {
		Token string `json:"token" validate:"required"`
	}

	ManualAttendanceRequest struct {
		StudentID string `json:"student_id" validate:"required"`
	}
)

func (sr *StartSessionRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sr)
}

func (mr *MarkAttendanceRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(mr)
}

func (mr *ManualAttendanceRequest) Validate(validate *validator.Validate) error {
	mr.StudentID = core.CleanString(mr.StudentID, true /* lower */)
	return validate.Struct(mr)
}
