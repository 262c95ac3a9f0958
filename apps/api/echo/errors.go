package echoapi

import (
	"net/http"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "identity not authenticated")

	// domain sentinel -> HTTP status
	errStatuses = map[error]int{
		identity.ErrAccountNotFound:      http.StatusNotFound,
		identity.ErrNotInitialized:       http.StatusNotFound,
		catalog.ErrCourseNotFound:        http.StatusNotFound,
		catalog.ErrLectureNotFound:       http.StatusNotFound,
		catalog.ErrAssignmentNotFound:    http.StatusNotFound,
		coursework.ErrSubmissionNotFound: http.StatusNotFound,
		attendance.ErrSessionNotFound:    http.StatusNotFound,
		attendance.ErrRecordNotFound:     http.StatusNotFound,

		identity.ErrNotRegistered: http.StatusForbidden,
		catalog.ErrNotTeacher:     http.StatusForbidden,
		catalog.ErrNotCourseOwner: http.StatusForbidden,
		enrollment.ErrNotEnrolled: http.StatusForbidden,

		identity.ErrAccountExists:      http.StatusConflict,
		identity.ErrAlreadyRegistered:  http.StatusConflict,
		identity.ErrAlreadyInitialized: http.StatusConflict,
		catalog.ErrCourseExists:        http.StatusConflict,
		catalog.ErrLectureExists:       http.StatusConflict,
		catalog.ErrAssignmentExists:    http.StatusConflict,
		enrollment.ErrAlreadyEnrolled:  http.StatusConflict,
		attendance.ErrSessionActive:    http.StatusConflict,
		attendance.ErrAlreadyMarked:    http.StatusConflict,

		attendance.ErrSessionNotActive: http.StatusUnprocessableEntity,
		attendance.ErrSessionExpired:   http.StatusUnprocessableEntity,
		attendance.ErrInvalidToken:     http.StatusUnprocessableEntity,

		identity.ErrInvalidCredentials: http.StatusBadRequest,
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		var status int
		var known bool
		// indexing the map with an unhashable error type (e.g. validator.ValidationErrors) panics
		if cause != nil && reflect.TypeOf(cause).Comparable() {
			status, known = errStatuses[cause]
		}
		if known {
			code = status
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
