package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

type catalogApi struct {
	svc        *catalog.Service
	enrollSvc  *enrollment.Service
	workSvc    *coursework.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := catalogApi{
		svc:        deps.CatalogSvc,
		enrollSvc:  deps.EnrollmentSvc,
		workSvc:    deps.CourseworkSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.createCourse)
	cg.GET("/mine", api.myCourses)

	// detail endpoints
	dg := cg.Group("/:courseID")
	dg.GET("", api.retrieveCourse)
	dg.POST("/enroll", api.enroll)
	dg.GET("/students", api.students)

	dg.POST("/lectures", api.createLecture)
	dg.GET("/lectures", api.lectures)

	dg.POST("/assignments", api.createAssignment)
	dg.GET("/assignments", api.assignments)
	ag := dg.Group("/assignments/:assignmentID")
	ag.GET("", api.retrieveAssignment)
	ag.POST("/submissions", api.submit)
	ag.GET("/submissions/:studentID", api.retrieveSubmission)
	ag.PUT("/submissions/:studentID/grade", api.grade)

	g.GET("/lectures/:lectureID", api.retrieveLecture, jwt)
}

// Handlers

func (api *catalogApi) createCourse(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	crs, err := api.svc.CreateCourse(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *catalogApi) retrieveCourse(ctx echo.Context) error {
	crs, err := api.svc.GetCourse(ctx.Param("courseID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

// myCourses lists the courses the authenticated student is enrolled in.
func (api *catalogApi) myCourses(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	courses, err := api.enrollSvc.StudentCourses(actor)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []string{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) enroll(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	if err := api.enrollSvc.Enroll(actor, ctx.Param("courseID")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: "Enrolled."})
}

// students lists enrolled students; restricted to the course owner.
func (api *catalogApi) students(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	if _, err := api.svc.CheckOwner(actor, ctx.Param("courseID")); err != nil {
		return err
	}
	students, err := api.enrollSvc.CourseStudents(ctx.Param("courseID"))
	if err != nil {
		return err
	}
	if students == nil {
		students = []identity.ID{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *catalogApi) createLecture(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data catalog.NewLecture
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecture")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	lect, err := api.svc.CreateLecture(actor, ctx.Param("courseID"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lect)
}

func (api *catalogApi) lectures(ctx echo.Context) error {
	lectures, err := api.svc.CourseLectures(ctx.Param("courseID"))
	if err != nil {
		return err
	}
	if lectures == nil {
		lectures = []string{}
	}
	return ctx.JSON(http.StatusOK, lectures)
}

func (api *catalogApi) retrieveLecture(ctx echo.Context) error {
	lect, err := api.svc.GetLecture(ctx.Param("lectureID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lect)
}

func (api *catalogApi) createAssignment(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data catalog.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	asg, err := api.svc.CreateAssignment(actor, ctx.Param("courseID"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *catalogApi) assignments(ctx echo.Context) error {
	assignments, err := api.svc.CourseAssignments(ctx.Param("courseID"))
	if err != nil {
		return err
	}
	if assignments == nil {
		assignments = []string{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *catalogApi) retrieveAssignment(ctx echo.Context) error {
	asg, err := api.svc.GetAssignment(ctx.Param("courseID"), ctx.Param("assignmentID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *catalogApi) submit(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data coursework.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	sub, err := api.workSvc.Submit(actor, ctx.Param("courseID"), ctx.Param("assignmentID"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// retrieveSubmission is open to the course owner and to the submitting student.
func (api *catalogApi) retrieveSubmission(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	studentID := identity.ID(ctx.Param("studentID"))
	if actor != studentID {
		if _, err := api.svc.CheckOwner(actor, ctx.Param("courseID")); err != nil {
			return err
		}
	}

	sub, err := api.workSvc.GetSubmission(ctx.Param("courseID"), ctx.Param("assignmentID"), studentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *catalogApi) grade(ctx echo.Context) error {
	actor, err := actorID(ctx)
	if err != nil {
		return err
	}
	var data coursework.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	sub, err := api.workSvc.Grade(actor, ctx.Param("courseID"), ctx.Param("assignmentID"), identity.ID(ctx.Param("studentID")), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}
