package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia-hq/academia/core"
	"github.com/academia-hq/academia/core/school"
)

type schoolApi struct {
	svc school.Service
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc school.Service) {
	api := schoolApi{svc: svc}

	cg := g.Group("/classes", jwt)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple, adminMiddleware())

	dg := cg.Group("/:id", classObjectMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())

	dg.GET("/timetable", api.classTimetable)
	dg.POST("/slots", api.addSlot, adminMiddleware())
	dg.DELETE("/slots/:slotID", api.removeSlot, adminMiddleware())

	dg.GET("/roster", api.roster, staffMiddleware())
	dg.POST("/enrollments", api.enroll, adminMiddleware())
	dg.DELETE("/enrollments/:studentID", api.unenroll, adminMiddleware())

	dg.POST("/attendance", api.recordAttendance, staffMiddleware())
	dg.GET("/attendance", api.attendanceSheet, staffMiddleware())

	// the logged-in student's own views
	mg := g.Group("/me", jwt)
	mg.GET("/timetable", api.myTimetable)
	mg.GET("/attendance", api.myAttendance)
}

// classObjectMiddleware loads the class into the context or 404s.
func classObjectMiddleware(svc school.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cls, err := svc.GetByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == school.ErrClassNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding class by ID")
			}
			ctx.Set("object", cls)
			return next(ctx)
		}
	}
}

func contextClass(ctx echo.Context) (school.Class, error) {
	cls, ok := ctx.Get("object").(school.Class)
	if !ok {
		return school.Class{}, errors.New("class object not found in echo.Context")
	}
	return cls, nil
}

// Handlers

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *schoolApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var classes []school.Class
	if claims.IsTeacher && !claims.IsAdmin {
		classes, err = api.svc.QueryByTeacher(claims.Subject)
	} else {
		classes, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) update(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(cls); err != nil {
		return err
	}

	cls, err = api.svc.Update(cls.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(cls.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) classTimetable(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	slots, err := api.svc.ClassTimetable(cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying class timetable")
	}
	if slots == nil {
		slots = []school.TimetableSlot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *schoolApi) addSlot(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}

	var data school.NewTimetableSlot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetableSlot")
	}

	slot, err := api.svc.AddSlot(cls.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding timetable slot")
	}
	return ctx.JSON(http.StatusCreated, slot)
}

func (api *schoolApi) removeSlot(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RemoveSlot(cls.ID, ctx.Param("slotID")); err != nil {
		if errors.Cause(err) == school.ErrSlotNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "removing timetable slot")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) roster(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	enrs, err := api.svc.Roster(cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	if enrs == nil {
		enrs = []school.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *schoolApi) enroll(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}

	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.Enroll(cls.ID, data.StudentID); err != nil {
		if errors.Cause(err) == school.ErrAlreadyEnrolled {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *schoolApi) unenroll(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Unenroll(cls.ID, ctx.Param("studentID")); err != nil {
		if errors.Cause(err) == school.ErrNotEnrolled {
			return errHttpNotFound
		}
		return errors.Wrap(err, "unenrolling student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) recordAttendance(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}

	rec, err := api.svc.RecordAttendance(cls.ID, claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *schoolApi) attendanceSheet(ctx echo.Context) error {
	cls, err := contextClass(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.AttendanceSheet(cls.ID, ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "querying attendance sheet")
	}
	if recs == nil {
		recs = []school.AttendanceRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *schoolApi) myTimetable(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	slots, err := api.svc.StudentTimetable(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student timetable")
	}
	if slots == nil {
		slots = []school.TimetableSlot{}
	}
	return ctx.JSON(http.StatusOK, slots)
}

func (api *schoolApi) myAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	recs, err := api.svc.StudentAttendance(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	if recs == nil {
		recs = []school.AttendanceRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (er *EnrollRequest) Validate() error {
	return core.Validate.Struct(er)
}
