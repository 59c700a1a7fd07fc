package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericardos/chamada-escolar/core"
	"github.com/ericardos/chamada-escolar/core/attendance"
	qrsvc "github.com/ericardos/chamada-escolar/services/qr"
	scansvc "github.com/ericardos/chamada-escolar/services/scanner"
)

type attendanceApi struct {
	service *attendance.Service
	qr      *qrsvc.Service
	scanner *scansvc.Scanner
}

func RegisterAttendanceAPI(g *echo.Group, svc *attendance.Service, qr *qrsvc.Service, scanner *scansvc.Scanner) {
	api := attendanceApi{service: svc, qr: qr, scanner: scanner}

	g.GET("/state", api.state)

	sg := g.Group("/schools")
	sg.POST("", api.schoolCreate)
	sg.DELETE("/:id", api.schoolDestroy)
	sg.POST("/:id/activate", api.schoolActivate)
	sg.POST("/:id/classes", api.classCreate)

	cg := g.Group("/classes/:id")
	cg.DELETE("", api.classDestroy)
	cg.POST("/activate", api.classActivate)
	cg.GET("/students", api.studentQuery)
	cg.POST("/students", api.studentCreate)
	cg.POST("/students/import", api.studentImport)
	cg.DELETE("/students", api.studentClear)
	cg.DELETE("/students/:studentID", api.studentDestroy)
	cg.PUT("/attendance", api.attendanceSet)
	cg.POST("/check-in", api.checkIn)
	cg.GET("/summary", api.summary)
	cg.GET("/history", api.history)
	cg.GET("/report", api.report)
	cg.GET("/qrcodes", api.qrCodes)
	cg.GET("/students/:studentID/qrcode.png", api.qrCodePNG)
}

// Requests

type (
	NameRequest struct {
		Name string `json:"name" validate:"required"`
	}

	SetAttendanceRequest struct {
		StudentID string `json:"student_id" validate:"required"`
		Date      string `json:"date" validate:"required,attdate"`
		Status    string `json:"status" validate:"required,attstatus"`
	}

	CheckInRequest struct {
		Code string `json:"code" validate:"required"`
		Date string `json:"date" validate:"omitempty,attdate"`
	}

	StateResponse struct {
		Schools        []attendance.School `json:"schools"`
		ActiveSchoolID string              `json:"active_school_id,omitempty"`
		ActiveClassID  string              `json:"active_class_id,omitempty"`
	}

	QRCodeResponse struct {
		StudentID   string `json:"student_id"`
		StudentName string `json:"student_name"`
		Filename    string `json:"filename"`
		PNG         string `json:"png,omitempty"` // base64
		Error       string `json:"error,omitempty"`
	}
)

// Handlers

func (api *attendanceApi) state(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, StateResponse{
		Schools:        api.service.Schools(),
		ActiveSchoolID: api.service.ActiveSchoolID(),
		ActiveClassID:  api.service.ActiveClassID(),
	})
}

func (api *attendanceApi) schoolCreate(ctx echo.Context) error {
	data := new(NameRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	sch, err := api.service.AddSchool(data.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *attendanceApi) schoolDestroy(ctx echo.Context) error {
	if err := api.service.DeleteSchool(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) schoolActivate(ctx echo.Context) error {
	if err := api.service.SetActiveSchool(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) classCreate(ctx echo.Context) error {
	data := new(NameRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	cls, err := api.service.AddClass(ctx.Param("id"), data.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *attendanceApi) classDestroy(ctx echo.Context) error {
	if err := api.service.DeleteClass(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) classActivate(ctx echo.Context) error {
	if err := api.service.SetActiveClass(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) studentQuery(ctx echo.Context) error {
	cls, err := api.service.GetClass(ctx.Param("id"))
	if err != nil {
		return err
	}
	students := attendance.SortStudents(cls.Students, attendance.SortOrder(ctx.QueryParam("sort")))
	return ctx.JSON(http.StatusOK, students)
}

func (api *attendanceApi) studentCreate(ctx echo.Context) error {
	data := new(NameRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	st, err := api.service.AddStudent(ctx.Param("id"), data.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, st)
}

// studentImport bulk-creates students from a line-delimited text body, one
// name per line, blank lines ignored (roster import).
func (api *attendanceApi) studentImport(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}

	added, err := api.service.BulkAddStudents(ctx.Param("id"), string(body))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, added)
}

func (api *attendanceApi) studentClear(ctx echo.Context) error {
	if err := api.service.ClearStudents(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) studentDestroy(ctx echo.Context) error {
	if err := api.service.DeleteStudent(ctx.Param("id"), ctx.Param("studentID")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) attendanceSet(ctx echo.Context) error {
	data := new(SetAttendanceRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	err := api.service.SetAttendance(ctx.Param("id"), data.StudentID, data.Date, attendance.Status(data.Status))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// checkIn feeds a decoded identifier through the scan bridge. A delivery
// dropped by the debounce returns 204; an unrecognized code returns 404; a
// successful check-in returns the student's name.
func (api *attendanceApi) checkIn(ctx echo.Context) error {
	data := new(CheckInRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	if data.Date == "" {
		data.Date = attendance.Today()
	}

	res, processed := api.scanner.Deliver(ctx.Param("id"), data.Code, data.Date)
	if !processed {
		return ctx.NoContent(http.StatusNoContent)
	}
	if !res.OK {
		return attendance.ErrStudentNotFound
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	cls, err := api.service.GetClass(ctx.Param("id"))
	if err != nil {
		return err
	}

	date := ctx.QueryParam("date")
	if date == "" {
		date = attendance.Today()
	} else if !attendance.ValidDate(date) {
		return attendance.ErrBadDate
	}
	return ctx.JSON(http.StatusOK, attendance.Summarize(cls.Students, date))
}

func (api *attendanceApi) history(ctx echo.Context) error {
	cls, err := api.service.GetClass(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attendance.BuildHistory(cls.Students))
}

// report streams the monthly CSV export. ?scope=school selects the
// school-scoped variant; year/month default to the current month.
func (api *attendanceApi) report(ctx echo.Context) error {
	cls, sch, err := api.service.GetClassSchool(ctx.Param("id"))
	if err != nil {
		return err
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()
	if y := ctx.QueryParam("year"); y != "" {
		if year, err = strconv.Atoi(y); err != nil {
			return core.NewValidationError("invalid report period",
				core.FieldError{Field: "year", Error: "must be a number"})
		}
	}
	if m := ctx.QueryParam("month"); m != "" {
		mi, err := strconv.Atoi(m)
		if err != nil || mi < 1 || mi > 12 {
			return core.NewValidationError("invalid report period",
				core.FieldError{Field: "month", Error: "must be a number between 1 and 12"})
		}
		month = time.Month(mi)
	}

	variant := attendance.VariantClass
	if ctx.QueryParam("scope") == "school" {
		variant = attendance.VariantSchool
	}

	report := attendance.BuildMonthlyReport(cls, sch.Name, year, month, variant)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(report.Content))
}

func (api *attendanceApi) qrCodes(ctx echo.Context) error {
	cls, err := api.service.GetClass(ctx.Param("id"))
	if err != nil {
		return err
	}

	results := api.qr.Generate(cls.Students)
	resp := make([]QRCodeResponse, len(results))
	for i, res := range results {
		resp[i] = QRCodeResponse{
			StudentID:   res.StudentID,
			StudentName: res.StudentName,
			Filename:    res.Filename,
		}
		if res.Err != nil {
			resp[i].Error = res.Err.Error()
			continue
		}
		resp[i].PNG = base64.StdEncoding.EncodeToString(res.PNG)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *attendanceApi) qrCodePNG(ctx echo.Context) error {
	cls, err := api.service.GetClass(ctx.Param("id"))
	if err != nil {
		return err
	}

	studentID := ctx.Param("studentID")
	for _, st := range cls.Students {
		if st.ID == studentID {
			res := api.qr.GenerateOne(st)
			if res.Err != nil {
				return res.Err
			}
			ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
			return ctx.Blob(http.StatusOK, "image/png", res.PNG)
		}
	}
	return attendance.ErrStudentNotFound
}
