package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/edusight/dropwatch/core/student"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc student.ServiceInterface, validate *validator.Validate) {
	api := studentApi{svc: svc, validate: validate}

	// the whole roster is operator-only
	sg := g.Group("/students", jwt)
	sg.GET("", api.list)
	sg.GET("/summary", api.summary)
	sg.GET("/export", api.export)
	sg.POST("", api.create)
	sg.DELETE("", api.destroy)
}

// Handlers

func (api *studentApi) list(ctx echo.Context) error {
	students, err := api.svc.List()
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) summary(ctx echo.Context) error {
	summary, err := api.svc.Summary()
	if err != nil {
		return errors.Wrap(err, "summarizing students")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Add(data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}

	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Remove(ctx.QueryParam("name")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// export streams the scored roster as an XLSX workbook.
func (api *studentApi) export(ctx echo.Context) error {
	students, err := api.svc.List()
	if err != nil {
		return errors.Wrap(err, "listing students")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Students"
	if err = f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	header := append(append(make([]interface{}, 0, len(student.Columns)+1), toIfaces(student.Columns)...), "RiskLevel")
	if err = f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header row")
	}
	for i, s := range students {
		cell, cErr := excelize.CoordinatesToCellName(1, i+2)
		if cErr != nil {
			return errors.Wrap(cErr, "computing cell name")
		}
		row := []interface{}{s.ID, s.Name, s.Attendance, s.Marks, s.FeeStatus, s.FinancialDifficulty, s.RiskLevel}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "writing student row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "serializing workbook")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="students.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func toIfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
