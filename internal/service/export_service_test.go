package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levis-creator/college-system-api/internal/models"
	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
	"github.com/levis-creator/college-system-api/pkg/export"
)

type stubExportSources struct {
	students   []models.StudentDetail
	timetable  *models.TimetableDetail
	department *models.Department
}

func (s *stubExportSources) ListByDepartment(ctx context.Context, departmentID int64, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	return s.students, &models.Pagination{Page: 1, PageSize: 100, TotalCount: len(s.students)}, nil
}

func (s *stubExportSources) Get(ctx context.Context, id int64) (*models.TimetableDetail, error) {
	if s.timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return s.timetable, nil
}

type stubDepartmentSource struct {
	department *models.Department
}

func (s *stubDepartmentSource) Get(ctx context.Context, id int64) (*models.Department, error) {
	if s.department == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
	}
	return s.department, nil
}

func sampleRoster() []models.StudentDetail {
	programme := "Computer Science"
	st := models.StudentDetail{
		FirstName: "Brian",
		LastName:  "Otieno",
		Email:     "brian@example.com",
	}
	st.NationalID = "12345678"
	st.AdmissionNo = "ADM-001"
	st.AdmissionDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	st.Active = true
	st.ProgrammeName = &programme
	return []models.StudentDetail{st}
}

func newTestExportService(sources *stubExportSources, depts *stubDepartmentSource, enabled bool) *ExportService {
	return NewExportService(sources, sources, depts, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, enabled)
}

func TestExportServiceStudentsCSV(t *testing.T) {
	sources := &stubExportSources{students: sampleRoster()}
	depts := &stubDepartmentSource{department: &models.Department{Name: "Computing", Code: "COMP"}}
	svc := newTestExportService(sources, depts, true)

	doc, err := svc.StudentsByDepartment(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.Filename, "students-COMP-"))
	assert.True(t, strings.HasSuffix(doc.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(doc.Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Admission No,National ID,First Name,Last Name,Email,Programme,Admitted,Active", lines[0])
	assert.Equal(t, "ADM-001,12345678,Brian,Otieno,brian@example.com,Computer Science,2026-01-10,true", lines[1])
}

func TestExportServiceStudentsUnknownDepartment(t *testing.T) {
	svc := newTestExportService(&stubExportSources{}, &stubDepartmentSource{}, true)

	_, err := svc.StudentsByDepartment(context.Background(), 9, FormatCSV)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	depts := &stubDepartmentSource{department: &models.Department{Name: "Computing", Code: "COMP"}}
	svc := newTestExportService(&stubExportSources{}, depts, true)

	_, err := svc.StudentsByDepartment(context.Background(), 1, "xlsx")
	requireValidationError(t, err)
}

func TestExportServiceTimetablePDF(t *testing.T) {
	period := "2026/2027"
	unit := "Data Structures"
	room := "Lab 2"
	slot := models.ScheduleDetail{CourseUnitName: &unit, ClassroomName: &room}
	slot.Day = models.Monday
	slot.StartTime = "08:00"
	slot.EndTime = "10:00"

	tt := &models.TimetableDetail{AcademicPeriod: &period, Schedules: []models.ScheduleDetail{slot}}
	svc := newTestExportService(&stubExportSources{timetable: tt}, &stubDepartmentSource{}, true)

	doc, err := svc.Timetable(context.Background(), 5, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(doc.Filename, "timetable-5-"))
	assert.True(t, strings.HasSuffix(doc.Filename, ".pdf"))
	assert.True(t, len(doc.Content) > 0)
	assert.Equal(t, "%PDF", string(doc.Content[:4]))
}

func TestExportServiceCaseInsensitiveFormat(t *testing.T) {
	tt := &models.TimetableDetail{}
	svc := newTestExportService(&stubExportSources{timetable: tt}, &stubDepartmentSource{}, true)

	doc, err := svc.Timetable(context.Background(), 1, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", doc.ContentType)
}

func TestExportServiceEnabledFlag(t *testing.T) {
	assert.False(t, newTestExportService(&stubExportSources{}, &stubDepartmentSource{}, false).Enabled())
	assert.True(t, newTestExportService(&stubExportSources{}, &stubDepartmentSource{}, true).Enabled())

	var nilSvc *ExportService
	assert.False(t, nilSvc.Enabled())
}
