package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/levis-creator/college-system-api/internal/middleware"
	"github.com/levis-creator/college-system-api/internal/models"
	"github.com/levis-creator/college-system-api/internal/service"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth          *AuthHandler
	Departments   *DepartmentHandler
	Classrooms    *CrudHandler[models.Classroom, *models.Classroom]
	AcademicYears *CrudHandler[models.AcademicYear, *models.AcademicYear]
	Courses       *CourseHandler
	CourseUnits   *CourseUnitHandler
	Programmes    *ProgrammeHandler
	Schedules     *ScheduleHandler
	Timetables    *TimetableHandler
	Students      *StudentHandler

	AuthService    *service.AuthService
	ExportsEnabled bool
}

// RegisterRoutes mounts the API surface. Listing and read routes are
// anonymous; writes require a valid token plus the ADMIN or STAFF role, and
// role management is ADMIN only.
func RegisterRoutes(r gin.IRouter, deps Deps) {
	authn := middleware.JWT(deps.AuthService)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)
	admin := middleware.RequireRoles(models.RoleAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/verify", deps.Auth.Verify)
		auth.GET("/user", authn, deps.Auth.Me)
		auth.GET("/users", authn, admin, deps.Auth.Users)
		auth.GET("/users/:id", authn, admin, deps.Auth.UserByID)
		auth.POST("/role", authn, admin, deps.Auth.CreateRole)
		auth.POST("/assign-role", authn, admin, deps.Auth.AssignRole)
	}

	departments := r.Group("/departments")
	{
		departments.GET("", deps.Departments.List)
		departments.GET("/:id", deps.Departments.Get)
		departments.POST("", authn, staff, deps.Departments.Create)
		departments.PUT("/:id", authn, staff, deps.Departments.Update)
		departments.DELETE("/:id", authn, staff, deps.Departments.Delete)
		departments.GET("/:id/students", authn, deps.Departments.Students)
		if deps.ExportsEnabled {
			// rosters carry personal data, so the export is not anonymous
			departments.GET("/:id/students/export", authn, staff, deps.Departments.ExportStudents)
		}
	}

	classrooms := r.Group("/classrooms")
	{
		classrooms.GET("", deps.Classrooms.List)
		classrooms.GET("/:id", deps.Classrooms.Get)
		classrooms.POST("", authn, staff, deps.Classrooms.Create)
		classrooms.PUT("/:id", authn, staff, deps.Classrooms.Update)
		classrooms.DELETE("/:id", authn, staff, deps.Classrooms.Delete)
	}

	years := r.Group("/academicyears")
	{
		years.GET("", deps.AcademicYears.List)
		years.GET("/:id", deps.AcademicYears.Get)
		years.POST("", authn, staff, deps.AcademicYears.Create)
		years.PUT("/:id", authn, staff, deps.AcademicYears.Update)
		years.DELETE("/:id", authn, staff, deps.AcademicYears.Delete)
	}

	courses := r.Group("/courses")
	{
		courses.GET("", deps.Courses.List)
		courses.GET("/:id", deps.Courses.Get)
		courses.POST("", authn, staff, deps.Courses.Create)
		courses.PUT("/:id", authn, staff, deps.Courses.Update)
		courses.DELETE("/:id", authn, staff, deps.Courses.Delete)
	}

	units := r.Group("/courseunits")
	{
		units.GET("", deps.CourseUnits.List)
		units.GET("/:id", deps.CourseUnits.Get)
		units.POST("", authn, staff, deps.CourseUnits.Create)
		units.PUT("/:id", authn, staff, deps.CourseUnits.Update)
		units.DELETE("/:id", authn, staff, deps.CourseUnits.Delete)
	}

	programmes := r.Group("/programmes")
	{
		programmes.GET("", deps.Programmes.List)
		programmes.GET("/:id", deps.Programmes.Get)
		programmes.POST("", authn, staff, deps.Programmes.Create)
		programmes.PUT("/:id", authn, staff, deps.Programmes.Update)
		programmes.DELETE("/:id", authn, staff, deps.Programmes.Delete)
	}

	schedules := r.Group("/schedules")
	{
		schedules.GET("", deps.Schedules.List)
		schedules.GET("/:id", deps.Schedules.Get)
		schedules.POST("", authn, staff, deps.Schedules.Create)
		schedules.PUT("/:id", authn, staff, deps.Schedules.Update)
		schedules.DELETE("/:id", authn, staff, deps.Schedules.Delete)
	}

	timetables := r.Group("/timetables")
	{
		timetables.GET("", deps.Timetables.List)
		timetables.GET("/:id", deps.Timetables.Get)
		timetables.POST("", authn, staff, deps.Timetables.Create)
		timetables.PUT("/:id", authn, staff, deps.Timetables.Update)
		timetables.DELETE("/:id", authn, staff, deps.Timetables.Delete)
		if deps.ExportsEnabled {
			timetables.GET("/:id/export", deps.Timetables.Export)
		}
	}

	students := r.Group("/students")
	{
		// student reads expose personal data and stay behind authentication
		students.GET("", authn, deps.Students.List)
		students.GET("/active", authn, deps.Students.Active)
		students.GET("/:id", authn, deps.Students.Get)
		students.POST("", authn, staff, deps.Students.Create)
		students.PUT("/:id", authn, staff, deps.Students.Update)
		// DELETE is the same soft delete as the explicit deactivate route
		students.DELETE("/:id", authn, staff, deps.Students.Deactivate)
		students.POST("/:id/deactivate", authn, staff, deps.Students.Deactivate)
		students.PUT("/:id/department", authn, staff, deps.Students.ChangeDepartment)
	}
}
