package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/levis-creator/college-system-api/api/swagger"
	"github.com/levis-creator/college-system-api/internal/handler"
	"github.com/levis-creator/college-system-api/internal/middleware"
	"github.com/levis-creator/college-system-api/internal/models"
	"github.com/levis-creator/college-system-api/internal/repository"
	"github.com/levis-creator/college-system-api/internal/service"
	"github.com/levis-creator/college-system-api/pkg/cache"
	"github.com/levis-creator/college-system-api/pkg/config"
	"github.com/levis-creator/college-system-api/pkg/database"
	"github.com/levis-creator/college-system-api/pkg/export"
	"github.com/levis-creator/college-system-api/pkg/logger"
	corsmiddleware "github.com/levis-creator/college-system-api/pkg/middleware/cors"
	reqidmiddleware "github.com/levis-creator/college-system-api/pkg/middleware/requestid"
)

// @title College System API
// @version 1.0.0
// @description Administration API for departments, programmes, students and timetables
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	deptRepo := repository.NewDepartmentRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	unitRepo := repository.NewCourseUnitRepository(db)
	progRepo := repository.NewProgrammeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)

	deptRepo.Instrument(metrics)
	classroomRepo.Instrument(metrics)
	yearRepo.Instrument(metrics)
	courseRepo.Instrument(metrics)
	unitRepo.Instrument(metrics)
	progRepo.Instrument(metrics)
	scheduleRepo.Instrument(metrics)
	timetableRepo.Instrument(metrics)
	studentRepo.Instrument(metrics)
	userRepo.Instrument(metrics)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
	})
	deptSvc := service.NewDepartmentService(deptRepo, cacheSvc, validate, logr)
	classroomSvc := service.NewCrudService[models.Classroom](classroomRepo.Store, "classroom", logr)
	yearSvc := service.NewCrudService[models.AcademicYear](yearRepo.Store, "academic year", logr)
	courseSvc := service.NewCourseService(courseRepo, deptRepo, validate, logr)
	unitCrud := service.NewCrudService[models.CourseUnit](unitRepo.Store, "course unit", logr)
	unitSvc := service.NewCourseUnitService(unitCrud, unitRepo)
	progSvc := service.NewProgrammeService(progRepo, deptRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, unitRepo, classroomRepo, timetableRepo, validate, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, scheduleRepo, yearRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, deptRepo, progRepo, validate, logr)
	exportSvc := service.NewExportService(studentSvc, timetableSvc, deptSvc, export.NewCSVExporter(), export.NewPDFExporter(), metrics, logr, cfg.Exports.Enabled)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Deps{
		Auth:           handler.NewAuthHandler(authSvc),
		Departments:    handler.NewDepartmentHandler(deptSvc, studentSvc, exportSvc),
		Classrooms:     handler.NewCrudHandler(classroomSvc),
		AcademicYears:  handler.NewCrudHandler(yearSvc),
		Courses:        handler.NewCourseHandler(courseSvc),
		CourseUnits:    handler.NewCourseUnitHandler(unitSvc),
		Programmes:     handler.NewProgrammeHandler(progSvc),
		Schedules:      handler.NewScheduleHandler(scheduleSvc),
		Timetables:     handler.NewTimetableHandler(timetableSvc, exportSvc),
		Students:       handler.NewStudentHandler(studentSvc),
		AuthService:    authSvc,
		ExportsEnabled: exportSvc.Enabled(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
