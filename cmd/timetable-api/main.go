package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolable/timetable-api/api/swagger"
	"github.com/schoolable/timetable-api/internal/handler"
	"github.com/schoolable/timetable-api/internal/middleware"
	"github.com/schoolable/timetable-api/internal/models"
	"github.com/schoolable/timetable-api/internal/repository"
	"github.com/schoolable/timetable-api/internal/service"
	"github.com/schoolable/timetable-api/pkg/cache"
	"github.com/schoolable/timetable-api/pkg/config"
	"github.com/schoolable/timetable-api/pkg/database"
	"github.com/schoolable/timetable-api/pkg/logger"
	corsmiddleware "github.com/schoolable/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolable/timetable-api/pkg/middleware/requestid"
)

// @title Schoolable Timetable API
// @version 0.1.0
// @description Period scheduling, conflict detection, and workload analysis
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DefaultTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	periodRepo := repository.NewPeriodRepository(db)
	termRepo := repository.NewTermRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classRepo := repository.NewClassRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	registrationRepo := repository.NewCourseRegistrationRepository(db)

	periodSvc := service.NewPeriodService(periodRepo, termRepo, classRepo, roomRepo, cacheSvc, metricsSvc, nil, logr)
	timetableSvc := service.NewTimetableService(periodRepo, enrollmentRepo, registrationRepo, schoolRepo, teacherRepo, classRepo, subjectRepo, cacheSvc, cfg.Timetable.ScheduleCacheTTL, logr)
	generatorSvc := service.NewGeneratorService(periodRepo, subjectRepo, schoolRepo, periodSvc, service.GeneratorOptions{
		MaxSameSubjectPerDay: cfg.Generator.MaxSameSubjectPerDay,
		FreePeriodsPerDay:    cfg.Generator.FreePeriodsPerDay,
		CoreKeywords:         cfg.Generator.CoreSubjectKeywords,
	}, metricsSvc, nil, nil, logr)
	workloadSvc := service.NewWorkloadService(periodRepo, teacherRepo, subjectRepo, models.WorkloadThresholds{
		LowBelow:   cfg.Workload.LowBelow,
		NormalUpTo: cfg.Workload.NormalUpTo,
		HighUpTo:   cfg.Workload.HighUpTo,
	}, cacheSvc, metricsSvc, cfg.Workload.SummaryCacheTTL, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, subjectRepo, termRepo, cacheSvc, cfg.Timetable.AcademicYearStartMonth, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, classRepo, nil, logr)
	exportSvc := service.NewExportService(timetableSvc, subjectRepo, logr)

	periodHandler := handler.NewPeriodHandler(periodSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	generatorHandler := handler.NewGeneratorHandler(generatorSvc)
	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, enrollmentSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleAdvisor)
	selfOrStaff := middleware.RBAC("ADMIN", "TEACHER", "ADVISOR", "SELF")

	api.GET("/periods", staff, periodHandler.List)
	api.POST("/periods", admin, periodHandler.Create)
	api.PUT("/periods/:id", admin, periodHandler.Update)
	api.DELETE("/periods/:id", admin, periodHandler.Delete)
	api.DELETE("/periods", admin, periodHandler.DeleteBySection)
	api.POST("/periods/master-schedule", admin, periodHandler.SeedMasterSchedule)

	api.GET("/students/:id/schedule", selfOrStaff, timetableHandler.StudentSchedule)
	api.GET("/students/:id/registrations", selfOrStaff, registrationHandler.ListForStudent)
	api.GET("/classes/:id/timetable", timetableHandler.ClassTimetable)
	api.GET("/class-arms/:id/timetable", timetableHandler.ArmTimetable)
	api.GET("/class-arms/:id/timetable/export", staff, exportHandler.ArmTimetable)
	api.GET("/teachers/:id/timetable", timetableHandler.TeacherTimetable)

	api.POST("/timetable/generate", admin, generatorHandler.Generate)
	api.POST("/timetable/apply", admin, generatorHandler.Apply)

	api.GET("/schools/:id/workload", staff, workloadHandler.Summary)
	api.GET("/subjects/:id/least-loaded-teacher", admin, workloadHandler.LeastLoadedTeacher)

	api.POST("/registrations", staff, registrationHandler.Register)
	api.DELETE("/registrations/:id", staff, registrationHandler.Deactivate)
	api.POST("/enrollments", admin, registrationHandler.Enroll)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
