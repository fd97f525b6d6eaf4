package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abdularham/clinic-api/config"
	"github.com/abdularham/clinic-api/internal/handler"
	"github.com/abdularham/clinic-api/internal/handler/admin"
	"github.com/abdularham/clinic-api/internal/handler/doctor"
	"github.com/abdularham/clinic-api/internal/handler/patient"
	"github.com/abdularham/clinic-api/internal/middleware"
	"github.com/abdularham/clinic-api/pkg/auth"
)

// Router assembles the three role surfaces behind their access guards.
type Router struct {
	engine *gin.Engine
}

func NewRouter(
	cfg *config.Config,
	guard *middleware.AccessGuard,
	adminHandler *admin.Handler,
	doctorHandler *doctor.Handler,
	patientHandler *patient.Handler,
	logger zerolog.Logger,
) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	engine.Use(middleware.NewMetrics(registry).Handle())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		engine.Use(limiter.Handle())
	}

	engine.GET("/health", handler.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	adminGroup := engine.Group("/admin")
	{
		adminGroup.POST("/login", adminHandler.Login)

		guarded := adminGroup.Group("", guard.Require(auth.RoleAdmin))
		guarded.POST("/create", adminHandler.CreateAdmin)
		guarded.POST("/createdoctor", adminHandler.CreateDoctor)
		guarded.POST("/createpatient", adminHandler.CreatePatient)
		guarded.GET("/getadmins", adminHandler.GetAdmins)
		guarded.GET("/getdoctors", adminHandler.GetDoctors)
		guarded.GET("/getpatients", adminHandler.GetPatients)
		guarded.POST("/getadminbyid", adminHandler.GetAdminByID)
		guarded.POST("/getadminbyemail", adminHandler.GetAdminByEmail)
		guarded.POST("/getdoctorbyid", adminHandler.GetDoctorByID)
		guarded.POST("/getdoctorbyemail", adminHandler.GetDoctorByEmail)
		guarded.POST("/getpatientbyid", adminHandler.GetPatientByID)
		guarded.POST("/getpatientbyemail", adminHandler.GetPatientByEmail)
		guarded.DELETE("/doctor", adminHandler.DeleteDoctor)
		guarded.DELETE("/patient", adminHandler.DeletePatient)
		guarded.GET("/allappointments", adminHandler.AllAppointments)
		guarded.GET("/allvisits", adminHandler.AllVisits)
		guarded.GET("/allexams", adminHandler.AllExams)
		guarded.GET("/logs", adminHandler.Logs)
	}

	doctorGroup := engine.Group("/doctor")
	{
		doctorGroup.POST("/login", doctorHandler.Login)

		guarded := doctorGroup.Group("", guard.Require(auth.RoleDoctor))
		guarded.POST("/createappointment", doctorHandler.CreateAppointment)
		guarded.POST("/updatestatus", doctorHandler.UpdateStatus)
		guarded.POST("/createvisit", doctorHandler.CreateVisit)
		guarded.POST("/createexam", doctorHandler.CreateExam)
		guarded.GET("/allappointments", doctorHandler.AllAppointments)
		guarded.GET("/allvisits", doctorHandler.AllVisits)
		guarded.GET("/allexams", doctorHandler.AllExams)
		guarded.POST("/delete", doctorHandler.Delete)
	}

	patientGroup := engine.Group("/patient")
	{
		patientGroup.POST("/login", patientHandler.Login)

		guarded := patientGroup.Group("", guard.Require(auth.RolePatient))
		guarded.POST("/createappointment", patientHandler.CreateAppointment)
		guarded.POST("/updatestatus", patientHandler.UpdateStatus)
		guarded.POST("/createvisit", patientHandler.CreateVisit)
		guarded.GET("/allappointments", patientHandler.AllAppointments)
		guarded.GET("/allvisits", patientHandler.AllVisits)
		guarded.GET("/allexams", patientHandler.AllExams)
		guarded.POST("/delete", patientHandler.Delete)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
