package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chulcheck/chulcheck/attendance"
	"github.com/chulcheck/chulcheck/config"
	"github.com/chulcheck/chulcheck/controllers"
	"github.com/chulcheck/chulcheck/middleware"
	"github.com/chulcheck/chulcheck/utils"
)

// SetupRouter wires middlewares, controllers, and the attendance core.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, cache *utils.Cache, loc *time.Location) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(utils.GinLogger(utils.Logger))
	r.Use(utils.GinRecovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	svc := attendance.NewService(attendance.NewLedgerStore(db), utils.Sugar)
	attendanceController := controllers.NewAttendanceController(svc, cache, loc)
	reportController := controllers.NewReportController(svc, cache, loc, time.Duration(cfg.ReportCacheTTLSec)*time.Second)

	rl := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1/attendance")
	api.Use(middleware.AuthRequired(cfg.APITokenSecret), rl.Handler())
	api.POST("/checkin", attendanceController.CheckIn)
	api.GET("/users/:id", attendanceController.GetStats)
	api.GET("/users/:id/calendar/:year/:month", attendanceController.MonthlyCalendar)
	api.GET("/server", reportController.ServerStats)
	api.GET("/leaderboard/:metric", reportController.Leaderboard)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
