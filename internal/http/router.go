package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	intconfig "fleetops/internal/config"
	"fleetops/internal/http/handlers"
	"fleetops/internal/http/middleware"
)

// NewRouter wires every route group. Mutating routes require a valid
// token; admin-only routes additionally require the admin role.
func NewRouter(env intconfig.Env) *gin.Engine {
	handlers.JWTSecret = []byte(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.GET("/health", handlers.Health)
	api.GET("/db-check", handlers.DBCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/login", handlers.Login)
		auth.POST("/register", handlers.Register)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(handlers.JWTSecret))

	trips := authed.Group("/trips")
	{
		trips.GET("", handlers.GetTrips)
		trips.GET("/:id", handlers.GetTripByID)
		trips.POST("", handlers.CreateTrip)
		trips.PUT("/:id", handlers.UpdateTrip)
		trips.DELETE("/:id", middleware.RequireRoles("admin"), handlers.DeleteTrip)
		trips.POST("/:id/complete", handlers.CompleteTrip)
		trips.PUT("/:id/status", handlers.AdvanceTripStatus)
		trips.POST("/:id/costs", handlers.AddCostEntry)
		trips.POST("/:id/additional-costs", handlers.AddAdditionalCost)
		trips.POST("/:id/delays", handlers.AddDelayReason)
	}

	costs := authed.Group("/costs")
	{
		costs.POST("/:id/flag", handlers.FlagCostEntry)
		costs.PUT("/:id/investigation", handlers.UpdateInvestigation)
	}

	diesel := authed.Group("/diesel")
	{
		diesel.GET("", handlers.GetDieselRecords)
		diesel.GET("/:id", handlers.GetDieselByID)
		diesel.POST("", handlers.CreateDieselRecord)
		diesel.PUT("/:id", handlers.UpdateDieselRecord)
		diesel.DELETE("/:id", middleware.RequireRoles("admin"), handlers.DeleteDieselRecord)
		diesel.POST("/import", handlers.ImportDieselCSV)
		diesel.POST("/:id/verify-probe", handlers.VerifyProbe)
		diesel.POST("/:id/debrief", handlers.RecordDebrief)
		diesel.POST("/:id/link", handlers.LinkDieselToTrip)
		diesel.POST("/:id/unlink", handlers.UnlinkDiesel)
		diesel.GET("/:id/debrief-sheet", handlers.DownloadDebriefSheet)
	}

	reports := authed.Group("/reports")
	{
		reports.GET("/weekly", handlers.GetWeeklyReports)
		reports.GET("/weekly/export", handlers.ExportWeeklyCSV)
		reports.GET("/fleet", handlers.GetFleetReport)
		reports.GET("/flagged-costs", handlers.GetFlaggedCosts)
		reports.GET("/yoy", handlers.GetYoYComparison)
		reports.GET("/debrief-queue", handlers.GetDebriefQueue)
		reports.GET("/debrief/export", handlers.ExportDebriefCSV)
	}

	norms := authed.Group("/norms")
	{
		norms.GET("", handlers.GetDieselNorms)
		norms.PUT("/:fleetNumber", middleware.RequireRoles("admin"), handlers.UpsertDieselNorm)
	}

	ytd := authed.Group("/ytd-metrics")
	{
		ytd.GET("", handlers.GetYTDMetrics)
		ytd.PUT("/:year", middleware.RequireRoles("admin"), handlers.UpsertYTDMetrics)
	}

	missed := authed.Group("/missed-loads")
	{
		missed.GET("", handlers.GetMissedLoads)
		missed.POST("", handlers.CreateMissedLoad)
		missed.DELETE("/:id", middleware.RequireRoles("admin"), handlers.DeleteMissedLoad)
	}

	authed.GET("/activity/:entityType/:entityId", handlers.GetActivityLog)

	users := authed.Group("/users", middleware.RequireRoles("admin"))
	{
		users.GET("", handlers.GetUsers)
		users.GET("/:id", handlers.GetUserByID)
		users.PUT("/:id", handlers.UpdateUser)
		users.DELETE("/:id", handlers.DeleteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, 404, "route not found", nil)
	})

	return r
}
