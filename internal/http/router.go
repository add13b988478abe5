// README: HTTP router registration: public auth routes plus the
// role-gated fleet API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleetops/internal/alerts"
	"fleetops/internal/auth"
	"fleetops/internal/http/handlers"
	"fleetops/internal/http/middleware"
	"fleetops/internal/modules/driver"
	"fleetops/internal/modules/maintenance"
	"fleetops/internal/modules/trip"
	"fleetops/internal/modules/user"
	"fleetops/internal/modules/vehicle"
)

type RouterDeps struct {
	Trips       *trip.Service
	Vehicles    *vehicle.Service
	Drivers     *driver.Service
	Maintenance *maintenance.Service
	Users       *user.Service
	Alerts      *alerts.Service
	Tokens      *auth.TokenService
	Log         *logrus.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens)
	tripHandler := handlers.NewTripHandler(deps.Trips)
	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles)
	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Alerts)
	maintenanceHandler := handlers.NewMaintenanceHandler(deps.Maintenance)

	api := r.Group("/api/v1")
	api.POST("/auth/token", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Tokens, deps.Users))

	authed.GET("/auth/me", authHandler.Me)

	dispatcher := middleware.RequireRole(user.RoleDispatcher)
	fleetManager := middleware.RequireRole(user.RoleFleetManager)

	authed.GET("/trips", tripHandler.List)
	authed.GET("/trips/:id", tripHandler.Get)
	authed.GET("/trips/:id/history", tripHandler.History)
	authed.POST("/trips", dispatcher, tripHandler.Create)
	authed.PATCH("/trips/:id/dispatch", dispatcher, tripHandler.Dispatch)
	authed.PATCH("/trips/:id/complete", tripHandler.Complete)
	authed.PATCH("/trips/:id/cancel", dispatcher, tripHandler.Cancel)

	authed.GET("/vehicles", vehicleHandler.List)
	authed.GET("/vehicles/available", vehicleHandler.Available)
	authed.GET("/vehicles/:id", vehicleHandler.Get)
	authed.GET("/vehicles/:id/history", vehicleHandler.History)
	authed.POST("/vehicles", fleetManager, vehicleHandler.Create)
	authed.PATCH("/vehicles/:id", fleetManager, vehicleHandler.Update)
	authed.POST("/vehicles/:id/retire", fleetManager, vehicleHandler.Retire)

	authed.GET("/drivers", driverHandler.List)
	authed.GET("/drivers/available", driverHandler.Available)
	authed.GET("/drivers/expiring-licenses", driverHandler.ExpiringLicenses)
	authed.GET("/drivers/:id", driverHandler.Get)
	authed.GET("/drivers/:id/history", driverHandler.History)
	authed.POST("/drivers", fleetManager, driverHandler.Create)
	authed.PATCH("/drivers/:id", fleetManager, driverHandler.Update)

	authed.GET("/maintenance", maintenanceHandler.List)
	authed.GET("/maintenance/:id", maintenanceHandler.Get)
	authed.POST("/maintenance", fleetManager, maintenanceHandler.Open)
	authed.PATCH("/maintenance/:id/close", fleetManager, maintenanceHandler.Close)

	return r
}
