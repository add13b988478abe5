// README: Entry point; loads config, wires services and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fleetops/internal/alerts"
	"fleetops/internal/auth"
	"fleetops/internal/config"
	httptransport "fleetops/internal/http"
	"fleetops/internal/infra"
	"fleetops/internal/modules/driver"
	"fleetops/internal/modules/maintenance"
	"fleetops/internal/modules/trip"
	"fleetops/internal/modules/user"
	"fleetops/internal/modules/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := infra.NewLogger(cfg.Log.Level, cfg.Log.JSON)

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	vehicleStore := vehicle.NewStore(dbPool)
	vehicleSvc := vehicle.NewService(vehicleStore)

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore)

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore, vehicleSvc, driverSvc)

	maintenanceStore := maintenance.NewStore(dbPool)
	maintenanceSvc := maintenance.NewService(maintenanceStore)

	userStore := user.NewStore(dbPool)
	userSvc := user.NewService(userStore)

	alertSvc := alerts.NewService(driverSvc, redisClient, cfg.Alerts.CacheTTL)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Trips:       tripSvc,
		Vehicles:    vehicleSvc,
		Drivers:     driverSvc,
		Maintenance: maintenanceSvc,
		Users:       userSvc,
		Alerts:      alertSvc,
		Tokens:      tokens,
		Log:         logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.HTTP.Addr).Info("fleet-api listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
