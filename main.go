package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "fleetops/internal/config"
	apihttp "fleetops/internal/http"
	"fleetops/internal/utils"
)

func main() {
	env := intconfig.LoadEnv()
	utils.InitLogger(env.LogLevel)
	log := utils.Logger()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB()
	defer intconfig.CloseDB()

	router := apihttp.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.WithField("addr", env.AppAddr).Info("fleetops api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
