// Command devicesim serves a simulated tank controller on the device REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart_breeder/internal/logger"
	"smart_breeder/internal/server"
	"smart_breeder/internal/simulator"

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
)

func main() {
	port := flag.StringP("port", "p", "8081", "listen port")
	tick := flag.Duration("tick", time.Second, "simulation step")
	latency := flag.Duration("latency", 0, "delay added to every response")
	ph := flag.Float64("ph", simulator.NeutralPH, "initial pH")
	temp := flag.Float64("temp", simulator.AmbientC, "initial temperature in °C")
	level := flag.String("log-level", logger.InfoLevel, "debug, info, warn or error")
	flag.Parse()

	log := logger.Get(*level)
	gin.SetMode(gin.ReleaseMode)

	dev := simulator.New(simulator.Options{
		InitialPH:   *ph,
		InitialTemp: *temp,
		Latency:     *latency,
	}, log.Component("simulator"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dev.Run(ctx, *tick)

	srv := &server.Server{}
	go func() {
		log.Infow("devicesim_listening", "port", *port, "latency", *latency)
		if err := srv.Run(*port, dev.Router()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting simulator", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("simulator forced to shutdown", "err", err)
	}
}
