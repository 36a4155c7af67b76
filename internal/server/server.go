// Package server exposes battery snapshots over a small HTTP API, for
// status bars and remote `battkit status --server` invocations.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Source is the slice of the battery facade the API serves. Reads happen
// on demand per request; the server runs no background collection loop.
type Source interface {
	GetResult(useCache, parallel bool) map[string]string

	Percent() (int, error)
	IsPlugged() (bool, error)
	DesignCapacity() (int, error)
	RemainingCapacity() (int, error)
	ChargeRate() (int, error)
	IsFastCharge() (bool, error)
	Manufacturer() (string, error)
	Technology() (string, error)
	CycleCount() (int, error)
	Health() (float64, error)
	Voltage() (float64, error)
	Temperature() (float64, error)
}

// New builds the API router.
func New(src Source) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	v1 := router.Group("/v1")
	v1.GET("/battery", getSnapshot(src))
	v1.GET("/battery/raw", getRaw(src))

	return router
}

// Run serves the API on addr until SIGINT/SIGTERM, then shuts down
// gracefully.
func Run(addr string, src Source) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: New(src),
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-sigc:
		logrus.Infof("caught signal %q: shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// getSnapshot serves the formatted mapping. ?cache=false forces a fresh
// collection, ?parallel=false collects sequentially.
func getSnapshot(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		useCache := c.DefaultQuery("cache", "true") != "false"
		parallel := c.DefaultQuery("parallel", "true") != "false"
		c.IndentedJSON(http.StatusOK, src.GetResult(useCache, parallel))
	}
}

// rawInfo is the typed snapshot; absent metrics serialize as null.
type rawInfo struct {
	Percent           *int     `json:"battery_percent"`
	Plugged           *bool    `json:"is_plugged"`
	DesignCapacity    *int     `json:"design_capacity"`
	RemainingCapacity *int     `json:"remaining_capacity"`
	ChargeRate        *int     `json:"charge_rate"`
	FastCharge        *bool    `json:"is_fast_charge"`
	Manufacturer      *string  `json:"manufacturer"`
	Technology        *string  `json:"technology"`
	CycleCount        *int     `json:"cycle_count"`
	Health            *float64 `json:"battery_health"`
	Voltage           *float64 `json:"battery_voltage"`
	Temperature       *float64 `json:"battery_temperature"`
}

func getRaw(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := rawInfo{
			Percent:           intValue(src.Percent()),
			Plugged:           boolValue(src.IsPlugged()),
			DesignCapacity:    intValue(src.DesignCapacity()),
			RemainingCapacity: intValue(src.RemainingCapacity()),
			ChargeRate:        intValue(src.ChargeRate()),
			FastCharge:        boolValue(src.IsFastCharge()),
			Manufacturer:      stringValue(src.Manufacturer()),
			Technology:        stringValue(src.Technology()),
			CycleCount:        intValue(src.CycleCount()),
			Health:            floatValue(src.Health()),
			Voltage:           floatValue(src.Voltage()),
			Temperature:       floatValue(src.Temperature()),
		}
		c.IndentedJSON(http.StatusOK, info)
	}
}

func intValue(v int, err error) *int {
	if err != nil {
		return nil
	}
	return &v
}

func boolValue(v bool, err error) *bool {
	if err != nil {
		return nil
	}
	return &v
}

func stringValue(v string, err error) *string {
	if err != nil {
		return nil
	}
	return &v
}

func floatValue(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
