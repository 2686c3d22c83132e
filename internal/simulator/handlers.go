package simulator

import (
	"net/http"
	"strconv"
	"time"

	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
	"smart_breeder/internal/species"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// Router serves the device REST API under /api.
func (d *Device) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), d.delay)

	api := router.Group("/api")
	{
		api.GET("/status", d.status)
		api.GET("/ping", d.ping)
		api.POST("/control", d.control)
		api.POST("/species", d.setSpecies)
		api.GET("/species/list", d.listSpecies)
		api.POST("/wifi", d.setWifi)
		api.POST("/calibrate", d.calibrate)
	}
	return router
}

// delay holds the response back by the configured latency, or until the
// caller gives up.
func (d *Device) delay(c *gin.Context) {
	if l := d.Latency(); l > 0 {
		select {
		case <-time.After(l):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	c.Next()
}

func deviceError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "error": msg})
}

func (d *Device) status(c *gin.Context) {
	c.JSON(http.StatusOK, d.Reading())
}

func (d *Device) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "pong"})
}

func (d *Device) control(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		deviceError(c, http.StatusBadRequest, "Invalid control payload")
		return
	}
	for name := range body {
		if !models.IsRelayName(name) {
			deviceError(c, http.StatusBadRequest, "Unknown relay: "+name)
			return
		}
	}

	d.mu.Lock()
	for name, v := range body {
		d.setRelay(name, device.LooseBool(v))
	}
	d.mu.Unlock()

	if d.log != nil {
		d.log.Infow("sim_control", "relays", body)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Control updated"})
}

// setSpecies accepts a full descriptor or {"type":0} to switch automation off.
func (d *Device) setSpecies(c *gin.Context) {
	var body struct {
		Type *int `json:"type"`
		species.Descriptor
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		deviceError(c, http.StatusBadRequest, "Invalid species payload")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case body.Type != nil && *body.Type == 0:
		d.species = nil
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Species cleared"})
	case body.Name != "" && body.IdealPh.Min <= body.IdealPh.Max && body.IdealTemp.Min <= body.IdealTemp.Max:
		desc := body.Descriptor
		d.species = &desc
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Species set to " + desc.Name})
	default:
		deviceError(c, http.StatusBadRequest, "Invalid species payload")
	}
}

// listSpecies reports the built-in catalog the way the firmware does: numeric
// ids and nested ranges.
func (d *Device) listSpecies(c *gin.Context) {
	defaults := species.Default()
	out := make([]species.DeviceSpecies, 0, len(defaults))
	for _, p := range defaults {
		var id any = p.ID
		if n, err := strconv.Atoi(p.ID); err == nil {
			id = n
		}
		out = append(out, species.DeviceSpecies{
			ID:          id,
			Name:        p.Name,
			IdealPh:     &species.Range{Min: p.IdealPhMin, Max: p.IdealPhMax},
			IdealTemp:   &species.Range{Min: p.IdealTempMin, Max: p.IdealTempMax},
			Description: p.Description,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (d *Device) setWifi(c *gin.Context) {
	var cfg models.WifiConfig
	if err := c.ShouldBindJSON(&cfg); err != nil || cfg.SSID == "" {
		deviceError(c, http.StatusBadRequest, "SSID is required")
		return
	}
	d.mu.Lock()
	d.wifi = cfg
	d.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Wi-Fi credentials saved"})
}

func (d *Device) calibrate(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
		Offset any    `json:"offset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		deviceError(c, http.StatusBadRequest, "Invalid calibration payload")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	switch req.Action {
	case "ph7":
		d.reading.PH = 7.0
	case "ph4":
		d.reading.PH = 4.0
	case "temp":
		off, err := cast.ToFloat64E(req.Offset)
		if err != nil || req.Offset == nil {
			deviceError(c, http.StatusBadRequest, "Temperature calibration needs an offset")
			return
		}
		d.tempBias = off
	default:
		deviceError(c, http.StatusBadRequest, "Unknown calibration action: "+req.Action)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Calibration applied"})
}
