package handlers

import (
	"errors"
	"net/http"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/models"
	"smart_breeder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInternal        = "internal error"
	errInvalidBodyPref = "invalid body: "
	errMissingID       = "invalid body: id is required (null clears the selection)"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// serviceError maps service and device sentinels onto HTTP statuses.
func (h *Handler) serviceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, service.ErrInvalidControl),
		errors.Is(err, service.ErrInvalidCalibration),
		errors.Is(err, device.ErrInvalidAddress):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err, kv...)
	case errors.Is(err, service.ErrUnknownSpecies):
		h.logAndJSONError(c, http.StatusNotFound, err.Error(), logKey, err, kv...)
	case errors.Is(err, device.ErrRelayMode):
		h.logAndJSONError(c, http.StatusConflict, err.Error(), logKey, err, kv...)
	case errors.Is(err, service.ErrDeviceRejected):
		h.logAndJSONError(c, http.StatusBadGateway, err.Error(), logKey, err, kv...)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// respondResult sends a device Result: 200 when the device accepted the
// call, 502 otherwise.
func respondResult(c *gin.Context, res sb.Result) {
	code := http.StatusOK
	if !res.Success {
		code = http.StatusBadGateway
	}
	c.JSON(code, res)
}

// SelectSpeciesRequest is an exported model for Swagger docs of the species selection payload.
type SelectSpeciesRequest struct {
	// Species id from the catalog, or null to switch automation off
	ID *string `json:"id" example:"2"`
}

// SetAddressRequest is an exported model for Swagger docs of the device address payload.
type SetAddressRequest struct {
	Address string `json:"address" binding:"required" example:"192.168.4.1"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Current dashboard state
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Snapshot())
}

// @Summary      Read the device status once
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  smart_breeder.Result
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	respondResult(c, h.services.Monitoring.Refresh(c.Request.Context()))
}

// @Summary      Clear notifications
// @Tags         monitoring
// @Success      204
// @Router       /api/v1/notifications [delete]
func (h *Handler) clearNotifications(c *gin.Context) {
	h.services.Monitoring.ClearNotifications()
	c.Status(http.StatusNoContent)
}

// @Summary      Switch relays
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        payload  body  map[string]bool  true  "partial relay map"
// @Success      200  {object}  smart_breeder.Result
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/control [post]
func (h *Handler) sendControl(c *gin.Context) {
	var relays map[string]bool
	if err := c.ShouldBindJSON(&relays); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error(), "control_bind_failed", err)
		return
	}
	res, err := h.services.Control.SendControl(c.Request.Context(), relays)
	if err != nil {
		h.serviceError(c, "control_failed", err)
		return
	}
	respondResult(c, res)
}

// @Summary      Emergency stop
// @Description  Switches every relay off.
// @Tags         control
// @Produce      json
// @Success      200  {object}  smart_breeder.Result
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/control/emergency-stop [post]
func (h *Handler) emergencyStop(c *gin.Context) {
	respondResult(c, h.services.Control.EmergencyStop(c.Request.Context()))
}

// @Summary      Species catalog
// @Tags         species
// @Produce      json
// @Success      200  {array}  models.SpeciesProfile
// @Router       /api/v1/species [get]
func (h *Handler) listSpecies(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Species.List())
}

// @Summary      Merge the device catalog into the local one
// @Tags         species
// @Produce      json
// @Success      200  {object}  smart_breeder.Result
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/species/sync [post]
func (h *Handler) syncSpecies(c *gin.Context) {
	respondResult(c, h.services.Species.Sync(c.Request.Context()))
}

// @Summary      Select species
// @Description  Selects a species and pushes it to the device. A null id sends {"type":0}.
// @Tags         species
// @Accept       json
// @Produce      json
// @Param        payload  body  SelectSpeciesRequest  true  "species id"
// @Success      200  {object}  smart_breeder.Result
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/species/selected [put]
func (h *Handler) selectSpecies(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error(), "species_bind_failed", err)
		return
	}
	raw, ok := body["id"]
	if !ok {
		h.logAndJSONError(c, http.StatusBadRequest, errMissingID, "species_bind_failed", nil)
		return
	}

	var id *string
	if raw != nil {
		s, err := cast.ToStringE(raw)
		if err != nil || s == "" {
			h.logAndJSONError(c, http.StatusBadRequest, errMissingID, "species_bind_failed", err)
			return
		}
		id = &s
	}

	res, err := h.services.Species.Select(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, "species_select_failed", err)
		return
	}
	respondResult(c, res)
}

// @Summary      Settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Router       /api/v1/settings [get]
func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Preferences.Settings())
}

// @Summary      Update settings
// @Description  Partial update. A changed wifi block is pushed to the device first and stored only when accepted.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        payload  body  models.SettingsPatch  true  "settings patch"
// @Success      200  {object}  models.Settings
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/settings [patch]
func (h *Handler) updateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error(), "settings_bind_failed", err)
		return
	}
	updated, err := h.services.Preferences.UpdateSettings(c.Request.Context(), patch)
	if err != nil {
		h.serviceError(c, "settings_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary      Change the device address
// @Description  Direct mode only; the address is persisted.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        payload  body  SetAddressRequest  true  "IPv4 address"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/device/address [put]
func (h *Handler) setDeviceAddress(c *gin.Context) {
	var req SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error(), "address_bind_failed", err)
		return
	}
	if err := h.services.Preferences.SetDeviceAddress(c.Request.Context(), req.Address); err != nil {
		h.serviceError(c, "address_update_failed", err, "address", req.Address)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "address": req.Address})
}

// @Summary      Test the device connection
// @Tags         device
// @Produce      json
// @Success      200  {object}  smart_breeder.Result
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/device/ping [post]
func (h *Handler) ping(c *gin.Context) {
	respondResult(c, h.services.Monitoring.TestConnection(c.Request.Context()))
}

// @Summary      Calibrate sensors
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        payload  body  device.CalibrationRequest  true  "ph7, ph4 or temp with offset"
// @Success      200  {object}  smart_breeder.Result
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  smart_breeder.Result
// @Router       /api/v1/device/calibrate [post]
func (h *Handler) calibrate(c *gin.Context) {
	var req device.CalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error(), "calibrate_bind_failed", err)
		return
	}
	res, err := h.services.Control.Calibrate(c.Request.Context(), req)
	if err != nil {
		h.serviceError(c, "calibrate_failed", err)
		return
	}
	respondResult(c, res)
}
