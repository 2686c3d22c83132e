package handlers

import (
	"io"
	"net/http"
	"strings"

	sb "smart_breeder"
	"smart_breeder/internal/relay"

	"github.com/gin-gonic/gin"
)

const maxRelayBody = 1 << 20 // 1 MB

// @Summary      Forward a request to the device
// @Description  Any method below the relay prefix is forwarded to <device>/api/<path>. The device status and body are mirrored.
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        path  path  string  true  "device API path, e.g. status"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  smart_breeder.ErrorResponse
// @Failure      504  {object}  smart_breeder.ErrorResponse
// @Failure      500  {object}  smart_breeder.ErrorResponse
// @Router       /api/proxy/{path} [get]
func (h *Handler) forward(c *gin.Context) {
	var body any
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead && c.Request.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRelayBody))
		if err != nil {
			if h.log != nil {
				h.log.Errorw("relay_read_body_failed", "err", err)
			}
			c.JSON(http.StatusBadRequest, sb.ErrorResponse{
				Error:   sb.KindValidation,
				Message: "Could not read request body",
			})
			return
		}
		if len(raw) > 0 {
			body = raw
		}
	}

	res := h.relay.Forward(c.Request.Context(), relay.Request{
		Method:   c.Request.Method,
		SubPath:  strings.TrimPrefix(c.Param("path"), "/"),
		RawQuery: c.Request.URL.RawQuery,
		Body:     body,
	})
	c.JSON(res.Status, res.Body)
}
