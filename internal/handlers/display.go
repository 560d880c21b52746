package handlers

import (
	"errors"
	"net/http"

	"display_bridge/internal/assets"
	"display_bridge/internal/display"
	"display_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// Plain-text bodies the browser UI shows verbatim.
const (
	statusOK = "ok"

	msgSetPrefix        = "Set display to: "
	msgMissingParameter = "Missing parameter: ?num=4-digit number"
	msgInvalidNumber    = "Invalid number! Send ?num=4-digit number"
	msgWrongMode        = "Invalid operation in current mode."
	msgUINotFound       = "UI document not found"
	msgUIUnavailable    = "UI document unavailable"

	errGetStatus = "failed to load status"

	contentTypeHTML = "text/html; charset=utf-8"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
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

// @Summary      Browser UI
// @Tags         device
// @Produce      html
// @Success      200  {string}  string
// @Failure      404  {string}  string
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	if h.ui == nil {
		c.String(http.StatusNotFound, msgUINotFound)
		return
	}
	doc, err := h.ui.Read(h.uiIndex)
	switch {
	case errors.Is(err, assets.ErrAssetUnavailable):
		c.String(http.StatusNotFound, msgUINotFound)
	case err != nil:
		if h.log != nil {
			h.log.Errorw("ui_read_failed", "err", err, "name", h.uiIndex)
		}
		c.String(http.StatusInternalServerError, msgUIUnavailable)
	default:
		c.Data(http.StatusOK, contentTypeHTML, doc)
	}
}

// @Summary      Show a 4-digit value
// @Description  Only allowed in Tuning mode. The first two digits go to the left pair, the last two to the right pair.
// @Tags         device
// @Produce      plain
// @Param        num  query  string  true  "Four decimal digits"  example(1234)
// @Success      200  {string}  string  "Set display to: 1234"
// @Failure      400  {string}  string
// @Router       /set [get]
func (h *Handler) setDigits(c *gin.Context) {
	num, present := c.GetQuery("num")
	err := h.services.Display.SetDigits(c.Request.Context(), service.DigitParams{Num: num, Present: present})
	switch {
	case err == nil:
		c.String(http.StatusOK, msgSetPrefix+num)
	case errors.Is(err, service.ErrWrongMode):
		c.String(http.StatusBadRequest, msgWrongMode)
	case errors.Is(err, service.ErrMissingParameter):
		c.String(http.StatusBadRequest, msgMissingParameter)
	case errors.Is(err, display.ErrInvalidFormat):
		c.String(http.StatusBadRequest, msgInvalidNumber)
	default:
		if h.log != nil {
			h.log.Errorw("display_set_failed", "err", err, "num", num)
		}
		c.String(http.StatusInternalServerError, err.Error())
	}
}

// @Summary      Toggle Tuning/Clock mode
// @Tags         device
// @Produce      plain
// @Success      200  {string}  string  "Clock"
// @Router       /switchMode [get]
func (h *Handler) switchMode(c *gin.Context) {
	m := h.services.Display.SwitchMode(c.Request.Context())
	c.String(http.StatusOK, m.String())
}

// @Summary      Current time
// @Tags         device
// @Produce      plain
// @Success      200  {string}  string  "14:03:27"
// @Router       /getTime [get]
func (h *Handler) getTime(c *gin.Context) {
	c.String(http.StatusOK, h.services.Display.GetTime(c.Request.Context()).String())
}

// @Summary      Device status
// @Tags         status
// @Produce      json
// @Success      200  {object}  models.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "status_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
