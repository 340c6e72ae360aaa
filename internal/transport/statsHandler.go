package transport

import (
	"net/http"
	"strconv"

	"github.com/afisha-dev/afisha/internal/entity"
	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	hitService service.HitService
}

func NewStatsHandler(hitService service.HitService) *StatsHandler {
	return &StatsHandler{hitService: hitService}
}

// SaveHit сохраняет запись о просмотре
func (h *StatsHandler) SaveHit(c *gin.Context) {
	var hit entity.EndpointHit
	if err := c.ShouldBindJSON(&hit); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if hit.App == "" || hit.URI == "" || hit.IP == "" {
		respondBadRequest(c, "app, uri and ip are required")
		return
	}
	if hit.Timestamp.IsZero() {
		respondBadRequest(c, "timestamp is required")
		return
	}

	if err := h.hitService.SaveHit(c.Request.Context(), &hit); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hit)
}

// GetStats возвращает агрегированные просмотры за окно времени
func (h *StatsHandler) GetStats(c *gin.Context) {
	start, err := entity.ParseEventTime(c.Query("start"))
	if err != nil {
		respondBadRequest(c, "invalid start parameter")
		return
	}
	end, err := entity.ParseEventTime(c.Query("end"))
	if err != nil {
		respondBadRequest(c, "invalid end parameter")
		return
	}

	unique := false
	if raw := c.Query("unique"); raw != "" {
		unique, err = strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid unique parameter")
			return
		}
	}

	stats, err := h.hitService.GetStats(c.Request.Context(), start.Time, end.Time, parseStringList(c, "uris"), unique)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
