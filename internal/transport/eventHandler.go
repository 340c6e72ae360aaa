package transport

import (
	"net/http"

	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
	statService  service.StatService
}

func NewEventHandler(eventService service.EventService, statService service.StatService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		statService:  statService,
	}
}

// CreateEvent создает событие владельца
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.NewEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetUserEvents возвращает события владельца
func (h *EventHandler) GetUserEvents(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	events, err := h.eventService.GetUserEvents(c.Request.Context(), userID, from, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetUserEvent возвращает одно событие владельца
func (h *EventHandler) GetUserEvent(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	eventID, err := parseIDParam(c, "eventId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.GetUserEvent(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateUserEvent правит событие владельца
func (h *EventHandler) UpdateUserEvent(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	eventID, err := parseIDParam(c, "eventId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.UpdateEventUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.UpdateUserEvent(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SearchEventsAdmin возвращает события по административному фильтру
func (h *EventHandler) SearchEventsAdmin(c *gin.Context) {
	users, err := parseInt64List(c, "users")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	categories, err := parseInt64List(c, "categories")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	rangeStart, err := parseTimeQuery(c, "rangeStart")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	rangeEnd, err := parseTimeQuery(c, "rangeEnd")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	query := &service.AdminEventsQuery{
		Users:      users,
		States:     parseStringList(c, "states"),
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		From:       from,
		Size:       size,
	}

	events, err := h.eventService.SearchEventsAdmin(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// UpdateEventAdmin правит событие администратором
func (h *EventHandler) UpdateEventAdmin(c *gin.Context) {
	eventID, err := parseIDParam(c, "eventId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.UpdateEventAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.UpdateEventAdmin(c.Request.Context(), eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SearchEventsPublic ищет опубликованные события. Каждый запрос
// фиксируется в сервисе статистики.
func (h *EventHandler) SearchEventsPublic(c *gin.Context) {
	categories, err := parseInt64List(c, "categories")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	paid, err := parseBoolQuery(c, "paid")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	rangeStart, err := parseTimeQuery(c, "rangeStart")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	rangeEnd, err := parseTimeQuery(c, "rangeEnd")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	onlyAvailable, err := parseBoolQuery(c, "onlyAvailable")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	query := &service.PublicEventsQuery{
		Text:       c.Query("text"),
		Categories: categories,
		Paid:       paid,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		Sort:       c.Query("sort"),
		From:       from,
		Size:       size,
	}
	if onlyAvailable != nil {
		query.OnlyAvailable = *onlyAvailable
	}

	events, err := h.eventService.SearchEventsPublic(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.statService.RecordHit(c.Request.Context(), c.Request.RequestURI, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventPublic возвращает опубликованное событие и фиксирует просмотр
func (h *EventHandler) GetEventPublic(c *gin.Context) {
	eventID, err := parseIDParam(c, "eventId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.GetEventPublic(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.statService.RecordHit(c.Request.Context(), c.Request.RequestURI, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}
