package transport

import (
	"net/http"
	"strconv"

	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// AddRequest создает заявку на участие в событии
func (h *RequestHandler) AddRequest(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	eventID, err := strconv.ParseInt(c.Query("eventId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid eventId parameter")
		return
	}

	request, err := h.requestService.AddRequest(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetUserRequests возвращает заявки пользователя
func (h *RequestHandler) GetUserRequests(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	requests, err := h.requestService.GetUserRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// CancelRequest отменяет собственную заявку
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	requestID, err := parseIDParam(c, "requestId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.CancelRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetEventRequests возвращает заявки на событие его владельцу
func (h *RequestHandler) GetEventRequests(c *gin.Context) {
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

	requests, err := h.requestService.GetEventRequests(c.Request.Context(), userID, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// UpdateRequestsStatus обрабатывает пакет заявок владельцем события
func (h *RequestHandler) UpdateRequestsStatus(c *gin.Context) {
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

	var req service.RequestStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.requestService.UpdateRequestsStatus(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
