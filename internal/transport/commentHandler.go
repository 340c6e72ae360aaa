package transport

import (
	"net/http"

	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddComment добавляет комментарий к событию. Параметр id в пути —
// идентификатор события.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment правит комментарий автора. Параметр id в пути —
// идентификатор события.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), userID, eventID, commentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment удаляет комментарий автора. Параметр id в пути —
// идентификатор комментария.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserComments возвращает комментарии автора
func (h *CommentHandler) GetUserComments(c *gin.Context) {
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

	comments, err := h.commentService.GetUserComments(c.Request.Context(), userID, from, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// GetComment возвращает комментарий по идентификатору
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// GetEventComments возвращает комментарии к событию
func (h *CommentHandler) GetEventComments(c *gin.Context) {
	eventID, err := parseIDParam(c, "eventId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comments, err := h.commentService.GetEventComments(c.Request.Context(), eventID, from, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// DeleteCommentAdmin удаляет комментарий администратором
func (h *CommentHandler) DeleteCommentAdmin(c *gin.Context) {
	id, err := parseIDParam(c, "commentId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.commentService.DeleteCommentAdmin(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
