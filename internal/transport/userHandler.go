package transport

import (
	"net/http"

	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser регистрирует пользователя
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers возвращает пользователей по списку идентификаторов
// или постранично.
func (h *UserHandler) GetUsers(c *gin.Context) {
	ids, err := parseInt64List(c, "ids")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	users, err := h.userService.GetUsers(c.Request.Context(), ids, from, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser удаляет пользователя
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c, "userId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
