package transport

import (
	"net/http"

	"github.com/afisha-dev/afisha/internal/service"
	"github.com/gin-gonic/gin"
)

type CompilationHandler struct {
	compilationService service.CompilationService
}

func NewCompilationHandler(compilationService service.CompilationService) *CompilationHandler {
	return &CompilationHandler{compilationService: compilationService}
}

// CreateCompilation создает подборку
func (h *CompilationHandler) CreateCompilation(c *gin.Context) {
	var req service.NewCompilationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	compilation, err := h.compilationService.CreateCompilation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, compilation)
}

// UpdateCompilation правит подборку
func (h *CompilationHandler) UpdateCompilation(c *gin.Context) {
	id, err := parseIDParam(c, "compId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req service.UpdateCompilationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	compilation, err := h.compilationService.UpdateCompilation(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilation)
}

// DeleteCompilation удаляет подборку
func (h *CompilationHandler) DeleteCompilation(c *gin.Context) {
	id, err := parseIDParam(c, "compId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.compilationService.DeleteCompilation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCompilation возвращает подборку
func (h *CompilationHandler) GetCompilation(c *gin.Context) {
	id, err := parseIDParam(c, "compId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	compilation, err := h.compilationService.GetCompilation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilation)
}

// GetCompilations возвращает страницу подборок
func (h *CompilationHandler) GetCompilations(c *gin.Context) {
	pinned, err := parseBoolQuery(c, "pinned")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	from, size, err := parsePaging(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	compilations, err := h.compilationService.GetCompilations(c.Request.Context(), pinned, from, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilations)
}
