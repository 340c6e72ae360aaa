package transport

import (
	"net/http"

	"github.com/afisha-dev/afisha/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(
	eventHandler *EventHandler,
	requestHandler *RequestHandler,
	categoryHandler *CategoryHandler,
	userHandler *UserHandler,
	commentHandler *CommentHandler,
	compilationHandler *CompilationHandler,
) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// Приватный контур: операции от имени пользователя
	users := router.Group("/users/:userId")
	{
		events := users.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetUserEvents)
			events.GET("/:eventId", eventHandler.GetUserEvent)
			events.PATCH("/:eventId", eventHandler.UpdateUserEvent)
			events.GET("/:eventId/requests", requestHandler.GetEventRequests)
			events.PATCH("/:eventId/requests", requestHandler.UpdateRequestsStatus)
		}

		requests := users.Group("/requests")
		{
			requests.POST("", requestHandler.AddRequest)
			requests.GET("", requestHandler.GetUserRequests)
			requests.PATCH("/:requestId/cancel", requestHandler.CancelRequest)
		}

		// Параметр :id — событие при создании и правке,
		// комментарий при удалении.
		comments := users.Group("/comments")
		{
			comments.POST("/:id", commentHandler.AddComment)
			comments.PATCH("/:id/:commentId", commentHandler.UpdateComment)
			comments.GET("", commentHandler.GetUserComments)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Административный контур
	admin := router.Group("/admin")
	{
		admin.GET("/events", eventHandler.SearchEventsAdmin)
		admin.PATCH("/events/:eventId", eventHandler.UpdateEventAdmin)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PATCH("/categories/:catId", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:catId", categoryHandler.DeleteCategory)

		admin.POST("/users", userHandler.CreateUser)
		admin.GET("/users", userHandler.GetUsers)
		admin.DELETE("/users/:userId", userHandler.DeleteUser)

		admin.DELETE("/comments/:commentId", commentHandler.DeleteCommentAdmin)

		admin.POST("/compilations", compilationHandler.CreateCompilation)
		admin.PATCH("/compilations/:compId", compilationHandler.UpdateCompilation)
		admin.DELETE("/compilations/:compId", compilationHandler.DeleteCompilation)
	}

	// Публичный контур
	router.GET("/events", eventHandler.SearchEventsPublic)
	router.GET("/events/:eventId", eventHandler.GetEventPublic)
	router.GET("/events/:eventId/comments", commentHandler.GetEventComments)
	router.GET("/categories", categoryHandler.GetCategories)
	router.GET("/categories/:catId", categoryHandler.GetCategory)
	router.GET("/compilations", compilationHandler.GetCompilations)
	router.GET("/compilations/:compId", compilationHandler.GetCompilation)
	router.GET("/comments/:id", commentHandler.GetComment)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// InitStatsRoutes собирает маршруты сервиса статистики
func InitStatsRoutes(statsHandler *StatsHandler) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	router.POST("/hit", statsHandler.SaveHit)
	router.GET("/stats", statsHandler.GetStats)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
