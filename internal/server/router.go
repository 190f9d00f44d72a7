package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/logger"
)

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(cfg Config, h *Handler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))
	r.Use(CORS(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, CodeNotFound, errors.New("route not found"))
	})

	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	{
		// Sessions
		api.POST("/session/start", h.StartSession)
		api.GET("/session/:id", h.GetSession)
		api.DELETE("/session/:id", h.ResetSession)
		api.GET("/session/:id/profile", h.GetProfile)
		api.POST("/profile/update", h.UpdateProfile)

		// Diagnostic
		api.POST("/diagnostic/start", h.StartDiagnostic)
		api.POST("/diagnostic/answer", h.SubmitAnswer)
		api.POST("/diagnostic/complete", h.CompleteDiagnostic)

		// Learning
		api.POST("/adaptation/event", h.RecordAdaptation)
		api.POST("/misconception/check", h.CheckMisconception)
		api.POST("/explain", h.Explain)
		api.POST("/practice", h.Practice)
		api.POST("/re-explain", h.Reexplain)

		// Study material
		api.POST("/compare-explanations", h.CompareExplanations)
		api.POST("/generate-content", h.GenerateContent)
		api.GET("/demo/topics", h.DemoTopics)
	}

	return r
}
