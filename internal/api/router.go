package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

// SetupRouter wires the JSON API, the server-rendered pages and the
// operational endpoints. Handlers are methods on Handler so each one
// reaches the lifecycle service through the same injected instance.
func SetupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())
	r.Use(CORS())

	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	/* ---------- JSON API ---------- */
	api := r.Group("/api")
	{
		api.GET("/permission-requests/:requestId", h.handleGetRequest)
		api.POST("/permission-requests/:requestId", h.handleRespond)
		api.OPTIONS("/permission-requests/:requestId", func(c *gin.Context) {})
	}

	/* ---------- pages ---------- */
	r.GET("/", h.handleLanding)
	r.GET("/permission-request", h.handleReviewPage)

	/* ---------- operational ---------- */
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
