package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"finledger/internal/logger"
	"finledger/internal/service"
	"finledger/web"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(template.Must(template.ParseFS(web.TemplatesFS, "templates/*.html")))

	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err) // embed layout is fixed at build time
	}
	router.StaticFS("/static", http.FS(staticFS))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerLedgerRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
}

func (h *Handler) registerLedgerRoutes(r *gin.Engine) {
	protected := r.Group("/", h.sessionMiddleware)
	{
		protected.GET("/", h.index)
		protected.GET("/logout", h.logout)
		protected.POST("/add", h.addEntry)
		protected.GET("/edit/:id", h.editForm)
		protected.POST("/edit/:id", h.editEntry)
		protected.POST("/delete/:id", h.deleteEntry)
		protected.POST("/toggle-paid/:id", h.togglePaid)

		// Live dashboard feed (WebSocket upgrade) on the same port.
		protected.GET("/live", h.liveFeed)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderFailure shows the generic failure page. Raw error detail stays in the
// logs, never in the response.
func (h *Handler) renderFailure(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Message": "The ledger is temporarily unavailable. Please try again.",
	})
}
