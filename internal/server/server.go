package server

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ricardonunez-io/clausecat/internal/analyzer"
	"github.com/ricardonunez-io/clausecat/internal/notify"
)

//go:embed index.html
var indexHTML []byte

type Analyzer interface {
	Analyze(ctx context.Context, text string) (analyzer.Result, error)
}

type Handler struct {
	analyzer Analyzer
	notifier notify.Notifier
}

func NewHandler(a Analyzer, n notify.Notifier) *Handler {
	if n == nil {
		n = notify.Nop{}
	}
	return &Handler{analyzer: a, notifier: n}
}

// NewRouter builds the engine. The gin mode is set by the caller.
func NewRouter(a Analyzer, n notify.Notifier) *gin.Engine {
	h := NewHandler(a, n)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", h.Index)
	r.POST("/", h.Analyze)
	r.GET("/health", h.Health)
	r.GET("/schema", h.Schema)

	return r
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, analyzer.RequestSchema())
}
