package server

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/andrejsstepanovs/projtrack/sync"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ProjectStore is the store surface the API exposes.
type ProjectStore interface {
	All() []models.Project
	Get(id int64) (models.Project, bool)
	Add(p models.Project) (models.Project, error)
	Update(id int64, p models.Project) (models.Project, bool, error)
	Delete(id int64) (bool, error)
	ChangeStatus(id int64, status models.Status) (models.Project, bool, error)
	Categories() []string
	Stats() models.Stats
	Export() ([]byte, error)
	Import(raw []byte) error
	Reset() error
}

type Pusher interface {
	HasCredential() bool
	SaveCredential(token string) error
	PushSnapshot(ctx context.Context) sync.Result
}

type Handler struct {
	store   ProjectStore
	pusher  Pusher
	pushing atomic.Bool
}

func NewHandler(store ProjectStore, pusher Pusher) *Handler {
	return &Handler{store: store, pusher: pusher}
}

// Register attaches all routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.GET("", h.list)
	projects.GET("/groups", h.groups)
	projects.POST("", h.create)
	projects.GET("/:id", h.get)
	projects.PUT("/:id", h.update)
	projects.PATCH("/:id/status", h.changeStatus)
	projects.DELETE("/:id", h.delete)

	rg.GET("/categories", h.categories)
	rg.GET("/stats", h.stats)
	rg.GET("/export", h.export)
	rg.POST("/import", h.importProjects)
	rg.POST("/reset", h.reset)

	rg.GET("/credential", h.hasCredential)
	rg.PUT("/credential", h.saveCredential)
	rg.POST("/push", h.push)
}

// NewRouter builds the engine with CORS enabled for a browser front end.
// Request logs go wherever the standard logger writes, including a rotating log file.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery(), cors.Default())
	h.Register(r.Group("/api"))
	return r
}
