package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andrejsstepanovs/projtrack/file"
	"github.com/andrejsstepanovs/projtrack/models"
	"github.com/andrejsstepanovs/projtrack/search"
	"github.com/andrejsstepanovs/projtrack/store"
	"github.com/andrejsstepanovs/projtrack/sync"
	"github.com/gin-gonic/gin"
)

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNameRequired), errors.Is(err, store.ErrInvalidStatus), errors.Is(err, store.ErrParseFailure):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func filterFromQuery(c *gin.Context) search.Filter {
	return search.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
}

func (h *Handler) list(c *gin.Context) {
	items := search.Apply(h.store.All(), filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) groups(c *gin.Context) {
	items := search.Apply(h.store.All(), filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"ok": true, "groups": search.Group(items), "stats": h.store.Stats()})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	p, found := h.store.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p, "pages_url": models.PagesURL(p.Repo)})
}

func (h *Handler) create(c *gin.Context) {
	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.store.Add(req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req models.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, found, err := h.store.Update(id, req)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type statusReq struct {
	Status models.Status `json:"status"`
}

func (h *Handler) changeStatus(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, found, err := h.store.ChangeStatus(id, req.Status)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	removed, err := h.store.Delete(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": h.store.Categories()})
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.store.Stats()})
}

func (h *Handler) export(c *gin.Context) {
	data, err := h.store.Export()
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.DefaultExportName+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *Handler) importProjects(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.store.Import(raw); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.store.Stats()})
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.store.Reset(); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.store.Stats()})
}

func (h *Handler) hasCredential(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "configured": h.pusher.HasCredential()})
}

type credentialReq struct {
	Token string `json:"token"`
}

func (h *Handler) saveCredential(c *gin.Context) {
	var req credentialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.pusher.SaveCredential(req.Token); err != nil {
		if errors.Is(err, sync.ErrCredentialMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var pushStatusCodes = map[sync.Status]int{
	sync.StatusOK:                http.StatusOK,
	sync.StatusCredentialMissing: http.StatusUnauthorized,
	sync.StatusFetchFailed:       http.StatusBadGateway,
	sync.StatusConflict:          http.StatusConflict,
	sync.StatusNetworkError:      http.StatusBadGateway,
}

func (h *Handler) push(c *gin.Context) {
	if !h.pushing.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "status": "in_progress", "error": "push already in progress"})
		return
	}
	defer h.pushing.Store(false)

	res := h.pusher.PushSnapshot(c.Request.Context())
	code, ok := pushStatusCodes[res.Status]
	if !ok {
		code = http.StatusInternalServerError
	}

	if !res.OK() {
		c.JSON(code, gin.H{"ok": false, "status": res.Status, "error": res.Message})
		return
	}
	c.JSON(code, gin.H{"ok": true, "status": res.Status, "lastUpdated": res.LastUpdated, "sha": res.SHA})
}
