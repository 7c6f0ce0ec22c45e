package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"libraryconsole/internal/console/panel"
	"libraryconsole/internal/console/session"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// panels served by the console, in display order
var panelNames = []string{"users", "books", "loans"}

// editable panels also get edit and delete routes
var editablePanels = map[string]bool{"users": true, "books": true}

type Handler struct {
	store  *session.Store
	logger *slog.Logger
}

func NewHandler(store *session.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, logger: logger}
}

// NewRouter wires the middleware stack, templates and routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(h.logger))
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/healthz", h.Health)

	console := r.Group("/", Session(h.store))
	h.RegisterRoutes(console)
	return r
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Index)

	for _, name := range panelNames {
		g := rg.Group("/" + name)
		g.POST("/load", h.Load(name))
		g.POST("/submit", h.Submit(name))
		g.POST("/reset", h.Reset(name))

		if editablePanels[name] {
			g.POST("/:id/edit", h.Edit(name))
			g.GET("/:id/delete", h.ConfirmDelete(name))
			g.POST("/:id/delete", h.Delete(name))
		}
	}
}

// Health reports console liveness. Backends are not contacted.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": h.store.Len(),
	})
}

// Index renders every panel of the session. Pending alerts are shown once.
func (h *Handler) Index(c *gin.Context) {
	console := consoleFrom(c)

	views := make([]panel.View, 0, len(panelNames))
	for _, p := range console.Panels() {
		v := p.View()
		v.Alert = p.TakeAlert()
		views = append(views, v)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{"Panels": views})
}

func (h *Handler) Load(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}
		if err := p.Load(detached(c)); err != nil {
			h.logger.Debug("load failed", "panel", name, "error", err)
		}
		redirectHome(c, name)
	}
}

func (h *Handler) Submit(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}

		mode, ok := formMode(c)
		if !ok {
			return
		}
		values := make(map[string]string)
		for _, f := range p.View().Fields {
			values[f.Name] = c.PostForm(f.Name)
		}

		if err := p.Submit(detached(c), mode, values); err != nil {
			h.logger.Debug("submit failed", "panel", name, "error", err)
		}
		redirectHome(c, name)
	}
}

func (h *Handler) Reset(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}
		p.Reset()
		redirectHome(c, name)
	}
}

func (h *Handler) Edit(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}
		id, ok := entityID(c)
		if !ok {
			return
		}

		if err := p.Edit(id); err != nil {
			renderPanelError(c, err)
			return
		}
		redirectHome(c, name)
	}
}

// ConfirmDelete asks before anything is sent to the backend.
func (h *Handler) ConfirmDelete(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}
		id, ok := entityID(c)
		if !ok {
			return
		}

		prompt, err := p.DeletePrompt(id)
		if err != nil {
			renderPanelError(c, err)
			return
		}
		c.HTML(http.StatusOK, "confirm.html", gin.H{
			"Prompt": prompt,
			"Action": c.Request.URL.Path,
		})
	}
}

// Delete runs only when the confirmation form answered yes.
func (h *Handler) Delete(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.panel(c, name)
		if !ok {
			return
		}
		id, ok := entityID(c)
		if !ok {
			return
		}

		answer := c.PostForm("confirm") == "yes"
		_, err := p.Delete(detached(c), id, panel.ConfirmFunc(func(string) bool { return answer }))
		if errors.Is(err, panel.ErrUnknownEntity) || errors.Is(err, panel.ErrNotEditable) {
			renderPanelError(c, err)
			return
		}
		if err != nil {
			h.logger.Debug("delete failed", "panel", name, "id", id, "error", err)
		}
		redirectHome(c, name)
	}
}

func (h *Handler) panel(c *gin.Context, name string) (panel.Controller, bool) {
	p, ok := consoleFrom(c).Panel(name)
	if !ok {
		renderError(c, http.StatusNotFound, "unknown panel")
		return nil, false
	}
	return p, true
}

func entityID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		renderError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// formMode reads the mode from the posted form: no id creates, an id updates.
func formMode(c *gin.Context) (panel.Mode, bool) {
	raw := strings.TrimSpace(c.PostForm("id"))
	if raw == "" {
		return panel.CreateMode(), true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		renderError(c, http.StatusBadRequest, "invalid id")
		return panel.Mode{}, false
	}
	return panel.UpdateMode(id), true
}

// detached keeps backend calls running even if the browser goes away: once
// issued, a request always runs to completion or failure.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func redirectHome(c *gin.Context, name string) {
	c.Redirect(http.StatusSeeOther, "/#"+name)
}

func renderPanelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, panel.ErrUnknownEntity), errors.Is(err, panel.ErrNotEditable):
		renderError(c, http.StatusNotFound, err.Error())
	default:
		renderError(c, http.StatusInternalServerError, err.Error())
	}
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  http.StatusText(status),
		"Message": message,
	})
	c.Abort()
}
