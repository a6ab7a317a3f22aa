package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shareview/shareview/internal/model"
	"github.com/shareview/shareview/internal/pkg/errcode"
	"github.com/shareview/shareview/internal/pkg/response"
	"github.com/shareview/shareview/internal/service"
)

// ShareHandler serves the owner-scoped link management routes.
type ShareHandler struct {
	links *service.LinkService
}

func NewShareHandler(links *service.LinkService) *ShareHandler {
	return &ShareHandler{links: links}
}

type shareLinkRequest struct {
	Name           string           `json:"name"`
	Filter         model.FilterSpec `json:"filter"`
	VisibleColumns []string         `json:"visible_columns"`
	AllowedEmails  []string         `json:"allowed_emails"`
	DurationHours  int              `json:"duration_hours"`
}

func (r *shareLinkRequest) toInput() service.LinkInput {
	return service.LinkInput{
		Name:           r.Name,
		Filter:         r.Filter,
		VisibleColumns: r.VisibleColumns,
		AllowedEmails:  r.AllowedEmails,
		DurationHours:  r.DurationHours,
	}
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req shareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	link, err := h.links.Create(c.Request.Context(), getUserID(c), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, link)
}

func (h *ShareHandler) Update(c *gin.Context) {
	var req shareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	link, err := h.links.Update(c.Request.Context(), getUserID(c), c.Param("token"), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, link)
}

func (h *ShareHandler) Revoke(c *gin.Context) {
	if err := h.links.Revoke(c.Request.Context(), getUserID(c), c.Param("token")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *ShareHandler) List(c *gin.Context) {
	items, err := h.links.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *ShareHandler) GetConfig(c *gin.Context) {
	link, err := h.links.GetConfig(c.Request.Context(), getUserID(c), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"link": link})
}
