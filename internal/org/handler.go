package org

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func orgIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apiError.BadRequest("invalid organization id", nil)
	}
	return id, nil
}

func (h *Handler) Show(c *gin.Context) {
	id, err := orgIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	found, err := h.service.GetOrg(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) List(c *gin.Context) {
	organizations, err := h.service.ListOrgs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": organizations})
}

type FormOrg struct {
	Title            string `json:"title" binding:"required,min=1,max=255"`
	ContactFirstName string `json:"contact_first_name" binding:"max=255"`
	DefaultQty       int    `json:"default_qty"`
}

func (h *Handler) Create(c *gin.Context) {
	var form FormOrg
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	organization := &Organization{
		Title:            form.Title,
		ContactFirstName: form.ContactFirstName,
		DefaultQty:       form.DefaultQty,
	}
	if err := h.service.CreateOrg(c.Request.Context(), organization); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, organization)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := orgIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	var form FormOrg
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	organization, err := h.service.GetOrg(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	organization.Title = form.Title
	organization.ContactFirstName = form.ContactFirstName
	organization.DefaultQty = form.DefaultQty
	if err := h.service.UpdateOrg(c.Request.Context(), organization); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, organization)
}

// Members lists the calling org admin's own organization.
func (h *Handler) Members(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	members, err := h.service.Members(c.Request.Context(), actor.OrgID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *Handler) setApproval(c *gin.Context, approved bool) {
	actor := middleware.CurrentActor(c)
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apiError.BadRequest("invalid user id", nil))
		return
	}
	if err := h.service.SetMemberApproval(c.Request.Context(), actor, userID, approved); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

func (h *Handler) ApproveMember(c *gin.Context)   { h.setApproval(c, true) }
func (h *Handler) UnapproveMember(c *gin.Context) { h.setApproval(c, false) }

type FormRole struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) SetMemberRole(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apiError.BadRequest("invalid user id", nil))
		return
	}
	var form FormRole
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	if err := h.service.SetMemberRole(c.Request.Context(), actor, userID, form.Role); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": form.Role})
}
