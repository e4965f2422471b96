package template

import (
	"io"
	"net/http"
	"strconv"

	"b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/geometry"
	"b2b-print-designer/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ArtStore persists uploaded background art and hands back its public URL.
type ArtStore interface {
	SaveArt(name string, data []byte) (string, error)
}

type Handler struct {
	service Service
	art     ArtStore
}

func NewHandler(service Service, art ArtStore) *Handler {
	return &Handler{service: service, art: art}
}

// List returns the catalog for a product, filtered by the actor's
// organization. Unapproved members get an empty list plus the pending notice.
func (h *Handler) List(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64)
	if err != nil || productID == 0 {
		c.Error(errors.BadRequest("Missing product.", err))
		return
	}

	actor := middleware.CurrentActor(c)
	templates, pending, err := h.service.TemplatesFor(c.Request.Context(), actor, productID)
	if err != nil {
		c.Error(err)
		return
	}

	resp := gin.H{"templates": templates}
	if pending != nil {
		resp["pending"] = pending
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Missing template.", err))
		return
	}

	actor := middleware.CurrentActor(c)
	tpl, err := h.service.GetTemplate(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

type SaveTemplateRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=255"`
	OrgID      uint64     `json:"org_id"`
	ProductIDs string     `json:"product_ids"`
	Surfaces   SurfaceMap `json:"surfaces"`
}

func (h *Handler) Create(c *gin.Context) {
	var form SaveTemplateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	tpl := &Template{
		Title:      form.Title,
		OrgID:      form.OrgID,
		ProductIDs: form.ProductIDs,
		Surfaces:   form.Surfaces,
	}
	if err := h.service.CreateTemplate(c.Request.Context(), tpl); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": tpl})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Missing template.", err))
		return
	}

	var form SaveTemplateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	tpl := &Template{
		ID:         id,
		Title:      form.Title,
		OrgID:      form.OrgID,
		ProductIDs: form.ProductIDs,
		Surfaces:   form.Surfaces,
	}
	if err := h.service.UpdateTemplate(c.Request.Context(), tpl); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

// UploadArt receives background art for template surfaces. SVG files go
// through the sanitizer before they are stored.
func (h *Handler) UploadArt(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Missing file.", err))
		return
	}
	src, err := file.Open()
	if err != nil {
		c.Error(errors.BadRequest("Could not read file.", err))
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.Error(errors.BadRequest("Could not read file.", err))
		return
	}

	url, err := h.art.SaveArt(file.Filename, data)
	if err != nil {
		c.Error(errors.BadRequest("Rejected art file: "+err.Error(), err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// Layout returns the pixel layout the box builder renders: guides plus field
// boxes at a scale fitted to the requested display width.
func (h *Handler) Layout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Missing template.", err))
		return
	}

	actor := middleware.CurrentActor(c)
	tpl, err := h.service.GetTemplate(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}

	surfaceKey := SanitizeKey(c.DefaultQuery("surface", "front"))
	surface, ok := tpl.Surfaces[surfaceKey]
	if !ok {
		c.Error(errors.NotFound("Surface not found.", nil))
		return
	}

	width, _ := strconv.ParseFloat(c.DefaultQuery("width", "0"), 64)
	scale := geometry.FitScale(surface.Geometry(), width)
	layout := geometry.Layout(surface.Geometry(), surface.FieldBoxes(), scale)

	c.JSON(http.StatusOK, gin.H{"scale": scale, "layout": layout})
}

type ConvertBoxRequest struct {
	Box   geometry.Rect `json:"box" binding:"required"`
	Scale float64       `json:"scale" binding:"required,gt=0"`
	Bleed float64       `json:"bleed_in" binding:"gte=0"`
}

// ConvertBox reverse-maps a dragged pixel box back to inches for the builder
// to write into the field table.
func (h *Handler) ConvertBox(c *gin.Context) {
	var form ConvertBoxRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"box": geometry.BoxToInches(form.Box, form.Scale, form.Bleed)})
}
