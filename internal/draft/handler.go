package draft

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/middleware"
	"b2b-print-designer/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func draftIDParam(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apiError.BadRequest("invalid draft id", nil)
	}
	return id, nil
}

type FormCreateDraft struct {
	ProductID   uint64            `json:"product_id" binding:"required"`
	VariationID uint64            `json:"variation_id"`
	Variation   map[string]string `json:"variation"`
	TemplateID  uint64            `json:"template_id" binding:"required"`
	Qty         int               `json:"qty"`
}

func (h *Handler) Create(c *gin.Context) {
	var form FormCreateDraft
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	created, err := h.service.CreateDraft(c.Request.Context(), middleware.CurrentActor(c), CreateDraftInput{
		ProductID:   form.ProductID,
		VariationID: form.VariationID,
		Variation:   form.Variation,
		TemplateID:  form.TemplateID,
		Qty:         form.Qty,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Show(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	found, previews, err := h.service.GetDraft(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": found, "previews": previews})
}

type FormSaveProof struct {
	Payload Payload `json:"payload" binding:"required"`
}

func (h *Handler) SaveProof(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	var form FormSaveProof
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	result, err := h.service.SaveProof(c.Request.Context(), middleware.CurrentActor(c), id, form.Payload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type FormQty struct {
	Qty int `json:"qty"`
}

func (h *Handler) UpdateQty(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	var form FormQty
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	updated, err := h.service.UpdateQty(c.Request.Context(), middleware.CurrentActor(c), id, form.Qty)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type FormSwitchTemplate struct {
	TemplateID uint64 `json:"template_id" binding:"required"`
}

func (h *Handler) SwitchTemplate(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	var form FormSwitchTemplate
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	updated, err := h.service.SwitchTemplate(c.Request.Context(), middleware.CurrentActor(c), id, form.TemplateID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) MarkEmployeeReady(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.service.MarkEmployeeReady(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employee_ready": true})
}

func (h *Handler) MarkAdminReady(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.service.MarkAdminReady(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin_ready": true})
}

type FormOverride struct {
	Override bool `json:"override"`
}

func (h *Handler) SetOverride(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	var form FormOverride
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}
	if err := h.service.SetOverride(c.Request.Context(), middleware.CurrentActor(c), id, form.Override); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready_override": form.Override})
}

func (h *Handler) AttachToCart(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	result, err := h.service.AttachToCart(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) CartLines(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	lines, err := h.service.CartLines(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, err := draftIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}
	copyOf, err := h.service.DuplicateDraft(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, copyOf)
}

func (h *Handler) ListOrgDrafts(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)
	drafts, err := h.service.ListOrgDrafts(c.Request.Context(), middleware.CurrentActor(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}
