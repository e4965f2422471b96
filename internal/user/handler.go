package user

import (
	"net/http"

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

type FormRegister struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	OrgID    uint64 `json:"org_id"`
}

type FormLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var form FormRegister
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}

	created, err := h.service.Register(c.Request.Context(), form.Name, form.Email, form.Password, form.OrgID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created.ToSafeUser())
}

func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(apiError.NewValidationError(err))
		return
	}

	token, found, err := h.service.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         found.ToSafeUser(),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	found, err := h.service.GetUserByID(c.Request.Context(), actor.ID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, found.ToSafeUser())
}
