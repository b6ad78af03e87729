package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/service"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/response"
)

type accountService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*models.UserProfile, error)
	Authenticate(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error)
	Update(ctx context.Context, volunteerID string, req service.UpdateUserRequest) (*models.UserProfile, error)
}

// AuthHandler exposes volunteer account endpoints.
type AuthHandler struct {
	accounts accountService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(accounts accountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register godoc
// @Summary Register a volunteer
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	profile, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, profile)
}

// Login godoc
// @Summary Authenticate a volunteer
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.accounts.Authenticate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateUser godoc
// @Summary Update a volunteer's name or password
// @Tags Auth
// @Accept json
// @Produce json
// @Param volunteerId path string true "Volunteer ID"
// @Param payload body service.UpdateUserRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{volunteerId} [put]
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.accounts.Update(c.Request.Context(), c.Param("volunteerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}
