package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService    services.AuthService
	profileService services.ProfileService
	store          sessions.Store
}

func NewAuthHandler(authService services.AuthService, profileService services.ProfileService, store sessions.Store, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		authService:    authService,
		profileService: profileService,
		store:          store,
	}
}

// Login authenticates with email and password
// @Summary Log in
// @Description Verifies the credentials, returns a token and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body validator.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Login attempt", "email", req.Email)

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if h.store != nil {
		session, _ := h.store.Get(c.Request, sessionName)
		session.Values[sessionTokenKey] = result.Token
		if err := session.Save(c.Request, c.Writer); err != nil {
			utils.FromContext(c, h.logger).Error("Failed to save session", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to create session"})
			return
		}
	}

	c.JSON(http.StatusOK, result)
}

// Logout clears the session cookie
// @Summary Log out
// @Tags auth
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.store != nil {
		session, _ := h.store.Get(c.Request, sessionName)
		delete(session.Values, sessionTokenKey)
		session.Options.MaxAge = -1
		if err := session.Save(c.Request, c.Writer); err != nil {
			utils.FromContext(c, h.logger).Error("Failed to clear session", "error", err)
		}
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Profile returns the gamification and study statistics of the caller
// @Summary Profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.ProfileView
// @Failure 401 {object} ErrorResponse
// @Router /me/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
