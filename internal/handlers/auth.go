package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/applicant-tracking-api/internal/constants"
	"github.com/yukikurage/applicant-tracking-api/internal/dto"
	apierrors "github.com/yukikurage/applicant-tracking-api/internal/errors"
	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"github.com/yukikurage/applicant-tracking-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	orgService  *services.OrganizationService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, orgService *services.OrganizationService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		orgService:  orgService,
	}
}

// Signup registers a new user with a personal organization and signs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email,max=255"`
		Name     string `json:"name" binding:"required,max=255"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !saveSession(c, result.User.ID, result.Organization.ID) {
		return
	}

	c.JSON(http.StatusCreated, dto.SessionDTO{
		User:                 dto.ToUserDTO(*result.User),
		ActiveOrganizationID: result.Organization.ID,
		Organizations: []dto.OrganizationWithRoleDTO{{
			OrganizationDTO: dto.ToOrganizationDTO(*result.Organization, h.orgService.IsReadOnly(result.Organization)),
			Role:            models.RoleOwner,
		}},
	})
}

// Login authenticates a user and initializes the session with their first organization.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load organizations")
		return
	}

	activeOrgID := ""
	if len(memberships) > 0 {
		activeOrgID = memberships[0].OrganizationID
	}
	if !saveSession(c, user.ID, activeOrgID) {
		return
	}

	c.JSON(http.StatusOK, h.sessionDTO(dto.ToUserDTO(*user), activeOrgID, memberships))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user and their organizations.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := sessionString(c, constants.ContextKeyUserID)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load organizations")
		return
	}

	activeOrgID, _ := sessionString(c, constants.ContextKeyOrganizationID)
	c.JSON(http.StatusOK, h.sessionDTO(dto.ToUserDTO(*user), activeOrgID, memberships))
}

// SetActiveOrganization switches the session to another organization the user belongs to.
func (h *AuthHandler) SetActiveOrganization(c *gin.Context) {
	type ActiveOrganizationRequest struct {
		OrganizationID string `json:"organization_id" binding:"required"`
	}

	userID, exists := sessionString(c, constants.ContextKeyUserID)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req ActiveOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.RequireMembership(c.Request.Context(), req.OrganizationID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotOrganizationMember) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "Failed to switch organization")
		return
	}

	if !saveSession(c, userID, member.OrganizationID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active_organization_id": member.OrganizationID,
	})
}

func (h *AuthHandler) sessionDTO(user dto.UserDTO, activeOrgID string, memberships []models.OrganizationMember) dto.SessionDTO {
	orgs := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		readOnly := m.Organization != nil && h.orgService.IsReadOnly(m.Organization)
		orgs[i] = dto.ToOrganizationWithRoleDTO(m, readOnly)
	}
	return dto.SessionDTO{
		User:                 user,
		ActiveOrganizationID: activeOrgID,
		Organizations:        orgs,
	}
}

func saveSession(c *gin.Context, userID, orgID string) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if orgID != "" {
		session.Set(constants.ContextKeyOrganizationID, orgID)
	} else {
		session.Delete(constants.ContextKeyOrganizationID)
	}
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}

// sessionString reads a session value directly; /me and the organization
// switch must work before an organization is active.
func sessionString(c *gin.Context, key string) (string, bool) {
	value, _ := sessions.Default(c).Get(key).(string)
	return value, value != ""
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToCreateOrg),
		errors.Is(err, services.ErrFailedToAddMember):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
