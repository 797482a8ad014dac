package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"studkits-backend/internal/middleware"
	"studkits-backend/internal/models"
	"studkits-backend/internal/supabase"
)

type ProfileHandler struct {
	dbClient       *supabase.DatabaseClient
	supabaseClient *supabase.Client
}

func NewProfileHandler(dbClient *supabase.DatabaseClient, supabaseClient *supabase.Client) *ProfileHandler {
	return &ProfileHandler{
		dbClient:       dbClient,
		supabaseClient: supabaseClient,
	}
}

// GetProfile returns the caller's profile, creating the row on first sight
// from whatever the auth provider knows about them.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.callerUUID(c)
	if !ok {
		return
	}

	user, err := h.dbClient.GetUser(userID)
	if errors.Is(err, supabase.ErrNotFound) {
		user, err = h.bootstrapProfile(c, userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(user))
}

// UpdateProfile overwrites the caller's editable profile fields.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.callerUUID(c)
	if !ok {
		return
	}

	var in models.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	email, _ := c.Get(middleware.EmailKey)
	emailStr, _ := email.(string)

	user, err := h.dbClient.UpsertProfile(userID, emailStr, in.DisplayName, in.PhotoURL, in.College)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewProfileResponse(user))
}

// bootstrapProfile hydrates a first-time profile from the auth provider's
// record behind the caller's token.
func (h *ProfileHandler) bootstrapProfile(c *gin.Context, userID uuid.UUID) (*models.User, error) {
	email := ""
	if emailVal, exists := c.Get(middleware.EmailKey); exists {
		email, _ = emailVal.(string)
	}

	displayName, photoURL := "", ""
	if tokenVal, exists := c.Get(middleware.TokenKey); exists && h.supabaseClient != nil {
		if authUser, err := h.supabaseClient.AuthUser(tokenVal.(string)); err == nil {
			if email == "" {
				email = authUser.Email
			}
			if name, ok := authUser.UserMetadata["full_name"].(string); ok {
				displayName = name
			} else if name, ok := authUser.UserMetadata["name"].(string); ok {
				displayName = name
			}
			if avatar, ok := authUser.UserMetadata["avatar_url"].(string); ok {
				photoURL = avatar
			}
		}
	}

	return h.dbClient.UpsertProfile(userID, email, displayName, photoURL, "")
}

func (h *ProfileHandler) callerUUID(c *gin.Context) (uuid.UUID, bool) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return uuid.Nil, false
	}

	userIDVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}
