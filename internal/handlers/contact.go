package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"studkits-backend/internal/config"
	"studkits-backend/internal/mailer"
	"studkits-backend/internal/models"
)

type ContactHandler struct {
	config     *config.Config
	mailClient *mailer.Client
}

func NewContactHandler(cfg *config.Config, mailClient *mailer.Client) *ContactHandler {
	return &ContactHandler{
		config:     cfg,
		mailClient: mailClient,
	}
}

// SubmitContact godoc
// @Summary     Contact form
// @Description Forwards a contact-form message to the site inbox
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       message body models.ContactInput true "Contact message"
// @Success     200 {object} models.ActionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	// Validation happens before any outbound call.
	if missing := in.Validate(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "missing required fields",
			Fields: missing,
		})
		return
	}

	if h.config.AdminNotifyEmail == "" || h.mailClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "contact inbox not configured"})
		return
	}

	subject, body := mailer.ContactNotice(&in)
	h.mailClient.Notify(h.config.AdminNotifyEmail, subject, body)

	c.JSON(http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Message sent successfully.",
	})
}
