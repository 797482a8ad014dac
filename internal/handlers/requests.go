package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"studkits-backend/internal/config"
	"studkits-backend/internal/mailer"
	"studkits-backend/internal/models"
	"studkits-backend/internal/supabase"
)

type RequestsHandler struct {
	config     *config.Config
	dbClient   *supabase.DatabaseClient
	mailClient *mailer.Client
}

func NewRequestsHandler(cfg *config.Config, dbClient *supabase.DatabaseClient, mailClient *mailer.Client) *RequestsHandler {
	return &RequestsHandler{
		config:     cfg,
		dbClient:   dbClient,
		mailClient: mailClient,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SubmitRequest godoc
// @Summary     Submit a custom request
// @Description Stores a custom project or presentation request for admin review
// @Tags        requests
// @Accept      json
// @Produce     json
// @Param       request body models.SubmitRequestInput true "Request submission"
// @Success     200 {object} models.ActionResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /requests [post]
func (h *RequestsHandler) SubmitRequest(c *gin.Context) {
	var in models.SubmitRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	// Reject before any store or network call is made.
	if missing := in.Validate(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:  "missing required fields",
			Fields: missing,
		})
		return
	}

	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	req := &models.ProjectRequest{
		Type:            in.Type,
		Name:            in.Name,
		Email:           in.Email,
		ProjectTitle:    nullable(in.ProjectTitle),
		Microcontroller: nullable(in.Microcontroller),
		Components:      nullable(in.Components),
		Description:     nullable(in.Description),
		Budget:          nullable(in.Budget),
		Topic:           nullable(in.Topic),
		Audience:        nullable(in.Audience),
		Purpose:         nullable(in.Purpose),
		Style:           nullable(in.Style),
		Instructions:    nullable(in.Instructions),
	}

	req, err := h.dbClient.CreateRequest(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to submit request",
			Message: err.Error(),
		})
		return
	}

	// Admin notice is best-effort; the stored request already succeeded.
	if h.config.AdminNotifyEmail != "" {
		subject, body := mailer.RequestSubmittedNotice(req)
		h.mailClient.Notify(h.config.AdminNotifyEmail, subject, body)
	}

	c.JSON(http.StatusOK, models.ActionResponse{
		Success:   true,
		Message:   "Request submitted successfully.",
		RequestID: req.ID.String(),
	})
}

// ListRequests returns every pending request, oldest first.
func (h *RequestsHandler) ListRequests(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	requests, err := h.dbClient.ListRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list requests",
			Message: err.Error(),
		})
		return
	}

	out := make([]models.RequestResponse, len(requests))
	for i := range requests {
		out[i] = models.NewRequestResponse(&requests[i])
	}
	c.JSON(http.StatusOK, models.RequestListResponse{Requests: out})
}

// ApproveRequest godoc
// @Summary     Approve a request
// @Description Converts a pending request into a tracked project (transactionally) and notifies the requester
// @Tags        requests
// @Produce     json
// @Security    Bearer
// @Param       request_id path string true "Request ID"
// @Success     200 {object} models.ActionResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/requests/{request_id}/approve [post]
func (h *RequestsHandler) ApproveRequest(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request id"})
		return
	}

	req, err := h.dbClient.GetRequest(requestID)
	if err != nil {
		h.respondRequestError(c, err, "request not found")
		return
	}

	project, err := h.dbClient.ApproveRequest(req)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			// Another operator handled it between our read and the transaction.
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "request not found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to approve request",
			Message: err.Error(),
		})
		return
	}

	subject, body := mailer.RequestApprovedNotice(req, project.ProjectID, h.config.TrackingPageURL)
	h.mailClient.Notify(req.Email, subject, body)

	c.JSON(http.StatusOK, models.ActionResponse{
		Success:   true,
		Message:   "Project created and user notified.",
		ProjectID: project.ProjectID,
	})
}

// DeclineRequest deletes a pending request and notifies the requester. The
// notification never blocks or undoes the deletion.
func (h *RequestsHandler) DeclineRequest(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request id"})
		return
	}

	req, err := h.dbClient.GetRequest(requestID)
	if err != nil {
		h.respondRequestError(c, err, "request not found")
		return
	}

	if err := h.dbClient.DeleteRequest(requestID); err != nil {
		h.respondRequestError(c, err, "failed to decline request")
		return
	}

	subject, body := mailer.RequestDeclinedNotice(req)
	h.mailClient.Notify(req.Email, subject, body)

	c.JSON(http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Request declined and user notified.",
	})
}

func (h *RequestsHandler) respondRequestError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, supabase.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "request not found",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   fallback,
		Message: err.Error(),
	})
}
