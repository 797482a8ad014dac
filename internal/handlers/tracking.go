package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"studkits-backend/internal/middleware"
	"studkits-backend/internal/models"
	"studkits-backend/internal/supabase"
	"studkits-backend/internal/tracking"
	"studkits-backend/internal/watch"
)

type TrackingHandler struct {
	dbClient      *supabase.DatabaseClient
	storageClient *supabase.StorageClient
	hub           *watch.Hub
}

func NewTrackingHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient, hub *watch.Hub) *TrackingHandler {
	return &TrackingHandler{
		dbClient:      dbClient,
		storageClient: storageClient,
		hub:           hub,
	}
}

// ListProjects returns the caller's own tracked projects.
func (h *TrackingHandler) ListProjects(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	projects, err := h.dbClient.ListProjectsForUser(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, projectList(projects))
}

// ListAllProjects is the admin dashboard listing.
func (h *TrackingHandler) ListAllProjects(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projects, err := h.dbClient.ListAllProjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, projectList(projects))
}

// GetProject godoc
// @Summary     Get a tracked project
// @Description Returns full stage tracking state for one project. Owners see their own projects; admins see everything.
// @Tags        tracking
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (e.g. SK-1024)"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *TrackingHandler) GetProject(c *gin.Context) {
	project, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(project))
}

// Events streams project snapshots over SSE: one snapshot immediately, then
// one per change, until the client disconnects.
func (h *TrackingHandler) Events(c *gin.Context) {
	project, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	updates := h.hub.Subscribe(c.Request.Context(), project.ProjectID)

	// Re-read after subscribing: a write landing since the authorization
	// fetch is now either in this snapshot or queued on the channel.
	if fresh, err := h.dbClient.GetProject(project.ProjectID); err == nil {
		project = fresh
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("snapshot", models.NewProjectResponse(project))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-updates
		if !open {
			return false
		}
		c.SSEvent("snapshot", snapshot)
		return true
	})
}

// AdvanceStage godoc
// @Summary     Advance the current stage
// @Description Moves the stage pointer and cascades the statuses of every other stage. Re-sending the same target stage is safe.
// @Tags        tracking
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Param       stage body models.AdvanceStageInput true "Target stage"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{project_id}/stage [put]
func (h *TrackingHandler) AdvanceStage(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var in models.AdvanceStageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	newStage := tracking.StageKey(in.Stage)
	if !tracking.IsValid(newStage) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown stage", Message: in.Stage})
		return
	}

	project, err := h.dbClient.GetProject(c.Param("project_id"))
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	// Work on a copy: if the write fails the stored and displayed state stay
	// as they were, and the operator just retries the same call.
	updated := project.Clone()
	if err := updated.Advance(newStage); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to advance stage", Message: err.Error()})
		return
	}

	if err := h.dbClient.SaveProject(updated); err != nil {
		h.respondProjectError(c, err)
		return
	}

	response := models.NewProjectResponse(updated)
	h.hub.Publish(response)
	c.JSON(http.StatusOK, response)
}

// UpdateStageNotes edits the notes of one stage without touching status,
// timestamps or the stage pointer. Pending stages may carry notes.
func (h *TrackingHandler) UpdateStageNotes(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var in models.UpdateNotesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	stageKey := tracking.StageKey(c.Param("stage_key"))
	if !tracking.IsValid(stageKey) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown stage", Message: c.Param("stage_key")})
		return
	}

	project, err := h.dbClient.GetProject(c.Param("project_id"))
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	updated := project.Clone()
	if err := updated.UpdateNotes(stageKey, in.Notes); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to update notes", Message: err.Error()})
		return
	}

	if err := h.dbClient.SaveProject(updated); err != nil {
		h.respondProjectError(c, err)
		return
	}

	response := models.NewProjectResponse(updated)
	h.hub.Publish(response)
	c.JSON(http.StatusOK, response)
}

// UploadStageImage stores a multipart image for one stage and records its
// public URL on that stage.
func (h *TrackingHandler) UploadStageImage(c *gin.Context) {
	if h.dbClient == nil || h.storageClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	stageKey := tracking.StageKey(c.Param("stage_key"))
	if !tracking.IsValid(stageKey) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown stage", Message: c.Param("stage_key")})
		return
	}

	project, err := h.dbClient.GetProject(c.Param("project_id"))
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing image file", Message: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open upload", Message: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read upload", Message: err.Error()})
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := h.storageClient.UploadStageImage(project.ProjectID, stageKey, filename, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store image",
			Message: err.Error(),
		})
		return
	}

	updated := project.Clone()
	if err := updated.SetImage(stageKey, imageURL); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to attach image", Message: err.Error()})
		return
	}

	if err := h.dbClient.SaveProject(updated); err != nil {
		h.respondProjectError(c, err)
		return
	}

	response := models.NewProjectResponse(updated)
	h.hub.Publish(response)
	c.JSON(http.StatusOK, response)
}

func (h *TrackingHandler) DeleteProject(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID := c.Param("project_id")

	if h.storageClient != nil {
		if err := h.storageClient.DeleteProjectImages(projectID); err != nil {
			// Orphaned images are harmless; the project row still goes away.
			log.Printf("Warning: failed to delete images for %s: %v", projectID, err)
		}
	}

	if err := h.dbClient.DeleteProject(projectID); err != nil {
		h.respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Project deleted successfully.",
	})
}

// loadAuthorized fetches the addressed project and enforces that the caller
// owns it or holds the admin role. Responds and returns false otherwise.
func (h *TrackingHandler) loadAuthorized(c *gin.Context) (*tracking.Project, bool) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return nil, false
	}

	userID, email, ok := callerIdentity(c)
	if !ok {
		return nil, false
	}

	project, err := h.dbClient.GetProject(c.Param("project_id"))
	if err != nil {
		h.respondProjectError(c, err)
		return nil, false
	}

	if project.UserID != userID && (email == "" || project.UserID != email) {
		uid, err := uuid.Parse(userID)
		if err != nil {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
			return nil, false
		}
		role, err := h.dbClient.RoleForUser(uid)
		if err != nil || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
			return nil, false
		}
	}

	return project, true
}

func (h *TrackingHandler) respondProjectError(c *gin.Context, err error) {
	if errors.Is(err, supabase.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "project operation failed",
		Message: err.Error(),
	})
}

func callerIdentity(c *gin.Context) (userID, email string, ok bool) {
	userIDVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", "", false
	}
	userID = userIDVal.(string)
	if emailVal, exists := c.Get(middleware.EmailKey); exists {
		email, _ = emailVal.(string)
	}
	return userID, email, true
}

func projectList(projects []*tracking.Project) models.ProjectListResponse {
	out := make([]models.ProjectResponse, len(projects))
	for i, project := range projects {
		out[i] = models.NewProjectResponse(project)
	}
	return models.ProjectListResponse{Projects: out}
}
