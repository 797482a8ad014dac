package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"studkits-backend/internal/config"
	"studkits-backend/internal/handlers"
	"studkits-backend/internal/models"
)

func submitRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewRequestsHandler(&config.Config{}, nil, nil)
	router := gin.New()
	router.POST("/requests", h.SubmitRequest)
	return router
}

func TestSubmitRequest_MissingFieldsListed(t *testing.T) {
	router := submitRouter()

	body := `{"type":"project","email":"asha@example.com"}`
	req, _ := http.NewRequest("POST", "/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"name", "project_title", "description"}, resp.Fields)
}

func TestSubmitRequest_UnknownTypeRejected(t *testing.T) {
	router := submitRouter()

	body := `{"type":"poster","name":"Asha","email":"asha@example.com"}`
	req, _ := http.NewRequest("POST", "/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "type")
}

func TestSubmitRequest_InvalidBody(t *testing.T) {
	router := submitRouter()

	req, _ := http.NewRequest("POST", "/requests", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// A structurally valid submission against a handler with no database must
// fail only after validation has passed, proving validation runs first.
func TestSubmitRequest_ValidationBeforeStore(t *testing.T) {
	router := submitRouter()

	body := `{"type":"project","name":"Asha","email":"asha@example.com","project_title":"Line Follower Bot","description":"A robot that follows a line."}`
	req, _ := http.NewRequest("POST", "/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "database not available")
}
