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

func TestSubmitContact_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlers.NewContactHandler(&config.Config{}, nil)
	router := gin.New()
	router.POST("/contact", h.SubmitContact)

	body := `{"name":"Asha"}`
	req, _ := http.NewRequest("POST", "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"email", "message"}, resp.Fields)
}

func TestSubmitContact_NoInboxConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlers.NewContactHandler(&config.Config{}, nil)
	router := gin.New()
	router.POST("/contact", h.SubmitContact)

	body := `{"name":"Asha","email":"asha@example.com","message":"Do you ship abroad?"}`
	req, _ := http.NewRequest("POST", "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
