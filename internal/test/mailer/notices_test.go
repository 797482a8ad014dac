package mailer_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"studkits-backend/internal/mailer"
	"studkits-backend/internal/models"
)

func sampleRequest() *models.ProjectRequest {
	return &models.ProjectRequest{
		Type:         models.RequestTypeProject,
		Name:         "Asha",
		Email:        "asha@example.com",
		ProjectTitle: sql.NullString{String: "Line Follower Bot", Valid: true},
		Description:  sql.NullString{String: "A robot that follows a line.", Valid: true},
	}
}

func TestRequestSubmittedNotice(t *testing.T) {
	subject, body := mailer.RequestSubmittedNotice(sampleRequest())

	assert.Equal(t, "New Request: Line Follower Bot", subject)
	assert.Contains(t, body, "waiting for approval")
	assert.Contains(t, body, "asha@example.com")
}

func TestRequestApprovedNotice(t *testing.T) {
	subject, body := mailer.RequestApprovedNotice(sampleRequest(), "SK-1042", "https://studkits.com/tracking")

	assert.Contains(t, subject, "Approved")
	assert.Contains(t, subject, "Line Follower Bot")
	assert.Contains(t, body, "SK-1042")
	assert.Contains(t, body, "https://studkits.com/tracking")
	assert.Contains(t, body, "A robot that follows a line.")
}

func TestRequestDeclinedNotice(t *testing.T) {
	subject, body := mailer.RequestDeclinedNotice(sampleRequest())

	assert.Contains(t, subject, "Update on Your Project Request")
	assert.Contains(t, body, "unable to proceed")
	assert.Contains(t, body, "Line Follower Bot")
}

func TestPresentationRequestUsesTopic(t *testing.T) {
	req := &models.ProjectRequest{
		Type:  models.RequestTypePresentation,
		Name:  "Ravi",
		Email: "ravi@example.com",
		Topic: sql.NullString{String: "Embedded Systems 101", Valid: true},
	}

	subject, _ := mailer.RequestSubmittedNotice(req)
	assert.Equal(t, "New Request: Embedded Systems 101", subject)
}

func TestNoticesEscapeUserContent(t *testing.T) {
	req := sampleRequest()
	req.ProjectTitle = sql.NullString{String: `<script>alert("x")</script>`, Valid: true}

	_, body := mailer.RequestDeclinedNotice(req)
	assert.NotContains(t, body, "<script>")
}

func TestContactNotice(t *testing.T) {
	subject, body := mailer.ContactNotice(&models.ContactInput{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Shipping query",
		Message: "Do you ship abroad?",
	})

	assert.Equal(t, "Contact Form: Shipping query", subject)
	assert.Contains(t, body, "Do you ship abroad?")
	assert.Contains(t, body, "asha@example.com")
}
