package models

import (
	"time"

	"studkits-backend/internal/tracking"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// ActionResponse is the uniform result shape for mutations.
type ActionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProjectID string `json:"project_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type StageResponse struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
}

type ProjectResponse struct {
	ProjectID    string          `json:"project_id"`
	UserID       string          `json:"user_id"`
	CurrentStage string          `json:"current_stage"`
	Progress     int             `json:"progress"`
	Stages       []StageResponse `json:"stages"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// NewProjectResponse flattens the stages map into canonical order so clients
// never have to know the ordering themselves.
func NewProjectResponse(p *tracking.Project) ProjectResponse {
	stages := make([]StageResponse, 0, len(tracking.Order))
	for _, key := range tracking.Order {
		stage := p.Stages[key]
		if stage == nil {
			continue
		}
		stages = append(stages, StageResponse{
			Key:       string(key),
			Name:      tracking.DisplayNames[key],
			Status:    string(stage.Status),
			Timestamp: stage.Timestamp,
			Notes:     stage.Notes,
			ImageURL:  stage.ImageURL,
		})
	}
	return ProjectResponse{
		ProjectID:    p.ProjectID,
		UserID:       p.UserID,
		CurrentStage: string(p.CurrentStage),
		Progress:     p.ProgressPercent(),
		Stages:       stages,
	}
}

type RequestResponse struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`

	ProjectTitle    string `json:"project_title,omitempty"`
	Microcontroller string `json:"microcontroller,omitempty"`
	Components      string `json:"components,omitempty"`
	Description     string `json:"description,omitempty"`
	Budget          string `json:"budget,omitempty"`

	Topic        string `json:"topic,omitempty"`
	Audience     string `json:"audience,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Style        string `json:"style,omitempty"`
	Instructions string `json:"instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
}

func NewRequestResponse(r *ProjectRequest) RequestResponse {
	return RequestResponse{
		ID:              r.ID.String(),
		Type:            r.Type,
		Name:            r.Name,
		Email:           r.Email,
		ProjectTitle:    r.ProjectTitle.String,
		Microcontroller: r.Microcontroller.String,
		Components:      r.Components.String,
		Description:     r.Description.String,
		Budget:          r.Budget.String,
		Topic:           r.Topic.String,
		Audience:        r.Audience.String,
		Purpose:         r.Purpose.String,
		Style:           r.Style.String,
		Instructions:    r.Instructions.String,
		CreatedAt:       r.CreatedAt,
	}
}

type ProfileResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	College     string `json:"college,omitempty"`
	Role        string `json:"role"`
}

func NewProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName.String,
		PhotoURL:    u.PhotoURL.String,
		College:     u.College.String,
		Role:        u.Role,
	}
}
