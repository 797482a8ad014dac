package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// RequestType distinguishes the two intake forms.
const (
	RequestTypeProject      = "project"
	RequestTypePresentation = "presentation"
)

// ProjectRequest is a customer submission awaiting an admin decision. It is
// deleted on approve (converted into a tracked project) or decline.
type ProjectRequest struct {
	ID    uuid.UUID
	Type  string
	Name  string
	Email string

	// Project submissions
	ProjectTitle    sql.NullString
	Microcontroller sql.NullString
	Components      sql.NullString
	Description     sql.NullString
	Budget          sql.NullString

	// Presentation submissions
	Topic        sql.NullString
	Audience     sql.NullString
	Purpose      sql.NullString
	Style        sql.NullString
	Instructions sql.NullString

	CreatedAt time.Time
}

// Title returns the headline of the request regardless of type.
func (r *ProjectRequest) Title() string {
	if r.ProjectTitle.Valid && r.ProjectTitle.String != "" {
		return r.ProjectTitle.String
	}
	if r.Topic.Valid {
		return r.Topic.String
	}
	return ""
}
