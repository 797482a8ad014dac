package supabase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"studkits-backend/internal/models"
	"studkits-backend/internal/tracking"
)

// ErrNotFound is returned when the addressed project, request or user row
// does not exist (e.g. a request another operator already declined).
var ErrNotFound = errors.New("not found")

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an already opened connection. Lets tests run
// the query layer against a stub driver.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// scanProject decodes one projects row into the tracking aggregate,
// normalizing legacy stage documents on the way in.
func scanProject(row interface{ Scan(...any) error }) (*tracking.Project, error) {
	var (
		project   tracking.Project
		stagesDoc []byte
		current   string
	)
	if err := row.Scan(&project.ProjectID, &project.UserID, &current, &stagesDoc); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stagesDoc, &project.Stages); err != nil {
		return nil, fmt.Errorf("failed to decode stages for %s: %w", project.ProjectID, err)
	}
	project.CurrentStage = tracking.StageKey(current)
	tracking.Normalize(&project)
	return &project, nil
}

func (d *DatabaseClient) GetProject(projectID string) (*tracking.Project, error) {
	project, err := scanProject(d.db.QueryRow(`
		SELECT project_id, user_id, current_stage, stages
		FROM projects
		WHERE project_id = $1
	`, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjectsForUser returns projects owned by either the auth user id or
// the email address. Requests approved before the customer ever signed in
// are keyed by email, so both spellings have to match.
func (d *DatabaseClient) ListProjectsForUser(userID, email string) ([]*tracking.Project, error) {
	rows, err := d.db.Query(`
		SELECT project_id, user_id, current_stage, stages
		FROM projects
		WHERE user_id = $1 OR user_id = $2
		ORDER BY created_at DESC
	`, userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (d *DatabaseClient) ListAllProjects() ([]*tracking.Project, error) {
	rows, err := d.db.Query(`
		SELECT project_id, user_id, current_stage, stages
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows *sql.Rows) ([]*tracking.Project, error) {
	var projects []*tracking.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// SaveProject overwrites the mutable fields of an existing project in one
// statement, so no intermediate state is ever durable.
func (d *DatabaseClient) SaveProject(project *tracking.Project) error {
	stagesDoc, err := json.Marshal(project.Stages)
	if err != nil {
		return fmt.Errorf("failed to encode stages: %w", err)
	}

	result, err := d.db.Exec(`
		UPDATE projects
		SET current_stage = $1, stages = $2, updated_at = NOW()
		WHERE project_id = $3
	`, string(project.CurrentStage), stagesDoc, project.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", project.ProjectID, ErrNotFound)
	}
	return nil
}

func (d *DatabaseClient) DeleteProject(projectID string) error {
	result, err := d.db.Exec(`
		DELETE FROM projects
		WHERE project_id = $1
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	return nil
}

func (d *DatabaseClient) CreateRequest(req *models.ProjectRequest) (*models.ProjectRequest, error) {
	err := d.db.QueryRow(`
		INSERT INTO project_requests
			(type, name, email, project_title, microcontroller, components,
			 description, budget, topic, audience, purpose, style, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, req.Type, req.Name, req.Email, req.ProjectTitle, req.Microcontroller,
		req.Components, req.Description, req.Budget, req.Topic, req.Audience,
		req.Purpose, req.Style, req.Instructions,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

func (d *DatabaseClient) GetRequest(requestID uuid.UUID) (*models.ProjectRequest, error) {
	var req models.ProjectRequest
	err := d.db.QueryRow(`
		SELECT id, type, name, email, project_title, microcontroller, components,
		       description, budget, topic, audience, purpose, style, instructions, created_at
		FROM project_requests
		WHERE id = $1
	`, requestID).Scan(
		&req.ID, &req.Type, &req.Name, &req.Email, &req.ProjectTitle,
		&req.Microcontroller, &req.Components, &req.Description, &req.Budget,
		&req.Topic, &req.Audience, &req.Purpose, &req.Style, &req.Instructions,
		&req.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &req, nil
}

func (d *DatabaseClient) ListRequests() ([]models.ProjectRequest, error) {
	rows, err := d.db.Query(`
		SELECT id, type, name, email, project_title, microcontroller, components,
		       description, budget, topic, audience, purpose, style, instructions, created_at
		FROM project_requests
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ProjectRequest
	for rows.Next() {
		var req models.ProjectRequest
		err := rows.Scan(
			&req.ID, &req.Type, &req.Name, &req.Email, &req.ProjectTitle,
			&req.Microcontroller, &req.Components, &req.Description, &req.Budget,
			&req.Topic, &req.Audience, &req.Purpose, &req.Style, &req.Instructions,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// DeleteRequest removes a pending request (the decline path). Reports
// ErrNotFound when another operator already handled it.
func (d *DatabaseClient) DeleteRequest(requestID uuid.UUID) error {
	result, err := d.db.Exec(`
		DELETE FROM project_requests
		WHERE id = $1
	`, requestID)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("request %s: %w", requestID, ErrNotFound)
	}
	return nil
}

// ApproveRequest converts a pending request into a tracked project inside a
// single transaction: allocate the next SK number, insert the project, and
// delete the request. A failure at any point leaves neither an orphaned
// request nor a half-created project.
//
// The new project is owned by the auth account registered under the
// requester's email when one exists, otherwise by the email itself.
func (d *DatabaseClient) ApproveRequest(req *models.ProjectRequest) (*tracking.Project, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var number int64
	if err := tx.QueryRow(`SELECT nextval('project_number_seq')`).Scan(&number); err != nil {
		return nil, fmt.Errorf("failed to allocate project number: %w", err)
	}
	projectID := fmt.Sprintf("SK-%d", number)

	userID := req.Email
	var accountID string
	err = tx.QueryRow(`SELECT id FROM users WHERE email = $1`, req.Email).Scan(&accountID)
	if err == nil {
		userID = accountID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up requester: %w", err)
	}

	project := tracking.New(projectID, userID,
		fmt.Sprintf("Project created from request: %s", req.Title()))

	stagesDoc, err := json.Marshal(project.Stages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stages: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO projects (project_id, user_id, current_stage, stages)
		VALUES ($1, $2, $3, $4)
	`, project.ProjectID, project.UserID, string(project.CurrentStage), stagesDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM project_requests WHERE id = $1`, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to delete request: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("request %s: %w", req.ID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}
	return project, nil
}

func (d *DatabaseClient) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := d.db.QueryRow(`
		SELECT id, email, display_name, photo_url, college, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL,
		&user.College, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpsertProfile creates or updates the profile row for an auth user. The
// role column is never touched here; promotion goes through PromoteAdmin.
func (d *DatabaseClient) UpsertProfile(userID uuid.UUID, email, displayName, photoURL, college string) (*models.User, error) {
	var user models.User
	err := d.db.QueryRow(`
		INSERT INTO users (id, email, display_name, photo_url, college)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (id) DO UPDATE SET
			email        = EXCLUDED.email,
			display_name = COALESCE(EXCLUDED.display_name, users.display_name),
			photo_url    = COALESCE(EXCLUDED.photo_url, users.photo_url),
			college      = COALESCE(EXCLUDED.college, users.college),
			updated_at   = NOW()
		RETURNING id, email, display_name, photo_url, college, role, created_at, updated_at
	`, userID, email, displayName, photoURL, college).Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL,
		&user.College, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &user, nil
}

// RoleForUser returns the stored role, defaulting to customer when the user
// has no profile row yet.
func (d *DatabaseClient) RoleForUser(userID uuid.UUID) (string, error) {
	var role string
	err := d.db.QueryRow(`SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleCustomer, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// PromoteAdmin grants the admin role to the account with the given email.
// Returns false when no such account exists yet (the user must sign in once
// before promotion can take effect).
func (d *DatabaseClient) PromoteAdmin(email string) (bool, error) {
	result, err := d.db.Exec(`
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE email = $2
	`, models.RoleAdmin, email)
	if err != nil {
		return false, fmt.Errorf("failed to promote admin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to promote admin: %w", err)
	}
	return n > 0, nil
}
