package tracking

import (
	"encoding/json"
	"fmt"
	"time"
)

// StageStatus is the per-stage progress marker.
type StageStatus string

const (
	StatusPending    StageStatus = "pending"
	StatusInProgress StageStatus = "in_progress"
	StatusCompleted  StageStatus = "completed"
)

// StageKey identifies one phase of the fulfillment workflow.
type StageKey string

const (
	StageComponentsCollected StageKey = "components_collected"
	StageCircuitDesign       StageKey = "circuit_design"
	StageProgramming         StageKey = "programming"
	StageTesting             StageKey = "testing"
	StageShipping            StageKey = "shipping"
	StageCompleted           StageKey = "completed"
)

// Order is the canonical stage sequence. Index position drives both the
// progress percentage and the cascade rule in Advance.
var Order = []StageKey{
	StageComponentsCollected,
	StageCircuitDesign,
	StageProgramming,
	StageTesting,
	StageShipping,
	StageCompleted,
}

// DisplayNames maps stage keys to operator-facing labels.
var DisplayNames = map[StageKey]string{
	StageComponentsCollected: "Components Collected",
	StageCircuitDesign:       "Circuit Design",
	StageProgramming:         "Programming",
	StageTesting:             "Testing",
	StageShipping:            "Shipping",
	StageCompleted:           "Completed",
}

// indexOf returns the canonical index of key, or -1 if key is not canonical.
func indexOf(key StageKey) int {
	for i, k := range Order {
		if k == key {
			return i
		}
	}
	return -1
}

// IsValid reports whether key belongs to the canonical enumeration.
func IsValid(key StageKey) bool {
	return indexOf(key) >= 0
}

// Stage holds the mutable state of one workflow phase. A nil Timestamp means
// the stage has not been reached yet.
type Stage struct {
	Status    StageStatus `json:"status"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	ImageURL  string      `json:"image_url,omitempty"`
}

// stageDoc mirrors Stage for JSON decoding. Older documents stored the
// timestamp as a string with "" meaning "not reached", and spelled the image
// field "imageUrl"; both are accepted here.
type stageDoc struct {
	Status      StageStatus `json:"status"`
	Timestamp   *string     `json:"timestamp"`
	Notes       string      `json:"notes"`
	ImageURL    string      `json:"image_url"`
	ImageURLAlt string      `json:"imageUrl"`
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var doc stageDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	s.Status = doc.Status
	s.Notes = doc.Notes
	s.ImageURL = doc.ImageURL
	if s.ImageURL == "" {
		s.ImageURL = doc.ImageURLAlt
	}
	s.Timestamp = nil

	if doc.Timestamp != nil && *doc.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, *doc.Timestamp)
		if err != nil {
			return fmt.Errorf("invalid stage timestamp %q: %w", *doc.Timestamp, err)
		}
		s.Timestamp = &ts
	}
	return nil
}

// Project is the tracking aggregate for one customer project. Stages always
// contains an entry for every canonical key.
type Project struct {
	ProjectID    string              `json:"project_id"`
	UserID       string              `json:"user_id"`
	CurrentStage StageKey            `json:"current_stage"`
	Stages       map[StageKey]*Stage `json:"stages"`
}

// timeNow is swapped out in tests.
var timeNow = time.Now

// New builds a fresh project: first canonical stage in_progress with the
// given note, every later stage pending.
func New(projectID, userID, firstStageNote string) *Project {
	now := timeNow().UTC()
	stages := make(map[StageKey]*Stage, len(Order))
	for i, key := range Order {
		if i == 0 {
			stages[key] = &Stage{Status: StatusInProgress, Timestamp: &now, Notes: firstStageNote}
			continue
		}
		stages[key] = &Stage{Status: StatusPending}
	}
	return &Project{
		ProjectID:    projectID,
		UserID:       userID,
		CurrentStage: Order[0],
		Stages:       stages,
	}
}

// Advance moves the current-stage pointer to newStage and cascades statuses
// so the aggregate ends in a consistent shape: every earlier stage completed
// (keeping an already recorded completion time), newStage in_progress with a
// fresh timestamp, every later stage pending with its timestamp cleared.
// This is the only operation that restores that shape; notes or image edits
// never re-check it. Jumping forward or backward any distance is allowed.
func (p *Project) Advance(newStage StageKey) error {
	target := indexOf(newStage)
	if target < 0 {
		return fmt.Errorf("unknown stage %q", newStage)
	}

	now := timeNow().UTC()
	for i, key := range Order {
		stage := p.Stages[key]
		if stage == nil {
			stage = &Stage{}
			p.Stages[key] = stage
		}
		switch {
		case i < target:
			stage.Status = StatusCompleted
			if stage.Timestamp == nil {
				ts := now
				stage.Timestamp = &ts
			}
		case i == target:
			ts := now
			stage.Status = StatusInProgress
			stage.Timestamp = &ts
		default:
			stage.Status = StatusPending
			stage.Timestamp = nil
		}
	}
	p.CurrentStage = newStage
	return nil
}

// UpdateNotes overwrites the notes of one stage. Status, timestamps and the
// current-stage pointer are left alone, so notes can be pre-staged on a
// pending stage.
func (p *Project) UpdateNotes(key StageKey, notes string) error {
	if !IsValid(key) {
		return fmt.Errorf("unknown stage %q", key)
	}
	p.Stages[key].Notes = notes
	return nil
}

// SetImage attaches an externally hosted image to one stage.
func (p *Project) SetImage(key StageKey, imageURL string) error {
	if !IsValid(key) {
		return fmt.Errorf("unknown stage %q", key)
	}
	p.Stages[key].ImageURL = imageURL
	return nil
}

// ProgressPercent reports progress as a function of the current-stage pointer
// alone: (index+1)/total, scaled to 0..100. The last canonical stage reports
// exactly 100.
func (p *Project) ProgressPercent() int {
	idx := indexOf(p.CurrentStage)
	if idx < 0 {
		return 0
	}
	return (idx + 1) * 100 / len(Order)
}

// Clone returns a deep copy. Handlers mutate the copy and persist it before
// touching anything visible, so a failed write leaves no local state behind.
func (p *Project) Clone() *Project {
	stages := make(map[StageKey]*Stage, len(p.Stages))
	for key, stage := range p.Stages {
		copied := *stage
		if stage.Timestamp != nil {
			ts := *stage.Timestamp
			copied.Timestamp = &ts
		}
		stages[key] = &copied
	}
	return &Project{
		ProjectID:    p.ProjectID,
		UserID:       p.UserID,
		CurrentStage: p.CurrentStage,
		Stages:       stages,
	}
}
