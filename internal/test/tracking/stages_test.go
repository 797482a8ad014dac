package tracking_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"studkits-backend/internal/tracking"
)

func newProject(t *testing.T) *tracking.Project {
	t.Helper()
	return tracking.New("SK-1024", "user-abc-123", "Project created from request: Line Follower Bot")
}

func TestNew_FirstStageInProgress(t *testing.T) {
	project := newProject(t)

	assert.Equal(t, tracking.StageComponentsCollected, project.CurrentStage)
	assert.Len(t, project.Stages, len(tracking.Order))

	first := project.Stages[tracking.StageComponentsCollected]
	assert.Equal(t, tracking.StatusInProgress, first.Status)
	assert.NotNil(t, first.Timestamp)
	assert.Equal(t, "Project created from request: Line Follower Bot", first.Notes)

	for _, key := range tracking.Order[1:] {
		stage := project.Stages[key]
		assert.Equal(t, tracking.StatusPending, stage.Status)
		assert.Nil(t, stage.Timestamp)
	}
}

func TestAdvance_CascadeShape(t *testing.T) {
	for target := range tracking.Order {
		project := newProject(t)
		require.NoError(t, project.Advance(tracking.Order[target]))

		assert.Equal(t, tracking.Order[target], project.CurrentStage)
		for i, key := range tracking.Order {
			stage := project.Stages[key]
			switch {
			case i < target:
				assert.Equal(t, tracking.StatusCompleted, stage.Status, "stage %s", key)
				assert.NotNil(t, stage.Timestamp, "stage %s", key)
			case i == target:
				assert.Equal(t, tracking.StatusInProgress, stage.Status, "stage %s", key)
				assert.NotNil(t, stage.Timestamp, "stage %s", key)
			default:
				assert.Equal(t, tracking.StatusPending, stage.Status, "stage %s", key)
				assert.Nil(t, stage.Timestamp, "stage %s", key)
			}
		}
	}
}

func TestAdvance_BackwardClearsLaterStages(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageShipping))
	require.NoError(t, project.Advance(tracking.StageCircuitDesign))

	assert.Equal(t, tracking.StageCircuitDesign, project.CurrentStage)
	assert.Equal(t, tracking.StatusPending, project.Stages[tracking.StageProgramming].Status)
	assert.Nil(t, project.Stages[tracking.StageProgramming].Timestamp)
	assert.Equal(t, tracking.StatusPending, project.Stages[tracking.StageShipping].Status)
	assert.Nil(t, project.Stages[tracking.StageShipping].Timestamp)
}

func TestAdvance_PreservesCompletionTimestamps(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageProgramming))

	recorded := *project.Stages[tracking.StageCircuitDesign].Timestamp

	require.NoError(t, project.Advance(tracking.StageShipping))
	assert.Equal(t, recorded, *project.Stages[tracking.StageCircuitDesign].Timestamp,
		"completion timestamp must not be clobbered by a later advance")
}

func TestAdvance_Idempotent(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageTesting))

	completedAt := *project.Stages[tracking.StageProgramming].Timestamp

	require.NoError(t, project.Advance(tracking.StageTesting))

	assert.Equal(t, tracking.StageTesting, project.CurrentStage)
	assert.Equal(t, tracking.StatusInProgress, project.Stages[tracking.StageTesting].Status)
	assert.Equal(t, completedAt, *project.Stages[tracking.StageProgramming].Timestamp)
	assert.Equal(t, tracking.StatusPending, project.Stages[tracking.StageShipping].Status)
}

func TestAdvance_UnknownStage(t *testing.T) {
	project := newProject(t)
	err := project.Advance(tracking.StageKey("packaging"))
	assert.Error(t, err)
	assert.Equal(t, tracking.StageComponentsCollected, project.CurrentStage)
}

func TestUpdateNotes_TouchesNothingElse(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageProgramming))

	before := make(map[tracking.StageKey]tracking.Stage)
	for key, stage := range project.Stages {
		before[key] = *stage
	}

	require.NoError(t, project.UpdateNotes(tracking.StageShipping, "courier booked for Friday"))

	assert.Equal(t, tracking.StageProgramming, project.CurrentStage)
	assert.Equal(t, "courier booked for Friday", project.Stages[tracking.StageShipping].Notes)
	for key, prev := range before {
		stage := project.Stages[key]
		assert.Equal(t, prev.Status, stage.Status, "stage %s status", key)
		assert.Equal(t, prev.Timestamp, stage.Timestamp, "stage %s timestamp", key)
		if key != tracking.StageShipping {
			assert.Equal(t, prev.Notes, stage.Notes, "stage %s notes", key)
		}
	}
}

func TestProgressPercent(t *testing.T) {
	project := newProject(t)

	last := 0
	for _, key := range tracking.Order {
		require.NoError(t, project.Advance(key))
		progress := project.ProgressPercent()
		assert.GreaterOrEqual(t, progress, last, "progress must not decrease")
		last = progress
	}
	assert.Equal(t, 100, last, "last canonical stage reports exactly 100")
}

func TestProgressPercent_IgnoresNotesAndImages(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageTesting))
	before := project.ProgressPercent()

	require.NoError(t, project.UpdateNotes(tracking.StageTesting, "thermal test passed"))
	require.NoError(t, project.SetImage(tracking.StageCircuitDesign, "https://cdn.example.com/schematic.png"))

	assert.Equal(t, before, project.ProgressPercent())
}

func TestClone_Independent(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageProgramming))

	clone := project.Clone()
	require.NoError(t, clone.Advance(tracking.StageShipping))
	require.NoError(t, clone.UpdateNotes(tracking.StageTesting, "done"))

	assert.Equal(t, tracking.StageProgramming, project.CurrentStage)
	assert.Equal(t, "", project.Stages[tracking.StageTesting].Notes)
	assert.Equal(t, tracking.StatusPending, project.Stages[tracking.StageShipping].Status)
}

func TestStage_UnmarshalLegacyDocument(t *testing.T) {
	doc := `{"status":"completed","timestamp":"","notes":"ready","imageUrl":"https://img.example.com/a.png"}`

	var stage tracking.Stage
	require.NoError(t, json.Unmarshal([]byte(doc), &stage))

	assert.Equal(t, tracking.StatusCompleted, stage.Status)
	assert.Nil(t, stage.Timestamp, "empty-string timestamp means not reached")
	assert.Equal(t, "ready", stage.Notes)
	assert.Equal(t, "https://img.example.com/a.png", stage.ImageURL)
}

func TestStage_UnmarshalTimestamp(t *testing.T) {
	doc := `{"status":"in_progress","timestamp":"2023-10-28T11:00:00Z"}`

	var stage tracking.Stage
	require.NoError(t, json.Unmarshal([]byte(doc), &stage))

	require.NotNil(t, stage.Timestamp)
	assert.Equal(t, time.Date(2023, 10, 28, 11, 0, 0, 0, time.UTC), stage.Timestamp.UTC())
}

func TestStage_RoundTrip(t *testing.T) {
	project := newProject(t)
	require.NoError(t, project.Advance(tracking.StageCircuitDesign))

	encoded, err := json.Marshal(project.Stages)
	require.NoError(t, err)

	var decoded map[tracking.StageKey]*tracking.Stage
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, tracking.StatusCompleted, decoded[tracking.StageComponentsCollected].Status)
	assert.Equal(t, tracking.StatusInProgress, decoded[tracking.StageCircuitDesign].Status)
	assert.Nil(t, decoded[tracking.StageShipping].Timestamp)
}
