package tracking

// Earlier site revisions persisted a different five-key stage scheme
// (requirements/design/development/testing/completed) and sometimes omitted
// the terminal "completed" stage from the current scheme. Documents are
// normalized on every read so the rest of the code only ever sees the
// canonical six keys.

var legacyKeys = map[StageKey]StageKey{
	"requirements": StageComponentsCollected,
	"design":       StageCircuitDesign,
	"development":  StageProgramming,
	"testing":      StageTesting,
	"completed":    StageCompleted,
}

// Normalize rewrites a persisted project document into canonical form:
// legacy stage keys are renamed, canonical keys missing from the document
// are filled in as pending, and a missing or legacy current-stage pointer is
// remapped (defaulting to the first stage). Canonical keys always win over a
// legacy alias for the same slot.
func Normalize(p *Project) {
	if p.Stages == nil {
		p.Stages = make(map[StageKey]*Stage, len(Order))
	}

	for old, canonical := range legacyKeys {
		stage, ok := p.Stages[old]
		if !ok || old == canonical {
			continue
		}
		if _, taken := p.Stages[canonical]; !taken {
			p.Stages[canonical] = stage
		}
		delete(p.Stages, old)
	}

	// Drop anything that is still not canonical and fill the gaps.
	for key := range p.Stages {
		if !IsValid(key) {
			delete(p.Stages, key)
		}
	}
	for _, key := range Order {
		if _, ok := p.Stages[key]; !ok {
			p.Stages[key] = &Stage{Status: StatusPending}
		}
	}

	if !IsValid(p.CurrentStage) {
		if mapped, ok := legacyKeys[p.CurrentStage]; ok {
			p.CurrentStage = mapped
		} else {
			p.CurrentStage = Order[0]
		}
	}
}
