package models

// SubmitRequestInput is the body of POST /requests. Required fields depend
// on Type; Validate reports every missing field at once.
type SubmitRequestInput struct {
	Type  string `json:"type" example:"project"`
	Name  string `json:"name" example:"Asha"`
	Email string `json:"email" example:"asha@example.com"`

	ProjectTitle    string `json:"project_title,omitempty" example:"Line Follower Bot"`
	Microcontroller string `json:"microcontroller,omitempty" example:"ESP32"`
	Components      string `json:"components,omitempty"`
	Description     string `json:"description,omitempty"`
	Budget          string `json:"budget,omitempty"`

	Topic        string `json:"topic,omitempty"`
	Audience     string `json:"audience,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Style        string `json:"style,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Validate returns the list of missing required fields, empty when the
// submission is acceptable.
func (in *SubmitRequestInput) Validate() []string {
	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	switch in.Type {
	case RequestTypeProject:
		if in.ProjectTitle == "" {
			missing = append(missing, "project_title")
		}
		if in.Description == "" {
			missing = append(missing, "description")
		}
	case RequestTypePresentation:
		if in.Topic == "" {
			missing = append(missing, "topic")
		}
		if in.Purpose == "" {
			missing = append(missing, "purpose")
		}
	default:
		missing = append(missing, "type")
	}
	return missing
}

// ContactInput is the body of POST /contact.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

func (in *ContactInput) Validate() []string {
	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Message == "" {
		missing = append(missing, "message")
	}
	return missing
}

// AdvanceStageInput selects the new current stage for a tracked project.
type AdvanceStageInput struct {
	Stage string `json:"stage" example:"circuit_design"`
}

// UpdateNotesInput carries operator notes for a single stage.
type UpdateNotesInput struct {
	Notes string `json:"notes"`
}

// UpdateProfileInput is the body of PUT /profile.
type UpdateProfileInput struct {
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	College     string `json:"college,omitempty"`
}
