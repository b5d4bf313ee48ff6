package intent

import (
	"encoding/json"
	"strings"
)

// EventIntent is the possibly partial event description extracted from an
// utterance. Empty strings mean the model did not determine the field.
type EventIntent struct {
	Summary       string   `json:"summary"`
	StartDateTime string   `json:"startDateTime"`
	EndDateTime   string   `json:"endDateTime"`
	Attendees     []string `json:"attendees"`
}

func (i EventIntent) IsEmpty() bool {
	return i.Summary == "" && i.StartDateTime == "" && i.EndDateTime == "" && len(i.Attendees) == 0
}

// UnmarshalJSON tolerates the shapes models actually produce: null or
// non-string scalars, and attendees given as objects with an email key.
func (i *EventIntent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Summary       any   `json:"summary"`
		StartDateTime any   `json:"startDateTime"`
		EndDateTime   any   `json:"endDateTime"`
		Attendees     []any `json:"attendees"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = EventIntent{
		Summary:       stringValue(raw.Summary),
		StartDateTime: stringValue(raw.StartDateTime),
		EndDateTime:   stringValue(raw.EndDateTime),
		Attendees:     []string{},
	}
	for _, a := range raw.Attendees {
		var email string
		switch v := a.(type) {
		case string:
			email = v
		case map[string]any:
			email = stringValue(v["email"])
		}
		if email = strings.TrimSpace(email); email != "" {
			i.Attendees = append(i.Attendees, email)
		}
	}
	return nil
}

func stringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
