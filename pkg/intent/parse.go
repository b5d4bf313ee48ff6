package intent

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
	log "github.com/sirupsen/logrus"
)

// firstObject returns the first balanced {...} substring of text. Braces
// inside JSON string literals do not count.
func firstObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// parseIntent never fails: text without a readable object yields an empty
// intent, which callers treat as underdetermined.
func parseIntent(text string) EventIntent {
	object, ok := firstObject(text)
	if !ok {
		log.Debug("no JSON object found in completion")
		return EventIntent{}
	}

	var parsed EventIntent
	if err := json.Unmarshal([]byte(object), &parsed); err == nil {
		return parsed
	}

	repaired, err := jsonrepair.JSONRepair(object)
	if err != nil {
		log.Debugf("unable to repair intent JSON: %v", err)
		return EventIntent{}
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		log.Debugf("unable to parse repaired intent JSON: %v", err)
		return EventIntent{}
	}
	return parsed
}
