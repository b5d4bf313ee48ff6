package intent

import (
	"fmt"
	"time"
)

const promptTemplate = `You are a calendar assistant. Extract event details from the request below.

Current date and time: %s (%s, timezone %s)
Request: "%s"

Respond with only a JSON object using exactly these keys:
{
  "summary": "short event title",
  "startDateTime": "YYYY-MM-DDTHH:MM:SS",
  "endDateTime": "YYYY-MM-DDTHH:MM:SS",
  "attendees": ["email@example.com"]
}

Rules:
- Datetimes are local times in the timezone above, without offset.
- "tomorrow" means the next calendar day.
- "next week" means next Monday at 09:00.
- A time of day without a date means today.
- Without a stated duration the event lasts one hour.
- Use only email addresses written in the request as attendees, otherwise [].
- Use null for anything the request does not determine.`

func buildPrompt(utterance string, now time.Time) string {
	return fmt.Sprintf(promptTemplate, now.Format(time.RFC3339), now.Weekday(), now.Location(), utterance)
}
