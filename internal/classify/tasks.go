package classify

import "strings"

// taskKeywords mark a message as containing actionable or scheduling content.
var taskKeywords = []string{
	"meeting", "call", "schedule", "appointment", "deadline",
	"due date", "task", "action item", "follow up", "reminder",
}

// HasTasks reports whether the text contains an actionable or scheduling
// signal. Case-insensitive substring matching, same as the classifier:
// no stemming and no word boundaries.
func HasTasks(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range taskKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
