package calendar

import "time"

// suggestionHours are the candidate meeting start hours on a business day.
var suggestionHours = []int{9, 11, 14, 16}

const maxSuggestions = 5

// SuggestMeetingTimes proposes meeting start times over the next five
// business days, at the fixed candidate hours, capped at five slots.
func SuggestMeetingTimes(now time.Time) []string {
	var suggestions []string

	for dayOffset := 1; dayOffset <= 5; dayOffset++ {
		date := now.AddDate(0, 0, dayOffset)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range suggestionHours {
			slot := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
			suggestions = append(suggestions, slot.Format(time.RFC3339))
			if len(suggestions) == maxSuggestions {
				return suggestions
			}
		}
	}
	return suggestions
}
