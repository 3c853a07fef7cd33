package classify

import (
	"strings"

	"github.com/momo-assistant/backend/internal/models"
)

// importantKeywords raise the priority score. Matching is plain substring
// matching, so "calls" matches "call". Word-boundary matching would change
// observable scores and is intentionally not used.
var importantKeywords = []string{
	"urgent", "asap", "deadline", "meeting", "call", "interview",
	"contract", "proposal", "budget", "revenue", "client", "customer",
}

// lowPriorityKeywords lower the priority score.
var lowPriorityKeywords = []string{
	"newsletter", "unsubscribe", "promotion", "sale", "offer",
	"marketing", "spam", "advertisement",
}

// Classify scores a message from its subject and content.
//
// The score starts at a neutral 0.5, gains 0.2 for every importance keyword
// present and loses 0.3 for every low-priority keyword present. The sum is
// clamped to [0, 1] only once at the end: clamping incrementally would change
// boundary results when promotions and demotions mix.
func Classify(sender, subject, content string) models.Classification {
	_ = sender // kept in the signature; scoring only looks at subject and content
	text := strings.ToLower(subject + " " + content)

	score := 0.5
	for _, keyword := range importantKeywords {
		if strings.Contains(text, keyword) {
			score += 0.2
		}
	}
	for _, keyword := range lowPriorityKeywords {
		if strings.Contains(text, keyword) {
			score -= 0.3
		}
	}
	score = clamp(score, 0.0, 1.0)

	var labels []string
	if score > 0.7 {
		labels = append(labels, "high-priority")
	}
	if strings.Contains(text, "meeting") || strings.Contains(text, "call") {
		labels = append(labels, "scheduling")
	}
	if strings.Contains(text, "client") || strings.Contains(text, "customer") || strings.Contains(text, "proposal") {
		labels = append(labels, "business")
	}

	return models.Classification{
		PriorityScore: score,
		Labels:        labels,
		IsImportant:   score > 0.6,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
