package summary

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/momo-assistant/backend/internal/models"
)

const digestTopN = 10

// Both digest paths emit these section headings so callers can treat the
// outputs interchangeably.
var digestSections = []string{
	"Executive Overview",
	"Priority Actions",
	"Key Themes",
	"Task Summary",
	"Sender Analysis",
}

// Digest produces an inbox-wide executive brief over the classified list.
// The collaborator path and the deterministic path share the same section
// headings.
func (s *Summarizer) Digest(ctx context.Context, msgs []models.ClassifiedMessage) string {
	if len(msgs) == 0 {
		return "No emails to summarize."
	}

	if s.gen != nil {
		text, err := s.generateDigest(ctx, msgs)
		if err == nil {
			return text
		}
		if isRateLimited(err) {
			log.Printf("Summarizer: rate limit hit for digest, using fallback: %v", err)
		} else {
			log.Printf("Summarizer: digest generation failed, using fallback: %v", err)
		}
	}
	return fallbackDigest(msgs)
}

func (s *Summarizer) generateDigest(ctx context.Context, msgs []models.ClassifiedMessage) (string, error) {
	top := msgs
	if len(top) > digestTopN {
		top = top[:digestTopN]
	}

	var b strings.Builder
	for _, m := range top {
		fmt.Fprintf(&b, "- subject: %s | sender: %s | priority: %.2f | has_tasks: %t | labels: %s | preview: %s\n",
			m.Subject, senderName(m.Sender), m.PriorityScore, m.HasTasks,
			strings.Join(m.Labels, ","), truncateRunes(m.Body, 200))
	}

	var sections strings.Builder
	for i, heading := range digestSections {
		fmt.Fprintf(&sections, "%d. **%s**\n", i+1, heading)
	}

	prompt := fmt.Sprintf(`Analyze these %d emails and provide a comprehensive executive summary:

Email Data:
%s
Please provide exactly these sections:
%s
Keep it concise but comprehensive, under 200 words.`,
		len(msgs), b.String(), sections.String())

	return s.generate(ctx, prompt, GenerateOptions{
		Temperature:     0.3,
		MaxOutputTokens: 250,
		TopP:            0.8,
		TopK:            40,
	})
}

// fallbackDigest composes the executive brief from counts alone.
func fallbackDigest(msgs []models.ClassifiedMessage) string {
	total := len(msgs)
	highPriority := 0
	withTasks := 0
	important := 0
	senderCounts := make(map[string]int)
	labelCounts := make(map[string]int)
	var urgent []string

	for _, m := range msgs {
		if m.PriorityScore > 0.7 {
			highPriority++
		}
		if m.HasTasks {
			withTasks++
		}
		if m.IsImportant {
			important++
		}
		senderCounts[senderName(m.Sender)]++
		for _, label := range m.Labels {
			labelCounts[label]++
		}
		if m.PriorityScore > 0.8 && len(urgent) < 3 {
			urgent = append(urgent, truncateRunes(m.Subject, 40))
		}
	}

	topSenders := topCounts(senderCounts, 3)
	topLabels := topCounts(labelCounts, 3)

	themes := "• General correspondence"
	if len(topLabels) > 0 {
		themes = "• " + strings.Join(topLabels, " • ")
	}
	senders := "• Various senders"
	if len(topSenders) > 0 {
		senders = "• " + strings.Join(topSenders, " • ")
	}
	urgentLine := "no urgent items"
	if len(urgent) > 0 {
		urgentLine = "urgent: " + strings.Join(urgent, "; ")
	}

	return fmt.Sprintf(`**Executive Overview**: You have %d emails today with %d high-priority items requiring attention.

**Priority Actions**:
• %d high-priority emails need immediate review (%s)
• %d emails contain tasks or meeting requests
• %d emails marked as important

**Key Themes**:
%s

**Task Summary**: %d emails contain actionable items including meetings, deadlines, or follow-ups.

**Sender Analysis**:
%s`,
		total, highPriority,
		highPriority, urgentLine,
		withTasks,
		important,
		themes,
		withTasks,
		senders)
}

// topCounts returns up to n "name (count)" entries, highest count first.
// Ties break alphabetically so the output is deterministic.
func topCounts(counts map[string]int, n int) []string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (%d)", e.name, e.count))
	}
	return out
}
