package classify

import (
	"sort"

	"github.com/momo-assistant/backend/internal/gmail"
	"github.com/momo-assistant/backend/internal/models"
)

// Rank decodes, classifies, and sorts a batch of raw messages.
//
// The sort is stable on two keys: task-bearing messages first, then priority
// score descending. Messages that tie on both keys keep their fetch order.
func Rank(raw []models.RawMessage) []models.ClassifiedMessage {
	classified := make([]models.ClassifiedMessage, 0, len(raw))

	for _, msg := range raw {
		body := gmail.DecodeBody(msg.Payload)
		c := Classify(msg.Sender, msg.Subject, body)

		classified = append(classified, models.ClassifiedMessage{
			ID:            msg.ID,
			Sender:        msg.Sender,
			Subject:       msg.Subject,
			Date:          msg.Date,
			Body:          body,
			PriorityScore: c.PriorityScore,
			Labels:        c.Labels,
			IsImportant:   c.IsImportant,
			HasTasks:      HasTasks(body),
		})
	}

	sort.SliceStable(classified, func(i, j int) bool {
		if classified[i].HasTasks != classified[j].HasTasks {
			return classified[i].HasTasks
		}
		return classified[i].PriorityScore > classified[j].PriorityScore
	})

	return classified
}
