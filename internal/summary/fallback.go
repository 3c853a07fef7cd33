package summary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/momo-assistant/backend/internal/models"
)

var errNoGenerator = errors.New("no generator configured")

// actionKeywords flag a message body as asking for something.
var actionKeywords = []string{
	"please", "need", "request", "action", "review",
	"approve", "sign", "meeting", "call", "schedule",
}

// fallbackSummary composes a deterministic summary without the collaborator.
// One of two fixed templates is chosen by scanning the start of the body for
// action vocabulary.
func fallbackSummary(msg models.ClassifiedMessage) string {
	content := truncateRunes(msg.Body, 400)
	sender := senderName(msg.Sender)

	hasAction := false
	lower := strings.ToLower(content)
	for _, keyword := range actionKeywords {
		if strings.Contains(lower, keyword) {
			hasAction = true
			break
		}
	}

	excerpt := strings.TrimSpace(truncateRunes(content, 100))
	if len([]rune(content)) > 100 {
		excerpt += "..."
	}

	if hasAction {
		return fmt.Sprintf(
			"This email from %s is about %s. Based on the content, it appears to require some action or response from you. The email discusses %s",
			sender, strings.ToLower(msg.Subject), excerpt)
	}
	return fmt.Sprintf(
		"This is an informational email from %s regarding %s. The message covers %s",
		sender, strings.ToLower(msg.Subject), excerpt)
}

// senderName derives a display name from a From header: the part before the
// angle bracket when present ("Jane Doe <jane@x.com>"), otherwise the part
// before the @.
func senderName(sender string) string {
	if strings.Contains(sender, "<") {
		return strings.TrimSpace(strings.SplitN(sender, "<", 2)[0])
	}
	return strings.SplitN(sender, "@", 2)[0]
}
