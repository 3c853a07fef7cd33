package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"

	gmailapi "google.golang.org/api/gmail/v1"
)

const (
	// maxBodyLength caps the decoded body, applied after trimming.
	maxBodyLength = 1000

	// NoContentSentinel is returned when a message has no decodable body.
	NoContentSentinel = "No content available"
	// ExtractErrorSentinel is returned when body decoding fails.
	ExtractErrorSentinel = "Could not extract email content"
)

// tagPattern removes anything that looks like an HTML tag. This is a lossy,
// non-validating rule that can mis-handle malformed markup; it is an accepted
// approximation, not a parser.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// DecodeBody converts a Gmail message payload into plain text.
//
// Multi-part payloads are scanned in order: the first text/plain part with a
// non-empty encoded body wins; failing that, the first text/html part is used
// with tags stripped. Single-part payloads decode directly when declared as
// text/plain or text/html. The result is trimmed and capped at 1000
// characters. DecodeBody never fails: an undecodable payload produces a
// sentinel string instead.
func DecodeBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return NoContentSentinel
	}

	body := ""

	switch {
	case len(payload.Parts) > 0:
		for _, part := range payload.Parts {
			if part == nil || part.Body == nil || part.Body.Data == "" {
				continue
			}
			if part.MimeType == "text/plain" {
				decoded, err := decodeBase64(part.Body.Data)
				if err != nil {
					return ExtractErrorSentinel
				}
				body = decoded
				break
			}
			if part.MimeType == "text/html" && body == "" {
				decoded, err := decodeBase64(part.Body.Data)
				if err != nil {
					return ExtractErrorSentinel
				}
				body = tagPattern.ReplaceAllString(decoded, "")
			}
		}

	case payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "":
		decoded, err := decodeBase64(payload.Body.Data)
		if err != nil {
			return ExtractErrorSentinel
		}
		body = decoded

	case payload.MimeType == "text/html" && payload.Body != nil && payload.Body.Data != "":
		decoded, err := decodeBase64(payload.Body.Data)
		if err != nil {
			return ExtractErrorSentinel
		}
		body = tagPattern.ReplaceAllString(decoded, "")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return NoContentSentinel
	}
	if runes := []rune(body); len(runes) > maxBodyLength {
		body = string(runes[:maxBodyLength])
	}
	return body
}

// decodeBase64 decodes Gmail's base64url body data. Padding is optional and
// invalid UTF-8 sequences are replaced rather than rejected.
func decodeBase64(data string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}
