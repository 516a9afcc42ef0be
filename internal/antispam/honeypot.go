package antispam

import (
	"strings"

	"github.com/mileusna/useragent"
)

// HoneypotField is the decoy input hidden from humans.
const HoneypotField = "website"

// CheckHoneypot reports whether the decoy field was left empty.
func CheckHoneypot(value string) bool {
	return value == ""
}

// IsLikelyBot applies a user-agent heuristic. It is advisory only and is
// used to annotate logs, never to reject a submission.
func IsLikelyBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	ua := useragent.Parse(userAgent)
	return ua.Bot || ua.Name == ""
}
