// File: internal/export/markdown.go
package export

import (
	"fmt"
	"strings"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services/chat"
)

// savedOnLayout formats the creation timestamp for the transcript header.
const savedOnLayout = "1/2/2006, 3:04:05 PM"

// Markdown serializes one conversation into a transcript document: title
// heading, saved-on line, then one section per turn separated by rules.
// An empty history yields a header-only document.
func Markdown(conv domain.Conversation) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Decision Log: %s\n\n", conv.Title)
	fmt.Fprintf(&b, "**Saved on:** %s\n\n---\n", conv.CreatedAt.Local().Format(savedOnLayout))

	for _, msg := range conv.History {
		speaker := chat.AssistantName
		if msg.Role == domain.RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n\n---\n", speaker, msg.Text)
	}

	return []byte(b.String())
}

// Filename derives the download name from the conversation title:
// lowercased, with every character outside [a-z0-9] replaced by "_".
func Filename(title string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(title))
	return "decision_log_" + sanitized + ".md"
}
