package mailer

import (
	"errors"
	"strings"
)

// Message is a single outbound email. To must hold at least one address.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

var errNoRecipients = errors.New("message has no recipients")

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		if clean := strings.TrimSpace(addr); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
