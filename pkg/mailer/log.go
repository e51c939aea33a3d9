package mailer

import (
	"context"
	"strings"

	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

// LogMailer only records what would have been sent. Used when no mail provider is configured.
type LogMailer struct {
	logg *logger.Logger
}

func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	to := msg.recipients()
	if len(to) == 0 {
		return errNoRecipients
	}
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{
			"to":       strings.Join(to, ","),
			"subject":  msg.Subject,
			"reply_to": msg.ReplyTo,
		})
		l.logg.Info(ctx, "mailer.log.send")
	}
	return nil
}
