package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

// Sender is the subset of *tgbotapi.BotAPI the poller needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Serve answers updates until ctx is done or the channel closes. A failing
// command is logged and never stops the loop.
func Serve(ctx context.Context, updates tgbotapi.UpdatesChannel, sender Sender, handler *Handler, logger *logging.Logger) error {
	logger = logging.OrNop(logger)
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handleUpdate(ctx, update, sender, handler, logger)
		}
	}
}

func handleUpdate(ctx context.Context, update tgbotapi.Update, sender Sender, handler *Handler, logger *logging.Logger) {
	var catcher panics.Catcher
	catcher.Try(func() {
		reply, ok := handler.HandleMessage(ctx, update.Message)
		if !ok {
			return
		}
		if _, err := sender.Send(reply); err != nil {
			logger.WarnContext(ctx, "send telegram reply failed", "chat_id", reply.ChatID, "error", err)
		}
	})
	if recovered := catcher.Recovered(); recovered != nil {
		logger.ErrorContext(ctx, "telegram update panicked", "update_id", update.UpdateID, "error", recovered.AsError())
	}
}
