package sink

import (
	"context"
	"errors"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "wellbot/pkg/logx"
)

// TelegramConfig configures the optional Telegram delivery sink, used on
// headless installs where there is no notification shade to post to.
type TelegramConfig struct {
	Enabled bool
	Token   string
	ChatID  int64
}

type Telegram struct {
	bot    *tele.Bot
	chatID int64
	log    logx.Logger
}

func NewTelegram(cfg TelegramConfig, log logx.Logger) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	// Send-only: no poller, we never consume updates.
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Telegram{bot: b, chatID: cfg.ChatID, log: log}, nil
}

func (t *Telegram) Deliver(ctx context.Context, n Notification) error {
	text := n.Title
	if n.Body != "" {
		text += "\n" + n.Body
	}
	_, err := t.bot.Send(tele.ChatID(t.chatID), text, &tele.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		t.log.Warn("telegram delivery failed",
			logx.String("id", n.ID),
			logx.String("category", n.Category),
			logx.Err(err),
		)
		return err
	}
	t.log.Debug("telegram delivery ok",
		logx.String("id", n.ID),
		logx.String("category", n.Category),
		logx.Duration("age", time.Since(n.FiredAt)),
	)
	return nil
}
