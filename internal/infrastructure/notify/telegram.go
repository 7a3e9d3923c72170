package notify

import (
	"fmt"
	"sync/atomic"

	"duckwheel/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier sends short operational messages to the people running the wheel.
type Notifier interface {
	NotifyAdmin(text string)
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) NotifyAdmin(string) {}

// TelegramNotifier posts to a single admin chat. When no chat id is
// configured, the first /start command the bot receives registers one and
// later /start commands from other chats are ignored.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID atomic.Int64
}

func NewTelegramNotifier(cfg *config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	n := &TelegramNotifier{bot: bot}
	n.chatID.Store(cfg.AdminChatID)

	logrus.WithField("bot", bot.Self.UserName).Info("telegram bot authorized")
	if cfg.AdminChatID == 0 {
		go n.listenForStart()
	}
	return n, nil
}

func (n *TelegramNotifier) listenForStart() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range n.bot.GetUpdatesChan(u) {
		if update.Message == nil || !update.Message.IsCommand() || update.Message.Command() != "start" {
			continue
		}
		chatID := update.Message.Chat.ID
		if !n.registerAdminChat(chatID) {
			logrus.WithField("chat_id", chatID).Debug("telegram admin chat already registered, /start ignored")
			continue
		}
		logrus.WithField("chat_id", chatID).Info("telegram admin chat registered")
		n.send(chatID, "Duck wheel notifications will arrive in this chat.")
	}
}

// registerAdminChat claims the admin chat if none is set yet.
func (n *TelegramNotifier) registerAdminChat(chatID int64) bool {
	if chatID == 0 {
		return false
	}
	return n.chatID.CompareAndSwap(0, chatID)
}

func (n *TelegramNotifier) NotifyAdmin(text string) {
	chatID := n.chatID.Load()
	if chatID == 0 {
		logrus.Debug("telegram admin chat unknown, notification dropped")
		return
	}
	n.send(chatID, text)
}

func (n *TelegramNotifier) send(chatID int64, text string) {
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logrus.WithError(err).Warn("telegram notification failed")
	}
}

// StopListening ends the /start listener, if one is running.
func (n *TelegramNotifier) StopListening() {
	n.bot.StopReceivingUpdates()
}
