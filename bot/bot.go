package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"foodorder-telegram/config"
	"foodorder-telegram/lang"
	"foodorder-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot sends through.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	tg     *tgbotapi.BotAPI
	api    telegramAPI
	food   services.FoodAPI
	locale services.Locale

	sessions   map[int64]*session
	sessionsMu sync.RWMutex

	userLang   map[int64]string // "pt" or "en"
	userLangMu sync.RWMutex

	// background loads, favorite syncs and order submissions
	inflight sync.WaitGroup
}

func New(cfg *config.Config, food services.FoodAPI) (*Bot, error) {
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := newBot(tg, food, services.LocaleFor(cfg.Locale))
	b.tg = tg
	return b, nil
}

func newBot(api telegramAPI, food services.FoodAPI, locale services.Locale) *Bot {
	return &Bot{
		api:      api,
		food:     food,
		locale:   locale,
		sessions: make(map[int64]*session),
		userLang: make(map[int64]string),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Início / Home"},
			{Command: "food", Description: "Detalhes do prato / Food details"},
			{Command: "orders", Description: "Meus pedidos / My orders"},
			{Command: "language", Description: "Idioma / Language"},
			{Command: "back", Description: "Voltar / Back"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start polls updates until ctx is cancelled, then waits for background work.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		logrus.WithError(err).Warn("could not register bot commands")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			b.Wait()
			return
		case update, ok := <-updates:
			if !ok {
				b.Wait()
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Wait blocks until every background request started by the bot has finished.
func (b *Bot) Wait() {
	b.inflight.Wait()
}

func (b *Bot) goAsync(fn func()) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		fn()
	}()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	userID := msg.Chat.ID
	if msg.From != nil {
		userID = msg.From.ID
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	cmd, arg, _ := strings.Cut(text, " ")
	// "/food@my_bot 3" in groups
	cmd, _, _ = strings.Cut(cmd, "@")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/start":
		b.handleStart(ctx, chatID, userID)
	case "/food":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			b.send(chatID, lang.T(b.getLang(ctx, userID), "usage_food"))
			return
		}
		b.openFood(ctx, chatID, userID, id)
	case "/orders":
		b.openOrders(ctx, chatID, userID)
	case "/language":
		b.showLanguage(ctx, chatID)
	case "/back":
		b.back(ctx, chatID, userID)
	default:
		b.send(chatID, lang.T(b.getLang(ctx, userID), "unknown_command"))
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	if _, known := b.storedLang(ctx, userID); !known {
		b.showLanguage(ctx, chatID)
		return
	}
	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.reset()
	b.enterScreenLocked(ctx, chatID, userID, sess)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("send error")
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logrus.WithError(err).Debug("answer callback")
	}
}

// storedLang returns the user's language from memory or the database.
func (b *Bot) storedLang(ctx context.Context, userID int64) (string, bool) {
	b.userLangMu.RLock()
	l, ok := b.userLang[userID]
	b.userLangMu.RUnlock()
	if ok {
		return l, true
	}
	stored, ok, err := services.GetCustomerLanguage(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("load customer language")
	}
	if !ok || !lang.Valid(stored) {
		return "", false
	}
	b.userLangMu.Lock()
	b.userLang[userID] = stored
	b.userLangMu.Unlock()
	return stored, true
}

func (b *Bot) getLang(ctx context.Context, userID int64) string {
	if l, ok := b.storedLang(ctx, userID); ok {
		return l
	}
	return lang.Default
}

func (b *Bot) setLang(ctx context.Context, userID int64, langCode string) {
	if !lang.Valid(langCode) {
		return
	}
	b.userLangMu.Lock()
	b.userLang[userID] = langCode
	b.userLangMu.Unlock()
	if err := services.SetCustomerLanguage(ctx, userID, langCode); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("save customer language")
	}
}
