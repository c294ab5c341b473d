package bot

import (
	"context"
	"strconv"
	"strings"

	"foodorder-telegram/lang"
	"foodorder-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// screenMarkup converts ScreenContent.Buttons to a Telegram inline keyboard (URL vs callback).
func screenMarkup(c services.ScreenContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.URL != "" {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
			}
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (b *Bot) openFood(ctx context.Context, chatID, userID, foodID int64) {
	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.push(&frame{screen: services.ScreenFoodDetails, foodID: foodID})
	b.enterScreenLocked(ctx, chatID, userID, sess)
}

func (b *Bot) openOrders(ctx context.Context, chatID, userID int64) {
	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.push(&frame{screen: services.ScreenOrderHistory})
	b.enterScreenLocked(ctx, chatID, userID, sess)
}

func (b *Bot) back(ctx context.Context, chatID, userID int64) {
	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	b.navigateBackLocked(ctx, chatID, userID, sess)
}

func (b *Bot) navigateBackLocked(ctx context.Context, chatID, userID int64, sess *session) {
	sess.pop()
	b.enterScreenLocked(ctx, chatID, userID, sess)
}

func (b *Bot) showLanguage(ctx context.Context, chatID int64) {
	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	b.sendScreenLocked(ctx, chatID, sess, services.ScreenLanguage, services.BuildLanguageCard())
}

// enterScreenLocked shows the top of the stack as a new message, starting its
// load first if the frame has no state yet.
func (b *Bot) enterScreenLocked(ctx context.Context, chatID, userID int64, sess *session) {
	fr := sess.top()
	if fr != nil && !fr.loading {
		switch {
		case fr.screen == services.ScreenFoodDetails && fr.details == nil:
			fr.details = services.NewFoodDetails(fr.foodID)
			fr.loading = true
			b.goAsync(func() { b.loadFood(ctx, chatID, userID, sess, fr) })
		case fr.screen == services.ScreenOrderHistory && fr.history == nil:
			fr.loading = true
			b.goAsync(func() { b.loadOrders(ctx, chatID, userID, sess, fr) })
		}
	}
	content := b.frameContent(fr, b.getLang(ctx, userID))
	b.sendScreenLocked(ctx, chatID, sess, sess.screen(), content)
}

func (b *Bot) frameContent(fr *frame, langCode string) services.ScreenContent {
	if fr == nil {
		return services.BuildHomeCard(langCode)
	}
	if fr.loading {
		return services.ScreenContent{
			Text:    lang.T(langCode, "loading"),
			Buttons: [][]services.ScreenButton{{{Text: lang.T(langCode, "back"), CallbackData: services.CallbackBack}}},
		}
	}
	switch fr.screen {
	case services.ScreenFoodDetails:
		return services.BuildFoodDetailsCard(fr.details, langCode, b.locale)
	case services.ScreenOrderHistory:
		return services.BuildOrderHistoryCard(fr.history, langCode)
	}
	return services.BuildHomeCard(langCode)
}

// loadFood runs the food and favorite requests without holding the session
// lock, then applies the result. A frame popped in the meantime is left alone.
func (b *Bot) loadFood(ctx context.Context, chatID, userID int64, sess *session, fr *frame) {
	loaded := services.NewFoodDetails(fr.foodID)
	loaded.Load(ctx, b.food, b.locale)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fr.loading = false
	if !sess.contains(fr) {
		return
	}
	if loaded.Loaded() {
		fr.details.SetFood(loaded.Food, b.locale)
	}
	fr.details.Favorite = loaded.Favorite
	fr.details.FavoriteUncertain = loaded.FavoriteUncertain
	if sess.showing(fr) {
		b.editScreenLocked(ctx, chatID, sess, b.frameContent(fr, b.getLang(ctx, userID)))
	}
}

func (b *Bot) loadOrders(ctx context.Context, chatID, userID int64, sess *session, fr *frame) {
	history := services.LoadOrderHistory(ctx, b.food, b.locale)
	failed, err := services.ListFailedSubmissions(ctx, chatID, 5)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("list failed submissions")
	}
	history.Failed = failed

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fr.loading = false
	if !sess.contains(fr) {
		return
	}
	fr.history = history
	if sess.showing(fr) {
		b.editScreenLocked(ctx, chatID, sess, b.frameContent(fr, b.getLang(ctx, userID)))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	userID := chatID
	if cq.From != nil {
		userID = cq.From.ID
	}
	data := cq.Data

	if strings.HasPrefix(data, services.CallbackLang) {
		langCode := strings.TrimPrefix(data, services.CallbackLang)
		if !lang.Valid(langCode) {
			b.answer(cq.ID, "")
			return
		}
		b.answer(cq.ID, lang.T(langCode, "language_changed"))
		b.setLang(ctx, userID, langCode)
		sess := b.session(chatID)
		sess.mu.Lock()
		defer sess.mu.Unlock()
		b.enterScreenLocked(ctx, chatID, userID, sess)
		return
	}

	sess := b.session(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.messageID != cq.Message.MessageID {
		// Buttons of a screen that is no longer active (or from before a restart).
		b.answer(cq.ID, "")
		b.retireMessage(chatID, cq.Message.MessageID)
		return
	}
	if data == services.CallbackBack {
		b.answer(cq.ID, "")
		b.navigateBackLocked(ctx, chatID, userID, sess)
		return
	}

	fr := sess.top()
	if fr == nil || fr.screen != services.ScreenFoodDetails || !sess.showing(fr) || fr.loading || fr.details == nil {
		b.answer(cq.ID, "")
		return
	}
	s := fr.details
	l := b.getLang(ctx, userID)

	switch {
	case strings.HasPrefix(data, services.CallbackExtraInc):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, services.CallbackExtraInc), 10, 64); err == nil {
			s.IncrementExtra(id)
		}
	case strings.HasPrefix(data, services.CallbackExtraDec):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, services.CallbackExtraDec), 10, 64); err == nil {
			s.DecrementExtra(id)
		}
	case data == services.CallbackQuantityInc:
		s.IncrementQuantity()
	case data == services.CallbackQuantityDec:
		s.DecrementQuantity()
	case data == services.CallbackFavorite:
		action := s.ToggleFavorite()
		food := s.Food
		b.goAsync(func() { services.SyncFavorite(ctx, b.food, food, action) })
	case data == services.CallbackConfirm:
		if !s.Loaded() {
			b.answer(cq.ID, "")
			return
		}
		b.answer(cq.ID, lang.T(l, "order_sent"))
		if b.submitOrder(ctx, chatID, l, s) == services.CommandNavigateBack {
			b.navigateBackLocked(ctx, chatID, userID, sess)
		}
		return
	}
	b.answer(cq.ID, "")
	b.editScreenLocked(ctx, chatID, sess, b.frameContent(fr, l))
}

// submitOrder records the submission, fires it and reports failures back to
// the chat once the backend answers.
func (b *Bot) submitOrder(ctx context.Context, chatID int64, langCode string, s *services.FoodDetails) services.Command {
	payload := s.OrderPayload()
	total := s.Total()
	formattedTotal := services.FormatValue(total, b.locale)
	log := logrus.WithFields(logrus.Fields{"action": "submit_order", "chat_id": chatID, "product_id": payload.ProductID})

	ledgerID, err := services.RecordSubmission(ctx, chatID, payload, total)
	if err != nil {
		log.WithError(err).Warn("record submission")
	}

	b.inflight.Add(1)
	return services.SubmitOrder(ctx, b.food, payload, func(submitErr error) {
		defer b.inflight.Done()
		// The update loop may be shutting down; the ledger still gets the outcome.
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), services.SubmitTimeout)
		defer cancel()
		if err := services.FinishSubmission(finishCtx, ledgerID, submitErr); err != nil {
			log.WithError(err).Warn("finish submission")
		}
		if submitErr != nil {
			b.send(chatID, lang.T(langCode, "order_failed", formattedTotal))
			return
		}
		log.Info("order submitted")
	})
}

// sendScreenLocked sends content as the new active screen message and strips
// the keyboard from the previous one.
func (b *Bot) sendScreenLocked(ctx context.Context, chatID int64, sess *session, screen string, content services.ScreenContent) {
	prevID := sess.messageID
	if prevID == 0 {
		if _, id, ok, err := services.GetScreenMessagePointer(ctx, chatID); err != nil {
			logrus.WithError(err).WithField("chat_id", chatID).Warn("get screen pointer")
		} else if ok {
			prevID = id
		}
	}
	if prevID != 0 {
		b.retireMessage(chatID, prevID)
	}

	msg := tgbotapi.NewMessage(chatID, content.Text)
	if kb := screenMarkup(content); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"chat_id": chatID, "screen": screen}).Error("send screen")
		return
	}
	sess.messageID = sent.MessageID
	sess.active = screen
	if err := services.UpsertScreenMessagePointer(ctx, chatID, screen, sent.MessageID); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("save screen pointer")
	}
}

// editScreenLocked updates the active screen message in place.
// On "message not found" (e.g. deleted): send a new one. On "message is not modified": ignore.
func (b *Bot) editScreenLocked(ctx context.Context, chatID int64, sess *session, content services.ScreenContent) {
	if sess.messageID == 0 {
		b.sendScreenLocked(ctx, chatID, sess, sess.screen(), content)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, sess.messageID, content.Text)
	if kb := screenMarkup(content); kb != nil {
		edit.ReplyMarkup = kb
	} else {
		emptyKb := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		edit.ReplyMarkup = &emptyKb
	}
	if _, err := b.api.Send(edit); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "not modified") {
			return
		}
		if strings.Contains(errStr, "not found") {
			sess.messageID = 0
			b.sendScreenLocked(ctx, chatID, sess, sess.screen(), content)
			return
		}
		logrus.WithError(err).WithField("chat_id", chatID).Error("edit screen")
	}
}

// retireMessage removes the inline keyboard of a screen message that is no longer active.
func (b *Bot) retireMessage(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Debug("retire screen message")
	}
}
