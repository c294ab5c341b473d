package services

import (
	"fmt"
	"strconv"
	"strings"

	"foodorder-telegram/lang"
)

// Callback data sent by the screen buttons.
const (
	CallbackExtraInc    = "xinc:"
	CallbackExtraDec    = "xdec:"
	CallbackQuantityInc = "qinc"
	CallbackQuantityDec = "qdec"
	CallbackFavorite    = "fav"
	CallbackConfirm     = "confirm"
	CallbackBack        = "back"
	CallbackLang        = "lang:"
)

const (
	// MaxMessageLength is Telegram's text limit, counted in UTF-16 code units.
	MaxMessageLength = 4096
	// historyMaxOrders is how many orders the history screen lists.
	historyMaxOrders = 10
)

// ScreenButton is one inline button (text + callback_data or url).
type ScreenButton struct {
	Text         string
	CallbackData string
	URL          string // if set, use as URL button instead of callback
}

// ScreenContent is the text and optional inline keyboard of a chat screen.
type ScreenContent struct {
	Text    string
	Buttons [][]ScreenButton
}

var favoriteLabels = map[string]string{
	"favorite":        "favorite_on",
	"favorite-border": "favorite_off",
}

// BuildFoodDetailsCard renders the food details screen. The first row is the
// header favorite toggle.
func BuildFoodDetailsCard(s *FoodDetails, langCode string, loc Locale) ScreenContent {
	var buttons [][]ScreenButton
	favText := lang.T(langCode, favoriteLabels[s.FavoriteIcon()])
	buttons = append(buttons, []ScreenButton{{Text: favText, CallbackData: CallbackFavorite}})

	if !s.Loaded() {
		text := lang.T(langCode, "food_unavailable", s.FoodID)
		buttons = append(buttons, []ScreenButton{{Text: lang.T(langCode, "back"), CallbackData: CallbackBack}})
		return ScreenContent{Text: text, Buttons: buttons}
	}

	var b strings.Builder
	f := s.Food
	fmt.Fprintf(&b, "🍔 %s\n", f.Name)
	if f.Description != "" {
		fmt.Fprintf(&b, "%s\n", f.Description)
	}
	fmt.Fprintf(&b, "💰 %s\n", f.FormattedPrice)
	if s.FavoriteUncertain {
		fmt.Fprintf(&b, "%s\n", lang.T(langCode, "favorite_uncertain"))
	}

	fmt.Fprintf(&b, "\n%s:\n", lang.T(langCode, "extras"))
	if len(s.Extras) == 0 {
		fmt.Fprintf(&b, "%s\n", lang.T(langCode, "no_extras"))
	}
	for _, e := range s.Extras {
		fmt.Fprintf(&b, "• %s (%s) × %d\n", e.Name, FormatValue(e.Value, loc), e.Quantity)
		id := strconv.FormatInt(e.ID, 10)
		buttons = append(buttons, []ScreenButton{
			{Text: "➖", CallbackData: CallbackExtraDec + id},
			{Text: fmt.Sprintf("%s × %d", e.Name, e.Quantity), CallbackData: CallbackExtraInc + id},
			{Text: "➕", CallbackData: CallbackExtraInc + id},
		})
	}

	fmt.Fprintf(&b, "\n%s: %d\n", lang.T(langCode, "quantity"), s.Quantity)
	fmt.Fprintf(&b, "%s: %s", lang.T(langCode, "order_total"), s.FormattedTotal(loc))

	buttons = append(buttons,
		[]ScreenButton{
			{Text: "➖", CallbackData: CallbackQuantityDec},
			{Text: strconv.Itoa(s.Quantity), CallbackData: CallbackQuantityInc},
			{Text: "➕", CallbackData: CallbackQuantityInc},
		},
		[]ScreenButton{{Text: lang.T(langCode, "confirm_order"), CallbackData: CallbackConfirm}},
	)
	if f.ImageURL != "" {
		buttons = append(buttons, []ScreenButton{{Text: "🖼 " + lang.T(langCode, "image"), URL: f.ImageURL}})
	}
	buttons = append(buttons, []ScreenButton{{Text: lang.T(langCode, "back"), CallbackData: CallbackBack}})
	return ScreenContent{Text: truncateMessage(b.String(), MaxMessageLength), Buttons: buttons}
}

// BuildOrderHistoryCard renders the list of previous orders.
func BuildOrderHistoryCard(h *OrderHistory, langCode string) ScreenContent {
	var b strings.Builder
	b.WriteString(lang.T(langCode, "my_orders"))
	b.WriteString("\n\n")
	if h != nil && len(h.Failed) > 0 {
		b.WriteString(lang.T(langCode, "failed_submissions", len(h.Failed)))
		b.WriteString("\n\n")
	}
	if h == nil || len(h.Orders) == 0 {
		b.WriteString(lang.T(langCode, "my_orders_empty"))
	} else {
		shown := h.Orders
		if len(shown) > historyMaxOrders {
			shown = shown[:historyMaxOrders]
		}
		for _, o := range shown {
			fmt.Fprintf(&b, "#%d %s — %s\n", o.ID, o.Name, o.FormattedPrice)
			if o.Description != "" {
				fmt.Fprintf(&b, "%s\n", o.Description)
			}
			if o.ThumbnailURL != "" {
				fmt.Fprintf(&b, "%s\n", o.ThumbnailURL)
			}
			b.WriteString("\n")
		}
		if more := len(h.Orders) - len(shown); more > 0 {
			b.WriteString(lang.T(langCode, "more_orders", more))
		}
	}
	buttons := [][]ScreenButton{{{Text: lang.T(langCode, "back"), CallbackData: CallbackBack}}}
	return ScreenContent{Text: truncateMessage(strings.TrimRight(b.String(), "\n"), MaxMessageLength), Buttons: buttons}
}

// truncateMessage cuts s so it fits in limit UTF-16 code units, ending with "…"
// when something was dropped.
func truncateMessage(s string, limit int) string {
	if utf16Len(s) <= limit {
		return s
	}
	units := 0
	for i, r := range s {
		n := runeUnits(r)
		if units+n > limit-1 {
			return s[:i] + "…"
		}
		units += n
	}
	return s
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// runeUnits is the UTF-16 length of r; runes outside the BMP take a surrogate pair.
func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func BuildHomeCard(langCode string) ScreenContent {
	return ScreenContent{Text: lang.T(langCode, "home")}
}

func BuildLanguageCard() ScreenContent {
	return ScreenContent{
		Text: lang.T(lang.Default, "choose_lang"),
		Buttons: [][]ScreenButton{{
			{Text: "Português", CallbackData: CallbackLang + lang.Pt},
			{Text: "English", CallbackData: CallbackLang + lang.En},
		}},
	}
}
