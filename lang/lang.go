package lang

import "fmt"

const (
	Pt = "pt"
	En = "en"
)

// Default is used when a chat has not picked a language yet.
const Default = Pt

var messages = map[string]map[string]string{
	Pt: {
		"home":               "🍽 Bem-vindo!\n\n/food <id> — detalhes do prato\n/orders — meus pedidos\n/language — idioma",
		"choose_lang":        "Escolha o idioma / Choose a language",
		"language_changed":   "Idioma alterado ✅",
		"usage_food":         "Uso: /food <id>",
		"loading":            "Carregando...",
		"extras":             "Adicionais",
		"no_extras":          "Sem adicionais",
		"order_total":        "Total do pedido",
		"quantity":           "Quantidade",
		"confirm_order":      "✅ Confirmar pedido",
		"back":               "⬅️ Voltar",
		"favorite_on":        "♥ Favorito",
		"favorite_off":       "♡ Favoritar",
		"favorite_uncertain": "⚠️ Não foi possível verificar o favorito",
		"food_unavailable":   "Não foi possível carregar o prato #%d",
		"image":              "Imagem",
		"my_orders":          "🛍 Meus pedidos",
		"my_orders_empty":    "Nenhum pedido ainda.",
		"order_sent":         "Pedido enviado 🧾",
		"order_failed":       "❌ Não foi possível registrar seu pedido de %s. Tente novamente.",
		"unknown_command":    "Comando desconhecido. Use /start",
		"failed_submissions": "⚠️ Pedidos não enviados: %d",
		"more_orders":        "… e mais %d pedidos",
	},
	En: {
		"home":               "🍽 Welcome!\n\n/food <id> — food details\n/orders — my orders\n/language — language",
		"choose_lang":        "Escolha o idioma / Choose a language",
		"language_changed":   "Language changed ✅",
		"usage_food":         "Usage: /food <id>",
		"loading":            "Loading...",
		"extras":             "Extras",
		"no_extras":          "No extras",
		"order_total":        "Order total",
		"quantity":           "Quantity",
		"confirm_order":      "✅ Confirm order",
		"back":               "⬅️ Back",
		"favorite_on":        "♥ Favorite",
		"favorite_off":       "♡ Add to favorites",
		"favorite_uncertain": "⚠️ Could not check favorite status",
		"food_unavailable":   "Could not load food #%d",
		"image":              "Image",
		"my_orders":          "🛍 My orders",
		"my_orders_empty":    "No orders yet.",
		"order_sent":         "Order sent 🧾",
		"order_failed":       "❌ Your order of %s could not be placed. Please try again.",
		"unknown_command":    "Unknown command. Use /start",
		"failed_submissions": "⚠️ Orders not placed: %d",
		"more_orders":        "… and %d more orders",
	},
}

// Valid reports whether code is a supported language.
func Valid(code string) bool {
	_, ok := messages[code]
	return ok
}

// T returns the translation of key in langCode, formatted with args. Unknown
// languages fall back to Default, unknown keys to the key itself.
func T(langCode, key string, args ...interface{}) string {
	m, ok := messages[langCode]
	if !ok {
		m = messages[Default]
	}
	s, ok := m[key]
	if !ok {
		if s, ok = messages[Default][key]; !ok {
			s = key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}
