package services

import (
	"strings"

	"foodorder-telegram/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Locale describes how money is printed for one language/region.
type Locale struct {
	Tag         string
	Symbol      string
	SymbolSpace bool // "R$ 10,00" vs "$10.00"
	Decimal     string
	Group       string
}

var (
	LocalePtBR = Locale{Tag: "pt-BR", Symbol: "R$", SymbolSpace: true, Decimal: ",", Group: "."}
	LocaleEnUS = Locale{Tag: "en-US", Symbol: "$", Decimal: ".", Group: ","}
)

// supportedLocales is ordered like localeMatcher's tags; the first one is the fallback.
var supportedLocales = []Locale{LocalePtBR, LocaleEnUS}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
})

// LocaleFor picks the closest supported locale for a BCP-47 tag. Unknown or
// malformed tags get pt-BR.
func LocaleFor(tag string) Locale {
	t, err := language.Parse(tag)
	if err != nil {
		return supportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(t)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

// OrderTotal is price*quantity plus value*quantity of every extra.
func OrderTotal(price decimal.Decimal, quantity int, extras []models.Extra) decimal.Decimal {
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	for _, e := range extras {
		total = total.Add(e.Value.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}

// CartTotal is OrderTotal for a possibly not yet loaded food; a nil food counts as price 0.
func CartTotal(food *models.Food, quantity int, extras []models.Extra) decimal.Decimal {
	price := decimal.Zero
	if food != nil {
		price = food.Price
	}
	return OrderTotal(price, quantity, extras)
}

// FormatValue renders amount as currency in loc, rounded to cents.
func FormatValue(amount decimal.Decimal, loc Locale) string {
	rounded := amount.Round(2)
	digits := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(loc.Symbol)
	if loc.SymbolSpace {
		b.WriteByte(' ')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(loc.Group)
		}
		b.WriteRune(r)
	}
	b.WriteString(loc.Decimal)
	b.WriteString(frac)
	return b.String()
}
