package services

import (
	"testing"

	"foodorder-telegram/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity int
		extras   []models.Extra
		want     string
	}{
		{"no extras", "10.00", 1, nil, "10"},
		{"unselected extra", "10.00", 1, []models.Extra{{ID: 1, Value: dec("2.00")}}, "10"},
		{"quantity three", "10.00", 3, []models.Extra{{ID: 1, Value: dec("2.00")}}, "30"},
		{"extras contribute", "10.00", 1, []models.Extra{{ID: 1, Value: dec("1.50"), Quantity: 3}}, "14.5"},
		{"mixed", "19.90", 2, []models.Extra{
			{ID: 1, Value: dec("1.50"), Quantity: 1},
			{ID: 2, Value: dec("0.35"), Quantity: 2},
		}, "42"},
		{"free food", "0", 1, []models.Extra{{ID: 1, Value: dec("3.10"), Quantity: 1}}, "3.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderTotal(dec(tt.price), tt.quantity, tt.extras)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("OrderTotal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderTotal_OrderIndependent(t *testing.T) {
	extras := []models.Extra{
		{ID: 1, Value: dec("0.10"), Quantity: 3},
		{ID: 2, Value: dec("2.75"), Quantity: 1},
		{ID: 3, Value: dec("1.05"), Quantity: 7},
	}
	reversed := []models.Extra{extras[2], extras[1], extras[0]}
	a := OrderTotal(dec("12.30"), 2, extras)
	b := OrderTotal(dec("12.30"), 2, reversed)
	if !a.Equal(b) {
		t.Errorf("total depends on extras order: %s vs %s", a, b)
	}
	// 0.1 summed in binary floating point would drift here.
	if !a.Equal(dec("35.00")) {
		t.Errorf("total = %s, want 35.00", a)
	}
}

func TestCartTotal_NilFood(t *testing.T) {
	got := CartTotal(nil, 2, []models.Extra{{ID: 1, Value: dec("1.50"), Quantity: 2}})
	if !got.Equal(dec("3")) {
		t.Errorf("CartTotal(nil) = %s, want 3", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		amount string
		loc    Locale
		want   string
	}{
		{"10", LocalePtBR, "R$ 10,00"},
		{"0", LocalePtBR, "R$ 0,00"},
		{"4.5", LocalePtBR, "R$ 4,50"},
		{"1234.5", LocalePtBR, "R$ 1.234,50"},
		{"1234567.891", LocalePtBR, "R$ 1.234.567,89"},
		{"0.005", LocalePtBR, "R$ 0,01"},
		{"-7.25", LocalePtBR, "-R$ 7,25"},
		{"-0.001", LocalePtBR, "R$ 0,00"},
		{"30", LocaleEnUS, "$30.00"},
		{"999.999", LocaleEnUS, "$1,000.00"},
		{"123456", LocaleEnUS, "$123,456.00"},
	}
	for _, tt := range tests {
		got := FormatValue(dec(tt.amount), tt.loc)
		if got != tt.want {
			t.Errorf("FormatValue(%s, %s) = %q, want %q", tt.amount, tt.loc.Tag, got, tt.want)
		}
	}
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"en-US", "en-US"},
		{"en", "en-US"},
		{"not a tag!", "pt-BR"},
		{"", "pt-BR"},
	}
	for _, tt := range tests {
		if got := LocaleFor(tt.tag); got.Tag != tt.want {
			t.Errorf("LocaleFor(%q) = %s, want %s", tt.tag, got.Tag, tt.want)
		}
	}
}
