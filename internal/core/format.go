package core

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders an amount with the currency and conventions of the
// given locale tag ("pt-BR" → R$). Formatting lives outside the numeric
// model: Summary values stay exact and unformatted. The float conversion
// here is display-only.
func FormatCurrency(m Money, tag language.Tag) string {
	unit, conf := currency.FromTag(tag)
	if conf == language.No {
		unit = currency.USD
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(m.Units())))
}
