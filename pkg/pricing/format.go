package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencyLocales maps each supported currency to the locale used for digit
// grouping. All three group thousands with a comma, but keeping the mapping
// explicit makes adding EU regions a table change rather than a code change.
var currencyLocales = map[CurrencyCode]language.Tag{
	KRW: language.Korean,
	JPY: language.Japanese,
	USD: language.AmericanEnglish,
}

// zeroSubunit marks currencies with no fractional subunit. They render with
// no decimal point at all.
var zeroSubunit = map[CurrencyCode]bool{
	KRW: true,
	JPY: true,
}

// Format renders an amount with locale-appropriate digit grouping. Zero
// subunit currencies (KRW, JPY) render as grouped integers; everything else
// renders with two decimals.
func Format(amount float64, currency CurrencyCode) string {
	tag, ok := currencyLocales[currency]
	if !ok {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	if zeroSubunit[currency] {
		return p.Sprintf("%d", int64(math.Round(amount)))
	}
	return p.Sprintf("%.2f", amount)
}

// FormatPrice renders a computed Price.
func FormatPrice(pr Price) string {
	return Format(pr.Amount, pr.Currency)
}
