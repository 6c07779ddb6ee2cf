package vntext

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayZone is the zone dates are shown in. A fixed offset avoids
// depending on tzdata in minimal containers; Vietnam has no DST.
var DisplayZone = time.FixedZone("ICT", 7*60*60)

// FormatCount groups n the vi-VN way, e.g. 12.345.
func FormatCount(n int64) string {
	return message.NewPrinter(language.Vietnamese).Sprint(number.Decimal(n))
}

// FormatDecimal renders v with at most one fraction digit and a decimal
// comma, e.g. 18,5.
func FormatDecimal(v float64) string {
	return message.NewPrinter(language.Vietnamese).Sprint(number.Decimal(v, number.MaxFractionDigits(1)))
}

// FormatCurrency renders a VND amount, e.g. "1.000.000\u00a0₫". VND has no
// minor unit, so amounts are rounded to whole dong.
func FormatCurrency(amount float64) string {
	return FormatCount(int64(math.Round(amount))) + "\u00a0₫"
}

// FormatDate renders the vi-VN long date, e.g. "3 tháng 12, 2025".
func FormatDate(t time.Time) string {
	t = t.In(DisplayZone)
	return fmt.Sprintf("%d tháng %d, %d", t.Day(), int(t.Month()), t.Year())
}

// FormatShortDate renders the vi-VN numeric date, e.g. "3/12/2025".
func FormatShortDate(t time.Time) string {
	t = t.In(DisplayZone)
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}
