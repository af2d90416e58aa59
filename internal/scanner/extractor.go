// Package scanner turns raw recognized receipt text into a best-effort
// partial transaction draft. It is pure and deterministic: no I/O, never
// fails, unresolved fields are simply absent.
package scanner

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/core"
)

// Fields is the best-effort guess extracted from receipt text. Amount, Date
// and Remark are independently present-or-absent; Category always resolves,
// falling back to "other".
type Fields struct {
	Amount   *core.Money `json:"amount"`
	Category string      `json:"category"`
	Date     *time.Time  `json:"date"`
	Remark   *string     `json:"remark"`
}

const remarkMaxLen = 30

var (
	// Receipts print money with exactly two fraction digits; integer and
	// three-decimal tokens are deliberately not matched.
	amountRe = regexp.MustCompile(`\d+\.\d{2}`)

	// Three numeric groups separated by -, / or . with group lengths 1-4.
	dateRe = regexp.MustCompile(`\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}`)

	// Layouts tried in order against the matched substring. Year-first forms
	// win, then month/day/year, then day/month/year.
	dateLayouts = []string{
		"2006-1-2", "2006/1/2", "2006.1.2",
		"1/2/2006", "1-2-2006", "1.2.2006",
		"2/1/2006", "2-1-2006", "2.1.2006",
		"1/2/06", "1-2-06", "1.2.06",
	}
)

// Keyword sets tested in fixed priority order; the first set with any match
// wins. Order matters for receipts that mention several domains.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{core.CategoryFood, []string{"restaurant", "cafe", "coffee", "food", "burger", "pizza", "eat", "dining", "menu"}},
	{core.CategoryTransport, []string{"uber", "lyft", "taxi", "train", "transit", "gas", "station", "fuel", "parking"}},
	{core.CategoryShopping, []string{"walmart", "target", "amazon", "shop", "store", "market", "grocery", "mall"}},
	{core.CategoryEntertainment, []string{"movie", "cinema", "ticket", "game", "entertainment", "show"}},
	{core.CategoryBills, []string{"bill", "utility", "electric", "water", "internet", "phone"}},
}

// Extract maps recognized receipt text to Fields. The worst case for noisy
// or empty input is all optional fields absent and category "other".
func Extract(text string) Fields {
	lines := nonEmptyLines(text)

	return Fields{
		Amount:   extractAmount(text, lines),
		Category: extractCategory(text),
		Date:     extractDate(text),
		Remark:   extractRemark(lines),
	}
}

// extractRemark takes the first non-blank line verbatim, truncated so a noisy
// multi-field OCR line cannot dominate the form.
func extractRemark(lines []string) *string {
	if len(lines) == 0 {
		return nil
	}
	r := truncate(lines[0], remarkMaxLen)
	return &r
}

// extractAmount prefers the largest two-decimal token on lines mentioning
// "total"; receipts list many amounts (items, tax, subtotal) and the grand
// total is typically the largest one near that word. Without a total line the
// global maximum is the best guess. Zero is never reported as present.
func extractAmount(text string, lines []string) *core.Money {
	var maxVal float64

	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), "total") {
			continue
		}
		if tok := amountRe.FindString(line); tok != "" {
			if v, err := strconv.ParseFloat(tok, 64); err == nil && v > maxVal {
				maxVal = v
			}
		}
	}

	if maxVal == 0 {
		for _, tok := range amountRe.FindAllString(text, -1) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil && v > maxVal {
				maxVal = v
			}
		}
	}

	if maxVal == 0 {
		return nil
	}
	return &core.Money{Cents: core.CentsFromFloat(maxVal)}
}

// extractDate parses the first generic numeric date substring. Ambiguous
// ordering is resolved by the layout list; anything that stays invalid is
// reported absent rather than guessed.
func extractDate(text string) *time.Time {
	m := dateRe.FindString(text)
	if m == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, m); err == nil {
			return &t
		}
	}
	return nil
}

func extractCategory(text string) string {
	lower := strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, w := range set.words {
			if strings.Contains(lower, w) {
				return set.category
			}
		}
	}
	return core.CategoryOther
}

func nonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
