package dashboard

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/bn"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// DefaultCurrencyGlyph prefixes formatted amounts.
const DefaultCurrencyGlyph = "৳"

const defaultBadgeClass = "badge-secondary"

var badgeClasses = map[string]string{
	models.BorrowingDraft:    "badge-secondary",
	models.BorrowingBorrowed: "badge-primary",
	models.BorrowingOverdue:  "badge-danger",
	models.BorrowingReturned: "badge-success",
}

// StatusBadgeClass maps a borrowing status to its badge CSS class.
func StatusBadgeClass(status string) string {
	if c, ok := badgeClasses[status]; ok {
		return c
	}
	return defaultBadgeClass
}

// Formats resolves per-request display formatting.
type Formats struct {
	uni      *ut.UniversalTranslator
	fallback locales.Translator
	glyph    string
}

// NewFormats builds the supported locales. defaultLocale must be one of
// them ("en", "bn", "fr", "de"); an empty glyph uses DefaultCurrencyGlyph.
func NewFormats(defaultLocale, glyph string) (*Formats, error) {
	supported := []locales.Translator{en.New(), bn.New(), fr.New(), de.New()}
	uni := ut.New(supported[0], supported...)

	tr, ok := uni.GetTranslator(defaultLocale)
	if !ok {
		return nil, fmt.Errorf("dashboard: unsupported default locale %q", defaultLocale)
	}
	if glyph == "" {
		glyph = DefaultCurrencyGlyph
	}
	return &Formats{uni: uni, fallback: tr, glyph: glyph}, nil
}

// ForLocale returns a formatter for locale, or the default when the locale
// is not supported.
func (f *Formats) ForLocale(locale string) Formatter {
	if tr, ok := f.lookup(locale); ok {
		return Formatter{tr: tr, glyph: f.glyph}
	}
	return Formatter{tr: f.fallback, glyph: f.glyph}
}

// Resolve picks the request's locale: an explicit ?locale= first, then the
// Accept-Language header, then the default.
func (f *Formats) Resolve(r *http.Request) Formatter {
	if l := query.Get(r, "locale"); l != "" {
		if tr, ok := f.lookup(l); ok {
			return Formatter{tr: tr, glyph: f.glyph}
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil {
		for _, tag := range tags {
			base, _ := tag.Base()
			if tr, ok := f.lookup(base.String()); ok {
				return Formatter{tr: tr, glyph: f.glyph}
			}
		}
	}
	return Formatter{tr: f.fallback, glyph: f.glyph}
}

func (f *Formats) lookup(locale string) (locales.Translator, bool) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return nil, false
	}
	tr, ok := f.uni.GetTranslator(locale)
	if !ok {
		return nil, false
	}
	return tr, true
}

// Formatter formats values for one locale.
type Formatter struct {
	tr    locales.Translator
	glyph string
}

// Locale returns the formatter's locale name.
func (f Formatter) Locale() string {
	return f.tr.Locale()
}

// Date formats a calendar date in the locale's short form. The zero time
// formats as "".
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return f.tr.FmtDateShort(t.UTC())
}

// Currency formats an amount with the currency glyph and two decimals.
func (f Formatter) Currency(amount decimal.Decimal) string {
	return f.glyph + amount.StringFixed(2)
}
