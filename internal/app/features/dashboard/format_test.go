package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/features/dashboard"
	"github.com/shopspring/decimal"
)

func TestStatusBadgeClass(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"draft", "badge-secondary"},
		{"borrowed", "badge-primary"},
		{"overdue", "badge-danger"},
		{"returned", "badge-success"},
		{"lost", "badge-secondary"},
		{"", "badge-secondary"},
	}
	for _, tt := range tests {
		if got := dashboard.StatusBadgeClass(tt.status); got != tt.want {
			t.Errorf("StatusBadgeClass(%q): got %q, want %q", tt.status, got, tt.want)
		}
	}
}

func mustFormats(t *testing.T) *dashboard.Formats {
	t.Helper()
	f, err := dashboard.NewFormats("en", "")
	if err != nil {
		t.Fatalf("NewFormats: %v", err)
	}
	return f
}

func TestFormatter_Currency(t *testing.T) {
	f := mustFormats(t).ForLocale("en")
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "৳0.00"},
		{decimal.RequireFromString("19.75"), "৳19.75"},
		{decimal.RequireFromString("3.5"), "৳3.50"},
		{decimal.RequireFromString("1234.567"), "৳1234.57"},
	}
	for _, tt := range tests {
		if got := f.Currency(tt.in); got != tt.want {
			t.Errorf("Currency(%s): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatter_CustomGlyph(t *testing.T) {
	fs, err := dashboard.NewFormats("en", "$")
	if err != nil {
		t.Fatalf("NewFormats: %v", err)
	}
	if got := fs.ForLocale("en").Currency(decimal.NewFromInt(2)); got != "$2.00" {
		t.Errorf("Currency: got %q, want $2.00", got)
	}
}

func TestFormatter_Date(t *testing.T) {
	fs := mustFormats(t)
	d := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	if got := fs.ForLocale("en").Date(time.Time{}); got != "" {
		t.Errorf("zero date: got %q, want empty", got)
	}
	for _, locale := range []string{"en", "bn", "fr", "de"} {
		got := fs.ForLocale(locale).Date(d)
		if !strings.Contains(got, "19") {
			t.Errorf("%s date: got %q, want it to contain the day", locale, got)
		}
	}
	if en, de := fs.ForLocale("en").Date(d), fs.ForLocale("de").Date(d); en == de {
		t.Errorf("en and de short dates should differ, both %q", en)
	}
}

func TestFormats_Resolve(t *testing.T) {
	fs := mustFormats(t)
	tests := []struct {
		name   string
		url    string
		accept string
		want   string
	}{
		{"default", "/", "", "en"},
		{"query", "/?locale=de", "fr", "de"},
		{"accept language", "/", "fr-CA,fr;q=0.9,en;q=0.5", "fr"},
		{"unsupported query falls through", "/?locale=xx", "bn", "bn"},
		{"unsupported everything", "/", "ja", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			if got := fs.Resolve(req).Locale(); got != tt.want {
				t.Errorf("Locale: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFormats_UnknownDefault(t *testing.T) {
	if _, err := dashboard.NewFormats("xx", ""); err == nil {
		t.Error("expected error for unsupported default locale")
	}
}
