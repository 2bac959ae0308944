package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	reQ     = regexp.MustCompile(`^[\p{L}\p{N} _'&-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

var governorates = map[string]bool{
	"Cairo": true, "Giza": true, "Alexandria": true, "Dakahlia": true,
	"Red Sea": true, "Beheira": true, "Fayoum": true, "Gharbiya": true,
	"Ismailia": true, "Monufia": true, "Minya": true, "Qalyubia": true,
	"New Valley": true, "Suez": true, "Aswan": true, "Assiut": true,
	"Beni Suef": true, "Port Said": true, "Damietta": true, "Sharkia": true,
	"South Sinai": true, "Kafr El Sheikh": true, "Matrouh": true,
	"Luxor": true, "Qena": true, "North Sinai": true, "Sohag": true,
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return s, rePhone.MatchString(s)
}

func Governorate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, governorates[s]
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty parses a signed cart quantity delta. Zero and non-numeric input are
// rejected; the magnitude is clamped to 50 per request.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return 0, false
	}
	if n > 50 {
		n = 50
	}
	if n < -50 {
		n = -50
	}
	return n, true
}

// ID validates a simple resource identifier (product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Address requires a non-trivial shipping address.
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 5 || len(s) > 300 {
		return "", false
	}
	return s, true
}

// Truncate caps s at max bytes without splitting a multi-byte rune; the
// storefront carries Arabic text, so a byte slice alone is not safe.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 5 && l <= 64
}
