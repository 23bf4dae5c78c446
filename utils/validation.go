// utils/validation.go
package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used to parse numbers written without a country code.
const DefaultRegion = "BR"

// ValidatePhone reports whether phone is a valid number, either international
// or local to DefaultRegion.
func ValidatePhone(phone string) bool {
	num, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhone keeps only the ASCII digits. Two numbers with the same digits are the same client.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// E164 returns the phone in E.164 form when it was written in international
// form, and the bare digits otherwise.
func E164(phone string) string {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return NormalizePhone(phone)
	}
	num, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil {
		return "+" + NormalizePhone(phone)
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

var slugSub = map[string]string{"&": " e "}

// Slugify turns a salon name into a URL path segment.
func Slugify(name string) string {
	return slug.Make(slug.Substitute(strings.TrimSpace(name), slugSub))
}
