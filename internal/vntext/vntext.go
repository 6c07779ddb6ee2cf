// Package vntext holds Vietnamese text helpers: canonical composition,
// slugs, lowercasing and vi-VN display formatting.
//
// Source data may arrive composed or decomposed, so every comparison,
// slug or JSON-LD value goes through Normalize first.
package vntext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// vietnameseLetters is the fixed diacritic class used by HasVietnameseChars
// and the slug table.
const vietnameseLetters = "àáảãạăằắẳẵặâầấẩẫậèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđĐ"

var slugFold = buildSlugFold()

// buildSlugFold maps every letter of the class to its base Latin letter. All
// of them except đ decompose under NFD into an ASCII base plus marks.
func buildSlugFold() map[rune]byte {
	m := make(map[rune]byte, utf8.RuneCountInString(vietnameseLetters))
	for _, r := range vietnameseLetters {
		if r == 'đ' || r == 'Đ' {
			m[r] = 'd'
			continue
		}
		base := norm.NFD.String(string(r))[0]
		m[r] = base | 0x20
	}
	return m
}

// Normalize returns s in Unicode NFC.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Lower lowercases s with Vietnamese casing rules. A Caser keeps state, so
// one is created per call.
func Lower(s string) string {
	return cases.Lower(language.Vietnamese).String(s)
}

// HasVietnameseChars reports whether s contains a lowercase Vietnamese
// diacritic letter or Đ.
func HasVietnameseChars(s string) bool {
	return strings.ContainsAny(Normalize(s), vietnameseLetters)
}

// Slug converts s into a URL-safe slug of lowercase ASCII letters, digits
// and single hyphens. Slug(Slug(s)) == Slug(s) for every s.
func Slug(s string) string {
	s = Lower(Normalize(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		c, ok := slugByte(r)
		if !ok {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func slugByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return byte(r), true
	}
	c, ok := slugFold[r]
	return c, ok
}

var schemaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeForSchema normalizes s and escapes it for hand-built JSON string
// literals. Values passed through encoding/json must not be escaped twice.
func EscapeForSchema(s string) string {
	return schemaEscaper.Replace(Normalize(s))
}
