package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchoolNameKey clave de comparación de nombres de colegio: sin tildes, case-folded y con
// espacios colapsados. "St. Mary's  Académy" y "st. mary's academy" comparten clave.
func SchoolNameKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// CleanSchoolName limpia el nombre tal como se muestra (solo espacios).
func CleanSchoolName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
