package compat

import (
	"strings"
	"unicode"
)

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// LooseVersion is a leniently parsed dotted version string such as "0.20",
// "0.20.203" or "1.0.3-mapr".
//
// A version is split into runs of ASCII digits and runs of letters; every
// other character acts as a separator. Versions compare component by
// component: numeric components compare numerically, a non-numeric component
// sorts below any numeric one, and two non-numeric components compare
// lexically. The shorter version is padded with zero components, so "2" and
// "2.0" are equal and "0.20.1-SNAPSHOT" sorts below "0.20.1".
type LooseVersion struct {
	raw   string
	parts []versionPart
}

type versionPart struct {
	// digits holds a numeric component without leading zeros ("" for zero).
	digits  string
	text    string
	numeric bool
}

// ParseVersion parses s into a LooseVersion. It never fails: malformed input
// yields a version with whatever components could be recognised.
func ParseVersion(s string) LooseVersion {
	v := LooseVersion{raw: s}

	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isDigit(r):
			j := i
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			digits := strings.TrimLeft(string(runes[i:j]), "0")
			v.parts = append(v.parts, versionPart{digits: digits, numeric: true})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			v.parts = append(v.parts, versionPart{text: string(runes[i:j])})
			i = j
		default:
			i++
		}
	}

	return v
}

// String returns the version exactly as it was given to ParseVersion.
func (v LooseVersion) String() string {
	return v.raw
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after other.
func (v LooseVersion) Compare(other LooseVersion) int {
	n := max(len(v.parts), len(other.parts))
	for i := 0; i < n; i++ {
		if c := v.part(i).compare(other.part(i)); c != 0 {
			return c
		}
	}
	return 0
}

// part returns the i-th component, or a zero component past the end.
func (v LooseVersion) part(i int) versionPart {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return versionPart{numeric: true}
}

// Less reports whether v sorts before other.
func (v LooseVersion) Less(other LooseVersion) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other compare equal.
func (v LooseVersion) Equal(other LooseVersion) bool {
	return v.Compare(other) == 0
}

func (p versionPart) compare(other versionPart) int {
	switch {
	case p.numeric && other.numeric:
		// Digit strings carry no leading zeros, so the longer one is larger.
		if len(p.digits) != len(other.digits) {
			if len(p.digits) < len(other.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(p.digits, other.digits)
	case p.numeric:
		return 1
	case other.numeric:
		return -1
	default:
		return strings.Compare(p.text, other.text)
	}
}

// VersionGTE reports whether version is greater than or equal to other.
func VersionGTE(version, other string) bool {
	return ParseVersion(version).Compare(ParseVersion(other)) >= 0
}
