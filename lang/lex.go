package lang

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Reserved words may not be used as identifiers.
//
//nolint:gochecknoglobals
var reserved = map[string]bool{
	"let": true, "const": true, "var": true, "true": true, "false": true,
}

// IsReserved reports whether word is a keyword or boolean literal.
func IsReserved(word string) bool { return reserved[word] }

// Keywords returns the reserved words in a stable order.
func Keywords() []string {
	return []string{"const", "false", "let", "true", "var"}
}

// ValidIdentifier reports whether name is a legal identifier: an ASCII word
// that does not start with a digit, is not made only of underscores, and is
// not reserved.
func ValidIdentifier(name string) bool {
	if name == "" || isDigit(rune(name[0])) || reserved[name] {
		return false
	}

	onlyUnderscore := true

	for i := range len(name) {
		c := rune(name[i])
		if !isWordChar(c) {
			return false
		}

		if c != '_' {
			onlyUnderscore = false
		}
	}

	return !onlyUnderscore
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordChar(r rune) bool { return isWordStart(r) || isDigit(r) }

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

var (
	errNumberRange  = errors.New("number out of range")
	errUnterminated = errors.New("unterminated string")
)

// numberValue converts the spelling of a numeric literal.
//
// A literal containing "." is a Float. Otherwise it is an Int, unless it has
// an exponent that makes it fractional or too large for 32 bits, in which
// case it is a Float. Values that do not fit a 32-bit float are rejected.
func numberValue(text string, float bool) (Primitive, error) {
	if !float && !strings.ContainsAny(text, "eE") {
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Primitive{}, errNumberRange
		}

		return Int(int32(i)), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) {
		return Primitive{}, errNumberRange
	}

	if !float && f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return Int(int32(f)), nil
	}

	if math.Abs(f) > math.MaxFloat32 {
		return Primitive{}, errNumberRange
	}

	return Float(float32(f)), nil
}

// unescape decodes the body of a string literal. Unknown escape sequences
// are kept verbatim.
func unescape(body string) string {
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder

	sb.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)

			continue
		}

		i++

		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}

	return sb.String()
}

// Quote returns s as a double-quoted JAMAL string literal.
func Quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
