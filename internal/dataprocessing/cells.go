package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// CellKind is the storage type of a cell as recorded in the workbook.
type CellKind uint8

const (
	// KindAuto marks cells of unknown origin; their type is inferred from the text.
	KindAuto CellKind = iota
	// KindString is a text cell. Its value is never reinterpreted as a number.
	KindString
	// KindBool is a boolean cell, held as TRUE or FALSE.
	KindBool
)

// Typed converts a cell of unknown origin into a Go value.
// Empty cells become nil, TRUE/FALSE become bool, integral numbers int64,
// other numbers float64, anything else stays a string. Numeric text that
// would not survive the conversion unchanged, such as "0042", stays a string.
func Typed(cell string) interface{} {
	return TypedAs(cell, KindAuto)
}

// TypedAs converts a cell into a Go value according to its storage kind.
func TypedAs(cell string, kind CellKind) interface{} {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	switch kind {
	case KindString:
		return cell
	case KindBool:
		return ParseBool(s)
	}

	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if hasLeadingZero(s) {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if strconv.FormatInt(i, 10) == s {
			return i
		}
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// hasLeadingZero reports numeric-looking text whose integer part is
// zero-padded, e.g. "0042" or "-007.5". Such text is an identifier.
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// ParseBool reports whether a cell holds a true flag. Accepts TRUE/true/1
// and the other forms strconv.ParseBool accepts.
func ParseBool(cell string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(cell))
	return err == nil && b
}

// ParseFloat parses a numeric cell, tolerating thousands separators.
func ParseFloat(cell string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	return strconv.ParseFloat(s, 64)
}
