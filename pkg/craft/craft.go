// Package craft models part catalogs, vehicle assemblies and their staged
// properties for Kerbal-style game data. Types here carry no storage or
// transport dependencies so every backend can consume them directly.
package craft

import (
	"strconv"
	"strings"
)

// Vec is a comma-separated float tuple from the source text, used for
// positions, rotations, thrust vectors and node geometry. Length is
// whatever the source declared, usually 3.
type Vec []float64

// X returns the first component, or 0 when absent.
func (v Vec) X() float64 {
	if len(v) > 0 {
		return v[0]
	}
	return 0
}

// Y returns the second component, or 0 when absent.
func (v Vec) Y() float64 {
	if len(v) > 1 {
		return v[1]
	}
	return 0
}

// Z returns the third component, or 0 when absent.
func (v Vec) Z() float64 {
	if len(v) > 2 {
		return v[2]
	}
	return 0
}

// CoerceInt parses an integer attribute value.
func CoerceInt(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}

// CoerceFloat parses a float attribute value.
func CoerceFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// CoerceBool parses a boolean attribute value. Only "true" and "1"
// (case-insensitive) are truthy; every other value is false, never an error.
func CoerceBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	}
	return false
}

// CoerceVec parses a comma-separated float tuple.
func CoerceVec(value string) (Vec, error) {
	fields := strings.Split(value, ",")
	vec := make(Vec, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		vec = append(vec, n)
	}
	return vec, nil
}

// CoerceInts parses a comma-separated integer tuple.
func CoerceInts(value string) ([]int, error) {
	fields := strings.Split(value, ",")
	ints := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		ints = append(ints, n)
	}
	return ints, nil
}

// CoerceStrings parses a comma-separated string list.
func CoerceStrings(value string) []string {
	return strings.Split(value, ",")
}

// FormatInt renders an integer so CoerceInt parses it back unchanged.
func FormatInt(n int) string {
	return strconv.Itoa(n)
}

// FormatFloat renders a float so CoerceFloat parses it back unchanged.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatBool renders a boolean in the truth-token set CoerceBool accepts.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// FormatVec renders a float tuple in source form.
func FormatVec(v Vec) string {
	fields := make([]string, len(v))
	for i, f := range v {
		fields[i] = FormatFloat(f)
	}
	return strings.Join(fields, ", ")
}

// FormatInts renders an integer tuple in source form.
func FormatInts(ints []int) string {
	fields := make([]string, len(ints))
	for i, n := range ints {
		fields[i] = FormatInt(n)
	}
	return strings.Join(fields, ", ")
}

// FormatStrings renders a string list in source form.
func FormatStrings(list []string) string {
	return strings.Join(list, ",")
}
