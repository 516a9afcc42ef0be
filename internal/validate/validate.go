// Package validate holds input validators shared by forms, commands and
// the search endpoint. Failures are reported as *Error values carrying a
// stable machine-readable code.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Error codes
const (
	CodeInvalidFormat     = "invalid_format"
	CodeInvalidLatitude   = "invalid_latitude"
	CodeInvalidLongitude  = "invalid_longitude"
	CodeParseError        = "parse_error"
	CodeSuspiciousPattern = "suspicious_pattern"
)

// DefaultSearchMaxLength caps search queries when no explicit limit is given.
const DefaultSearchMaxLength = 200

// Error is a validation failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HasCode reports whether err is a validation error with the given code.
func HasCode(err error, code string) bool {
	var verr *Error
	return errors.As(err, &verr) && verr.Code == code
}

var coordinatesPattern = regexp.MustCompile(`^-?\d+\.?\d*\s*,\s*-?\d+\.?\d*$`)

// ValidateCoordinates checks a "latitude,longitude" string. An empty value
// is accepted.
func ValidateCoordinates(value string) error {
	_, _, err := ParseCoordinates(value)
	return err
}

// ParseCoordinates validates and parses a "latitude,longitude" string.
// An empty value returns zeros and no error.
func ParseCoordinates(value string) (lat, lon float64, err error) {
	if value == "" {
		return 0, 0, nil
	}

	if !coordinatesPattern.MatchString(value) {
		return 0, 0, &Error{
			Code:    CodeInvalidFormat,
			Message: "invalid coordinate format, use: latitude,longitude",
		}
	}

	latStr, lonStr, _ := strings.Cut(value, ",")
	lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, &Error{Code: CodeParseError, Message: "cannot parse coordinates"}
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, &Error{Code: CodeParseError, Message: "cannot parse coordinates"}
	}

	if lat < -90 || lat > 90 {
		return 0, 0, &Error{Code: CodeInvalidLatitude, Message: "latitude must be between -90 and 90 degrees"}
	}
	if lon < -180 || lon > 180 {
		return 0, 0, &Error{Code: CodeInvalidLongitude, Message: "longitude must be between -180 and 180 degrees"}
	}

	return lat, lon, nil
}

// repeatedRunLimit is the longest run of one character a query may contain.
const repeatedRunLimit = 10

// SearchQuery collapses whitespace, truncates to maxLength runes and rejects
// queries containing more than ten repetitions of a single character.
// A maxLength <= 0 uses DefaultSearchMaxLength.
func SearchQuery(query string, maxLength int) (string, error) {
	if query == "" {
		return "", nil
	}
	if maxLength <= 0 {
		maxLength = DefaultSearchMaxLength
	}

	cleaned := strings.Join(strings.Fields(query), " ")

	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength])
	}

	if hasRepeatedRun(cleaned, repeatedRunLimit+1) {
		return "", &Error{Code: CodeSuspiciousPattern, Message: "invalid search query"}
	}

	return cleaned, nil
}

// hasRepeatedRun reports whether s contains n or more consecutive identical
// runes. Go's regexp has no backreferences, so (.)\1{10,} is checked by hand.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
