package service

import (
	"strings"

	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

// NormalizeMobile strips separators from a phone number and checks that what
// remains is an optional leading '+' followed by 7 to 15 digits.
func NormalizeMobile(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", apperrors.NewValidationError("mobile number may only contain digits", map[string]any{"field": "mobile_number"})
		}
	}
	mobile := b.String()
	digits := strings.TrimPrefix(mobile, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", apperrors.NewValidationError("mobile number must have 7 to 15 digits", map[string]any{"field": "mobile_number"})
	}
	return mobile, nil
}
