package utils

import (
	"regexp"
	"strings"
)

// vpaPattern matches a UPI virtual payment address like name@bank. The local
// part allows alnum, dot, underscore and hyphen; the provider handle allows
// alnum, dot and hyphen.
var vpaPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+$`)

// ValidateVPA reports whether the string is a syntactically valid UPI
// address. It is the authoritative server-side check before any gateway call.
func ValidateVPA(vpa string) bool {
	if vpa == "" {
		return false
	}
	if strings.Count(vpa, "@") != 1 {
		return false
	}
	return vpaPattern.MatchString(vpa)
}
