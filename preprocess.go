package scripthost

import "strings"

// PrepareExpression rewrites legacy metric text so it compiles as an
// expression: "//" comments and "#" colour literals become "--" comments,
// and a single leading "+" is dropped ("+50" is not a valid expression).
//
// A run of several leading "+" is left alone, which keeps the transform
// idempotent. It is meant for expression-style input such as metrics, not
// for script files.
func PrepareExpression(s string) string {
	s = strings.ReplaceAll(s, "//", "--")
	s = strings.ReplaceAll(s, "#", "--")
	if strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "++") {
		s = s[1:]
	}
	return s
}
