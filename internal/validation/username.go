package validation

import "strings"

// reservedUsernames are first path segments taken by fixed routes.
var reservedUsernames = map[string]struct{}{
	"new":     {},
	"follow":  {},
	"group":   {},
	"about":   {},
	"auth":    {},
	"media":   {},
	"health":  {},
	"metrics": {},
	"static":  {},
}

// IsReservedUsername reports whether name would shadow a fixed route.
func IsReservedUsername(name string) bool {
	_, ok := reservedUsernames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsValidUsername reports whether name fits the username pattern.
func IsValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}
