// Package route holds the pure name-resolution rules shared by both ends of
// the protocol and the error taxonomy for dispatch failures. Both sides
// resolve wire tokens through the same two functions, so a namespace or
// action spelled differently on either end is a bug here, not in a handler.
package route

import "strings"

// ControllerName maps a hyphenated namespace token to its handler-group
// identifier: each hyphen-separated segment is title-cased and concatenated,
// with a fixed "Controller" suffix. "user-manager" -> "UserManagerController".
func ControllerName(token string) string {
	var b strings.Builder
	for _, seg := range strings.Split(token, "-") {
		if seg == "" {
			continue
		}
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(seg[1:])
	}
	b.WriteString("Controller")
	return b.String()
}

// ActionName maps a hyphenated action token to its method identifier: every
// hyphen is removed and the character that followed it upper-cased, then a
// fixed "Action" suffix is appended. "request-restore" -> "requestRestoreAction".
func ActionName(token string) string {
	for {
		i := strings.IndexByte(token, '-')
		if i < 0 {
			break
		}
		rest := token[i+1:]
		if rest == "" {
			token = token[:i]
			break
		}
		token = token[:i] + strings.ToUpper(rest[:1]) + rest[1:]
	}
	return token + "Action"
}
