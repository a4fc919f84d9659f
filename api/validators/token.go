package validators

import "strings"

const bearerPrefix = "bearer "

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(raw[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
