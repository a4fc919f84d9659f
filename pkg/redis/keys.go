package redis

import "strings"

const (
	keyNamespace = "sirene"

	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	sessionPrefix     = "session"
)

func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

// SessionKey is where the login session for a token id lives.
func (c *Client) SessionKey(sessionID string) string {
	return buildKey(sessionPrefix, sessionID)
}

// buildKey joins parts under the service namespace, skipping blank parts.
func buildKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
