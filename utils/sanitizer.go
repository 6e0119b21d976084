package utils

// maskPrefixLen is how many leading characters of a credential survive
// masking in log output.
const maskPrefixLen = 8

// MaskToken returns a log-safe representation of a credential: the first
// few characters followed by an ellipsis. Credentials are never logged in
// full anywhere in this module.
func MaskToken(token string) string {
	if token == "" {
		return "none"
	}
	if len(token) <= maskPrefixLen {
		return token[:1] + "..."
	}
	return token[:maskPrefixLen] + "..."
}
