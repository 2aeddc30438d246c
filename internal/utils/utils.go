package utils

// MaskToken masks a credential for display: a short prefix followed by a
// fixed marker, never the full value.
func MaskToken(token string) string {
	if len(token) <= 7 {
		return "****"
	}
	return token[:7] + "****"
}
