package security

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// isStructurallyValidJWT extends secret_discovery.go's bare
// three-base64url-segments check with a real parse via golang-jwt/jwt/v5,
// so a token must decode to well-formed header/claims JSON — not merely
// look like three dot-separated base64url blobs — to verify.
func isStructurallyValidJWT(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	parser := jwt.NewParser()
	_, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	return err == nil
}
