package middleware

import (
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies the identity service that signs access tokens.
const TokenIssuer = "N-Connect"

const RoleAdmin = "admin"

// tokenParser accepts RS256 tokens with an exp claim from TokenIssuer.
// An expired token fails with an error matching jwt.ErrTokenExpired.
var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	jwt.WithIssuer(TokenIssuer),
	jwt.WithExpirationRequired(),
)

func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*jwt.Token, error) {
	return tokenParser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return publicKey, nil
	})
}
