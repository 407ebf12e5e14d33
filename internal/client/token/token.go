// Package token decodes the backend's access tokens on the client side.
//
// The decode is intentionally unverified: the client has no signing key and
// uses the payload only for display and expiry checks. Authorization stays
// server-enforced on every request.
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

// Decode extracts the session identity from a raw access token. It requires
// the exp and user_id claims; username is carried when the backend includes
// it. A malformed token or a missing required claim yields
// common.ErrInvalidToken.
func Decode(raw string) (*models.SessionUser, error) {
	parser := jwt.NewParser()

	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, common.ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", common.ErrInvalidToken)
	}

	userID, ok := numericClaim(claims, "user_id")
	if !ok {
		return nil, fmt.Errorf("%w: missing user_id claim", common.ErrInvalidToken)
	}

	username, _ := claims["username"].(string)

	return &models.SessionUser{
		UserID:    userID,
		Username:  username,
		ExpiresAt: exp.Time,
	}, nil
}

// numericClaim reads an integer claim. JSON numbers decode as float64, but
// tokens produced by other stacks may carry the id as a string.
func numericClaim(claims jwt.MapClaims, name string) (int, bool) {
	switch v := claims[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var id int
		if _, err := fmt.Sscanf(v, "%d", &id); err == nil {
			return id, true
		}
	}
	return 0, false
}
