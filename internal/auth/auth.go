package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the access token claims the service cares about.
type Claims struct {
	UserID uuid.UUID
	Role   string
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse validates an HS256 access token and extracts its claims.
func (p *Parser) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	rawUserID, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid user_id claim", ErrInvalidToken)
	}

	role, _ := mapClaims["role"].(string)
	if role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrInvalidToken)
	}

	return &Claims{UserID: userID, Role: role}, nil
}
