package claims

import (
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

type contextKey string

const (
	TokenContextKey contextKey = "token"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Claims are carried by the bearer token. StandardClaims.Id holds the
// sign-in session id.
type Claims struct {
	User User `json:"user"`
	jwt.StandardClaims
}

func New(u User, sessionID string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		User: u,
		StandardClaims: jwt.StandardClaims{
			Id:        sessionID,
			IssuedAt:  now.UTC().Unix(),
			ExpiresAt: now.Add(ttl).UTC().Unix(),
		},
	}
}

func (c *Claims) Sign(secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// Parse verifies an HS256 token and returns its claims.
func Parse(token string, secret []byte) (*Claims, error) {
	c := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		method, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok || method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || c.User.ID == "" {
		return nil, jwt.ErrSignatureInvalid
	}
	return c, nil
}
