package auth

import (
	"annam-mithra-backend/domain"
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
)

type (
	// Identity is what the external provider vouches for. The core trusts
	// the UID as donor/receiver identity.
	Identity struct {
		UID   string
		Email string
	}

	TokenVerifier interface {
		Verify(ctx context.Context, token string) (*Identity, error)
	}

	firebaseVerifier struct {
		client *firebaseauth.Client
	}

	localClaims struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}

	localVerifier struct {
		secretKey string
		issuer    string
	}
)

// NewFirebaseVerifier verifies bearer tokens against Firebase Authentication.
func NewFirebaseVerifier(app *firebase.App) (TokenVerifier, error) {
	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, err
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	email, _ := decoded.Claims["email"].(string)
	return &Identity{UID: decoded.UID, Email: email}, nil
}

// NewLocalVerifier accepts HS256 tokens signed with the configured secret.
// Used in development and tests where no Firebase project is wired up.
func NewLocalVerifier(secretKey string) TokenVerifier {
	return &localVerifier{secretKey: secretKey, issuer: "ANNAM_MITHRA"}
}

func (v *localVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &localClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(v.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims := parsed.Claims.(*localClaims)
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &Identity{UID: claims.Subject, Email: claims.Email}, nil
}

// GenerateLocalToken mints a development token for the given identity.
func GenerateLocalToken(secretKey, uid, email string, ttl time.Duration) (string, error) {
	claims := localClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    "ANNAM_MITHRA",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
