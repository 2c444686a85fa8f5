package jwttoken

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "tosgate/pkg/domain"
	dErrors "tosgate/pkg/domain-errors"
	"tosgate/pkg/requestcontext"
)

// CallerClaims are the claims carried by caller tokens. user_id is the
// identity whose claims document acknowledgements are recorded against.
type CallerClaims struct {
	UserID string `json:"user_id"`
	Env    string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 caller tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
	env        string
}

func NewJWTService(signingKey string, issuer string, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// SetEnv annotates issued tokens with an environment string (e.g. "dev").
func (s *JWTService) SetEnv(env string) {
	s.env = env
}

// GenerateToken signs a token for userID and returns it with its jti.
func (s *JWTService) GenerateToken(ctx context.Context, userID id.UserID) (string, string, error) {
	if userID.IsNil() {
		return "", "", dErrors.New(dErrors.CodeValidation, "user id is required")
	}

	jti := uuid.NewString()
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, CallerClaims{
		UserID: userID.String(),
		Env:    s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*CallerClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &CallerClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithAudience(s.audience),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*CallerClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if !strings.HasPrefix(claims.Issuer, s.issuer) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	// Older tokens carry only the subject.
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}
