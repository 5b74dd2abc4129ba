package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service authenticates the fixed admin account and issues bearer tokens.
// There is a single subject; anything else carried in a token is rejected.
type Service struct {
	adminUsername     string
	adminPasswordHash string
	tokenGenerator    TokenGenerator
}

func NewService(adminUsername, adminPasswordHash string, tokenGen TokenGenerator) *Service {
	return &Service{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		tokenGenerator:    tokenGen,
	}
}

// NewJWTTokenGenerator creates an HS256 token generator. The reference
// policy is an 8 hour lifetime from issuance.
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// Authenticate validates admin credentials and returns a bearer token.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	if dto.Username != s.adminUsername {
		return TokenResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(dto.Password)); err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(s.adminUsername)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// ValidateAccessToken verifies the token and that it was issued for the
// admin subject. All failure modes collapse into ErrInvalidToken.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Subject != s.adminUsername {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateToken creates a signed token for subject with the configured TTL.
func (j *JWTTokenGenerator) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken parses and verifies a token. Expired, tampered and
// wrongly-signed tokens all surface as ErrInvalidToken.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		// expiry, bad signature and malformed tokens are deliberately not
		// told apart here
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
