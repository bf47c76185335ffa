package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps unknown-user logins as slow as wrong-password ones.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3yWlnGnHDX3fRvY1Iq5ZlLK")

// Service authenticates desk agents against bcrypt hashes loaded from config.
type Service struct {
	agents map[string][]byte
	tokens TokenIssuer
}

func NewService(agents map[string]string, tokens TokenIssuer) *Service {
	hashes := make(map[string][]byte, len(agents))
	for user, hash := range agents {
		hashes[strings.ToLower(strings.TrimSpace(user))] = []byte(hash)
	}
	return &Service{agents: hashes, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	hash, ok := s.agents[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(username)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		Agent:       username,
	}, nil
}
