package auth

import "time"

type TokenIssuer interface {
	GenerateToken(agent string) (string, error)
	TTL() time.Duration
}
