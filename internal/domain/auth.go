package domain

import "time"

// Identity holds the facts a token vouches for.
type Identity struct {
	Email string
	Name  string
}

// Token represents issued token metadata.
type Token struct {
	Value     string
	Identity  Identity
	ExpiresAt time.Time
	IssuedAt  time.Time
}
