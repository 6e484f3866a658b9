package core

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks operator credentials.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// configAuthenticator authenticates the single operator against
// credentials held in Config (sourced from the environment).
type configAuthenticator struct {
	conf *Config
}

var _ Authenticator = (*configAuthenticator)(nil)

func NewConfigAuthenticator(conf *Config) Authenticator {
	return &configAuthenticator{conf: conf}
}

func (a configAuthenticator) Authenticate(username, password string) bool {
	op := a.conf.Operator
	if subtle.ConstantTimeCompare([]byte(username), []byte(op.Username)) != 1 {
		return false
	}
	if op.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) == nil
	}
	return op.Password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(op.Password)) == 1
}
