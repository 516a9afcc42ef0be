// Package antispam guards the contact form: a signed timestamp token that
// rejects submissions made too fast or too late, a honeypot field, and
// attachment limits.
package antispam

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Token timing window.
const (
	MinFormTime = 10 * time.Second
	MaxFormTime = 2 * time.Hour
)

// signatureLength is the number of hex characters kept from the HMAC.
const signatureLength = 16

// keyLength is the number of secret bytes used as the HMAC key.
const keyLength = 32

// Token error codes
const (
	CodeMissing  = "missing"
	CodeInvalid  = "invalid"
	CodeTampered = "tampered"
	CodeTooFast  = "too_fast"
	CodeExpired  = "expired"
)

// TokenError describes why a token was rejected.
type TokenError struct {
	Code    string
	Message string
}

func (e *TokenError) Error() string {
	return e.Message
}

// I18nKey returns the message catalog key for the error.
func (e *TokenError) I18nKey() string {
	return "contact.token_" + e.Code
}

// IsTokenError reports whether err is a token rejection with the given code.
func IsTokenError(err error, code string) bool {
	var te *TokenError
	return errors.As(err, &te) && te.Code == code
}

// Guard signs and verifies form tokens.
type Guard struct {
	key []byte
}

// NewGuard creates a Guard keyed by the first 32 bytes of secret.
func NewGuard(secret string) *Guard {
	key := []byte(secret)
	if len(key) > keyLength {
		key = key[:keyLength]
	}
	return &Guard{key: key}
}

func (g *Guard) sign(ts int64) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:signatureLength]
}

// GenerateToken returns "<unix_timestamp>:<signature>" for now.
func (g *Guard) GenerateToken(now time.Time) string {
	ts := now.Unix()
	return strconv.FormatInt(ts, 10) + ":" + g.sign(ts)
}

// VerifyToken checks a token submitted at now. It succeeds only when the
// signature matches and between 10 seconds and 2 hours have elapsed.
func (g *Guard) VerifyToken(token string, now time.Time) error {
	if token == "" {
		return &TokenError{Code: CodeMissing, Message: "missing anti-spam token"}
	}

	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return &TokenError{Code: CodeInvalid, Message: "invalid token"}
	}

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return &TokenError{Code: CodeInvalid, Message: "invalid token"}
	}

	if !hmac.Equal([]byte(parts[1]), []byte(g.sign(ts))) {
		return &TokenError{Code: CodeTampered, Message: "token has been tampered with"}
	}

	elapsed := time.Duration(now.Unix()-ts) * time.Second
	if elapsed < MinFormTime {
		return &TokenError{Code: CodeTooFast, Message: "form submitted too quickly"}
	}
	if elapsed > MaxFormTime {
		return &TokenError{Code: CodeExpired, Message: "form has expired, reload the page"}
	}

	return nil
}
