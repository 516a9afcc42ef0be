package antispam

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-Secret-key-32-bytes-long!!!-and-some-more"

func TestGenerateToken_Format(t *testing.T) {
	g := NewGuard(testSecret)
	now := time.Unix(1700000000, 0)

	token := g.GenerateToken(now)
	parts := strings.Split(token, ":")
	require.Len(t, parts, 2)
	assert.Equal(t, "1700000000", parts[0])
	assert.Len(t, parts[1], signatureLength)
	assert.Equal(t, token, g.GenerateToken(now), "token must be deterministic")
}

func TestNewGuard_KeyTruncated(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := NewGuard(testSecret[:32])
	b := NewGuard(testSecret[:32] + "ignored-suffix")
	assert.Equal(t, a.GenerateToken(now), b.GenerateToken(now))
}

func TestVerifyToken(t *testing.T) {
	g := NewGuard(testSecret)
	issued := time.Unix(1700000000, 0)
	token := g.GenerateToken(issued)

	tests := []struct {
		name  string
		token string
		now   time.Time
		code  string
	}{
		{"valid after one minute", token, issued.Add(time.Minute), ""},
		{"valid at lower bound", token, issued.Add(MinFormTime), ""},
		{"valid at upper bound", token, issued.Add(MaxFormTime), ""},
		{"too fast", token, issued.Add(3 * time.Second), CodeTooFast},
		{"expired", token, issued.Add(MaxFormTime + time.Second), CodeExpired},
		{"missing", "", issued.Add(time.Minute), CodeMissing},
		{"no separator", "1700000000", issued.Add(time.Minute), CodeInvalid},
		{"too many parts", token + ":x", issued.Add(time.Minute), CodeInvalid},
		{"non-numeric timestamp", "abc:" + strings.Split(token, ":")[1], issued.Add(time.Minute), CodeInvalid},
		{"tampered signature", "1700000000:0000000000000000", issued.Add(time.Minute), CodeTampered},
		{"tampered timestamp", "1699999000:" + strings.Split(token, ":")[1], issued.Add(time.Minute), CodeTampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.VerifyToken(tt.token, tt.now)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsTokenError(err, tt.code), "got %v, want code %s", err, tt.code)
		})
	}
}

func TestVerifyToken_OtherSecret(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	token := NewGuard(testSecret).GenerateToken(issued)

	err := NewGuard("another-secret-of-sufficient-length!").VerifyToken(token, issued.Add(time.Minute))
	assert.True(t, IsTokenError(err, CodeTampered))
}

func TestTokenError_I18nKey(t *testing.T) {
	err := NewGuard(testSecret).VerifyToken("", time.Now())
	var te *TokenError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "contact.token_missing", te.I18nKey())
}

func TestVerifyToken_RoundTripNow(t *testing.T) {
	g := NewGuard(testSecret)
	now := time.Now()
	token := g.GenerateToken(now.Add(-30 * time.Second))
	ts, _ := strconv.ParseInt(strings.Split(token, ":")[0], 10, 64)
	assert.Equal(t, now.Add(-30*time.Second).Unix(), ts)
	assert.NoError(t, g.VerifyToken(token, now))
}
