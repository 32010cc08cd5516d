package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenTTL is the validity window of a password-reset token.
const ResetTokenTTL = time.Hour

// newResetToken returns a 128-bit random token encoded as hex. Reset tokens
// are opaque; they are verified by store lookup, not signature.
func newResetToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// resetTokenExpired reports whether a reset token's expiry has passed at
// instant now. The expiry instant itself is still redeemable; only strictly
// later attempts fail. A nil expiry counts as expired.
func resetTokenExpired(expiry *time.Time, now time.Time) bool {
	return expiry == nil || now.After(*expiry)
}

// GenerateDevSecret returns a random session signing secret for development
// mode. Sessions signed with it do not survive a restart.
func GenerateDevSecret() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
