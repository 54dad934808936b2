package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrLinkInvalid covers malformed tokens and bad signatures.
	ErrLinkInvalid = errors.New("invalid download token")
	// ErrLinkExpired is returned for a well-signed token past its expiry.
	ErrLinkExpired = errors.New("download token expired")
)

// LinkSigner issues and checks the tokens carried by document download URLs.
// A token binds a document ID and its storage key to an expiry time.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLinkSigner constructs a signer; ttl defaults to 15 minutes.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for documentID and key and the time it stops working.
func (s *LinkSigner) Sign(documentID, key string) (string, time.Time, error) {
	if documentID == "" || key == "" {
		return "", time.Time{}, fmt.Errorf("document id and key required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedKey := base64.RawURLEncoding.EncodeToString([]byte(key))
	token := strings.Join([]string{documentID, exp, encodedKey, s.mac(documentID, exp, encodedKey)}, ".")
	return token, expiresAt, nil
}

// Verify checks token and returns the document ID and key it was issued for.
func (s *LinkSigner) Verify(token string) (documentID, key string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 || len(s.secret) == 0 {
		return "", "", ErrLinkInvalid
	}
	documentID, exp, encodedKey, signature := parts[0], parts[1], parts[2], parts[3]
	if !hmac.Equal([]byte(s.mac(documentID, exp, encodedKey)), []byte(signature)) {
		return "", "", ErrLinkInvalid
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", ErrLinkInvalid
	}
	rawKey, err := base64.RawURLEncoding.DecodeString(encodedKey)
	if err != nil {
		return "", "", ErrLinkInvalid
	}
	if s.now().After(time.Unix(expUnix, 0)) {
		return "", "", ErrLinkExpired
	}
	return documentID, string(rawKey), nil
}

func (s *LinkSigner) mac(documentID, exp, encodedKey string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(documentID + "|" + exp + "|" + encodedKey))
	return hex.EncodeToString(mac.Sum(nil))
}
