package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewSessionID() string
	HashKey(parts ...string) string
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewSessionID returns a ULID for a voice session, falling back to Make when
// the entropy source fails.
func (u *utils) NewSessionID() string {
	id, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return ulid.Make().String()
	}
	return id
}

// HashKey is the hex SHA-256 of the parts joined by a NUL byte.
func (u *utils) HashKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
