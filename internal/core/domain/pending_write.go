package domain

import (
	"strings"
	"time"
)

// WriteStatus is the lifecycle state of a queued write.
type WriteStatus string

const (
	// WritePending marks an entry waiting for replay.
	WritePending WriteStatus = "pending"
	// WriteDead marks an entry that exhausted its replay attempts.
	WriteDead WriteStatus = "dead"
)

// PendingWrite is one mutating request deferred for replay. AuthToken holds
// the bare bearer token, or the full Authorization value for other schemes.
type PendingWrite struct {
	ID        int64       `json:"id"`
	URL       string      `json:"url"`
	Method    string      `json:"method"`
	Payload   []byte      `json:"payload,omitempty"`
	AuthToken string      `json:"auth_token,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Attempts  int         `json:"attempts,omitzero"`
	LastError string      `json:"last_error,omitzero"`
	Status    WriteStatus `json:"status,omitzero"`
}

const bearerPrefix = "Bearer "

// AuthTokenFromHeader extracts the token to store from an Authorization
// value. Bearer credentials lose their scheme; other schemes are kept whole.
func AuthTokenFromHeader(value string) string {
	if len(value) > len(bearerPrefix) && strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return value[len(bearerPrefix):]
	}
	return value
}

// Authorization returns the header value to replay with, or "" when the
// write carries no credentials.
func (w PendingWrite) Authorization() string {
	switch {
	case w.AuthToken == "":
		return ""
	case strings.ContainsRune(w.AuthToken, ' '):
		return w.AuthToken
	default:
		return bearerPrefix + w.AuthToken
	}
}
