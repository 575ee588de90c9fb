package unisat

import (
	"strings"

	"github.com/google/uuid"
)

const (
	AppID          = "1adcd7969603261753f1812c9461cd36"
	SignatureMagic = "deda5ddd2b3d84988b2cb0a207c4674e"
	FrontVersion   = "285"

	clientIDLen = 16
)

// Session carries the identifiers mixed into every signed request. It is
// built once per client and never changes afterwards; in particular the
// server timestamp is not refreshed, even though the server hands out a
// new one on every ts2 call.
type Session struct {
	Timestamp      string
	ClientID       string
	AppID          string
	SignatureMagic string
	FrontVersion   string
}

func NewSession(timestamp, clientID string) *Session {
	return &Session{
		Timestamp:      timestamp,
		ClientID:       clientID,
		AppID:          AppID,
		SignatureMagic: SignatureMagic,
		FrontVersion:   FrontVersion,
	}
}

// NewClientID returns 16 hex characters taken from a random UUID.
func NewClientID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:clientIDLen]
}
