package model

import (
	"net/http"
	"time"

	"github.com/EluvK/ai-sketch/internal/util/crypt"
)

const (
	// MaxSessionAge is how long a refresh session lives without use.
	MaxSessionAge = 30 * 24 * time.Hour

	// RefreshTokenCookie is the name of the httpOnly cookie carrying the
	// session id.
	RefreshTokenCookie = "refresh_token"
)

// Session object, one per issued refresh token. The session id is the
// refresh token value itself.
type Session struct {
	Id           string    `json:"session_id" msgpack:"session_id"`
	UserId       string    `json:"user_id" msgpack:"user_id"`
	Ip           string    `json:"ip" msgpack:"ip"`
	UserAgent    string    `json:"user_agent" msgpack:"user_agent"`
	ExpiresAfter time.Time `json:"expires_after" msgpack:"expires_after"`
}

func NewSession(r *http.Request, userId string) *Session {
	return &Session{
		Id:           crypt.GenerateAPIKey(),
		UserId:       userId,
		Ip:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
		ExpiresAfter: time.Now().UTC().Add(MaxSessionAge),
	}
}

// Expired reports whether the session has passed its expiry time.
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAfter)
}
