package crypt

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenerateAPIKey returns an opaque token built from 16 random bytes plus a
// v7 UUID, base64 URL encoded.
func GenerateAPIKey() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("crypt: failed to read random bytes")
	}

	id, err := uuid.NewV7()
	if err != nil {
		log.Fatal().Err(err).Msg("crypt: failed to generate uuid")
	}
	b = append(b, id[:16]...)

	return base64.URLEncoding.EncodeToString(b)
}
