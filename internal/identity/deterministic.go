package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key. Keys should be
// prefixed by entity type so different entities cannot collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SectionUUID identifies the record of a section on a page.
func SectionUUID(pageSlug, sectionKey string) uuid.UUID {
	return UUID("sitecms:section:" + strings.ToLower(strings.TrimSpace(pageSlug)) + ":" + strings.ToLower(strings.TrimSpace(sectionKey)))
}

// UserUUID identifies a user by email.
func UserUUID(email string) uuid.UUID {
	return UUID("sitecms:user:" + strings.ToLower(strings.TrimSpace(email)))
}
