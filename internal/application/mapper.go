package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
)

// MapUser builds the target record for one source user.
// created_at is the import time; the original signup time moves to join_date.
func MapUser(src entity.SourceUser, now time.Time, defaultAvatarURL string) entity.TargetUser {
	return entity.TargetUser{
		CreatedAt:        now,
		JoinDate:         src.CreatedAt,
		Email:            src.Email,
		IsEmailConfirmed: src.Active,
		Username:         src.Username,
		AvatarURL:        defaultAvatarURL,
		PasswordHash:     src.PasswordHash,
		Salt:             src.Salt,
		IsAdmin:          src.Admin,
	}
}

// MapUsers maps every user except systemUsername and rejects username or
// email collisions inside the batch.
func MapUsers(src []entity.SourceUser, systemUsername string, now time.Time, defaultAvatarURL string) ([]entity.TargetUser, error) {
	out := make([]entity.TargetUser, 0, len(src))
	usernames := make(map[string]int64, len(src))
	emails := make(map[string]int64, len(src))
	for _, u := range src {
		if u.Username == systemUsername {
			continue
		}
		key := strings.ToLower(u.Username)
		if prev, ok := usernames[key]; ok {
			return nil, fmt.Errorf("%w: username %q used by source ids %d and %d", entity.ErrDuplicateUser, u.Username, prev, u.ID)
		}
		usernames[key] = u.ID
		if u.Email != "" {
			key = strings.ToLower(u.Email)
			if prev, ok := emails[key]; ok {
				return nil, fmt.Errorf("%w: email %q used by source ids %d and %d", entity.ErrDuplicateUser, u.Email, prev, u.ID)
			}
			emails[key] = u.ID
		}
		out = append(out, MapUser(u, now, defaultAvatarURL))
	}
	return out, nil
}

// AvatarURL prefixes relative upload paths with base. Absolute and
// protocol-relative URLs are returned unchanged.
func AvatarURL(base, url string) string {
	if base == "" || strings.HasPrefix(url, "//") || strings.Contains(url, "://") {
		return url
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(url, "/")
}
