package bulletin

import (
	"strings"
	"time"

	"github.com/academia-hq/academia/core"
)

// Announcement is a notice published to a subset of the school.
// An empty Audience means everyone.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  []string  `json:"audience"` // role prefixes, see user.Roles
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// VisibleTo reports whether an announcement targets any of the given roles.
func (a Announcement) VisibleTo(roles []string) bool {
	if len(a.Audience) == 0 {
		return true
	}
	for _, aud := range a.Audience {
		for _, role := range roles {
			if strings.HasPrefix(role, aud) {
				return true
			}
		}
	}
	return false
}

type NewAnnouncement struct {
	Title    string   `json:"title" validate:"required"`
	Body     string   `json:"body" validate:"required"`
	Audience []string `json:"audience" validate:"omitempty,allroles"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Body = core.CleanString(na.Body)
	return core.Validate.Struct(na)
}

type UpdateAnnouncement struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Audience []string `json:"audience" validate:"omitempty,allroles"`
}

func (ua *UpdateAnnouncement) Validate(orig Announcement) error {
	title := core.CleanString(ua.Title)
	if title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}
	body := core.CleanString(ua.Body)
	if body != "" {
		ua.Body = body
	} else {
		ua.Body = orig.Body
	}
	return core.Validate.Struct(ua)
}
