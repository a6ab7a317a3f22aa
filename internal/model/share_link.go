package model

// FilterSpec is the closed set of filter dimensions a share link can
// pin. A zero value means the dimension is unconstrained.
type FilterSpec struct {
	CategoryID  int64 `json:"category_id,omitempty"`
	MediaTypeID int64 `json:"media_type_id,omitempty"`
	StatusID    int64 `json:"status_id,omitempty"`
}

type ShareLink struct {
	Token          string     `json:"token"`
	OwnerID        string     `json:"owner_id"`
	Name           string     `json:"name"`
	Filter         FilterSpec `json:"filter"`
	VisibleColumns []string   `json:"visible_columns"`
	AllowedEmails  []string   `json:"allowed_emails"`
	Active         int        `json:"active"`
	ViewCount      int64      `json:"view_count"`
	Ctime          int64      `json:"ctime"`
	ExpiresAt      int64      `json:"expires_at"`
}

// IsLive reports whether the link is both unrevoked and unexpired at
// the given instant. Callers must evaluate this on every access, never
// cache it in a derived credential.
func (l *ShareLink) IsLive(now int64) bool {
	return l.Active == LinkStateActive && now < l.ExpiresAt
}

const (
	LinkStateActive  = 1
	LinkStateRevoked = 0
)
