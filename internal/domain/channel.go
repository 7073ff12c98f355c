package domain

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	AdminID    uuid.UUID   `json:"admin_id"`
	MemberIDs  []uuid.UUID `json:"member_ids"`
	MessageIDs []uuid.UUID `json:"message_ids,omitempty"`
	PinnedIDs  []uuid.UUID `json:"pinned_message_ids,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	// Joined fields
	Members []UserRef `json:"members,omitempty"`
}

// Recipients returns the delivery identities for a channel broadcast:
// every member plus the admin, deduplicated. The admin is implicitly
// privileged even when not listed in MemberIDs.
func (c *Channel) Recipients() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(c.MemberIDs)+1)
	out := make([]uuid.UUID, 0, len(c.MemberIDs)+1)
	for _, id := range c.MemberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if _, ok := seen[c.AdminID]; !ok {
		out = append(out, c.AdminID)
	}
	return out
}
