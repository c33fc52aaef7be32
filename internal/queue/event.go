// Package queue carries moderation decisions over RabbitMQ: a publisher used
// by the services and a consumer that appends each decision to an audit log.
package queue

import "time"

const (
	EntityProvider = "provider"
	EntitySpace    = "space"
)

// ModerationEvent is published after an admin approves or rejects a
// provider profile or a space listing.
type ModerationEvent struct {
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Status    string    `json:"status"`
	AdminID   string    `json:"adminId"`
	Notes     *string   `json:"notes,omitempty"`
	IsActive  *bool     `json:"isActive,omitempty"` // spaces only
	DecidedAt time.Time `json:"decidedAt"`
}
