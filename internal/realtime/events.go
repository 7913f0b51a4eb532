package realtime

import (
	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventProgressUpdated     SSEEvent = "progress_updated"
	SSEEventXPAwarded           SSEEvent = "xp_awarded"
	SSEEventLevelUp             SSEEvent = "level_up"
	SSEEventAchievementUnlocked SSEEvent = "achievement_unlocked"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the private channel every authenticated stream subscribes to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func ToUser(userID uuid.UUID, event SSEEvent, data any) SSEMessage {
	return SSEMessage{Channel: UserChannel(userID), Event: event, Data: data}
}
