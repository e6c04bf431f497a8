package domain

import "encoding/json"

const (
	// ActionExplore opens or focuses the application window.
	ActionExplore = "explore"
	// ActionClose only dismisses the notification.
	ActionClose = "close"
)

// NotificationAction is a button rendered on a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is a user-visible message produced by a push event.
type Notification struct {
	Tag     string               `json:"tag"`
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon,omitempty"`
	Badge   string               `json:"badge,omitempty"`
	Vibrate []int                `json:"vibrate,omitempty"`
	Data    map[string]any       `json:"data,omitempty"`
	Actions []NotificationAction `json:"actions,omitempty"`
}

// PushPayload is the optional JSON body of a push message.
type PushPayload struct {
	Message string
	Raw     map[string]any
}

// ParsePushPayload decodes a push body. A missing or malformed body yields nil.
func ParsePushPayload(data []byte) *PushPayload {
	if len(data) == 0 {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil
	}
	p := &PushPayload{Raw: raw}
	if msg, ok := raw["message"].(string); ok {
		p.Message = msg
	}
	return p
}
