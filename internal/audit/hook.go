package audit

import (
	"encoding/json"

	"github.com/sharmalakshay/listky/internal/hooks"
)

// HookHandler adapts the audit logger to the lifecycle hook registry, so
// services emit events without knowing audit logging exists.
func (al *Logger) HookHandler() hooks.Handler {
	return func(e hooks.Event) {
		username, _ := e.Data["username"].(string)

		var metadata string
		if len(e.Data) > 0 {
			if b, err := json.Marshal(e.Data); err == nil {
				metadata = string(b)
			}
		}

		level := LevelInfo
		success := true
		if e.Name == hooks.EventUserLoginFailed {
			level = LevelWarning
			success = false
		}

		al.Log(&Event{
			Level:    level,
			Username: username,
			Action:   e.Name,
			Resource: "lifecycle",
			Success:  success,
			Metadata: metadata,
		})
	}
}
