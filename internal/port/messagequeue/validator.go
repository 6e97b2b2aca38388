package messagequeue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject, including required fields. Unknown
// subjects only need to be valid JSON.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	switch {
	case strings.HasPrefix(subject, "tasks."):
		var p TaskEventPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if p.TaskID == "" {
			return fmt.Errorf("schema validation failed for %s: %w", subject, errors.New("task_id is required"))
		}
	case subject == SubjectInboundReply:
		var p InboundReplyPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if strings.TrimSpace(p.Body) == "" {
			return fmt.Errorf("schema validation failed for %s: %w", subject, errors.New("body is required"))
		}
	case subject == SubjectInboundMOM:
		var p InboundMOMPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if strings.TrimSpace(p.Body) == "" || p.From == "" {
			return fmt.Errorf("schema validation failed for %s: %w", subject, errors.New("from and body are required"))
		}
	}
	return nil
}
