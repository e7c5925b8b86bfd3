package editor

import (
	"encoding/json"
	"fmt"
)

// Session records the original coordinates of the entry currently loaded
// for editing. At most one session exists per student; it is persisted next
// to the manifest so the edit state survives between invocations.
type Session struct {
	Date   string `json:"date"`
	Course string `json:"course"`
	Type   string `json:"type"`
	Path   string `json:"path"`
}

func sessionPath(studentID string) string {
	return "students/" + studentID + "/session.json"
}

// loadSession restores the persisted session, if any. A missing or
// unreadable session file simply means no edit is in flight.
func (c *Controller) loadSession() {
	text, err := c.store.ReadContent(sessionPath(c.student))
	if err != nil {
		return
	}
	var s Session
	if err := json.Unmarshal([]byte(text), &s); err != nil || s.Path == "" {
		return
	}
	c.session = &s
}

func (c *Controller) persistSession() error {
	if c.session == nil {
		// Best effort: a stale session file only re-arms an exited edit.
		if err := c.store.DeleteContent(sessionPath(c.student)); err != nil {
			c.log.Debugf("clear session file: %v", err)
		}
		return nil
	}
	data, err := json.Marshal(c.session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.store.WriteContent(sessionPath(c.student), string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (c *Controller) clearSession() {
	c.session = nil
	if err := c.persistSession(); err != nil {
		c.log.Warnf("clear session: %v", err)
	}
}
