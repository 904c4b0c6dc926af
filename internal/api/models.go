package api

import "time"

// Status is a verification task status. Pending and Started are
// in-flight; Failed, Success, and Timeout are terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusStarted Status = "started"
	StatusFailed  Status = "failed"
	StatusSuccess Status = "success"
	StatusTimeout Status = "timeout"
)

// Terminal reports whether no further transition occurs from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusFailed, StatusSuccess, StatusTimeout:
		return true
	}
	return false
}

// TaskTypeSystemCheck is the verification task kind driven by the
// license check flow.
const TaskTypeSystemCheck = "system_check"

// Device is the remote-authoritative device identity record. Fields
// beyond the identifier are opaque to this subsystem.
type Device struct {
	ID        int       `json:"id"`
	Hostname  string    `json:"hostname"`
	CreatedAt time.Time `json:"created_at"`
}

// License is the remote-authoritative license record. The fingerprint
// is the equality check against the remote active copy.
type License struct {
	ID            int    `json:"id"`
	Device        int    `json:"device"`
	Fingerprint   string `json:"fingerprint"`
	Activated     bool   `json:"activated"`
	LastCheckTask *Task  `json:"last_check_task,omitempty"`
}

// Task is a remote-tracked unit of work with an append-only status
// history; the current status is the most recently appended update.
type Task struct {
	ID         int            `json:"id"`
	Device     int            `json:"device"`
	TaskType   string         `json:"task_type"`
	Active     bool           `json:"active"`
	LastStatus *StatusUpdate  `json:"last_status,omitempty"`
	History    []StatusUpdate `json:"status_history,omitempty"`
}

// StatusUpdate is one immutable entry in a task's status history.
type StatusUpdate struct {
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	HelpURL   string    `json:"help_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SettingsRepo describes the device's settings repository.
type SettingsRepo struct {
	URL    string `json:"url"`
	Branch string `json:"branch,omitempty"`
}
