package check

import (
	"context"

	"github.com/lattice-labs/beacon-ctl/internal/api"
	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

// Reporter drives the verification-task state machine for one device.
// Status history is append-only on the remote side; the reporter only
// decides which update, if any, to append next.
type Reporter struct {
	client   api.Client
	deviceID int
}

// NewReporter returns a reporter submitting updates for deviceID.
func NewReporter(client api.Client, deviceID int) *Reporter {
	return &Reporter{client: client, deviceID: deviceID}
}

// EnsureStarted inspects the last recorded check task and returns the
// id of a task guaranteed to be in the Started state:
//
//   - no task, or a task with no recorded status: create a fresh task
//     and report Started immediately (work begins now, so Pending is
//     skipped from this side)
//   - last status Started: reuse the task, no duplicate update
//   - last status Pending: report Started on it to acknowledge
//   - last status terminal: the task is closed, create a fresh one
func (r *Reporter) EnsureStarted(ctx context.Context, last *api.Task) (int, error) {
	if last == nil || last.LastStatus == nil {
		logging.Info("no active check task, creating one", "device", r.deviceID)
		return r.startFresh(ctx)
	}

	switch status := last.LastStatus.Status; {
	case status == api.StatusStarted:
		logging.Debug("check task already started, skipping update", "task", last.ID)
		return last.ID, nil

	case status == api.StatusPending:
		logging.Debug("check task pending, acknowledging with started", "task", last.ID)
		if _, err := r.client.SubmitTaskStatus(ctx, r.deviceID, last.ID, api.StatusStarted, startedDetail, ""); err != nil {
			return 0, err
		}
		return last.ID, nil

	default:
		// Failed, Success, or Timeout: closed, start over
		logging.Debug("last check task is terminal, creating a fresh task", "task", last.ID, "status", status)
		return r.startFresh(ctx)
	}
}

// ReportTerminal appends exactly one terminal update to the task.
func (r *Reporter) ReportTerminal(ctx context.Context, taskID int, status api.Status, detail, helpURL string) error {
	_, err := r.client.SubmitTaskStatus(ctx, r.deviceID, taskID, status, detail, helpURL)
	return err
}

func (r *Reporter) startFresh(ctx context.Context) (int, error) {
	task, err := r.client.CreateTask(ctx, r.deviceID, api.TaskTypeSystemCheck)
	if err != nil {
		return 0, err
	}
	if _, err := r.client.SubmitTaskStatus(ctx, r.deviceID, task.ID, api.StatusStarted, startedDetail, ""); err != nil {
		return 0, err
	}
	return task.ID, nil
}
