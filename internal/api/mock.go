package api

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	mu sync.RWMutex

	// Devices maps hostnames to canned device records
	Devices map[string]*Device

	// ActiveLicense is returned by FetchActiveLicense
	ActiveLicense *License

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall

	// Tasks tracks tasks created through the mock, by id
	Tasks map[int]*Task

	nextTaskID int
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockClient creates a new mock API client
func NewMockClient() *MockClient {
	return &MockClient{
		Devices:    make(map[string]*Device),
		Errors:     make(map[string]error),
		CallLog:    make([]MockCall, 0),
		Tasks:      make(map[int]*Task),
		nextTaskID: 100,
	}
}

func (m *MockClient) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockClient) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddDevice adds a canned device record for a hostname
func (m *MockClient) AddDevice(hostname string, device *Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Devices[hostname] = device
}

// GetCallsFor returns all recorded calls for a specific method
func (m *MockClient) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, c := range m.CallLog {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

// StatusesFor returns the submitted status values for a task, in order
func (m *MockClient) StatusesFor(taskID int) []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.Tasks[taskID]
	if !ok {
		return nil
	}
	statuses := make([]Status, 0, len(task.History))
	for _, u := range task.History {
		statuses = append(statuses, u.Status)
	}
	return statuses
}

func (m *MockClient) FetchDeviceByHostname(ctx context.Context, hostname string) (*Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FetchDeviceByHostname", hostname)

	if err := m.Errors["FetchDeviceByHostname"]; err != nil {
		return nil, err
	}
	device, ok := m.Devices[hostname]
	if !ok {
		return nil, fmt.Errorf("mock: no device for hostname %s", hostname)
	}
	return device, nil
}

func (m *MockClient) FetchActiveLicense(ctx context.Context, deviceID int) (*License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FetchActiveLicense", deviceID)

	if err := m.Errors["FetchActiveLicense"]; err != nil {
		return nil, err
	}
	if m.ActiveLicense == nil {
		return nil, fmt.Errorf("mock: no active license for device %d", deviceID)
	}
	return m.ActiveLicense, nil
}

func (m *MockClient) ActivateLicense(ctx context.Context, licenseID int) (*License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ActivateLicense", licenseID)

	if err := m.Errors["ActivateLicense"]; err != nil {
		return nil, err
	}
	if m.ActiveLicense != nil && m.ActiveLicense.ID == licenseID {
		m.ActiveLicense.Activated = true
		return m.ActiveLicense, nil
	}
	return &License{ID: licenseID, Activated: true}, nil
}

func (m *MockClient) CreateTask(ctx context.Context, deviceID int, taskType string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateTask", deviceID, taskType)

	if err := m.Errors["CreateTask"]; err != nil {
		return nil, err
	}

	m.nextTaskID++
	task := &Task{
		ID:       m.nextTaskID,
		Device:   deviceID,
		TaskType: taskType,
		Active:   true,
	}
	m.Tasks[task.ID] = task
	return task, nil
}

func (m *MockClient) SubmitTaskStatus(ctx context.Context, deviceID, taskID int, status Status, detail, helpURL string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SubmitTaskStatus", deviceID, taskID, status, detail, helpURL)

	if err := m.Errors["SubmitTaskStatus"]; err != nil {
		return nil, err
	}

	task, ok := m.Tasks[taskID]
	if !ok {
		task = &Task{ID: taskID, Device: deviceID, TaskType: TaskTypeSystemCheck, Active: true}
		m.Tasks[taskID] = task
	}

	update := StatusUpdate{
		Status:    status,
		Detail:    detail,
		HelpURL:   helpURL,
		CreatedAt: time.Now(),
	}
	task.History = append(task.History, update)
	task.LastStatus = &task.History[len(task.History)-1]
	if status.Terminal() {
		task.Active = false
	}
	return task, nil
}

func (m *MockClient) SettingsRepo(ctx context.Context, deviceID int) (*SettingsRepo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SettingsRepo", deviceID)

	if err := m.Errors["SettingsRepo"]; err != nil {
		return nil, err
	}
	return &SettingsRepo{URL: fmt.Sprintf("https://git.lattice-labs.io/devices/%d/settings.git", deviceID)}, nil
}
