package adminauth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	adminauth "github.com/kalamiro/go-adminauth"
)

// MockIdentity implements adminauth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements adminauth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// quietLogger swallows log output in flow tests
type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

// recordingSink captures activity events for assertions
type recordingSink struct {
	events []adminauth.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event adminauth.ActivityEvent) error {
	r.events = append(r.events, event)
	return nil
}

// failingStore returns an error from every operation
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func (f failingStore) Put(context.Context, string, string) error {
	return f.err
}

func (f failingStore) PutIfAbsent(context.Context, string, string) (bool, error) {
	return false, f.err
}
