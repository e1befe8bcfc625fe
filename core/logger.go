package core

type (
	// Identity is the admin the console acts on behalf of.
	Identity struct {
		ID       string
		Username string
		Email    string
	}

	// Logger is any service that can log messages.
	// args may hold errors, maps of extra data and at most one Identity.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}
)

// NopLogger discards everything but Fatal, which panics.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(msg string, _ ...interface{}) {
	panic(msg)
}
