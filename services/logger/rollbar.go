package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger prints to std and reports to Rollbar once a token is configured.
// Debug messages are only printed in debug mode.
func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "")
	return &RollbarLogger{std: std, debug: conf.Debug}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Flush blocks until queued reports are sent.
func (l RollbarLogger) Flush() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, core.Identity
func (l RollbarLogger) prepare(msg string, args []interface{}) (rollbarArgs, printArgs []interface{}) {
	var idSet bool
	rollbarArgs = make([]interface{}, 0, len(args)+1)
	rollbarArgs = append(rollbarArgs, msg)
	for _, arg := range args {
		// the acting admin
		if id, ok := arg.(core.Identity); ok {
			if !idSet && id.ID != "" {
				rollbar.SetPerson(id.ID, id.Username, id.Email)
				idSet = true
			}
			continue
		}
		rollbarArgs = append(rollbarArgs, arg)
		printArgs = append(printArgs, arg)
	}
	if !idSet {
		rollbar.ClearPerson()
	}
	return rollbarArgs, printArgs
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	rArgs, pArgs := l.prepare(msg, args)
	rollbar.Debug(rArgs...)
	l.print(msg, pArgs)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rArgs, pArgs := l.prepare(msg, args)
	rollbar.Info(rArgs...)
	l.print(msg, pArgs)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rArgs, pArgs := l.prepare(msg, args)
	rollbar.Warning(rArgs...)
	l.print(msg, pArgs)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rArgs, pArgs := l.prepare(msg, args)
	rollbar.Error(rArgs...)
	l.print(msg, pArgs)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rArgs, pArgs := l.prepare(msg, args)
	rollbar.Critical(rArgs...)
	l.print(msg, pArgs)
	rollbar.Wait()
	l.std.Fatal(msg)
}
