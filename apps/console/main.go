package main

import (
	"log"
	"os"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
	"github.com/aalimaslam/ace-brainiac-admin/services/auth"
	"github.com/aalimaslam/ace-brainiac-admin/services/logger"
	"github.com/aalimaslam/ace-brainiac-admin/services/rest"
)

func main() {
	std := log.New(os.Stderr, "CONSOLE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}

	rollbar := logsvc.NewRollbarLogger(std, conf)
	var logger core.Logger = rollbar
	if conf.API.Token != "" {
		if id, err := authsvc.IdentityFromToken(conf.API.Token); err == nil {
			logger = identityLogger{Logger: rollbar, id: id}
		} else {
			rollbar.Warn("api.token is not a JWT; logs will not name the admin", err)
		}
	}

	cli := newCommandLine(
		conf,
		restsvc.NewClient(conf, logger),
		lifecycle.Env{Logger: logger, Debounce: conf.SearchDebounce},
		os.Stdin,
		os.Stdout,
	)
	err = cli.run(os.Args)
	rollbar.Flush()
	if err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// identityLogger names the acting admin in every log entry.
type identityLogger struct {
	core.Logger
	id core.Identity
}

func (l identityLogger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(msg, append(args, l.id)...)
}

func (l identityLogger) Info(msg string, args ...interface{}) {
	l.Logger.Info(msg, append(args, l.id)...)
}

func (l identityLogger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(msg, append(args, l.id)...)
}

func (l identityLogger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, append(args, l.id)...)
}

func (l identityLogger) Fatal(msg string, args ...interface{}) {
	l.Logger.Fatal(msg, append(args, l.id)...)
}
