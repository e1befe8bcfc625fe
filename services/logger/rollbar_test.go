package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	conf := &core.Config{Env: "TEST", Debug: debug}
	return NewRollbarLogger(log.New(buf, "", 0), conf), buf
}

func TestRollbarLogger(t *testing.T) {
	admin := core.Identity{ID: "42", Username: "root", Email: "root@acebrainiac.com"}

	tests := []struct {
		name  string
		debug bool
		log   func(l *RollbarLogger)
		want  string
	}{
		{
			name: "message only",
			log:  func(l *RollbarLogger) { l.Info("tests: fetched page 2") },
			want: "tests: fetched page 2\n",
		},
		{
			name: "identity is not printed",
			log: func(l *RollbarLogger) {
				l.Error("notifications: PATCH failed", core.NewRequestError(502, "boom"), admin)
			},
			want: "notifications: PATCH failed\nrequest failed: 502 boom\n",
		},
		{
			name: "extra values",
			log: func(l *RollbarLogger) {
				l.Warn("dashboard: slow response", map[string]interface{}{"ms": 1200})
			},
			want: "dashboard: slow response\nmap[ms:1200]\n",
		},
		{
			name: "debug is muted",
			log:  func(l *RollbarLogger) { l.Debug("tests: superseded") },
			want: "",
		},
		{
			name:  "debug mode",
			debug: true,
			log:   func(l *RollbarLogger) { l.Debug("tests: superseded") },
			want:  "tests: superseded\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestLogger(tt.debug)
			tt.log(l)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
