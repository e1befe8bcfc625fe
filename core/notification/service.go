package notification

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

const (
	ParamLimit = "limit"

	feedPath        = "/persona/notifications"
	fallbackMessage = "Failed to fetch notifications"
)

// Feed is the notifications feed plus the read-state mutations.
type Feed struct {
	*lifecycle.Controller[Inbox]

	tr     core.Transport
	logger core.Logger
}

// NewFeed mounts the feed. A positive limit caps the number of notifications requested.
func NewFeed(tr core.Transport, env lifecycle.Env, limit int) (*Feed, error) {
	if limit < 0 {
		limit = 0
	}
	ctl, err := lifecycle.New(lifecycle.Options[Inbox]{
		Env:    env,
		Name:   "notifications",
		Schema: lifecycle.Schema{PageSize: ParamLimit, Limit: limit},
		Fetch: func(ctx context.Context, q lifecycle.Query) ([]byte, error) {
			v := make(url.Values)
			if q.Limit() > 0 {
				v.Set(ParamLimit, strconv.Itoa(q.Limit()))
			}
			return tr.Get(ctx, feedPath, v)
		},
		Normalize: Normalize,
		Clone:     Inbox.Clone,
		Fallback:  fallbackMessage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating notifications controller")
	}

	logger := env.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Feed{Controller: ctl, tr: tr, logger: logger}, nil
}

// MarkOneRead asks the server to mark notification `id` as read and, once it confirms,
// flags it locally and decrements the unread count. It reports whether the server confirmed.
func (f *Feed) MarkOneRead(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	if !f.patch(ctx, feedPath+"/"+url.PathEscape(id)) {
		return false
	}
	f.Update(func(in Inbox) Inbox { return in.withRead(id) })
	return true
}

// MarkAllRead asks the server to mark every notification as read and, once it confirms,
// flags them all locally and zeroes the unread count.
func (f *Feed) MarkAllRead(ctx context.Context) bool {
	if !f.patch(ctx, feedPath) {
		return false
	}
	f.Update(func(in Inbox) Inbox { return in.withAllRead() })
	return true
}

func (f *Feed) patch(ctx context.Context, path string) bool {
	payload, err := f.tr.Patch(ctx, path)
	if err != nil {
		if !core.IsCanceled(err) {
			f.logger.Error(fmt.Sprintf("notifications: PATCH %s: %v", path, err), errors.Wrap(err, "marking notifications read"))
		}
		return false
	}
	if !confirmed(payload) {
		f.logger.Warn(fmt.Sprintf("notifications: PATCH %s: unexpected response %q", path, payload))
		return false
	}
	return true
}
