package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

const (
	summaryPath     = "/admin/admin/dashboard"
	fallbackMessage = "Failed to fetch dashboard data"
)

// Board is the admin dashboard summary. It takes no parameters: Refetch reloads it.
type Board struct {
	*lifecycle.Controller[Summary]
}

func NewBoard(tr core.Transport, env lifecycle.Env) (*Board, error) {
	ctl, err := lifecycle.New(lifecycle.Options[Summary]{
		Env:  env,
		Name: "dashboard",
		Fetch: func(ctx context.Context, _ lifecycle.Query) ([]byte, error) {
			return tr.Get(ctx, summaryPath, nil)
		},
		Normalize: Normalize,
		Clone:     Summary.Clone,
		Fallback:  fallbackMessage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating dashboard controller")
	}
	return &Board{Controller: ctl}, nil
}
