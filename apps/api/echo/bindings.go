package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const maxPageSize = 100

// TestsQuery is the query string of the test listing.
type TestsQuery struct {
	Query         string `query:"query"`
	Status        string `query:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Certification string `query:"certification" validate:"omitempty,oneof=true false"`
	Date          string `query:"date" validate:"isodate"`
	Page          int    `query:"page" validate:"min=0"`
	Limit         int    `query:"limit" validate:"min=0,max=100"`
}

func (q *TestsQuery) Bind(ctx echo.Context) error {
	if err := ctx.Bind(q); err != nil {
		return errors.Wrap(err, "binding to TestsQuery")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = maxPageSize
	}
	return nil
}

// limitParam parses the optional `limit` query parameter; absent or invalid values mean no limit.
func limitParam(ctx echo.Context) int {
	n, err := strconv.Atoi(ctx.QueryParam("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
