package exam

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

const (
	DefaultPageSize = 9

	listPath        = "/admin/test"
	fallbackMessage = "Failed to fetch tests"
)

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Schema is the parameter schema of the test listing.
func Schema(pageSize int) lifecycle.Schema {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return lifecycle.Schema{
		Search:   ParamQuery,
		Filters:  []string{ParamStatus, ParamCertification, ParamCreateDate},
		Page:     ParamPage,
		PageSize: ParamLimit,
		Limit:    pageSize,
	}
}

// Catalog is the paginated, searchable listing of tests.
type Catalog struct {
	*lifecycle.Controller[lifecycle.Listing[Test]]
}

// NewCatalog mounts a test listing: the first page is requested right away.
func NewCatalog(tr core.Transport, env lifecycle.Env, pageSize int, params map[string]interface{}) (*Catalog, error) {
	ctl, err := lifecycle.New(lifecycle.Options[lifecycle.Listing[Test]]{
		Env:    env,
		Name:   "tests",
		Schema: Schema(pageSize),
		Params: params,
		Fetch: func(ctx context.Context, q lifecycle.Query) ([]byte, error) {
			return tr.Get(ctx, listPath, QueryValues(q))
		},
		Normalize: Normalize,
		Clone:     lifecycle.Listing[Test].Clone,
		Fallback:  fallbackMessage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating tests controller")
	}
	return &Catalog{Controller: ctl}, nil
}

// Search sets the free-text query. The request waits for typing to pause.
func (c *Catalog) Search(text string) {
	c.SetParameter(ParamQuery, text)
}

// NextPage moves forward unless the current page is the last one reported by the server.
func (c *Catalog) NextPage() bool {
	snap := c.Snapshot()
	page := snap.Query.Page()
	if !snap.Data.HasNext(page) {
		return false
	}
	c.SetParameter(ParamPage, page+1)
	return true
}

// PrevPage moves back unless the current page is the first one.
func (c *Catalog) PrevPage() bool {
	snap := c.Snapshot()
	page := snap.Query.Page()
	if !snap.Data.HasPrev(page) {
		return false
	}
	c.SetParameter(ParamPage, page-1)
	return true
}

// QueryValues builds the request parameters: page & limit always, the filters only when set.
func QueryValues(q lifecycle.Query) url.Values {
	v := make(url.Values)
	v.Set(ParamLimit, strconv.Itoa(q.Limit()))
	v.Set(ParamPage, strconv.Itoa(q.Page()))
	for _, name := range []string{ParamQuery, ParamStatus, ParamCertification} {
		if s := q.String(name); s != "" {
			v.Set(name, s)
		}
	}
	if date := FormatDate(q.Value(ParamCreateDate)); date != "" {
		v.Set("date", date)
	}
	return v
}

// FormatDate coerces a date parameter to YYYY-MM-DD, or "" when it is not a date.
// ISO dates pass through; times are formatted in local time; integers are Unix milliseconds.
func FormatDate(value interface{}) string {
	var t time.Time
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		v = core.CleanString(v)
		if v == "" {
			return ""
		}
		if isoDateRegex.MatchString(v) {
			return v
		}
		parsed, err := parseDate(v)
		if err != nil {
			return ""
		}
		t = parsed
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return ""
		}
		t = *v
	case int64:
		t = time.UnixMilli(v)
	case int:
		t = time.UnixMilli(int64(v))
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02")
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.RFC1123} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unsupported date %q", s)
}
