package restsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

// Client is the core.Transport of the admin REST API.
type Client struct {
	baseURL string
	token   string
	http    *rest.Client
	logger  core.Logger
}

var _ core.Transport = (*Client)(nil)

// NewClient returns a client of conf.API. Requests have no deadline of their own:
// they end when they complete or when their context is canceled.
func NewClient(conf *core.Config, logger core.Logger) *Client {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		token:   conf.API.Token,
		http:    &rest.Client{HTTPClient: &http.Client{}},
		logger:  logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.send(ctx, rest.Get, path, query)
}

func (c *Client) Patch(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, rest.Patch, path, nil)
}

func (c *Client) send(ctx context.Context, method rest.Method, path string, query url.Values) ([]byte, error) {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if len(query) > 0 {
		req.QueryParams = make(map[string]string, len(query))
		for k := range query {
			req.QueryParams[k] = query.Get(k)
		}
	}

	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug(fmt.Sprintf("api: %s %s - status: %d - body: %s", method, path, res.StatusCode, res.Body))
		return nil, core.NewRequestError(res.StatusCode, serverMessage(res.Body))
	}
	return []byte(res.Body), nil
}

// serverMessage extracts the `message` of an error body, if any.
func serverMessage(body string) string {
	var payload struct {
		Message core.Loose `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	return core.CleanString(payload.Message.String())
}
