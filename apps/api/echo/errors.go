package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

var (
	errUnauthorized     = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")
	errNotificationGone = echo.NewHTTPError(http.StatusNotFound, "notification not found")
)

// errorResponse is the body of every failed request: clients show `message` as is.
type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"` // debug mode only
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var res errorResponse

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				res.Message = fmt.Sprint(origErr.Message)
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			res.Message = fmt.Sprint(origErr.Message)
		case *core.ValidationError:
			if origErr.Fields != nil {
				res.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					res.Fields[fErr.Field] = fErr.Error
				}
			}
			code = http.StatusBadRequest
			res.Message = origErr.Error()
		default:
			if errors.Is(err, inmemdb.ErrNotFound) {
				code = http.StatusNotFound
				res.Message = errHttpNotFound.Message.(string)
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			res.Message = http.StatusText(http.StatusInternalServerError)

			args := []interface{}{errors.Wrap(err, res.Message)}
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				args = append(args, claims.Identity())
			}
			logger.Error(res.Message, args...)
		}

		if ctx.Echo().Debug {
			res.Detail = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
