package transport

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
)

const argsKey = "request_args"

const MsgBadJSON = "Failed to decode JSON object"

// Args is the merged view of a request's JSON body, form body and query string.
// A name is looked up in that order.
type Args struct {
	body   map[string]any
	values url.Values
}

// ArgsFrom parses the request once and caches the result on the context, so
// every guard in a chain and the handler read the same arguments.
func ArgsFrom(c echo.Context) (*Args, error) {
	if a, ok := c.Get(argsKey).(*Args); ok {
		return a, nil
	}

	a := &Args{values: c.QueryParams()}
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		if c.Request().Body != nil && c.Request().Body != http.NoBody {
			err := c.Echo().JSONSerializer.Deserialize(c, &a.body)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, apperr.Validation(http.StatusBadRequest, MsgBadJSON)
			}
		}
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.FormParams()
		if err != nil {
			return nil, apperr.Validation(http.StatusBadRequest, "Failed to decode form body")
		}
		a.values = form
	}

	c.Set(argsKey, a)
	return a, nil
}

// NewArgs builds Args directly, mostly for tests.
func NewArgs(body map[string]any, values url.Values) *Args {
	return &Args{body: body, values: values}
}

// Lookup reports the raw value of name. JSON nulls count as absent.
func (a *Args) Lookup(name string) (any, bool) {
	if v, ok := a.body[name]; ok && v != nil {
		return v, true
	}
	if vs, ok := a.values[name]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return nil, false
}
