package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/angel-coaching/site-api/internal/types"
)

var (
	InternalServerError = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError("Internal Server Error"),
	)
	// NotConfigured reports a missing secret or URL. It is returned before
	// any outbound call is attempted.
	NotConfigured = echo.NewHTTPError(
		http.StatusInternalServerError,
		types.StringError("Server not configured"),
	)
	// UpstreamRejected hides the receiving webhook's response behind a
	// generic message; the raw body is logged server-side only.
	UpstreamRejected = echo.NewHTTPError(
		http.StatusBadGateway,
		types.StringError("Unable to save submission"),
	)
	InvalidBody = echo.NewHTTPError(
		http.StatusBadRequest,
		types.StringError("Invalid JSON body"),
	)
)
