package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/angel-coaching/site-api/internal/types"
	"github.com/angel-coaching/site-api/internal/validator"
)

func BuildEcho(logger *slog.Logger, staticDir string) (*echo.Echo, error) {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware("site-api"),
		slogecho.NewWithConfig(logger, slogecho.Config{}),
	)

	e.HTTPErrorHandler = errorHandler(logger)

	e.GET("/health/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if staticDir != "" {
		e.Static("/", staticDir)
	}

	return e, nil
}

// errorHandler shapes every error into the shared {success:false, message}
// body. All endpoints are POST-only, so 405 responses always allow POST.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := types.StringError("Internal Server Error")

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case types.Error:
				body = m
			case string:
				body = types.StringError(m)
			default:
				body = types.StringError(http.StatusText(code))
			}
		}

		if code == http.StatusMethodNotAllowed {
			body = types.StringError("Method Not Allowed")
			// echo's router pre-populates Allow with every matching method
			// (including OPTIONS); the submission endpoints advertise POST only
			c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		}

		if jsonErr := c.JSON(code, body); jsonErr != nil {
			logger.Error("failed to write error response", "error", jsonErr)
		}
	}
}
