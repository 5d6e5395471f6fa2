package handlers

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mattn/go-isatty"
)

// Color constants for terminal output
const (
	cRed     = "\u001b[91m"
	cGreen   = "\u001b[92m"
	cYellow  = "\u001b[93m"
	cBlue    = "\u001b[94m"
	cMagenta = "\u001b[95m"
	cCyan    = "\u001b[96m"
	cReset   = "\u001b[0m"
)

// healthSampleRate logs one in every N health checks; dashboards and
// supervisors poll /health constantly.
const healthSampleRate = 10

// getStatusColor returns the appropriate color for HTTP status codes
func getStatusColor(status int, enableColors bool) string {
	if !enableColors {
		return ""
	}

	switch {
	case status >= 200 && status < 300:
		return cGreen
	case status >= 300 && status < 400:
		return cBlue
	case status >= 400 && status < 500:
		return cYellow
	default:
		return cRed
	}
}

// getMethodColor returns the appropriate color for HTTP methods
func getMethodColor(method string, enableColors bool) string {
	if !enableColors {
		return ""
	}

	switch method {
	case fiber.MethodGet:
		return cCyan
	case fiber.MethodPost:
		return cGreen
	case fiber.MethodDelete:
		return cRed
	default:
		return cMagenta
	}
}

// RequestLogger logs one line per request to stdout, sampling /health.
func RequestLogger() fiber.Handler {
	enableColors := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb"
	return newRequestLogger(os.Stdout, enableColors)
}

func newRequestLogger(out io.Writer, enableColors bool) fiber.Handler {
	var healthCount uint64

	return func(c *fiber.Ctx) error {
		sampled := ""
		if c.Path() == "/health" {
			n := atomic.AddUint64(&healthCount, 1)
			if n%healthSampleRate != 0 {
				return c.Next()
			}
			sampled = fmt.Sprintf(" [sampled: %d calls]", n)
		}

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		method := c.Method()
		reset := ""
		if enableColors {
			reset = cReset
		}

		errText := "-"
		if err != nil {
			errText = err.Error()
		}

		fmt.Fprintf(out, "%s | %s%d%s | %13s | %s | %s%s%s | %s | %s%s\n",
			time.Now().Format("15:04:05"),
			getStatusColor(status, enableColors), status, reset,
			duration,
			c.IP(),
			getMethodColor(method, enableColors), method, reset,
			c.Path(),
			errText,
			sampled)
		return err
	}
}
