package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const redacted = "[REDACTED]"

// DefaultRedactFields are masked in logged bodies: login credentials and the
// session token returned by login.
var DefaultRedactFields = []string{"password", "token"}

// LogRequestConfig store middleware configuration
type LogRequestConfig struct {
	Logger       Logger
	Enabled      func(c echo.Context) bool
	RequestBody  func(c echo.Context) bool
	ResponseBody func(c echo.Context) bool
	QueryParams  func(c echo.Context) bool
	KeyAndValues func(c echo.Context) []interface{}
	// RedactFields are JSON keys masked at any depth of logged bodies.
	RedactFields []string
}

type bodyDumpWriter struct {
	io.Writer
	http.ResponseWriter
}

// LogRequest logs one line per request: 5xx as error, 4xx as warning, the
// rest as info. Bodies are logged only for JSON payloads.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	always := func(echo.Context) bool { return true }
	if config.Enabled == nil {
		config.Enabled = always
	}
	if config.RequestBody == nil {
		config.RequestBody = always
	}
	if config.ResponseBody == nil {
		config.ResponseBody = always
	}
	if config.QueryParams == nil {
		config.QueryParams = always
	}
	if config.RedactFields == nil {
		config.RedactFields = DefaultRedactFields
	}
	redactFields := make(map[string]struct{}, len(config.RedactFields))
	for _, f := range config.RedactFields {
		redactFields[strings.ToLower(f)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			var reqBody []byte
			logReqBody := config.RequestBody(c) && isJSON(req.Header.Get(echo.HeaderContentType))
			if logReqBody {
				reqBody, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			var resBuf bytes.Buffer
			logResBody := config.ResponseBody(c)
			if logResBody {
				res.Writer = &bodyDumpWriter{
					Writer:         io.MultiWriter(res.Writer, &resBuf),
					ResponseWriter: res.Writer,
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []interface{}{
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"path", c.Path(),
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", GetRequestID(c),
			}
			if config.QueryParams(c) && len(c.QueryParams()) > 0 {
				args = append(args, "query", c.QueryParams())
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			if logReqBody && len(reqBody) > 0 {
				args = append(args, "request_body", redactJSON(reqBody, redactFields))
			}
			if logResBody && resBuf.Len() > 0 && isJSON(res.Header().Get(echo.HeaderContentType)) {
				args = append(args, "response_body", redactJSON(resBuf.Bytes(), redactFields))
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("", args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw("", args...)
			default:
				config.Logger.Infow("", args...)
			}

			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

// redactJSON masks the values of fields in body. Invalid JSON is dropped.
func redactJSON(body []byte, fields map[string]struct{}) json.RawMessage {
	if len(fields) == 0 {
		return json.RawMessage(body)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}
	out, err := json.Marshal(redactValue(doc, fields))
	if err != nil {
		return nil
	}
	return out
}

func redactValue(v interface{}, fields map[string]struct{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			if _, ok := fields[strings.ToLower(k)]; ok {
				val[k] = redacted
				continue
			}
			val[k] = redactValue(child, fields)
		}
	case []interface{}:
		for i, child := range val {
			val[i] = redactValue(child, fields)
		}
	}
	return v
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}
