package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

// Request describes one call against the remote resource collection.
// Op names the call in errors and metrics.
type Request struct {
	Op     string
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

type Client interface {
	// Do executes req and decodes a 2xx JSON body into out when out is not nil.
	Do(ctx context.Context, req Request, out any) error
}

type client struct {
	http    *resty.Client
	metrics *prometheus.HistogramVec
}

func NewClient(cfg *config.Config) (Client, error) {
	metrics, err := util.GetHistogramVec("fakestore_request_duration_seconds", "Duration of Fake Store API calls", "op", "code")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	httpClient := util.NewRestyClient(cfg.FakeStore.Timeout, cfg.FakeStore.RetryCount).
		SetBaseURL(strings.TrimRight(cfg.FakeStore.BaseURL, "/")).
		SetHeader("Accept", "application/json")

	return &client{
		http:    httpClient,
		metrics: metrics,
	}, nil
}

func (c *client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()

	r := c.http.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)

	code := "error"
	if resp != nil && resp.RawResponse != nil {
		code = strconv.Itoa(resp.StatusCode())
	}
	c.metrics.WithLabelValues(req.Op, code).Observe(time.Since(start).Seconds())

	if err != nil {
		return &models.NetworkError{Op: req.Op, Err: err}
	}
	if !resp.IsSuccess() {
		return &models.HTTPError{Op: req.Op, Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	if out == nil {
		return nil
	}

	// the remote answers unknown ids with 200 and an empty body
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return &models.HTTPError{Op: req.Op, Status: http.StatusNotFound, Body: "empty response"}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", req.Op, err)
	}
	return nil
}

func request[T any](ctx context.Context, c Client, req Request) (T, error) {
	var out T
	if err := c.Do(ctx, req, &out); err != nil {
		return out, err
	}
	return out, nil
}

// queryParams keeps only the non-empty values.
func queryParams(params map[string]any) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch v := v.(type) {
		case nil:
		case string:
			if v != "" {
				out[k] = v
			}
		case models.SortOrder:
			if v != "" {
				out[k] = string(v)
			}
		case int:
			if v != 0 {
				out[k] = strconv.Itoa(v)
			}
		default:
			if s := fmt.Sprint(v); s != "" {
				out[k] = s
			}
		}
	}
	return out
}
