package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
)

func ConvertList[A any, B any](listA []A, convert func(A) B) []B {
	listB := make([]B, len(listA))
	for i, a := range listA {
		listB[i] = convert(a)
	}

	return listB
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// NewRestyClient returns a client that retries idempotent reads only.
// Writes are never retried so a flaky network cannot create duplicate records.
func NewRestyClient(timeout time.Duration, retryCount int) *resty.Client {
	c := resty.
		New().
		SetRetryCount(retryCount).
		SetLogger(nopLogger{}).
		SetTimeout(timeout).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
				return false
			}
			retry, _ := retryablehttp.DefaultRetryPolicy(r.Request.Context(), r.RawResponse, err)
			return retry
		})
	c.JSONMarshal = json.Marshal
	c.JSONUnmarshal = json.Unmarshal
	return c
}

// Ptr returns pointer of any value.
func Ptr[T any](t T) *T {
	return &t
}

// latencyBuckets span a local mongo insert up to a remote call hitting
// the 10s client timeout.
var latencyBuckets = []float64{
	0.001, // 1ms
	0.005,
	0.01, // 10ms
	0.025,
	0.05,
	0.1, // 100ms
	0.25,
	0.5,
	1.0, // 1s
	2.5,
	5.0,
	10.0, // remote timeout
}

// GetHistogramVec registers a latency histogram on the default registry, or
// returns the one already registered under name.
func GetHistogramVec(name, help string, labels ...string) (*prometheus.HistogramVec, error) {
	metrics := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: latencyBuckets,
	}, labels)
	if err := prometheus.Register(metrics); err != nil {
		var registeredErr prometheus.AlreadyRegisteredError
		if errors.As(err, &registeredErr) {
			if existing, ok := registeredErr.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}

	return metrics, nil
}
