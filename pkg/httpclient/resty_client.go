package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewRestyClient returns a resty.Client tuned with the given timeout. Callers
// needing custom verbs or form bodies use the client directly.
func NewRestyClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}
