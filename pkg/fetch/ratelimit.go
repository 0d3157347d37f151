package fetch

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

type rateLimitedReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	// WaitN fails for n above the burst size
	if burst := r.limiter.Burst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}
	n, err := r.r.Read(p)
	if n > 0 {
		if err := r.limiter.WaitN(r.ctx, n); err != nil {
			return n, err
		}
	}
	return n, err
}
