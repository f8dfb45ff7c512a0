package httphandler

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServerCloseEndsStreams(t *testing.T) {
	src := make(chan int)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stream(w, r, (<-chan int)(src), func(v int) Envelope {
			return Envelope{Status: statusSuccess, Data: v}
		})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer(ln.Addr().String(), h)
	served := make(chan error, 1)
	go func() { served <- s.httpServer.Serve(ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/v1/cart/stream")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	s.Close(ctx)

	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, ctx.Err())
	assert.ErrorIs(t, <-served, http.ErrServerClosed)

	_, err = io.ReadAll(res.Body)
	assert.NoError(t, err)
}
