package httphandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// stream writes every value of src as a server-sent event until src
// closes or the client goes away.
func stream[T any](
	w http.ResponseWriter, r *http.Request, src <-chan T, encode func(T) Envelope,
) {
	const op = "httphandler.stream"
	log := slog.With("op", op)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-src:
			if !ok {
				return
			}
			b, err := json.Marshal(encode(v))
			if err != nil {
				log.Error("failed to encode event", "err", err)
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
				log.Debug("client gone", "err", err)
				return
			}
			flusher.Flush()
		}
	}
}
