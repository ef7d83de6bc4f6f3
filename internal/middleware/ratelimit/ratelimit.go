package rateLimit

import (
	"net/http"
	"time"

	resp "joyful_time/internal/lib/api/response"

	httprate "github.com/go-chi/httprate"
	"github.com/go-chi/render"
)

const msgTooManyRequests = "Troppe richieste. Riprova più tardi."

// Contact limits form submissions per client IP.
func Contact(limit int, window time.Duration) func(http.Handler) http.Handler {
	return limitByIP(limit, window)
}

func limitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, resp.Message(msgTooManyRequests))
		}),
	)
}
