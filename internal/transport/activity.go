package transport

import (
	"net/http"

	"github.com/twinvillage/planner/internal/domain/session"
)

// ActivityMiddleware resets the idle-session window on every
// authenticated request. Anonymous traffic does not count as
// activity.
func ActivityMiddleware(tracker *session.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tracker != nil && !IdentityFromContext(r.Context()).Anonymous() {
				tracker.Touch()
			}
			next.ServeHTTP(w, r)
		})
	}
}
