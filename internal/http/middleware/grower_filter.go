package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
)

// GrowerFilterMiddleware handles multi-tenant data isolation. It derives the
// effective grower scope for the request: platform admins may select any
// grower via ?grower_id=, everyone else is pinned to their own grower.
type GrowerFilterMiddleware struct {
	logger *zap.Logger
}

// NewGrowerFilterMiddleware creates a new grower filter middleware
func NewGrowerFilterMiddleware(logger *zap.Logger) *GrowerFilterMiddleware {
	return &GrowerFilterMiddleware{
		logger: logger,
	}
}

// Filter sets the effective grower filter in the request context
// - Platform admins can optionally filter by ?grower_id=<grower>
// - Grower users are always filtered to their own grower
// - A platform admin without an explicit filter sees all growers
func (m *GrowerFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// Authentication middleware rejects unauthenticated requests
			// before this point; proceed without a filter otherwise.
			next.ServeHTTP(w, r)
			return
		}

		var filter *auth.GrowerFilter

		requestedGrowerID := r.URL.Query().Get("grower_id")
		if requestedGrowerID == "" {
			requestedGrowerID = r.Header.Get("X-Grower-ID")
		}

		if requestedGrowerID != "" {
			growerID := domain.GrowerID(requestedGrowerID)

			if !userCtx.CanAccessGrower(growerID) {
				m.logger.Warn("user attempted to access unauthorized grower",
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("user_grower", string(userCtx.GrowerID)),
					zap.String("requested_grower", requestedGrowerID),
				)
				http.Error(w, "Access denied: you cannot access data for this grower", http.StatusForbidden)
				return
			}

			filter = &auth.GrowerFilter{
				GrowerID:         &growerID,
				RequestedByAdmin: userCtx.IsPlatformAdmin(),
			}
		} else if userCtx.GrowerID != "" {
			growerID := userCtx.GrowerID
			filter = &auth.GrowerFilter{
				GrowerID: &growerID,
			}
		} else {
			// Platform admin with no grower selected sees all data
			filter = &auth.GrowerFilter{}
		}

		ctx := auth.WithGrowerFilter(r.Context(), filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
