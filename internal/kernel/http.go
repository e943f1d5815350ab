// Package kernel assembles the shop application: stores, services, the
// GraphQL schema and the HTTP middleware stack around it.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/app/graph"
	"github.com/shashiranjanraj/shopql/app/identity"
	"github.com/shashiranjanraj/shopql/app/repositories"
	"github.com/shashiranjanraj/shopql/app/routes"
	"github.com/shashiranjanraj/shopql/app/services"
	"github.com/shashiranjanraj/shopql/pkg/auth"
	"github.com/shashiranjanraj/shopql/pkg/database"
	gqlhttp "github.com/shashiranjanraj/shopql/pkg/graphql"
	"github.com/shashiranjanraj/shopql/pkg/metrics"
	"github.com/shashiranjanraj/shopql/pkg/middleware"
	"github.com/shashiranjanraj/shopql/pkg/reqid"
	"github.com/shashiranjanraj/shopql/pkg/router"
	"github.com/shashiranjanraj/shopql/pkg/workerpool"
)

// Options configures the kernel.
type Options struct {
	JWTSecret        string
	HashWorkers      int
	HashCost         int // 0 means auth.DefaultCost
	CORSOrigins      []string
	CompressionLevel int // 0 means brotli level 5
}

// HTTPKernel owns everything a request touches after the listener.
type HTTPKernel struct {
	db     *gorm.DB
	pool   *workerpool.Pool
	router *router.Router
}

// NewHTTPKernel wires the application on top of db. Close releases the
// hashing pool; db stays owned by the caller.
func NewHTTPKernel(db *gorm.DB, opts Options) (*HTTPKernel, error) {
	issuer, err := auth.NewTokenIssuer(opts.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	workers := opts.HashWorkers
	if workers <= 0 {
		workers = 1
	}
	pool := workerpool.New(workers)
	hasher := auth.NewHasher(opts.HashCost, pool)

	users := repositories.NewUserRepository(db)
	schema, err := graph.NewSchema(
		services.NewAuthService(users, hasher, issuer),
		services.NewProductService(repositories.NewProductRepository(db)),
		services.NewOrderService(repositories.NewOrderRepository(db)),
	)
	if err != nil {
		pool.Shutdown()
		return nil, fmt.Errorf("kernel: build schema: %w", err)
	}

	k := &HTTPKernel{db: db, pool: pool, router: router.New()}

	k.router.Use(Middleware(opts)...)

	routes.RegisterAPI(k.router, routes.Handlers{
		GraphQL:  gqlhttp.Handler(schema),
		Health:   HealthHandler(k.Check),
		Metrics:  metrics.Handler(),
		Identity: identity.NewResolver(issuer).Middleware(),
	})

	return k, nil
}

// Middleware returns the global stack, outermost first. Recovery sits inside
// reqid and Logger so panic logs carry the request id and the access log
// records the 500.
func Middleware(opts Options) []router.Middleware {
	level := opts.CompressionLevel
	if level == 0 {
		level = 5
	}
	return []router.Middleware{
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins...)),
		middleware.Compress(level),
	}
}

// Handler returns the root HTTP handler.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the mounted routes.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// Check pings the database.
func (k *HTTPKernel) Check(ctx context.Context) error {
	return database.Ping(ctx, k.db)
}

// Close stops the hashing workers after in-flight hashes finish.
func (k *HTTPKernel) Close() {
	k.pool.Shutdown()
}

// HealthHandler answers 200 {"status":"ok"} while check passes and
// 503 {"status":"unavailable"} otherwise.
func HealthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, body := http.StatusOK, "ok"
		if err := check(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "unavailable"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": body})
	}
}
