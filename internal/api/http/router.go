package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/lifeshare/lifeshare-api/internal/api/http/handlers"
	"github.com/lifeshare/lifeshare-api/internal/auth"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/observability"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
)

// accessPolicy lists the stored role each gated route demands.
// Creating a blog needs a valid token only.
var accessPolicy = auth.AccessPolicy{
	{Method: fiber.MethodPost, Path: "/blogs"}:                    domain.RoleNone,
	{Method: fiber.MethodPatch, Path: "/users/admin/:id"}:         domain.RoleAdmin,
	{Method: fiber.MethodPatch, Path: "/users/volunteer/:id"}:     domain.RoleAdmin,
	{Method: fiber.MethodPatch, Path: "/users/admin/block/:id"}:   domain.RoleAdmin,
	{Method: fiber.MethodPatch, Path: "/users/admin/unblock/:id"}: domain.RoleAdmin,
	{Method: fiber.MethodDelete, Path: "/users/:id"}:              domain.RoleAdmin,
	{Method: fiber.MethodPut, Path: "/blogs/:id/publish"}:         domain.RoleAdmin,
	{Method: fiber.MethodPut, Path: "/blogs/:id/unpublish"}:       domain.RoleAdmin,
	{Method: fiber.MethodDelete, Path: "/blogs/:id"}:              domain.RoleAdmin,
}

// AccessPolicy returns a copy of the route role table.
func AccessPolicy() auth.AccessPolicy {
	out := make(auth.AccessPolicy, len(accessPolicy))
	for k, v := range accessPolicy {
		out[k] = v
	}
	return out
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Tokens           *handlers.TokenHandler
	Users            *handlers.UsersHandler
	DonationRequests *handlers.DonationRequestsHandler
	Blogs            *handlers.BlogsHandler
	AuthMiddleware   *auth.AuthMiddleware
	RoleGate         *auth.RoleGate
	Metrics          *observability.Metrics
	TokenLimit       limiter.Config // Max <= 0 disables the POST /jwt limiter
	LimiterStorage   *persistence.LimiterStorage
}

// RegisterRoutes wires HTTP routes. Paths are registered in full because the
// role gate keys on the raw registered path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authenticate := cfg.AuthMiddleware.Handle
	gated := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{authenticate, cfg.RoleGate.Handle, h}
	}

	if cfg.TokenLimit.Max > 0 {
		limitCfg := cfg.TokenLimit
		if cfg.LimiterStorage != nil {
			limitCfg.Storage = cfg.LimiterStorage
		}
		app.Post("/jwt", limiter.New(limitCfg), cfg.Tokens.Issue)
	} else {
		app.Post("/jwt", cfg.Tokens.Issue)
	}

	app.Get("/users", cfg.Users.List)
	app.Post("/users", cfg.Users.Register)
	app.Get("/users/admin/:email", authenticate, auth.RequireSelf("email"), cfg.Users.IsAdmin)
	app.Get("/users/volunteer/:email", authenticate, auth.RequireSelf("email"), cfg.Users.IsVolunteer)
	app.Get("/users/:email", authenticate, cfg.Users.Profile)
	app.Patch("/users/admin/block/:id", gated(cfg.Users.Block)...)
	app.Patch("/users/admin/unblock/:id", gated(cfg.Users.Unblock)...)
	app.Patch("/users/admin/:id", gated(cfg.Users.MakeAdmin)...)
	app.Patch("/users/volunteer/:id", gated(cfg.Users.MakeVolunteer)...)
	app.Patch("/users/:id", authenticate, cfg.Users.UpdateProfile)
	app.Delete("/users/:id", gated(cfg.Users.Delete)...)

	app.Get("/donationRequests", cfg.DonationRequests.List)
	app.Get("/donationRequests/:id", cfg.DonationRequests.Get)
	app.Post("/donationRequests", cfg.DonationRequests.Create)
	app.Patch("/donationRequests/:id", cfg.DonationRequests.Update)
	app.Put("/donationRequests/:id/status", cfg.DonationRequests.UpdateStatus)
	app.Delete("/donationRequests/:id", cfg.DonationRequests.Delete)

	app.Get("/blogs", cfg.Blogs.List)
	app.Get("/blogs/:id", cfg.Blogs.Get)
	app.Post("/blogs", gated(cfg.Blogs.Create)...)
	app.Put("/blogs/:id/publish", gated(cfg.Blogs.Publish)...)
	app.Put("/blogs/:id/unpublish", gated(cfg.Blogs.Unpublish)...)
	app.Delete("/blogs/:id", gated(cfg.Blogs.Delete)...)
}
