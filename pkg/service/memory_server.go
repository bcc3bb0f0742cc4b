package service

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/cohesivestack/valgo"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/theapemachine/recall/pkg/errors"
	"github.com/theapemachine/recall/pkg/memory"
	"github.com/theapemachine/recall/pkg/metrics"
)

/*
MemoryServer exposes the memory manager over HTTP. It is safe for concurrent
use because the manager and its collaborators are.
*/
type MemoryServer struct {
	app     *fiber.App
	manager *memory.Manager
	metrics *metrics.MemoryMetrics
}

type RememberRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type RememberResponse struct {
	Stored []memory.Record `json:"stored"`
}

type SearchRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Status string `json:"status"`
	Type   string `json:"type"`
	Slot   string `json:"slot"`
}

type SearchResponse struct {
	Results []memory.Record `json:"results"`
}

/*
NewMemoryServer constructs a server with the supplied manager and registers
all routes, so the app is exercisable without listening.
*/
func NewMemoryServer(manager *memory.Manager) *MemoryServer {
	srv := &MemoryServer{
		app: fiber.New(fiber.Config{
			AppName:      "recall",
			ServerHeader: "Recall-Memory-Server",
		}),
		manager: manager,
		metrics: metrics.NewMemoryMetrics(),
	}

	srv.app.Use(logger.New(logger.Config{
		// Skip logging for the health endpoints to reduce noise
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/healthz" || c.Path() == healthcheck.DefaultLivenessEndpoint
		},
	}))

	srv.app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	srv.app.Get("/", srv.handleRoot)
	srv.app.Get("/healthz", srv.handleHealth)
	srv.app.Get("/metricsz", srv.handleMetrics)
	srv.app.Post("/memories", srv.handleRemember)
	srv.app.Post("/memories/search", srv.handleSearch)
	srv.app.Delete("/memories/:id", srv.handleForget)

	return srv
}

func (srv *MemoryServer) Start(addr string) error {
	log.Info("starting memory server", "addr", addr)
	return srv.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *MemoryServer) Shutdown() error {
	return srv.app.Shutdown()
}

// App exposes the underlying fiber app, mainly for in-process testing.
func (srv *MemoryServer) App() *fiber.App {
	return srv.app
}

func (srv *MemoryServer) handleRoot(ctx fiber.Ctx) error {
	return ctx.SendString("OK")
}

func (srv *MemoryServer) handleHealth(ctx fiber.Ctx) error {
	if err := srv.manager.Ping(ctx.Context()); err != nil {
		log.Error("backend health check failed", "error", err)
		return srv.sendError(ctx, errors.ErrUpstream.WithMessagef("backend unavailable: %v", err))
	}

	return ctx.SendString("OK")
}

func (srv *MemoryServer) handleMetrics(ctx fiber.Ctx) error {
	return ctx.JSON(srv.metrics.Snapshot())
}

func (srv *MemoryServer) handleRemember(ctx fiber.Ctx) error {
	var request RememberRequest

	if err := ctx.Bind().Body(&request); err != nil {
		return srv.sendError(ctx, errors.ErrInvalidRequest.WithMessagef("invalid request body: %v", err))
	}

	val := valgo.Is(
		valgo.String(request.UserID, "user_id").Not().Blank(),
		valgo.String(request.Message, "message").Not().Blank(),
	)

	if !val.Valid() {
		return srv.sendError(ctx, errors.ErrInvalidRequest.WithData(val.Errors()))
	}

	start := time.Now()
	records, err := srv.manager.Remember(ctx.Context(), request.UserID, request.Message)
	srv.metrics.RecordRemember(len(records), err != nil, time.Since(start))

	if err != nil {
		log.Error("failed to store memories", "error", err, "user_id", request.UserID)
		return srv.sendError(ctx, errors.ErrUpstream.WithMessagef("%v", err))
	}

	if records == nil {
		records = []memory.Record{}
	}

	return ctx.JSON(RememberResponse{Stored: records})
}

func (srv *MemoryServer) handleSearch(ctx fiber.Ctx) error {
	var request SearchRequest

	if err := ctx.Bind().Body(&request); err != nil {
		return srv.sendError(ctx, errors.ErrInvalidRequest.WithMessagef("invalid request body: %v", err))
	}

	val := valgo.Is(
		valgo.String(request.UserID, "user_id").Not().Blank(),
		valgo.String(request.Query, "query").Not().Blank(),
	)

	if !val.Valid() {
		return srv.sendError(ctx, errors.ErrInvalidRequest.WithData(val.Errors()))
	}

	start := time.Now()
	records, err := srv.manager.Recall(ctx.Context(), request.UserID, request.Query, memory.RecallOptions{
		Limit:  request.Limit,
		Status: request.Status,
		Type:   request.Type,
		Slot:   request.Slot,
	})
	srv.metrics.RecordRecall(len(records), err != nil, time.Since(start))

	if err != nil {
		log.Error("failed to search memories", "error", err, "user_id", request.UserID)
		return srv.sendError(ctx, errors.ErrUpstream.WithMessagef("%v", err))
	}

	if records == nil {
		records = []memory.Record{}
	}

	return ctx.JSON(SearchResponse{Results: records})
}

func (srv *MemoryServer) handleForget(ctx fiber.Ctx) error {
	id := ctx.Params("id")

	err := srv.manager.Forget(ctx.Context(), id)
	srv.metrics.RecordForget(err != nil)

	if err != nil {
		log.Error("failed to forget memory", "error", err, "id", id)
		return srv.sendError(ctx, errors.ErrUpstream.WithMessagef("%v", err))
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (srv *MemoryServer) sendError(ctx fiber.Ctx, apiErr *errors.APIError) error {
	return ctx.Status(apiErr.Status).JSON(apiErr)
}
