// Command exampleserver wires the full wex stack together: config loaded
// from the environment, a zap logger, an OpenTelemetry tracer, a handful
// of routes exercising the routing core and its extractors, and the
// built-in middleware package — then serves over HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/arjunvbhat/wex"
	"github.com/arjunvbhat/wex/bhttpfx"
	"github.com/arjunvbhat/wex/middleware"
	"github.com/arjunvbhat/wex/zapadapter"
)

type createItemRequest struct {
	Name string `json:"name"`
}

type itemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listQuery struct {
	Page int `query:"page"`
}

func main() {
	app := bhttpfx.New(registerRoutes)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("exampleserver: %s", err)
	}
}

func registerRoutes(p bhttpfx.RoutingParams) {
	app := p.App

	app.Use(
		middleware.Recoverer(),
		middleware.RequestID(),
		middleware.RequestLogger(zapadapter.New(p.Logger)),
		middleware.Tracing(p.Tracer, p.Propagator, p.Config.ServiceName),
	)

	items := wex.NewSubRouter("/items")

	items.Handle(wex.MethodGet, "/:id", wex.HandlerFunc(getItem), "get-item")
	items.Handle(wex.MethodPost, "", wex.HandlerFunc(createItem), "create-item")
	items.Handle(wex.MethodGet, "", wex.HandlerFunc(listItems), "list-items")

	if err := app.Mount("/api/v1", items); err != nil {
		log.Fatalf("exampleserver: mount /api/v1: %s", err)
	}

	if err := app.HandleStd(wex.MethodGet, "/healthz", http.HandlerFunc(healthz)); err != nil {
		log.Fatalf("exampleserver: register /healthz: %s", err)
	}
}

func getItem(ctx context.Context, req *wex.Request) (*wex.Response, error) {
	id, err := wex.Path[string](req)
	if err != nil {
		return nil, err
	}
	return wex.JSON(http.StatusOK, itemResponse{ID: id, Name: "item-" + id})
}

func createItem(ctx context.Context, req *wex.Request) (*wex.Response, error) {
	in, err := wex.JSONBody[createItemRequest](req)
	if err != nil {
		return nil, err
	}
	return wex.JSON(http.StatusCreated, itemResponse{ID: "new", Name: in.Name})
}

func listItems(ctx context.Context, req *wex.Request) (*wex.Response, error) {
	q, err := wex.Query[listQuery](req)
	if err != nil {
		return nil, err
	}
	if q.Page == 0 {
		q.Page = 1
	}
	return wex.JSON(http.StatusOK, []itemResponse{{ID: "1", Name: "first"}})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
