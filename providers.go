package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MadAppGang/httplog"
	lzap "github.com/MadAppGang/httplog/zap"
	ghandlers "github.com/gorilla/handlers"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/db"
	"github.com/aptgo/registry-go/handlers"
	"github.com/aptgo/registry-go/store"
)

func NewStore(conf *config.Config) store.Store {
	if !conf.DBEnabled {
		return store.NewMemoryStore()
	}
	return store.NewSQLStore(db.GetDataDBConnection(conf))
}

func NewHttpServer(lc fx.Lifecycle, mux *http.ServeMux, conf *config.Config, log *zap.Logger) *http.Server {
	requestLogger := httplog.LoggerWithFormatter(lzap.ZapLogger(log, zap.InfoLevel, "request"))
	root := ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(requestLogger(mux))

	srv := &http.Server{
		Addr:         conf.HTTPAddr,
		Handler:      root,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			fmt.Println("Starting HTTP server at", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func NewServeMux(routers []handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	for _, router := range routers {
		router.ServeHttp(mux)
	}
	return mux
}
