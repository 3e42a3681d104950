package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/BearBump/ParcelAssist/internal/transport/chathttp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthService = "parcelassist.chat.v1.Chat"

type chatAPIOpts struct {
	grpcAddr    string
	httpAddr    string
	swaggerPath string
	corsOrigins []string

	onListen func(grpcAddr, httpAddr string)
}

func runChatAPI(ctx context.Context, opts chatAPIOpts, chat *chathttp.Server) error {
	if opts.swaggerPath != "" {
		if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
			return fmt.Errorf("swagger file not found: %s", opts.swaggerPath)
		}
	}

	grpcLis, err := net.Listen("tcp", opts.grpcAddr)
	if err != nil {
		return err
	}
	httpLis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		_ = grpcLis.Close()
		return err
	}

	if opts.onListen != nil {
		opts.onListen(grpcLis.Addr().String(), httpLis.Addr().String())
	}
	return serveChatAPI(ctx, grpcLis, httpLis, opts, chat)
}

// serveChatAPI runs both servers until ctx is done or one of them fails,
// then stops the other and waits for it.
func serveChatAPI(ctx context.Context, grpcLis, httpLis net.Listener, opts chatAPIOpts, chat *chathttp.Server) error {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	hs := health.NewServer()
	hs.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)

	grpcErr := make(chan error, 1)
	go func() {
		grpcErr <- runGRPCServer(serveCtx, grpcLis, hs)
	}()

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runHTTPServer(serveCtx, httpLis, grpcLis.Addr().String(), opts, chat)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-grpcErr:
		grpcErr = nil
	case err = <-httpErr:
		httpErr = nil
	}
	if err != nil {
		slog.Error("chat api server stopped", "error", err.Error())
	}

	hs.Shutdown()
	cancel()
	if grpcErr != nil {
		<-grpcErr
	}
	if httpErr != nil {
		<-httpErr
	}
	chat.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func runGRPCServer(ctx context.Context, lis net.Listener, hs *health.Server) error {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	go func() {
		<-ctx.Done()
		stopped := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			s.Stop()
		}
		_ = lis.Close()
	}()

	slog.Info("gRPC health server listening", "addr", lis.Addr().String())
	return s.Serve(lis)
}

// newGatewayMux exposes the gRPC health service over HTTP as GET /healthz.
func newGatewayMux(conn *grpc.ClientConn) *runtime.ServeMux {
	return runtime.NewServeMux(runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))
}

func newRouter(opts chatAPIOpts, chat *chathttp.Server, gw http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(opts.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.corsOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	if opts.swaggerPath != "" {
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, opts.swaggerPath)
		})
		swaggerURL := "/swagger.json"
		if fi, err := os.Stat(opts.swaggerPath); err == nil {
			swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
		}
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	}

	if gw != nil {
		r.Mount("/grpc", http.StripPrefix("/grpc", gw))
	}

	chat.Routes(r)
	return r
}

func runHTTPServer(ctx context.Context, lis net.Listener, grpcAddr string, opts chatAPIOpts, chat *chathttp.Server) error {
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	srv := &http.Server{
		Handler:           newRouter(opts, chat, newGatewayMux(conn)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("chat HTTP server listening", "addr", lis.Addr().String())
	return srv.Serve(lis)
}
