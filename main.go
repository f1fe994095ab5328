package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"mdblog/internal/config"
	"mdblog/internal/constants"
	"mdblog/internal/content"
	"mdblog/internal/handlers"
	"mdblog/internal/logger"
	"mdblog/internal/metrics"
	"mdblog/internal/repository"
	"mdblog/internal/services"
	"mdblog/internal/tasks"
	"mdblog/internal/utils"
)

// Populated by either assets_dev.go or assets_prod.go at startup.
var (
	templatesFS fs.FS
	staticFS    fs.FS
	assetSource string
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		exitf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitf("invalid config: %v", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		exitf("create logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting mdblog",
		logger.String("content_dir", cfg.Content.Dir),
		logger.String("database", cfg.Database.Path),
		logger.String("assets", assetSource),
	)

	// Posts are loaded once; any content error aborts startup.
	loader := content.NewLoader(
		content.WithLogger(log),
		content.WithMinifiedHTML(cfg.Content.MinifyHTML),
	)
	posts, err := loader.LoadPosts(cfg.Content.Dir)
	if err != nil {
		log.Fatal("Failed to load posts", logger.Error(err))
	}
	postService := services.NewPostService(posts)

	m := metrics.New()
	m.PostsLoaded.Set(float64(postService.Count()))

	db, err := utils.InitDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to open database", logger.Error(err))
	}
	hitRepo := repository.NewHitRepository(db, log)
	if err := hitRepo.EnsureSchema(); err != nil {
		log.Fatal("Failed to prepare database", logger.Error(err))
	}

	views := services.NewViewCounter(postService)
	scheduler := tasks.NewScheduler(views, hitRepo, cfg.Views.FlushInterval, log, tasks.WithObserver(m))
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to restore view counts", logger.Error(err))
	}

	renderer, err := handlers.NewRenderer(templatesFS)
	if err != nil {
		log.Fatal("Failed to parse templates", logger.Error(err))
	}

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HTMLRender = renderer
	r.Use(
		handlers.RequestIDMiddleware(),
		handlers.LoggerMiddleware(log),
		handlers.RecoveryMiddleware(log),
		m.Middleware(),
	)

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 365,
		HttpOnly: true,
		Secure:   cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionName, store))
	r.Use(handlers.SiteMiddleware(cfg.Site))

	r.StaticFS("/static", http.FS(staticFS))

	blogHandler := handlers.NewBlogHandler(postService, views, cfg.Content.PageSize, log)
	searchHandler := handlers.NewSearchHandler(postService, cfg.Content.PageSize)
	feedHandler := handlers.NewFeedHandler(postService, cfg.Site)
	apiHandler := handlers.NewAPIHandler(postService, views, m)

	r.GET("/", blogHandler.Index)
	r.GET("/post/:slug", blogHandler.ShowPost)
	r.GET("/search", searchHandler.Search)
	r.GET("/feed.xml", feedHandler.Feed)
	r.GET("/healthz", apiHandler.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/pageview", apiHandler.Pageview)
		api.GET("/posts", apiHandler.ListPosts)
		api.GET("/stats", apiHandler.Stats)
	}

	r.NoRoute(blogHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", logger.String("addr", srv.Addr), logger.Int("posts", postService.Count()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("Server failed", logger.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", logger.Error(err))
	}

	// Requests have drained, so the final flush sees every increment.
	scheduler.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}

// exitf reports errors that happen before the logger exists.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
