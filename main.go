package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"

	"photoshare/config"
	"photoshare/db"
	"photoshare/handlers"
	"photoshare/models"
	"photoshare/processing"
	"photoshare/repository"
	"photoshare/service"
	"photoshare/storage"
	"photoshare/utils"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
	shutdownTimeout       = 10 * time.Second
)

func main() {
	seedUser := flag.String("seed-user", "", "create a user before starting, as username:role (creator or consumer)")
	flag.Parse()

	cfg := config.Load()
	log := newLogger(cfg)
	if err := run(cfg, log, *seedUser); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.DebugMode {
		opts.Level = slog.LevelDebug
	}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, log *slog.Logger, seedUser string) error {
	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			log.Warn("closing database", "error", err)
		}
	}()
	if err := models.Migrate(conn); err != nil {
		return err
	}
	store, err := storage.New(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.TmpDir, 0o755); err != nil {
		return err
	}

	photos := repository.NewPhotoRepository(conn)
	engagement := repository.NewEngagementRepository(conn)
	users := repository.NewUserRepository(conn)
	if seedUser != "" {
		if err := seed(users, seedUser, log); err != nil {
			return err
		}
	}

	h := &handlers.Handlers{
		Uploader:   service.NewUploader(store, processing.NewProcessor(cfg), photos, log),
		Catalog:    service.NewCatalog(photos, engagement, cfg.CommentsPreview, log),
		Photos:     service.NewPhotos(photos, store, log),
		Engagement: service.NewEngagement(photos, engagement, log),
		Store:      store,
		DB:         conn,
		TmpDir:     cfg.TmpDir,
		Log:        log,
	}

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if cfg.DebugMode {
		router.Use(utils.ErrorLogMiddleware(log))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	sessionKey := cfg.SessionKey
	if sessionKey == "" {
		sessionKey = utils.RandSalt(32)
		log.Warn("SESSION_KEY not set, sessions will not survive a restart")
	}
	cookieStore := gormsessions.NewStore(conn, true, []byte(sessionKey))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !cfg.DebugMode {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/photos/\d+/file$`})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	h.Register(router, users)

	if cfg.TLSDomains != "" {
		return autotls.Run(router, strings.Split(cfg.TLSDomains, ",")...)
	}
	return serve(router, cfg.BindAddress, log)
}

func serve(handler http.Handler, addr string, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// seed provisions a user from "username:role" for local use.
func seed(users *repository.UserRepository, spec string, log *slog.Logger) error {
	name, role, ok := strings.Cut(spec, ":")
	if !ok || name == "" || (models.Role(role) != models.RoleCreator && models.Role(role) != models.RoleConsumer) {
		return errors.New("seed-user must look like username:creator or username:consumer")
	}
	user, err := users.Ensure(context.Background(), name, name, models.Role(role))
	if err != nil {
		return err
	}
	log.Info("user ready", "id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}
