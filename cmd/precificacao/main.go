package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/erazemk/precificacao/internal/api"
	"github.com/erazemk/precificacao/internal/config"
	"github.com/erazemk/precificacao/internal/db"
	"github.com/erazemk/precificacao/internal/logger"
	"github.com/erazemk/precificacao/internal/static"
)

const usage = `Usage: precificacao <init|serve> [flags]

Commands:
  init    create the database, schema and default items, then exit
  serve   run the HTTP server (default)

Flags:
  -d, -db <path>          SQLite database path (default: precificacao.db)
  -a, -addr <host:port>   listen address, serve only (default: :3000)
  -s, -static <dir>       static file root, serve only (default: public)
  -seed                   insert default items into an empty table (default: true)
  -h, -help               show this help and exit

Every flag default can also be set in the environment or a .env file:
PRECIFICACAO_DB, PRECIFICACAO_ADDR, PRECIFICACAO_STATIC_DIR, PRECIFICACAO_SEED.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	for _, w := range cfg.Warnings {
		logger.Get().Warn(w)
	}

	cmd := "serve"
	if len(args) > 0 && (args[0] == "init" || args[0] == "serve") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "")
	fs.StringVar(&cfg.StaticDir, "s", cfg.StaticDir, "")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "")
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return 1
	}

	if cmd == "init" {
		return cmdInit(cfg)
	}
	return cmdServe(cfg)
}

func cmdInit(cfg *config.Config) int {
	if _, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", cfg.DBPath)
		return 1
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer database.Close()

	seeded, err := db.Initialize(context.Background(), database, cfg.Seed)
	if err != nil {
		database.Close()
		os.Remove(cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Database created: %s\n", cfg.DBPath)
	fmt.Println("Schema initialized.")
	fmt.Printf("Default items inserted: %d\n", seeded)
	return 0
}

func cmdServe(cfg *config.Config) int {
	log := logger.Get()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Errorw("failed to open database", "error", err)
		return 1
	}
	defer database.Close()

	seeded, err := db.Initialize(context.Background(), database, cfg.Seed)
	if err != nil {
		log.Errorw("failed to initialize database", "error", err)
		return 1
	}
	log.Infow("database ready", "path", cfg.DBPath, "seeded", seeded)

	files, err := static.New(cfg.StaticDir)
	if err != nil {
		log.Errorw("failed to resolve static root", "dir", cfg.StaticDir, "error", err)
		return 1
	}

	router := api.NewRouter(database, files)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(api.RecoverMiddleware(router)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", cfg.Addr, "static", files.Root)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info("shutdown signal received")
				return server.Shutdown(ctx)
			},
		},
	)

	select {
	case code := <-wait:
		log.Infow("server stopped, closing database", "exit_code", code)
		return code
	case err := <-serveErr:
		log.Errorw("server error", "error", err)
		return 1
	}
}
