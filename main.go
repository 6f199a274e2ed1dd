package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/printprep/config"
	"github.com/camden-git/printprep/database"
	"github.com/camden-git/printprep/handlers"
	"github.com/camden-git/printprep/media"
	"github.com/camden-git/printprep/repository"
	"github.com/camden-git/printprep/utils"
	"github.com/camden-git/printprep/workers"
)

func main() {
	serve := flag.Bool("serve", false, "start the review API instead of converting")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <image-or-directory>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.PreviewsPath, filepath.Dir(cfg.DatabasePath)}
	if cfg.OutputDirectory != "" {
		storagePaths = append(storagePaths, cfg.OutputDirectory)
	}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	resultRepo := repository.NewResultRepository(db)

	if *serve {
		runServer(cfg, resultRepo)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := utils.CollectImages(flag.Args())
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if len(paths) == 0 {
		log.Fatalf("FATAL: no supported image files found in the given arguments")
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypePreview: filepath.Base(cfg.PreviewsPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	var processor *media.Processor
	if cfg.GeneratePreviews {
		processor = media.NewProcessor(mediaStore)
	}
	converter := media.NewConverter(cfg, processor)

	log.Printf("Initializing conversion worker pool (Workers: %d, Queue Size: %d)...", cfg.NumWorkers, cfg.BatchQueueSize)
	batch := workers.NewBatchProcessor(converter, resultRepo, cfg.BatchQueueSize, cfg.NumWorkers)
	defer batch.Stop()

	log.Printf("Converting %d file(s) at JPEG quality %d", len(paths), cfg.JPEGQuality)
	report := batch.Run(paths)

	fmt.Printf("Processed %d file(s) in %dms: %d succeeded, %d failed, %d skipped (%.1f%% success)\n",
		report.TotalFiles, report.TotalMillis, report.Successful, report.Failed, report.Skipped, report.SuccessRate())
	for _, r := range report.Results {
		if r.Status == media.StatusFailed {
			fmt.Printf("  FAILED %s: %s\n", r.InputPath, r.ErrorMessage)
		}
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func runServer(cfg config.Config, resultRepo *repository.ResultRepository) {
	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	resultsHandler := &handlers.ResultsHandler{Repo: resultRepo}

	r.Route("/api", func(r chi.Router) {
		r.Route("/results", func(r chi.Router) {
			r.Get("/", resultsHandler.ListResults)
			r.Get("/{result_id}", resultsHandler.GetResult)
		})
		r.Get("/summary", resultsHandler.GetSummary)

		previewSubDir := filepath.Base(cfg.PreviewsPath)
		r.Get(fmt.Sprintf("/%s/*", previewSubDir), handlers.AssetServer(cfg.MediaStoragePath, previewSubDir))
		log.Printf("Registered preview server at /%s/*", previewSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Review server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
