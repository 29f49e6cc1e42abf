package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-extractor/internal/api"
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/orchestrator"
	"github.com/insightdelivered/statement-extractor/internal/pdfextract"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

const version = "2.0.0"

func main() {
	configsFlag := flag.String("configs", "configs", "Directory of StatementConfig JSON documents")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")
	serveFlag := flag.Bool("serve", false, "Start web UI server instead of CLI mode")
	portFlag := flag.String("port", "8080", "Port for web UI server (used with --serve)")
	staticFlag := flag.String("static", "", "Path to React build directory (used with --serve)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement PDF to CSV Converter (Fiber v2)
by Insight Delivered (QEA AutoLens)

Converts bank statement PDFs into structured CSV files by matching
each document against a registry of bank/account-layout configs.

Usage:
  statement-extractor [flags] <input.pdf> [input2.pdf ...]

  Web UI mode:
  statement-extractor --serve [--port=8080] [--static=./web/dist]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Identify the matching config and convert
  statement-extractor statement.pdf

  # Custom output path
  statement-extractor --output=transactions.csv statement.pdf

  # Convert multiple files
  statement-extractor jan.pdf feb.pdf mar.pdf

  # Start web UI (Go Fiber)
  statement-extractor --serve --port=3001
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s (Go Fiber)\n", version)
		os.Exit(0)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	registry, err := config.LoadDir(*configsFlag)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *configsFlag).Msg("loading config registry")
	}

	if *serveFlag {
		startServer(*portFlag, *staticFlag, registry, log)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	inputFiles := flag.Args()
	orch := orchestrator.New(registry, log)

	for _, inputPath := range inputFiles {
		if err := processFile(orch, inputPath, *outputFlag, *headerFlag, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func startServer(port, staticDir string, registry *config.Registry, log zerolog.Logger) {
	app := fiber.New(fiber.Config{
		AppName:   "Bank Statement Converter v" + version,
		BodyLimit: 32 * 1024 * 1024, // 32MB max upload
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	handler := api.NewHandler(orchestrator.New(registry, log), log)

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", handler.HandleHealth)
	apiGroup.Post("/convert", handler.HandleConvert)

	if staticDir != "" {
		app.Static("/", staticDir, fiber.Static{
			Index: "index.html",
		})
		app.Get("/*", func(c *fiber.Ctx) error {
			path := c.Path()
			if strings.HasPrefix(path, "/api/") {
				return c.SendStatus(fiber.StatusNotFound)
			}
			fullPath := filepath.Join(staticDir, path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				return c.SendFile(filepath.Join(staticDir, "index.html"))
			}
			return c.Next()
		})
	}

	addr := ":" + port
	fmt.Printf("Bank Statement Converter v%s — Go Fiber\n", version)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	if staticDir != "" {
		fmt.Printf("Serving UI from: %s\n", staticDir)
	} else {
		fmt.Printf("API-only mode (no --static dir specified)\n")
		fmt.Printf("Run React dev server separately: cd web && npm run dev\n")
	}

	log.Fatal().Err(app.Listen(addr)).Msg("server stopped")
}

func processFile(orch *orchestrator.Orchestrator, inputPath, outputPath string, includeHeader bool, log zerolog.Logger) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	store, err := pdfextract.Extract(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	fmt.Printf("  Extracted %d token(s)\n", len(store.All()))

	sd, err := orch.Run(store)
	if err != nil {
		return err
	}

	fmt.Printf("  Matched config: %s\n", sd.Key)
	fmt.Printf("  Found %d transaction(s)\n", len(sd.ProtoTransactions))

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, sd); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)

	if sd.AccountNumber != "" {
		fmt.Printf("  Account number: %s\n", sd.AccountNumber)
	}

	fmt.Println("  Done.")
	return nil
}
