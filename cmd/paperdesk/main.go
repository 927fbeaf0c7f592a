// Copyright 2025 Paperdesk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/paperdesk/paperdesk/ai"
	"github.com/paperdesk/paperdesk/ai/openai"
	"github.com/paperdesk/paperdesk/blob/fs"
	"github.com/paperdesk/paperdesk/config"
	"github.com/paperdesk/paperdesk/extract/pdftext"
	"github.com/paperdesk/paperdesk/feed"
	"github.com/paperdesk/paperdesk/feed/arxiv"
	"github.com/paperdesk/paperdesk/pipeline"
	"github.com/paperdesk/paperdesk/storage"
	"github.com/paperdesk/paperdesk/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	app := newApp(cfg)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(cfg config.Config) *cli.App {
	storageFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   cfg.Storage.DBPath,
		},
		&cli.StringFlag{
			Name:  "blob-dir",
			Usage: "Directory for stored PDFs",
			Value: cfg.Storage.BlobDir,
		},
	}
	modelFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "model-host",
			Usage: "OpenAI-compatible chat service host URL",
			Value: cfg.Model.Host,
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Chat model name",
			Value: cfg.Model.Name,
		},
		&cli.StringFlag{
			Name:  "model-token",
			Usage: "API token for the chat service",
			Value: cfg.Model.Token,
		},
	}
	limitFlag := &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum records to process this run",
		Value:   cfg.Limits.StageLimit,
	}
	forceFlag := &cli.BoolFlag{
		Name:  "force",
		Usage: "Reprocess the most recent records even if already done",
	}
	feedFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "feed-url",
			Usage: "arXiv RSS feed URL",
			Value: cfg.Feed.URL,
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Feed source: rss or listing",
			Value: "rss",
		},
		&cli.StringSliceFlag{
			Name:  "category",
			Usage: "arXiv categories scraped by the listing source",
			Value: cli.NewStringSlice("cs.AI"),
		},
	}

	return &cli.App{
		Name:  "paperdesk",
		Usage: "Incremental fetch, extraction, and summarization of arXiv papers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the full pipeline: fetch, extract, summarize",
				Action: runCommand,
				Flags: append(append(append([]cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Extraction worker pool size",
						Value: 1,
					},
					limitFlag,
				}, feedFlags...), storageFlags...), modelFlags...),
			},
			{
				Name:   "fetch",
				Usage:  "Fetch new papers from the feed into the store",
				Action: fetchCommand,
				Flags: append(append([]cli.Flag{
					limitFlag,
				}, feedFlags...), storageFlags...),
			},
			{
				Name:   "extract",
				Usage:  "Extract text from stored PDFs",
				Action: extractCommand,
				Flags: append([]cli.Flag{
					limitFlag,
					forceFlag,
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Extraction worker pool size",
						Value: 1,
					},
				}, storageFlags...),
			},
			{
				Name:   "summarize",
				Usage:  "Summarize papers with extracted text",
				Action: summarizeCommand,
				Flags: append(append([]cli.Flag{
					limitFlag,
					forceFlag,
				}, storageFlags...), modelFlags...),
			},
			{
				Name:   "relevance",
				Usage:  "Score stored papers against a research topic",
				Action: relevanceCommand,
				Flags: append(append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Research topic to score against (repeatable)",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum relevance score (0-10) to report",
						Value: cfg.Limits.RelevanceThreshold,
					},
					limitFlag,
				}, storageFlags...), modelFlags...),
			},
		},
	}
}

// openRepo opens the database and wraps it in the paper repository. The
// returned cleanup closes both.
func openRepo(c *cli.Context) (storage.PaperRepository, func(), error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo, err := badger.NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create repository: %w", err)
	}

	cleanup := func() {
		repo.Close()
		backend.Close()
	}
	return repo, cleanup, nil
}

// buildSource selects the feed implementation named by --source.
func buildSource(c *cli.Context) (feed.Source, error) {
	switch name := c.String("source"); name {
	case "rss":
		return arxiv.NewRSSSource(c.String("feed-url"), nil), nil
	case "listing":
		return arxiv.NewListingSource(c.StringSlice("category"), nil), nil
	default:
		return nil, fmt.Errorf("unknown feed source %q: must be rss or listing", name)
	}
}

func buildAIConfig(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("model-host")),
		ai.WithModel(c.String("model")),
		ai.WithToken(c.String("model-token")),
	)
}

func runCommand(c *cli.Context) error {
	repo, cleanup, err := openRepo(c)
	if err != nil {
		return err
	}
	defer cleanup()

	blobs, err := fs.NewStore(c.String("blob-dir"))
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	summarizer, err := openai.NewSummarizer(buildAIConfig(c))
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	source, err := buildSource(c)
	if err != nil {
		return err
	}

	p := pipeline.New(
		pipeline.NewFetchStage(repo, source, arxiv.NewPDFDownloader(nil), blobs),
		pipeline.NewExtractStage(repo, blobs, pdftext.NewExtractor(),
			pipeline.WithExtractWorkers(c.Int("workers"))),
		pipeline.NewSummarizeStage(repo, summarizer),
	)

	report := p.Run(c.Context, pipeline.RunOptions{
		FetchLimit:     c.Int("limit"),
		ExtractLimit:   c.Int("limit"),
		SummarizeLimit: c.Int("limit"),
	})

	printStage(report.Fetch)
	printStage(report.Extract)
	printStage(report.Summarize)
	fmt.Fprintf(os.Stderr, "elapsed: %s\n", report.Elapsed.Round(time.Millisecond))

	if report.Degraded() {
		return cli.Exit("pipeline run degraded", 1)
	}
	return nil
}

func fetchCommand(c *cli.Context) error {
	repo, cleanup, err := openRepo(c)
	if err != nil {
		return err
	}
	defer cleanup()

	blobs, err := fs.NewStore(c.String("blob-dir"))
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	source, err := buildSource(c)
	if err != nil {
		return err
	}

	stage := pipeline.NewFetchStage(repo, source, arxiv.NewPDFDownloader(nil), blobs)
	report, err := stage.Run(c.Context, c.Int("limit"))
	printStage(report)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if report.Degraded() {
		return cli.Exit("fetch degraded", 1)
	}
	return nil
}

func extractCommand(c *cli.Context) error {
	repo, cleanup, err := openRepo(c)
	if err != nil {
		return err
	}
	defer cleanup()

	blobs, err := fs.NewStore(c.String("blob-dir"))
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}

	stage := pipeline.NewExtractStage(repo, blobs, pdftext.NewExtractor(),
		pipeline.WithExtractWorkers(c.Int("workers")))
	report, err := stage.Run(c.Context, c.Int("limit"), c.Bool("force"))
	printStage(report)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if report.Degraded() {
		return cli.Exit("extraction degraded", 1)
	}
	return nil
}

func summarizeCommand(c *cli.Context) error {
	repo, cleanup, err := openRepo(c)
	if err != nil {
		return err
	}
	defer cleanup()

	summarizer, err := openai.NewSummarizer(buildAIConfig(c))
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	stage := pipeline.NewSummarizeStage(repo, summarizer)
	report, err := stage.Run(c.Context, c.Int("limit"), c.Bool("force"))
	printStage(report)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if report.Degraded() {
		return cli.Exit("summarization degraded", 1)
	}
	return nil
}

func relevanceCommand(c *cli.Context) error {
	repo, cleanup, err := openRepo(c)
	if err != nil {
		return err
	}
	defer cleanup()

	scorer, err := openai.NewRelevanceScorer(buildAIConfig(c))
	if err != nil {
		return fmt.Errorf("failed to create relevance scorer: %w", err)
	}

	analyzer := pipeline.NewAnalyzer(repo, scorer,
		pipeline.WithThreshold(c.Float64("threshold")))
	analysis, err := analyzer.Analyze(c.Context, c.StringSlice("topic"), c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("topics: %s\nevaluated: %d papers, %d relevant\n\n",
		strings.Join(analysis.Topics, ", "), analysis.Evaluated, len(analysis.Ranked))
	for i, ranked := range analysis.Ranked {
		fmt.Printf("%2d. [%.1f] %s (%s)\n", i+1,
			ranked.Relevance.Score, ranked.Paper.Title, ranked.Paper.ID)
		if ranked.Relevance.Rationale != "" {
			fmt.Printf("    %s\n", ranked.Relevance.Rationale)
		}
	}
	for _, failure := range analysis.Failed {
		fmt.Fprintf(os.Stderr, "failed to score %s: %s\n", failure.PaperID, failure.Reason)
	}
	return nil
}

func printStage(report *pipeline.StageReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %d processed, %d succeeded, %d failed\n",
		report.Stage, report.Processed, len(report.Succeeded), len(report.Failed))
	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", failure.PaperID, failure.Reason)
	}
	if report.Err != "" {
		fmt.Fprintf(os.Stderr, "  stage error: %s\n", report.Err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
