// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/recallit"
	"github.com/poiesic/recallit/ai"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ai/openai"
	"github.com/poiesic/recallit/ingestion"
	"github.com/poiesic/recallit/reembed"
	"github.com/poiesic/recallit/search"
	"github.com/poiesic/recallit/storage/badger"
)

func main() {
	if err := buildApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildApp() *cli.App {
	return &cli.App{
		Name:  "recallit",
		Usage: "Retrieval pipeline for a personal Markdown knowledge base",
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
				Name:   "ingest",
				Usage:  "Ingest Markdown files into the vault",
				Action: ingestCommand,
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory of Markdown files to ingest",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents embedded concurrently",
						Value: 5,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the vault",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (semantic, keyword, hybrid, tag)",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Tag to match (tag mode only)",
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Re-rank results with the cross encoder",
					},
				),
			},
			{
				Name:   "evaluate",
				Usage:  "Score a generated response against the vault",
				Action: evaluateCommand,
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:     "query",
						Usage:    "The original question",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "response",
						Usage:    "The generated response to score",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "sources",
						Usage: "Number of retrieved documents to score against",
						Value: 5,
					},
				),
			},
			{
				Name:   "trend",
				Usage:  "Summarize quality-report history",
				Action: trendCommand,
				Flags: append(vaultFlags(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Window size in days, ending now",
						Value: 30,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all chunks with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// vaultFlags are shared by every command that opens a full vault.
func vaultFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "AI service host URL (embedding and rerank)",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "rerank-model",
			Usage: "Cross-encoder model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openVault(c *cli.Context) (*recallit.Vault, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithRerankModel(c.String("rerank-model")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return recallit.NewVault(c.String("db"), recallit.WithAIConfig(config))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	vault, err := recallit.NewVault(c.String("db"),
		recallit.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithRerankModel(c.String("rerank-model")),
		)),
		recallit.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	docs, err := scanMarkdownFiles(c.String("dir"))
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", c.String("dir"), err)
	}
	if len(docs) == 0 {
		fmt.Fprintf(os.Stderr, "No Markdown files found in %s\n", c.String("dir"))
		return nil
	}

	batch, err := vault.Ingest(ctx, docs...)
	if batch != nil {
		fmt.Printf("Ingested %d, skipped %d, failed %d\n",
			batch.Ingested, batch.Skipped, batch.Failed)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// scanMarkdownFiles collects every .md file under root as a document.
func scanMarkdownFiles(root string) ([]ingestion.Document, error) {
	var docs []ingestion.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, ingestion.Document{
			Path:  filepath.ToSlash(rel),
			Text:  string(text),
			Mtime: info.ModTime(),
		})
		return nil
	})
	return docs, err
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" && c.String("tag") == "" {
		return fmt.Errorf("query argument is required")
	}

	vault, err := openVault(c)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	if c.Bool("rerank") {
		results, err := vault.Query(ctx, queryText, c.Int("limit"))
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		for i, hit := range results {
			fmt.Printf("%2d. [%.3f] %s - %s\n", i+1, hit.FinalScore,
				hit.Chunk.SourcePath, firstLine(hit.Chunk.Text))
		}
		return nil
	}

	results, err := vault.Search(ctx, search.Request{
		Query: queryText,
		Mode:  search.Mode(c.String("mode")),
		Limit: c.Int("limit"),
		Tag:   c.String("tag"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	for i, hit := range results {
		fmt.Printf("%2d. [%.3f] %s - %s\n", i+1, hit.Similarity,
			hit.Chunk.SourcePath, firstLine(hit.Chunk.Text))
	}
	return nil
}

func firstLine(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if len(line) > 100 {
		line = line[:100] + "..."
	}
	return line
}

func evaluateCommand(c *cli.Context) error {
	ctx := context.Background()

	vault, err := openVault(c)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	// Pull the documents the response should be grounded on.
	hits, err := vault.Search(ctx, search.Request{
		Query: c.String("query"),
		Mode:  search.ModeHybrid,
		Limit: c.Int("sources"),
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}
	docs := make([]string, len(hits))
	for i, hit := range hits {
		docs[i] = hit.Chunk.Text
	}

	report := vault.Evaluate(ctx, c.String("query"), c.String("response"), docs)

	fmt.Printf("Overall: %.2f (%s)\n", report.OverallScore, report.Level)
	fmt.Printf("  basic        %.2f\n", report.SubScores.Basic)
	fmt.Printf("  semantic     %.2f\n", report.SubScores.Semantic)
	fmt.Printf("  relevance    %.2f\n", report.SubScores.Relevance)
	fmt.Printf("  completeness %.2f\n", report.SubScores.Completeness)
	fmt.Printf("  coherence    %.2f\n", report.SubScores.Coherence)
	if report.Degraded {
		fmt.Println("(semantic axis degraded: embedder unavailable)")
	}
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	return nil
}

func trendCommand(c *cli.Context) error {
	ctx := context.Background()

	vault, err := openVault(c)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	end := time.Now()
	start := end.AddDate(0, 0, -c.Int("days"))
	trend, err := vault.QualityTrend(ctx, start, end)
	if err != nil {
		return fmt.Errorf("trend analysis failed: %w", err)
	}

	fmt.Printf("Reports: %d (last %d days)\n", trend.ReportCount, c.Int("days"))
	if trend.ReportCount == 0 {
		return nil
	}
	fmt.Printf("Mean overall: %.2f\n", trend.MeanOverall)
	fmt.Printf("Direction: %+.2f\n", trend.Direction)
	for _, level := range []string{"excellent", "good", "fair", "poor"} {
		fmt.Printf("  %-9s %d\n", level, trend.LevelCounts[core.QualityLevel(level)])
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	repos, err := badger.NewRepositories(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(repos.Chunks, repos.Vectors,
		provider.Embedder(), c.String("embedding-model"), reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
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
