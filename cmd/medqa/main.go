package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/atreyee-m/medTranscript-QA-agent/pkg/agent"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/config"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/corpus"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/docstore"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/embed"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/llm"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/retriever"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/search"
	"github.com/atreyee-m/medTranscript-QA-agent/server"
)

func main() {
	var (
		configPath string
		csvPath    string
		serve      bool
		addr       string
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&csvPath, "csv", "", "Path to the transcript CSV (overrides config)")
	flag.BoolVar(&serve, "serve", false, "Run the WebSocket server instead of the CLI")
	flag.StringVar(&addr, "addr", ":8080", "WebSocket server listen address")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if csvPath != "" {
		cfg.Retriever.CSVPath = csvPath
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		os.Exit(1)
	}

	if err := run(cfg, serve, addr); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, serve bool, addr string) error {
	ctx := context.Background()

	embedder, err := embed.NewOllama(embed.Config{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		BaseURL:     cfg.LLM.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	color.Blue("\nLoading corpus from %s", cfg.Retriever.CSVPath)
	rows, err := corpus.LoadCSV(cfg.Retriever.CSVPath)
	if err != nil {
		return err
	}
	color.Green("✓ Loaded %d transcripts", len(rows))

	indexingBar := getProgressBar(len(rows), "Embedding transcripts...")
	builder := &corpus.Builder{
		Embedder:  embedder,
		BatchSize: cfg.Retriever.BatchSize,
		OnProgress: func(done, total int) {
			indexingBar.Set(done)
		},
	}
	idx, err := builder.Build(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to build corpus index: %v", err)
	}
	indexingBar.Finish()
	color.Green("\n✓ Indexed %d transcripts", idx.Len())

	docRetriever := &retriever.Retriever{
		Index:     idx,
		Embedder:  embedder,
		TopK:      cfg.Retriever.TopK,
		Threshold: float32(*cfg.Retriever.SimilarityThreshold),
	}

	docs := docstore.New(embedder)
	docs.ChunkSize = cfg.Documents.ChunkSize
	docs.ChunkOverlap = cfg.Documents.ChunkOverlap
	docs.ChunksPerPage = cfg.Documents.ChunksPerPage

	searcher := search.NewWithConfig(search.Config{
		MaxResults: cfg.Search.MaxResults,
		RateLimit:  cfg.Search.RateLimit,
	})

	qa := &agent.Agent{
		Router:    chatEngine,
		Retriever: docRetriever,
		Searcher:  searcher,
	}

	if serve {
		return server.New(qa, docs).Run(addr)
	}
	return chatLoop(ctx, qa, chatEngine, docs)
}

func chatLoop(ctx context.Context, qa *agent.Agent, chatEngine *llm.ChatEngine, docs *docstore.Store) error {
	color.Cyan("\nMedical transcript QA agent (type 'exit' to quit)")
	color.Cyan("Commands: load <pdf path> | pdf: <query> | anything else is a question")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.EqualFold(line, "exit"):
			return nil

		case strings.HasPrefix(line, "load "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "load "))
			docID, err := ingestPDF(ctx, docs, path)
			if err != nil {
				color.Red("Failed to load PDF: %v", err)
				continue
			}
			color.Green("✓ Loaded document %s", docID)

		case strings.HasPrefix(line, "pdf:"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "pdf:"))
			spinner := getSpinner("Searching documents...")
			result, err := docs.Search(ctx, query, "", 4)
			spinner.Finish()
			if err != nil {
				color.Red("Document search error: %v", err)
				continue
			}
			assistantPrompt("\n%s\n", result)

		default:
			spinner := getSpinner("Gathering context...")
			contextText, err := qa.Respond(ctx, line)
			spinner.Finish()
			if err != nil {
				color.Red("%v", err)
				continue
			}

			spinner = getSpinner("Generating answer...")
			answer, err := chatEngine.Answer(ctx, line, contextText)
			spinner.Finish()
			if err != nil {
				// fall back to the raw tool output when synthesis fails
				color.Red("Answer generation failed: %v", err)
				assistantPrompt("\n%s\n", contextText)
				continue
			}
			assistantPrompt("\nAssistant: %s\n", answer)
		}
	}

	return nil
}

func ingestPDF(ctx context.Context, docs *docstore.Store, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	return docs.IngestPDF(ctx, filepath.Base(path), f, info.Size())
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
