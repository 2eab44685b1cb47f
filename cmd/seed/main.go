package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sykell/url-crawler-dashboard/internal/backend"
	"github.com/sykell/url-crawler-dashboard/internal/dashboard"
	"github.com/sykell/url-crawler-dashboard/internal/logging"
)

// SeedConfig holds seed configuration
type SeedConfig struct {
	BackendURL string
	Username   string
	Password   string
	File       string
	URLs       string
	Crawl      bool
	Timeout    time.Duration
}

// NewSeedConfig creates a new seed configuration from the command line
func NewSeedConfig() *SeedConfig {
	backendURL := flag.String("backend", "http://localhost:8000", "Crawl backend base URL")
	username := flag.String("username", "admin", "Crawl backend username")
	password := flag.String("password", "password", "Crawl backend password")
	file := flag.String("file", "", "File with one URL per line; '#' starts a comment")
	urls := flag.String("urls", "", "Comma separated URLs")
	crawl := flag.Bool("crawl", false, "Start crawling every submitted URL")
	timeout := flag.Duration("timeout", 15*time.Second, "Request timeout")

	flag.Parse()

	return &SeedConfig{
		BackendURL: *backendURL,
		Username:   *username,
		Password:   *password,
		File:       *file,
		URLs:       *urls,
		Crawl:      *crawl,
		Timeout:    *timeout,
	}
}

// seedResult counts the outcome of a seeding run
type seedResult struct {
	Added   int
	Skipped int
	Invalid int
	Failed  int
}

func main() {
	logging.Setup(os.Stderr, logging.Options{Level: "info", Color: true})
	config := NewSeedConfig()

	if config.Username == "" || config.Password == "" {
		slog.Error("username and password are required.")
		os.Exit(1)
	}

	var urls []string
	if config.File != "" {
		f, err := os.Open(config.File)
		if err != nil {
			slog.Error("failed to open url file.", slog.String("err", err.Error()))
			os.Exit(1)
		}
		urls, err = readURLs(f)
		f.Close()
		if err != nil {
			slog.Error("failed to read url file.", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}
	urls = append(urls, splitURLs(config.URLs)...)
	if len(urls) == 0 {
		slog.Error("no urls given, use -file or -urls.")
		os.Exit(1)
	}

	ctx := context.Background()
	client := backend.NewClient(&backend.Config{BaseURL: config.BackendURL, RequestTimeout: config.Timeout})
	if _, err := client.Login(ctx, config.Username, config.Password); err != nil {
		slog.Error("login failed.", slog.String("err", err.Error()))
		os.Exit(1)
	}

	slog.Info("starting url seeding...", slog.Int("urls", len(urls)))
	res := seed(ctx, client, urls, config.Crawl)
	slog.Info("url seeding completed.",
		slog.Int("added", res.Added),
		slog.Int("skipped", res.Skipped),
		slog.Int("invalid", res.Invalid),
		slog.Int("failed", res.Failed))

	if res.Failed > 0 {
		os.Exit(1)
	}
}

// seed submits every url, skipping duplicates the backend already knows
func seed(ctx context.Context, client *backend.Client, urls []string, crawl bool) seedResult {
	var res seedResult
	for _, raw := range urls {
		address, ok := dashboard.ValidURL(raw)
		if !ok {
			slog.Warn("skipping invalid url.", slog.String("url", raw))
			res.Invalid++
			continue
		}

		rec, err := client.CreateURL(ctx, address)
		switch {
		case backend.IsConflict(err):
			slog.Info("url already exists.", slog.String("url", address))
			res.Skipped++
			continue
		case err != nil:
			slog.Error("failed to add url.", slog.String("url", address), slog.String("err", err.Error()))
			res.Failed++
			continue
		}
		res.Added++

		if crawl && rec.ID != "" {
			if err := client.StartCrawl(ctx, rec.ID); err != nil {
				slog.Error("failed to start crawling.", slog.String("url", address), slog.String("err", err.Error()))
				res.Failed++
			}
		}
	}
	return res
}

// readURLs reads one URL per line, ignoring blank lines and comments
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan urls: %w", err)
	}
	return urls, nil
}

func splitURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
