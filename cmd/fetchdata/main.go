package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/MennatullahTarek/Center-Dashboard/internal/config"
	"github.com/MennatullahTarek/Center-Dashboard/internal/httpx"
	"github.com/MennatullahTarek/Center-Dashboard/internal/sources"
)

// fetchdata downloads the shared master workbook (e.g. from the org's file
// host) so the dashboard can serve it locally.
func main() {
	var (
		rawURL  = flag.String("url", "", "workbook url; defaults to DATA_URL")
		outPath = flag.String("out", "", "destination path; defaults to DATA_PATH")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	url := *rawURL
	if url == "" {
		url = cfg.DataURL
	}
	if url == "" {
		log.Fatal("no url: pass -url or set DATA_URL")
	}

	dest := *outPath
	if dest == "" {
		dest = cfg.DataPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	src := sources.HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 2 * time.Minute},
		Retry:  httpx.DefaultRetryConfig(),
	}

	data, err := src.FetchRaw(ctx)
	if err != nil {
		log.Fatal(err)
	}

	if dir := filepath.Dir(dest); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		log.Fatal(err)
	}

	log.Printf("fetched %d bytes from %s to %s", len(data), url, dest)
}
