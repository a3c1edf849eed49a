package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/joho/godotenv"

	"github.com/MennatullahTarek/Center-Dashboard/internal/config"
	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/export"
	"github.com/MennatullahTarek/Center-Dashboard/internal/filter"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
	"github.com/MennatullahTarek/Center-Dashboard/internal/mappers"
	"github.com/MennatullahTarek/Center-Dashboard/internal/sftpclient"
)

func main() {
	var (
		inPath     = flag.String("in", "", "input spreadsheet (.xlsx/.xls/.csv); defaults to DATA_PATH")
		outPath    = flag.String("out", "programs_export.csv", "output csv path")
		centre     = flag.String("centre", "", "restrict to one centre (empty = all centres)")
		programs   = flag.String("programs", "", "comma-separated program inclusion list (empty = all)")
		categories = flag.String("categories", "", "comma-separated category inclusion list (empty = all)")
		minSat     = flag.Float64("min-satisfaction", 1.0, "minimum satisfaction score")
		compress   = flag.Bool("brotli", false, "also write a brotli-compressed copy (.br)")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	src := *inPath
	if src == "" {
		src = cfg.DataPath
	}

	table, err := ingest.ReadFile(src)
	if err != nil {
		log.Fatal(err)
	}

	records := mappers.Normalize(table, mappers.DefaultColumnMap())
	if *centre != "" {
		records = filter.ByCentre(records, *centre)
	}

	crit := filter.Criteria{
		Programs:        splitOrAll(*programs, records, func(r domain.ProgramRecord) string { return r.Program }),
		Categories:      splitOrAll(*categories, records, func(r domain.ProgramRecord) string { return r.Category }),
		MinSatisfaction: *minSat,
	}
	filtered := filter.Apply(records, crit)

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := export.WriteRecordsCSV(out, filtered); err != nil {
		out.Close()
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote %d of %d records to %s", len(filtered), len(records), *outPath)

	if *compress {
		if err := writeBrotli(*outPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s.br", *outPath)
	}

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		remoteName := filepath.Base(*outPath)
		if err := sftpclient.UploadFile(ctx, upCfg, *outPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

// splitOrAll turns a comma-separated flag into an inclusion list. An empty
// flag means "no restriction", i.e. every distinct value in the data.
func splitOrAll(raw string, records []domain.ProgramRecord, key func(domain.ProgramRecord) string) []string {
	if raw != "" {
		var out []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}

	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func writeBrotli(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path + ".br")
	if err != nil {
		return err
	}
	defer f.Close()

	bw := brotli.NewWriterLevel(f, brotli.DefaultCompression)
	if _, err := bw.Write(data); err != nil {
		return err
	}
	return bw.Close()
}
