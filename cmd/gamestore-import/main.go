package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gamestore/internal/clients/gamestore"
	"gamestore/internal/config"
	"gamestore/internal/importer"
	"gamestore/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config yaml file")
		file       = flag.String("file", "", "file with one store page url per line")
	)
	flag.Parse()

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read config: %s\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Env)

	urls := flag.Args()
	if *file != "" {
		fromFile, err := readURLs(*file)
		if err != nil {
			log.Error("failed to read url file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		urls = append(urls, fromFile...)
	}

	client, err := gamestore.New(log, cfg.APIURL, cfg.Timeout)
	if err != nil {
		log.Error("failed to create api client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	report, err := importer.New(client, log, cfg.Timeout).ImportMany(context.Background(), urls)
	if err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(2)
	}

	for _, c := range report.Created {
		fmt.Printf("created %d\t%s\t%s\n", c.ID, c.Title, c.URL)
	}
	for _, e := range report.Errors {
		fmt.Printf("failed\t%s\n", e)
	}

	if len(report.Created) == 0 {
		os.Exit(1)
	}
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}
