package main

import (
	"flag"
	"fmt"
	"os"
	"proxycheck/internal/shared/logger"
	"proxycheck/internal/shared/types"
	"proxycheck/proxypool/scraper"
	"proxycheck/proxypool/storage"
)

func main() {
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s [flags] <input> <output>\n\n", os.Args[0])
		fmt.Fprintln(w, "Extracts ip:port pairs from a text file, an .html file or an http(s) URL.")
		fmt.Fprintln(w, "Addresses are written in canonical form: ports lose zero padding (080 -> 80)")
		fmt.Fprintln(w, "and IPv6 hosts are bracketed ([2001:db8::1]:8080).")
		fmt.Fprintln(w)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	if err := logger.Init(types.LogConf{Level: *logLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	lines, err := scraper.New(input).Scrape()
	if err != nil {
		logger.Error().Err(err).Str("source", input).Msg("Failed to read source.")
		os.Exit(1)
	}

	found := scraper.Extract(lines)
	if err := storage.NewFileStorage(input, output).Save(found); err != nil {
		logger.Error().Err(err).Str("output", output).Msg("Failed to save results.")
		os.Exit(1)
	}
	logger.Debug().Int("lines", len(lines)).Int("found", len(found)).Msg("Extraction finished.")

	fmt.Printf("Found proxies: %d\n", len(found))
	fmt.Printf("Results saved to: %s\n", output)
}
