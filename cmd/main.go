package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dirscout/analyzer"
	"dirscout/config"
	"dirscout/dupes"
	"dirscout/logger"
	"dirscout/matcher"
	"dirscout/output"
	"dirscout/scanner"
	"dirscout/systeminfo"
	"dirscout/utils"
	"dirscout/version"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading configuration: %v", err)
	}
	logger.Init(cfg.LogLevel)
	cfg.AdjustConcurrency()

	logger.Infof("dirscout %s starting", version.Version)
	logger.Debugf("Scanning %s with %d hash workers", cfg.Root, cfg.ConcurrencyLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warnf("Received %v, stopping", sig)
		cancel()
	}()

	var sys *systeminfo.SystemInfo
	if cfg.CollectSystemInfo {
		var sysErr error
		sys, sysErr = systeminfo.Collect()
		if sysErr != nil {
			logger.Warnf("Partial system information: %v", sysErr)
		}
	}

	res, err := scanner.Collect(ctx, cfg.Root, scanner.Options{
		ExcludeNames:           cfg.ExcludeNames,
		DisableDefaultExcludes: cfg.DisableDefaultExcludes,
		IncludeHidden:          cfg.IncludeHidden,
		FollowSymlinks:         cfg.FollowSymlinks,
		MaxDepth:               cfg.MaxDepth,
		DetectMime:             cfg.DetectMime,
		Progress:               cfg.ShowProgress && cfg.OutputFormat != "text",
	})
	if err != nil {
		logger.Fatalf("Scan failed: %v", err)
	}
	logger.Infof("Scanned %d files and %d directories (%s)",
		res.TotalFiles, res.TotalDirs, output.HumanSize(res.TotalSizeBytes))
	if res.ErrorCount > 0 {
		logger.Warnf("%d entries were inaccessible", res.ErrorCount)
	}

	agg := analyzer.Aggregate(res, cfg.TopN)

	var dup *dupes.Result
	if cfg.DetectDupes {
		dup, err = dupes.Detect(ctx, res, dupes.Options{
			Concurrency:    cfg.ConcurrencyLevel,
			MaxIOPerSecond: cfg.MaxIOPerSecond,
			MmapMinSize:    cfg.MmapMinSize,
		})
		if err != nil {
			logger.Fatalf("Duplicate detection failed: %v", err)
		}
		logger.Infof("Found %d duplicate groups wasting %s",
			len(dup.Groups), output.HumanSize(dup.WastedBytes))
	}

	var matches []matcher.Match
	if cfg.Query != "" {
		matches, err = matcher.Rank(cfg.Query, res.Records, matcher.Options{
			Cutoff:   cfg.Cutoff,
			Limit:    cfg.Limit,
			Strategy: matcher.Strategy(cfg.MatchStrategy),
		})
		if err != nil {
			logger.Fatalf("Match failed: %v", err)
		}
		logger.Infof("Query %q matched %d paths", cfg.Query, len(matches))
	}

	rep := output.Build(res, agg, dup, matches, sys)

	if cfg.OutputFormat == "text" {
		output.WriteText(os.Stdout, rep)
		return
	}

	if utils.IsPathWithin(cfg.OutputFileName, res.Root) {
		logger.Warnf("Output file %s is inside the scan root; rescans will include it", cfg.OutputFileName)
	}
	writer, err := output.New(cfg.OutputFileName, cfg.OutputFormat)
	if err != nil {
		logger.Fatalf("Error creating output file: %v", err)
	}
	if err := writer.Write(rep, res); err != nil {
		writer.Close()
		logger.Fatalf("Error writing results: %v", err)
	}
	if err := writer.Close(); err != nil {
		logger.Fatalf("Error finalizing output file: %v", err)
	}
	logger.Infof("Results written to %s", writer.Name())
}
