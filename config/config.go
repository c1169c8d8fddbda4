package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"dirscout/version"
)

type Config struct {
	Root                   string   `json:"root"`
	ExcludeNames           []string `json:"exclude_names"`
	DisableDefaultExcludes bool     `json:"disable_default_excludes"`
	IncludeHidden          bool     `json:"include_hidden"`
	FollowSymlinks         bool     `json:"follow_symlinks"`
	MaxDepth               int      `json:"max_depth"`
	TopN                   int      `json:"top_n"`
	DetectDupes            bool     `json:"detect_dupes"`
	Query                  string   `json:"query"`
	Cutoff                 float64  `json:"cutoff"`
	Limit                  int      `json:"limit"`
	MatchStrategy          string   `json:"match_strategy"`
	OutputFormat           string   `json:"output_format"`
	OutputFileName         string   `json:"output_file_name"`
	ConcurrencyLevel       int      `json:"concurrency_level"`
	NiceLevel              string   `json:"nice_level"`
	LogLevel               string   `json:"log_level"`
	MaxIOPerSecond         int      `json:"max_io_per_second"`
	MmapMinSize            int64    `json:"mmap_min_size"`
	DetectMime             bool     `json:"detect_mime"`
	CollectSystemInfo      bool     `json:"collect_system_info"`
	ShowProgress           bool     `json:"show_progress"`
	ConfigFile             string   `json:"config_file"`
	ConcurrencySet         bool     `json:"-"`
}

func LoadConfig() (*Config, error) {
	timestamp := time.Now().UTC().Format("20060102-150405")
	cfg := &Config{
		Root:              ".",
		ExcludeNames:      []string{},
		TopN:              10,
		Cutoff:            0.6,
		Limit:             20,
		MatchStrategy:     "basename",
		OutputFormat:      "json",
		OutputFileName:    fmt.Sprintf("dirscout-%s.json", timestamp),
		ConcurrencyLevel:  runtime.NumCPU(),
		NiceLevel:         "medium",
		LogLevel:          "info",
		MaxIOPerSecond:    0,
		MmapMinSize:       128 * 1024,
		CollectSystemInfo: true,
		ShowProgress:      true,
	}

	root := flag.String("path", cfg.Root, "Root directory to scan (default: current directory).")
	excludes := flag.String("exclude", "", "Comma-separated list of extra basenames to prune (default: none).")
	noDefaultExcludes := flag.Bool("no-default-excludes", cfg.DisableDefaultExcludes, "Disable the built-in exclusion list (default: false).")
	includeHidden := flag.Bool("include-hidden", cfg.IncludeHidden, "Include dot-named (hidden) entries (default: false).")
	followSymlinks := flag.Bool("follow-symlinks", cfg.FollowSymlinks, "Follow symbolic links, recording each real path once (default: false).")
	maxDepth := flag.Int("max-depth", cfg.MaxDepth, "Maximum descent depth, 0 for unlimited (default: 0).")
	topN := flag.Int("top", cfg.TopN, fmt.Sprintf("Length of the largest/newest/oldest/heaviest lists (default: %d).", cfg.TopN))
	dupesFlag := flag.Bool("dupes", cfg.DetectDupes, "Enable duplicate detection; reads file contents (default: false).")
	query := flag.String("query", "", "Fuzzy query to rank paths against (default: none).")
	cutoff := flag.Float64("cutoff", cfg.Cutoff, fmt.Sprintf("Minimum similarity score in [0,1] for matches (default: %.1f).", cfg.Cutoff))
	limit := flag.Int("limit", cfg.Limit, fmt.Sprintf("Maximum number of match results (default: %d).", cfg.Limit))
	matchStrategy := flag.String("match-strategy", cfg.MatchStrategy, "Match scoring target: basename or path (default: basename).")
	format := flag.String("format", cfg.OutputFormat, "Output format: json, csv, or text (default: json).")
	outputName := flag.String("output", cfg.OutputFileName, "Output file name (default: dirscout-<timestamp>.json).")
	concurrency := flag.Int("concurrency", cfg.ConcurrencyLevel, fmt.Sprintf("Worker count for duplicate hashing (default: %d).", cfg.ConcurrencyLevel))
	nice := flag.String("nice", cfg.NiceLevel, fmt.Sprintf("Nice level: high, medium, or low (default: %s).", cfg.NiceLevel))
	logLevel := flag.String("log-level", cfg.LogLevel, fmt.Sprintf("Log level: debug, info, warn, error, fatal, or panic (default: %s).", cfg.LogLevel))
	maxIO := flag.Int("max-io-per-second", cfg.MaxIOPerSecond, "Maximum file opens per second during hashing, 0 for unlimited (default: 0).")
	mmapMinSize := flag.Int64("mmap-min-size", cfg.MmapMinSize, fmt.Sprintf("Minimum file size in bytes for the mmap hash path (default: %d).", cfg.MmapMinSize))
	mime := flag.Bool("mime", cfg.DetectMime, "Sniff MIME types of files (default: false).")
	collectSystemInfo := flag.Bool("collect-system-info", cfg.CollectSystemInfo, fmt.Sprintf("Embed host information in the JSON report (default: %t).", cfg.CollectSystemInfo))
	progress := flag.Bool("progress", cfg.ShowProgress, fmt.Sprintf("Show a progress spinner during the scan (default: %t).", cfg.ShowProgress))
	configFile := flag.String("config", "", "Path to JSON configuration file (default: none).")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("dirscout version %s\n", version.Version)
		os.Exit(0)
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "path":
			cfg.Root = *root
		case "exclude":
			cfg.ExcludeNames = parseCommaSeparated(*excludes)
		case "no-default-excludes":
			cfg.DisableDefaultExcludes = *noDefaultExcludes
		case "include-hidden":
			cfg.IncludeHidden = *includeHidden
		case "follow-symlinks":
			cfg.FollowSymlinks = *followSymlinks
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "top":
			cfg.TopN = *topN
		case "dupes":
			cfg.DetectDupes = *dupesFlag
		case "query":
			cfg.Query = *query
		case "cutoff":
			cfg.Cutoff = *cutoff
		case "limit":
			cfg.Limit = *limit
		case "match-strategy":
			cfg.MatchStrategy = strings.ToLower(strings.TrimSpace(*matchStrategy))
		case "format":
			cfg.OutputFormat = strings.ToLower(*format)
		case "output":
			cfg.OutputFileName = *outputName
		case "concurrency":
			cfg.ConcurrencyLevel = *concurrency
			cfg.ConcurrencySet = true
		case "nice":
			cfg.NiceLevel = *nice
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-io-per-second":
			cfg.MaxIOPerSecond = *maxIO
		case "mmap-min-size":
			cfg.MmapMinSize = *mmapMinSize
		case "mime":
			cfg.DetectMime = *mime
		case "collect-system-info":
			cfg.CollectSystemInfo = *collectSystemInfo
		case "progress":
			cfg.ShowProgress = *progress
		}
	})
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.MatchStrategy = strings.ToLower(strings.TrimSpace(cfg.MatchStrategy))
	if cfg.MatchStrategy == "" {
		cfg.MatchStrategy = "basename"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "json"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func displayHelp() {
	fmt.Println("dirscout - directory reconnaissance and fuzzy path search")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dirscout [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  dirscout -path ~/Documents -top 15 -dupes")
	fmt.Println("  dirscout -path . -query report -cutoff 0.5")
	fmt.Println("  dirscout -path /var/log -format csv -output logs.csv")
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	if _, ok := raw["concurrency_level"]; ok {
		cfg.ConcurrencySet = true
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

// Validate rejects whole-operation preconditions up front; per-entry scan
// errors are handled downstream as data.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Root) == "" {
		return fmt.Errorf("a scan root must be specified")
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max-depth must be zero or positive")
	}
	if cfg.TopN <= 0 {
		return fmt.Errorf("top must be positive")
	}
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		return fmt.Errorf("cutoff must be within [0, 1]")
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("limit must be zero or positive")
	}
	if cfg.MatchStrategy != "basename" && cfg.MatchStrategy != "path" {
		return fmt.Errorf("invalid match strategy: %s", cfg.MatchStrategy)
	}
	if cfg.OutputFormat != "json" && cfg.OutputFormat != "csv" && cfg.OutputFormat != "text" {
		return fmt.Errorf("invalid output format: %s", cfg.OutputFormat)
	}
	if cfg.OutputFormat != "text" && strings.TrimSpace(cfg.OutputFileName) == "" {
		return fmt.Errorf("an output file name must be specified")
	}
	if cfg.ConcurrencyLevel <= 0 {
		return fmt.Errorf("concurrency level must be positive")
	}
	if cfg.NiceLevel != "high" && cfg.NiceLevel != "medium" && cfg.NiceLevel != "low" {
		return fmt.Errorf("invalid nice level: %s", cfg.NiceLevel)
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" &&
		cfg.LogLevel != "error" && cfg.LogLevel != "fatal" && cfg.LogLevel != "panic" {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if cfg.MaxIOPerSecond < 0 {
		return fmt.Errorf("max-io-per-second must be zero or positive")
	}
	if cfg.MmapMinSize < 0 {
		return fmt.Errorf("mmap-min-size must be zero or positive")
	}
	return nil
}

// AdjustConcurrency derives the hashing worker count from the nice level
// unless the caller pinned it explicitly.
func (cfg *Config) AdjustConcurrency() {
	if cfg.ConcurrencySet {
		return
	}
	numCPU := runtime.NumCPU()
	switch cfg.NiceLevel {
	case "high":
		cfg.ConcurrencyLevel = numCPU
	case "medium":
		cfg.ConcurrencyLevel = numCPU / 2
		if cfg.ConcurrencyLevel < 1 {
			cfg.ConcurrencyLevel = 1
		}
	case "low":
		cfg.ConcurrencyLevel = 1
	}
}

func parseCommaSeparated(input string) []string {
	if input == "" {
		return []string{}
	}
	items := strings.Split(input, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}
