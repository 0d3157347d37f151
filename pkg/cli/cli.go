package cli

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type Args struct {
	Urls            []string
	QueueFile       string
	LimitRate       string
	Timeout         time.Duration
	UserAgent       string
	Impersonate     bool
	MaxDepth        int
	Concurrency     int
	DecodeRounds    int
	Extractors      []string
	BlacklistNetloc []string
	BlacklistPath   []string
	WhitelistNetloc []string
	JSON            bool
	NoProgress      bool
	MetricsAddr     string
	Debug           bool
	Trace           bool
	LogFile         string
}

var rateRe = regexp.MustCompile(`^([\d.]+)\s*([a-zA-Z]*)$`)

// ParseRateLimit parses a byte rate such as "500k", "2Mi" or "inf". Zero
// means unlimited.
func ParseRateLimit(input string) (float64, error) {
	if strings.ToLower(input) == "inf" || input == "" {
		return 0, nil
	}

	matches := rateRe.FindStringSubmatch(input)
	if matches == nil {
		return 0, fmt.Errorf("invalid rate limit format: %s", input)
	}

	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	unit := strings.ToLower(matches[2])
	multiplier := 1.0
	switch unit {
	case "", "b":
	case "k", "kb":
		multiplier = 1000
	case "ki", "kib":
		multiplier = 1024
	case "m", "mb":
		multiplier = 1000 * 1000
	case "mi", "mib":
		multiplier = 1024 * 1024
	case "g", "gb":
		multiplier = 1000 * 1000 * 1000
	case "gi", "gib":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown rate unit %q", matches[2])
	}

	return val * multiplier, nil
}

// ReadQueue reads one URL per line. Empty lines and everything after a '#'
// are ignored.
func ReadQueue(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		// "https://example.com/live # comment" -> "https://example.com/live"
		if i := strings.Index(line, "#"); i >= 0 && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func NewRootCommand(args *Args) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generic [URL...]",
		Short: "Find the HLS, mp3 and mp4 streams embedded in a web page",
		Args: func(cmd *cobra.Command, cmdArgs []string) error {
			queueFile, _ := cmd.Flags().GetString("queue-file")

			if len(cmdArgs) > 0 {
				return nil
			}

			if queueFile != "" {
				return nil
			}

			return fmt.Errorf("you must provide either a URL or --queue-file")
		},
		Run: func(cmd *cobra.Command, cmdArgs []string) {
			args.Urls = cmdArgs
		},
	}

	f := cmd.Flags()
	f.StringVarP(&args.QueueFile, "queue-file", "q", "", "Path to a file with one URL per line")
	f.StringVarP(&args.LimitRate, "rate", "r", "inf", "Maximum download rate for page fetches")
	f.DurationVar(&args.Timeout, "timeout", 20*time.Second, "Timeout for a single page fetch")
	f.StringVar(&args.UserAgent, "user-agent", "", "User agent sent with every request")
	f.BoolVar(&args.Impersonate, "impersonate", false, "Use a Chrome TLS fingerprint for https requests")
	f.IntVar(&args.MaxDepth, "max-depth", 8, "Maximum number of nested frames to follow")
	f.IntVarP(&args.Concurrency, "concurrent", "N", 4, "Frames fetched in parallel")
	f.IntVar(&args.DecodeRounds, "decode-rounds", 5, "Maximum deobfuscation rounds per page")
	f.StringSliceVar(&args.Extractors, "extractors", nil, "Only run these extractors: iframe, playlist, redirect (comma separated)")
	f.StringSliceVar(&args.BlacklistNetloc, "blacklist-netloc", nil, "Hosts to never follow (comma separated)")
	f.StringSliceVar(&args.BlacklistPath, "blacklist-path", nil, "host/path prefixes to never follow (comma separated)")
	f.StringSliceVar(&args.WhitelistNetloc, "whitelist-netloc", nil, "Only follow these hosts (comma separated)")
	f.BoolVar(&args.JSON, "json", false, "Print the result as JSON")
	f.BoolVar(&args.NoProgress, "no-progress", false, "Hide the crawl progress bar")
	f.StringVar(&args.MetricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address while running")
	f.BoolVarP(&args.Debug, "debug", "d", false, "Enable debug mode")
	f.BoolVar(&args.Trace, "trace", false, "Log every request")
	f.StringVarP(&args.LogFile, "log", "l", "", "Path to log file. If not set, logs will only be printed to console. The file is rotated at 10 MB.")

	return cmd
}
