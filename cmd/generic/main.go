package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bugmaschine/generic/internal/extractors"
	"github.com/bugmaschine/generic/internal/filter"
	"github.com/bugmaschine/generic/internal/metrics"
	"github.com/bugmaschine/generic/internal/resolver"
	"github.com/bugmaschine/generic/pkg/cli"
	"github.com/bugmaschine/generic/pkg/fetch"
	"github.com/bugmaschine/generic/pkg/logger"
	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type jsonResult struct {
	URL     string            `json:"url"`
	Title   string            `json:"title,omitempty"`
	Streams []resolver.Stream `json:"streams"`
	Error   string            `json:"error,omitempty"`
}

func main() {
	args := &cli.Args{}
	rootCmd := cli.NewRootCommand(args)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	// --help
	if len(args.Urls) == 0 && args.QueueFile == "" {
		return
	}

	logCloser := logger.InitDefaultLogger(logger.Options{
		Debug:   args.Debug,
		Trace:   args.Trace,
		LogFile: args.LogFile,
	})
	defer logCloser.Close()

	if err := run(args); err != nil {
		slog.Error("Failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(args *cli.Args) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	urls := args.Urls
	if args.QueueFile != "" {
		slog.Debug("Queue file specified", "file", args.QueueFile)
		f, err := os.Open(args.QueueFile)
		if err != nil {
			return fmt.Errorf("open queue file: %w", err)
		}
		queued, err := cli.ReadQueue(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read queue file: %w", err)
		}
		urls = append(urls, queued...)
	}

	rateLimit, err := cli.ParseRateLimit(args.LimitRate)
	if err != nil {
		return err
	}

	exts, err := extractors.Lookup(args.Extractors)
	if err != nil {
		return err
	}

	var rec *metrics.Recorder
	if args.MetricsAddr != "" {
		rec = metrics.New()
		go rec.Expose(ctx, args.MetricsAddr)
	}

	client := fetch.New(fetch.Config{
		UserAgent:   args.UserAgent,
		Timeout:     args.Timeout,
		LimitRate:   rateLimit,
		Impersonate: args.Impersonate,
	})
	policy := filter.New(filter.Options{
		BlacklistNetloc: args.BlacklistNetloc,
		BlacklistPath:   args.BlacklistPath,
		WhitelistNetloc: args.WhitelistNetloc,
	})

	var progress *mpb.Progress
	if !args.NoProgress && !args.JSON {
		progress = mpb.New(mpb.WithOutput(os.Stderr))
	}

	var results []jsonResult
	failed := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}

		var bar *mpb.Bar
		if progress != nil {
			bar = progress.New(0, mpb.SpinnerStyle(),
				mpb.PrependDecorators(decor.Name(u+" ", decor.WC{W: len(u) + 1})),
				mpb.AppendDecorators(decor.CurrentNoUnit("%d pages")),
			)
		}

		r := resolver.New(client, resolver.Config{
			Policy:       policy,
			MaxDepth:     args.MaxDepth,
			Concurrency:  args.Concurrency,
			DecodeRounds: args.DecodeRounds,
			Extractors:   exts,
			Metrics:      rec,
			OnPage: func(pageURL string, depth int) {
				if bar != nil {
					bar.Increment()
				}
			},
		})

		res, err := r.Resolve(ctx, u)
		if bar != nil {
			bar.SetTotal(-1, true)
		}

		jr := jsonResult{URL: u, Streams: []resolver.Stream{}}
		if err != nil {
			slog.Error("Failed to resolve", "url", u, "error", err)
			jr.Error = err.Error()
			failed++
		} else {
			jr.Title = res.Title
			jr.Streams = res.Sorted()
		}
		results = append(results, jr)
	}

	if progress != nil {
		progress.Wait()
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printResults(results)
	}

	if failed == len(urls) && failed > 0 {
		return fmt.Errorf("no URL could be resolved")
	}
	return nil
}

func printResults(results []jsonResult) {
	titleColor := color.New(color.Bold)
	typeColor := color.New(color.FgCyan)
	nameColor := color.New(color.FgGreen)

	for _, r := range results {
		if r.Error != "" {
			continue
		}
		titleColor.Printf("%s\n", r.Title)
		if len(r.Streams) == 0 {
			color.Yellow("  no streams found on %s", r.URL)
			continue
		}
		for _, s := range r.Streams {
			fmt.Printf("  %s %s %s\n", typeColor.Sprintf("%-10s", s.Type), nameColor.Sprintf("%-6s", s.Name), s.URL)
		}
	}
}
