package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bookdesk/bookdesk/cmd/bookctl/cli"
	"github.com/bookdesk/bookdesk/internal/app"
	"github.com/bookdesk/bookdesk/internal/platform/db"
)

const usage = `usage: bookctl <command> [flags]

commands:
  quote    render a saved booking snapshot
  jobs     inspect payment queues and requeue archived payments
  migrate  apply database migrations
`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	switch args[0] {
	case "quote":
		fs := flag.NewFlagSet("quote", flag.ContinueOnError)
		fs.SetOutput(stderr)
		opts := cli.QuoteOptions{Stdout: stdout, Stderr: stderr}
		fs.StringVar(&opts.Path, "file", "-", "snapshot JSON file, - for stdin")
		fs.StringVar(&opts.Business, "business", cfg.DefaultBusinessCurrency, "business currency")
		fs.BoolVar(&opts.Advanced, "advanced", false, "render advanced pricing")
		fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		policy, err := cfg.ConversionPolicy()
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "quote: %v\n", err)
			return 1
		}
		return cli.NewQuoteCLI(policy).QuoteCommand(ctx, opts)
	case "jobs":
		fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
		fs.SetOutput(stderr)
		opts := cli.JobsOptions{Stdout: stdout, Stderr: stderr}
		fs.BoolVar(&opts.Retry, "retry", false, "requeue archived payment submissions")
		fs.IntVar(&opts.Limit, "limit", 10, "maximum archived payments to requeue")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
		defer jobsCLI.Close()
		return jobsCLI.JobsCommand(ctx, opts)
	case "migrate":
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "migrate: %v\n", err)
			return 1
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			_, _ = fmt.Fprintf(stderr, "migrate: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, "migrations applied")
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
}
