package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2gdoc/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signalContext(context.Background())
	err := run(ctx, os.Args, DefaultEnv())
	stop()

	if err != nil {
		reportError(os.Stderr, err, os.Getenv)
		os.Exit(exitCodeFor(err))
	}
}

// reportError prints err followed by any matching hint.
func reportError(w io.Writer, err error, getenv func(string) string) {
	fmt.Fprintf(w, "%v%s\n", err, hints.For(err, getenv))
}

// run dispatches args[1] to a command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: none given", ErrUnknownCommand)
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "compile":
		err = runCompile(ctx, rest, env)
	case "publish":
		err = runPublish(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "mcp":
		err = runMCP(ctx, rest, env)
	case "doctor":
		err = runDoctor(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2gdoc %s\n", Version)
	case "help", "-h", "--help":
		runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// printResults outputs per-file outcomes. Failures go to stderr.
func printResults(results []jobResult, common commonFlags, env *Environment) {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Input.InputPath, r.Err)
			continue
		}

		succeeded++
		if common.quiet || r.Detail == "" {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Input.InputPath, r.Detail, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", r.Input.InputPath, r.Detail)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}
}
