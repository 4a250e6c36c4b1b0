package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStdout string
		wantStderr string
	}{
		{name: "version", args: []string{"md2gdoc", "version"}, wantStdout: "md2gdoc dev\n"},
		{name: "version flag", args: []string{"md2gdoc", "--version"}, wantStdout: "md2gdoc dev\n"},
		{name: "help", args: []string{"md2gdoc", "help"}, wantStdout: "Usage: md2gdoc <command>"},
		{name: "help for command", args: []string{"md2gdoc", "help", "compile"}, wantStdout: "Usage: md2gdoc compile"},
		{name: "help for unknown command", args: []string{"md2gdoc", "help", "nope"}, wantStderr: "Unknown command: nope"},
		{name: "command help flag", args: []string{"md2gdoc", "publish", "--help"}, wantStderr: "Usage: md2gdoc publish"},
		{name: "no command", args: []string{"md2gdoc"}, wantErr: ErrUnknownCommand, wantStderr: "Usage:"},
		{name: "unknown command", args: []string{"md2gdoc", "convert"}, wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, stderr := testEnv(t, nil, nil)

			err := run(context.Background(), tt.args, env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRun_FlagErrorsPrintUsage(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"compile", "publish", "serve", "mcp", "doctor"} {
		t.Run(cmd, func(t *testing.T) {
			t.Parallel()
			usage := "Usage: md2gdoc " + cmd

			env, _, stderr := testEnv(t, nil, nil)
			if err := run(context.Background(), []string{"md2gdoc", cmd, "--bogus"}, env); err == nil {
				t.Fatal("expected error for unknown flag")
			}
			if n := strings.Count(stderr.String(), usage); n != 1 {
				t.Errorf("unknown flag: usage printed %d times, stderr = %q", n, stderr.String())
			}

			env, _, stderr = testEnv(t, nil, nil)
			if err := run(context.Background(), []string{"md2gdoc", cmd, "--help"}, env); err != nil {
				t.Fatalf("--help error = %v", err)
			}
			if n := strings.Count(stderr.String(), usage); n != 1 {
				t.Errorf("--help: usage printed %d times, stderr = %q", n, stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []jobResult{
		{Input: sourceFile{InputPath: "a.md"}, Detail: "a.json"},
		{Input: sourceFile{InputPath: "b.md"}, Err: errors.New("boom")},
	}

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(t, nil, nil)
		printResults(results, commonFlags{}, env)
		if !strings.Contains(stdout.String(), "a.md -> a.json\n") {
			t.Errorf("stdout = %q", stdout.String())
		}
		if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
			t.Errorf("stdout = %q, want summary", stdout.String())
		}
		if stderr.String() != "FAILED b.md: boom\n" {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(t, nil, nil)
		printResults(results, commonFlags{quiet: true}, env)
		if stdout.String() != "" {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
		if !strings.Contains(stderr.String(), "FAILED b.md") {
			t.Errorf("failures must be reported when quiet, stderr = %q", stderr.String())
		}
	})

	t.Run("stdout output has no detail", func(t *testing.T) {
		t.Parallel()
		env, stdout, _ := testEnv(t, nil, nil)
		printResults([]jobResult{{Input: sourceFile{InputPath: "-"}}}, commonFlags{}, env)
		if stdout.String() != "" {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
	})
}
