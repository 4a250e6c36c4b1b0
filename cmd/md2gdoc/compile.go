package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/fileutil"
	"github.com/alnah/go-md2gdoc/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runCompile compiles each input to batchUpdate JSON.
func runCompile(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCompileFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	meta, err := parseMetadata(flags.source.meta)
	if err != nil {
		return err
	}
	files, err := discoverSources(positional)
	if err != nil {
		return err
	}
	assignOutputs(files, flags.output)

	a, err := setup(flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	compiler, err := a.compiler(ctx, flags.source, "")
	if err != nil {
		return err
	}

	workers := md2gdoc.ResolvePoolSize(flags.workers)
	a.logger.Debug("compiling", "files", len(files), "workers", workers)

	results := runBatch(ctx, files, workers, func(ctx context.Context, f sourceFile) (string, error) {
		return compileFile(ctx, compiler, f, flags.source.title, meta, env)
	})
	printResults(results, flags.common, env)
	return firstError(results)
}

// compileFile compiles one input and writes its JSON. An empty OutputPath
// writes to stdout.
func compileFile(ctx context.Context, c *md2gdoc.Compiler, f sourceFile, title string, meta md2gdoc.Metadata, env *Environment) (string, error) {
	src, err := readSource(f.InputPath, env.Stdin)
	if err != nil {
		return "", err
	}
	result, err := c.Compile(ctx, md2gdoc.Input{
		Source:   src,
		Dialect:  f.Dialect,
		Title:    title,
		Metadata: meta,
	})
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	data = append(data, '\n')

	if f.OutputPath == "" {
		if _, err := env.Stdout.Write(data); err != nil {
			return "", fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
		}
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, data, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return f.OutputPath, nil
}
