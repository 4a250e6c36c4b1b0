package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput             = errors.New("no input specified")
	ErrReadSource          = errors.New("failed to read source file")
	ErrWriteOutput         = errors.New("failed to write output file")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrInvalidMetadataFlag = errors.New("metadata must be key=value")
	ErrInvalidWorkerCount  = errors.New("invalid worker count")
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// Extensions picked up when walking directories.
var (
	htmlExtensions   = []string{".html", ".htm"}
	sourceExtensions = []string{".md", ".markdown", ".txt", ".html", ".htm"}
)

// sourceFile represents a single input to process.
type sourceFile struct {
	InputPath  string
	OutputPath string // empty when results go to stdout or the document service
	Dialect    md2gdoc.Dialect
}

// discoverSources expands args into files. Directories are walked for
// known source extensions; "-" reads standard input.
func discoverSources(args []string) ([]sourceFile, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []sourceFile
	for _, arg := range args {
		if arg == stdinPath {
			files = append(files, sourceFile{InputPath: stdinPath})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
		}
		if !info.IsDir() {
			files = append(files, sourceFile{InputPath: arg, Dialect: dialectForPath(arg)})
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !fileutil.HasExtension(path, sourceExtensions...) {
				return nil
			}
			files = append(files, sourceFile{InputPath: path, Dialect: dialectForPath(path)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no source files found in %s", ErrNoInput, strings.Join(args, ", "))
	}
	return files, nil
}

// dialectForPath returns DialectHTML for HTML files. Anything else is
// compiled with the configured dialect.
func dialectForPath(path string) md2gdoc.Dialect {
	if fileutil.HasExtension(path, htmlExtensions...) {
		return md2gdoc.DialectHTML
	}
	return ""
}

// assignOutputs sets OutputPath on every file. A single input without
// --output writes to stdout. An output ending in .json names the file for a
// single input; otherwise it is a directory.
func assignOutputs(files []sourceFile, output string) {
	if len(files) == 1 && (output == "" || strings.HasSuffix(output, ".json")) {
		files[0].OutputPath = output
		return
	}
	for i := range files {
		files[i].OutputPath = resolveOutputPath(files[i].InputPath, output)
	}
}

// resolveOutputPath determines the JSON output path for a source file.
func resolveOutputPath(inputPath, outputDir string) string {
	if inputPath == stdinPath {
		inputPath = "stdin"
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".json")
	}
	return filepath.Join(outputDir, base+".json")
}

// readSource reads one input, bounded by the compiler's size limit.
func readSource(path string, stdin io.Reader) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(io.LimitReader(stdin, md2gdoc.MaxSourceSize+1))
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadSource, err)
		}
		if len(data) > md2gdoc.MaxSourceSize {
			return "", fmt.Errorf("%w: stdin", md2gdoc.ErrSourceTooLarge)
		}
		return string(data), nil
	}

	data, err := fileutil.ReadFileLimited(path, md2gdoc.MaxSourceSize)
	if errors.Is(err, fileutil.ErrFileTooLarge) {
		return "", fmt.Errorf("%w: %w", md2gdoc.ErrSourceTooLarge, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	return string(data), nil
}

// parseMetadata turns repeated key=value flags into header fields in flag
// order. A repeated key keeps its first position and takes the later value.
func parseMetadata(pairs []string) (md2gdoc.Metadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(md2gdoc.Metadata, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMetadataFlag, p)
		}
		meta = meta.Set(key, value)
	}
	return meta, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2gdoc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2gdoc.MaxPoolSize)
	}
	return nil
}
