package main

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// sourceFlags holds flags that shape compilation input.
type sourceFlags struct {
	dialect  string
	title    string
	meta     []string // key=value pairs
	noImages bool
}

// compileFlags holds all flags for the compile command.
type compileFlags struct {
	common  commonFlags
	source  sourceFlags
	output  string
	workers int
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common      commonFlags
	source      sourceFlags
	workers     int
	makePublic  bool
	titleSuffix string
	suffixSet   bool
	token       string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	publish bool
	token   string
}

// mcpFlags holds flags for the mcp command.
type mcpFlags struct {
	common  commonFlags
	publish bool
	token   string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
	token  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addSourceFlags adds input shaping flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.dialect, "dialect", "d", "", "source dialect: lines, html, commonmark (default: from extension)")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = front matter, then first heading)")
	fs.StringArrayVarP(&f.meta, "meta", "m", nil, "header field as key=value (repeatable)")
	fs.BoolVar(&f.noImages, "no-images", false, "replace every image with a placeholder")
}

// addTokenFlag adds the access token flag to a FlagSet.
func addTokenFlag(fs *flag.FlagSet, token *string) {
	fs.StringVar(token, "token", "", "OAuth2 access token (default: MD2GDOC_ACCESS_TOKEN or application default credentials)")
}

// newFlagSet returns a FlagSet that prints usage to w on error.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse parses args and prints usage on a flag error. pflag already prints
// usage for ErrHelp.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fs.Usage()
	}
	return err
}

// parseCompileFlags parses compile command flags and returns positional args.
func parseCompileFlags(args []string, w io.Writer) (*compileFlags, []string, error) {
	f := &compileFlags{}
	fs := newFlagSet("compile", w, printCompileUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (default: stdout)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePublishFlags parses publish command flags and returns positional args.
func parsePublishFlags(args []string, w io.Writer) (*publishFlags, []string, error) {
	f := &publishFlags{}
	fs := newFlagSet("publish", w, printPublishUsage)

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.makePublic, "public", false, "share with anyone holding the link")
	fs.StringVar(&f.titleSuffix, "title-suffix", "", "text appended to document titles")
	addTokenFlag(fs, &f.token)
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	f.suffixSet = fs.Changed("title-suffix")
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default: from config, :8080)")
	fs.BoolVar(&f.publish, "publish", false, "enable POST /v1/publish")
	addTokenFlag(fs, &f.token)
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseMCPFlags parses mcp command flags.
func parseMCPFlags(args []string, w io.Writer) (*mcpFlags, error) {
	f := &mcpFlags{}
	fs := newFlagSet("mcp", w, printMCPUsage)

	fs.BoolVar(&f.publish, "publish", false, "register the publish_document tool")
	addTokenFlag(fs, &f.token)
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addTokenFlag(fs, &f.token)
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}
