package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compile    Compile sources to edit command JSON")
	fmt.Fprintln(w, "  publish    Compile sources and create remote documents")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  mcp        Run the MCP server on stdio")
	fmt.Fprintln(w, "  doctor     Check configuration, credentials and image store")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2gdoc help <command>' for details on a specific command.")
}

// printSourceUsage prints the flags shared by compile and publish.
func printSourceUsage(w io.Writer) {
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "  -d, --dialect <s>         lines, html, commonmark")
	fmt.Fprintln(w, "                            Default: .html/.htm -> html, otherwise")
	fmt.Fprintln(w, "                            compile.dialect from config")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = front matter, then first heading)")
	fmt.Fprintln(w, "  -m, --meta <key=value>    Header field, repeatable; front matter wins per key")
	fmt.Fprintln(w, "                            date=auto or date=auto:FORMAT resolves to today")
	fmt.Fprintln(w, "      --no-images           Replace every image with a placeholder")
	fmt.Fprintln(w)
}

// printCommonUsage prints the flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logs and timing")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      text, json")
}

// printCompileUsage prints usage for the compile command.
func printCompileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc compile <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile sources into batchUpdate command JSON without contacting the")
	fmt.Fprintln(w, "document service.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Source file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (one input) or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printSourceUsage(w)
	printCommonUsage(w)
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc publish <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile sources and create one document per input. Prints each share link.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Publishing:")
	fmt.Fprintln(w, "      --public              Share with anyone holding the link")
	fmt.Fprintln(w, "      --title-suffix <s>    Text appended to titles (default \" - Converted\")")
	fmt.Fprintln(w, "      --token <s>           OAuth2 access token")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printSourceUsage(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API:")
	fmt.Fprintln(w, "  POST /v1/compile   Compile a JSON {source, dialect, title, metadata} body")
	fmt.Fprintln(w, "  POST /v1/publish   Compile and publish (with --publish)")
	fmt.Fprintln(w, "  GET  /images/{id}  Serve rehosted images (sqlite image store)")
	fmt.Fprintln(w, "  GET  /healthz      Liveness probe")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --publish             Enable the publish endpoint")
	fmt.Fprintln(w, "      --token <s>           OAuth2 access token")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printMCPUsage prints usage for the mcp command.
func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the compile_document tool over MCP stdio. Logs go to stderr.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --publish             Also register publish_document")
	fmt.Fprintln(w, "      --token <s>           OAuth2 access token")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2gdoc doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the merged configuration, document service credentials and the")
	fmt.Fprintln(w, "image store. Exits non-zero only when compile would fail.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --token <s>           OAuth2 access token")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "compile":
		printCompileUsage(env.Stdout)
	case "publish":
		printPublishUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "mcp":
		printMCPUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2gdoc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2gdoc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
