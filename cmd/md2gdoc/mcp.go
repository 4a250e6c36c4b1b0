package main

import (
	"context"

	"github.com/alnah/go-md2gdoc/internal/mcptool"
)

// mcpServerName identifies the server to MCP clients.
const mcpServerName = "md2gdoc"

// runMCP serves MCP tools on stdio. stdout carries the protocol, so logs
// always go to stderr.
func runMCP(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseMCPFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	a, err := setup(flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	compiler, err := a.compiler(ctx, sourceFlags{}, flags.token)
	if err != nil {
		return err
	}

	var pub mcptool.Publisher
	if flags.publish {
		p, err := a.publisher(ctx, compiler, flags.token, "", false)
		if err != nil {
			return err
		}
		pub = p
	}

	srv := mcptool.NewServer(mcpServerName, Version, mcptool.New(compiler, pub, a.logger))
	a.logger.Info("mcp server ready", "publish", flags.publish)
	return mcptool.Serve(ctx, srv)
}
