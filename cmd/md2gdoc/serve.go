package main

import (
	"context"

	"github.com/alnah/go-md2gdoc/internal/server"
)

// runServe runs the HTTP API until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	a, err := setup(flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()
	if flags.addr != "" {
		a.cfg.Server.Addr = flags.addr
	}

	compiler, err := a.compiler(ctx, sourceFlags{}, flags.token)
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithLogger(a.logger)}
	if flags.publish {
		pub, err := a.publisher(ctx, compiler, flags.token, "", false)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithPublisher(pub))
	}
	if a.sqlite != nil {
		opts = append(opts, server.WithImageSource(a.sqlite))
	}

	return server.New(compiler, opts...).ListenAndServe(ctx, a.cfg.Server.Addr)
}
