package main

import (
	"context"

	md2gdoc "github.com/alnah/go-md2gdoc"
)

// runPublish creates one remote document per input.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args, env.Stderr)
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

	a, err := setup(flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	compiler, err := a.compiler(ctx, flags.source, flags.token)
	if err != nil {
		return err
	}
	pub, err := a.publisher(ctx, compiler, flags.token, flags.titleSuffix, flags.suffixSet)
	if err != nil {
		return err
	}
	opts := md2gdoc.PublishOptions{MakePublic: flags.makePublic || a.cfg.Publish.MakePublic}

	results := runBatch(ctx, files, md2gdoc.ResolvePoolSize(flags.workers), func(ctx context.Context, f sourceFile) (string, error) {
		src, err := readSource(f.InputPath, env.Stdin)
		if err != nil {
			return "", err
		}
		doc, err := pub.Publish(ctx, md2gdoc.Input{
			Source:   src,
			Dialect:  f.Dialect,
			Title:    flags.source.title,
			Metadata: meta,
		}, opts)
		if err != nil {
			return "", err
		}
		return doc.WebViewLink, nil
	})
	printResults(results, flags.common, env)
	return firstError(results)
}
