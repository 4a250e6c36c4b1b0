// Package md2gdoc compiles Markdown-like or HTML source into ordered edit
// commands for a remote, index-addressed document API, and publishes them.
//
// # Quick Start
//
// Create a compiler and compile source:
//
//	c, err := md2gdoc.NewCompiler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Compile(ctx, md2gdoc.Input{
//	    Source: "# Hello\n\nSome **bold** text",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	body, _ := json.Marshal(result.Body) // a batchUpdate request body
//
// Compilation never talks to the document service. Its output is a header
// batch (present only when the source carries metadata) and a body batch.
// Each command's positions account for every command before it.
//
// # Dialects
//
// Three source dialects are supported:
//
//   - lines: each line is a block. "#" prefixes mark headings; **bold** and
//     *italic* spans are styled in place, markers included.
//   - html: h1-h6, p, img and br after allowlist sanitization.
//   - commonmark: CommonMark with GitHub extensions, reduced to headings,
//     paragraphs, emphasis and images.
//
// Positions are counted in UTF-16 code units. The body starts at index 1,
// the header segment at index 0.
//
// # Metadata Header
//
// YAML front matter (lines and commonmark) and Input.Metadata are merged,
// sanitized, and rendered as a 10pt page header: the title on its own line,
// then one "Key: value" line per field in field order. Input.Metadata is an
// ordered field list; a JSON object decodes into it with key order kept.
//
// # Images
//
// Images are resolved through an ImageResolver. The imageproxy resolver
// validates URLs against loopback, private, link-local and cloud metadata
// targets, fetches the bytes with size and type limits, and rehosts them.
// Any failure degrades to a "[Image: url]" placeholder line:
//
//	c, err := md2gdoc.NewCompiler(
//	    md2gdoc.WithDialect(md2gdoc.DialectCommonMark),
//	    md2gdoc.WithImageResolver(resolver),
//	    md2gdoc.WithMaxImages(50),
//	)
//
// # Publishing
//
// A Publisher compiles input and submits it to a DocumentService. The header
// is created first, since its segment ID is only known once it exists:
//
//	client, err := gdocs.New(ctx, tokenSource)
//	pub := md2gdoc.NewPublisher(c, client)
//	doc, err := pub.Publish(ctx, input, md2gdoc.PublishOptions{MakePublic: true})
//	fmt.Println(doc.WebViewLink)
//
// # Concurrency
//
// A Compiler is immutable after construction and safe for concurrent use.
// Use ResolvePoolSize to size worker pools for batch compilation.
package md2gdoc
