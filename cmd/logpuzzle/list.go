package main

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
	"github.com/robinbraemer/logpuzzle/internal/config"
)

// writeURLs prints the extracted URLs in the given format.
func writeURLs(w io.Writer, urls []string, format string) error {
	switch format {
	case config.FormatMarkdown:
		md := markdown.NewMarkdown(w)
		md.H1("Puzzle URLs")
		md.PlainText("")
		if len(urls) == 0 {
			md.PlainText("No puzzle URLs found.")
		} else {
			md.BulletList(urls...)
		}
		return md.Build()
	default:
		for _, u := range urls {
			if _, err := fmt.Fprintln(w, u); err != nil {
				return err
			}
		}
		return nil
	}
}
