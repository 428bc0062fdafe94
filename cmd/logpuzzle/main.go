// Package main provides the entry point for the logpuzzle CLI.
//
// logpuzzle finds the puzzle image URLs in an Apache access log and either
// prints them or downloads the images into a directory with an index.html.
//
// Usage:
//
//	logpuzzle [-d|--todir DIR] LOGFILE
//
// See --help for all available options.
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:]))
}
