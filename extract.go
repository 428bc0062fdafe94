// Package logpuzzle finds puzzle image URLs in Apache access logs and
// downloads the images into a directory together with an index page
// showing them in order.
package logpuzzle

import (
	"log/slog"
	"os"
	"regexp"
	"sort"
)

// DefaultBaseURL is prepended to every path found in a log.
const DefaultBaseURL = "http://code.google.com"

var (
	// puzzleRegex matches any requested path containing "puzzle".
	puzzleRegex = regexp.MustCompile(`GET (\S*puzzle\S*)`)
	// placeRegex matches place style paths like /puzzle/p-aaaa-bbbb.jpg.
	// Word characters include non-ASCII letters and digits.
	placeRegex = regexp.MustCompile(`GET (\S*puzzle/[\p{L}\p{N}_]-[\p{L}\p{N}_]{4}-[\p{L}\p{N}_]{4}\S*)`)
)

// Strategy names the pattern that produced the paths of a log.
type Strategy int

const (
	// StrategyNone means the log contains no puzzle paths.
	StrategyNone Strategy = iota
	// StrategyPlace orders place style paths by their second letter block.
	StrategyPlace
	// StrategyLoose orders any puzzle path lexicographically.
	StrategyLoose
)

func (s Strategy) String() string {
	switch s {
	case StrategyPlace:
		return "place"
	case StrategyLoose:
		return "loose"
	default:
		return "none"
	}
}

// Extractor turns log text into an ordered list of unique puzzle URLs.
// The zero value is ready to use.
type Extractor struct {
	BaseURL string       // Prefix for every matched path. Empty means DefaultBaseURL.
	Logger  *slog.Logger // Nil discards log output.
}

// ReadURLs reads the log file at path and returns its puzzle URLs
// using the default Extractor.
func ReadURLs(path string) ([]string, error) {
	return (&Extractor{}).ReadFile(path)
}

// ReadFile reads the whole log file and extracts its puzzle URLs.
func (e *Extractor) ReadFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return e.Extract(content), nil
}

// Extract returns the puzzle URLs of the log text s.
//
// Place style paths take precedence: if any exist, only they are used,
// sorted by the four characters ending four characters before the end
// of each path. Otherwise every puzzle path is used in lexicographic order.
// Duplicates are removed keeping the first occurrence.
func (e *Extractor) Extract(s []byte) []string {
	paths, strategy := findPaths(s)
	base := e.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	urls := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		u := base + p
		if _, exists := seen[u]; exists {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	if e.Logger != nil {
		e.Logger.Debug("extracted puzzle urls",
			"strategy", strategy.String(),
			"matches", len(paths),
			"unique", len(urls),
		)
	}
	return urls
}

// ExtractStrategy reports which pattern Extract uses for the log text s.
func ExtractStrategy(s []byte) Strategy {
	_, strategy := findPaths(s)
	return strategy
}

// findPaths returns the sorted, not yet deduplicated paths of s.
func findPaths(s []byte) ([]string, Strategy) {
	if paths := submatches(placeRegex, s); len(paths) > 0 {
		sort.SliceStable(paths, func(i, j int) bool {
			return placeKey(paths[i]) < placeKey(paths[j])
		})
		return paths, StrategyPlace
	}
	paths := submatches(puzzleRegex, s)
	if len(paths) == 0 {
		return nil, StrategyNone
	}
	sort.Strings(paths)
	return paths, StrategyLoose
}

func submatches(re *regexp.Regexp, s []byte) []string {
	all := re.FindAllSubmatch(s, -1)
	if len(all) == 0 {
		return nil
	}
	paths := make([]string, 0, len(all))
	for _, m := range all {
		paths = append(paths, string(m[1]))
	}
	return paths
}

// placeKey returns the four characters ending four characters before the
// end of p. Place paths are always long enough.
func placeKey(p string) string {
	r := []rune(p)
	if len(r) < 8 {
		return p
	}
	return string(r[len(r)-8 : len(r)-4])
}
