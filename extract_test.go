package logpuzzle

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// logLine formats an Apache access log line requesting path.
func logLine(path string) string {
	return `10.254.254.28 - - [06/Aug/2007:00:13:48 -0700] "GET ` + path +
		` HTTP/1.0" 302 528 "-" "Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US; rv:1.8.1.6) Gecko/20070725 Firefox/2.0.0.6"` + "\n"
}

func logText(paths ...string) []byte {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(logLine(p))
	}
	return []byte(b.String())
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		log  []byte
		want []string
	}{
		{
			name: "no puzzle paths",
			log:  logText("/favicon.ico", "/images/logo.png"),
			want: []string{},
		},
		{
			name: "empty log",
			log:  nil,
			want: []string{},
		},
		{
			name: "place paths sorted by second letter block",
			log: logText(
				"/p/puzzle/p-aaaa-wxyz.jpg",
				"/p/puzzle/p-aaaa-abcd.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/p-aaaa-abcd.jpg",
				"http://code.google.com/p/puzzle/p-aaaa-wxyz.jpg",
			},
		},
		{
			name: "place sort ignores the first letter block",
			log: logText(
				"/p/puzzle/p-aaaa-bbbc.jpg",
				"/p/puzzle/p-zzzz-bbba.jpg",
				"/p/puzzle/p-mmmm-bbbb.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/p-zzzz-bbba.jpg",
				"http://code.google.com/p/puzzle/p-mmmm-bbbb.jpg",
				"http://code.google.com/p/puzzle/p-aaaa-bbbc.jpg",
			},
		},
		{
			name: "place paths with equal keys keep log order",
			log: logText(
				"/b/puzzle/p-aaaa-cccc.jpg",
				"/a/puzzle/p-bbbb-cccc.jpg",
			),
			want: []string{
				"http://code.google.com/b/puzzle/p-aaaa-cccc.jpg",
				"http://code.google.com/a/puzzle/p-bbbb-cccc.jpg",
			},
		},
		{
			name: "place paths deduplicated",
			log: logText(
				"/p/puzzle/p-aaaa-wxyz.jpg",
				"/p/puzzle/p-aaaa-abcd.jpg",
				"/p/puzzle/p-aaaa-wxyz.jpg",
				"/p/puzzle/p-aaaa-abcd.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/p-aaaa-abcd.jpg",
				"http://code.google.com/p/puzzle/p-aaaa-wxyz.jpg",
			},
		},
		{
			name: "place paths exclude loose paths",
			log: logText(
				"/~x/puzzle-foo.jpg",
				"/p/puzzle/p-aaaa-abcd.jpg",
				"/~x/puzzle-bar.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/p-aaaa-abcd.jpg",
			},
		},
		{
			name: "loose paths sorted lexicographically",
			log: logText(
				"/~x/puzzle-foo.jpg",
				"/~x/puzzle-bar.jpg",
			),
			want: []string{
				"http://code.google.com/~x/puzzle-bar.jpg",
				"http://code.google.com/~x/puzzle-foo.jpg",
			},
		},
		{
			name: "loose paths deduplicated",
			log: logText(
				"/edu/puzzle/a-baaa.jpg",
				"/edu/puzzle/a-baab.jpg",
				"/edu/puzzle/a-baaa.jpg",
				"/other.jpg",
			),
			want: []string{
				"http://code.google.com/edu/puzzle/a-baaa.jpg",
				"http://code.google.com/edu/puzzle/a-baab.jpg",
			},
		},
		{
			name: "non-ASCII place paths exclude loose paths",
			log: logText(
				"/~x/puzzle-foo.jpg",
				"/p/puzzle/é-aaaa-bbbb.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/é-aaaa-bbbb.jpg",
			},
		},
		{
			name: "non-ASCII place keys sort by character",
			log: logText(
				"/p/puzzle/p-aaaa-ébcd.jpg",
				"/p/puzzle/p-aaaa-zbcd.jpg",
				"/p/puzzle/p-aaaa-abcd.jpg",
			),
			want: []string{
				"http://code.google.com/p/puzzle/p-aaaa-abcd.jpg",
				"http://code.google.com/p/puzzle/p-aaaa-zbcd.jpg",
				"http://code.google.com/p/puzzle/p-aaaa-ébcd.jpg",
			},
		},
		{
			name: "non GET requests ignored",
			log:  []byte(`10.1.1.1 - - [06/Aug/2007:00:13:48 -0700] "POST /~x/puzzle-foo.jpg HTTP/1.0" 200 1` + "\n"),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := (&Extractor{}).Extract(tt.log)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractBaseURL(t *testing.T) {
	t.Parallel()

	e := &Extractor{BaseURL: "https://example.com"}
	got := e.Extract(logText("/~x/puzzle-foo.jpg"))
	want := []string{"https://example.com/~x/puzzle-foo.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	log := logText(
		"/p/puzzle/p-aaaa-wxyz.jpg",
		"/p/puzzle/p-aaaa-abcd.jpg",
		"/p/puzzle/p-aaaa-wxyz.jpg",
	)
	e := &Extractor{}
	first := e.Extract(log)
	second := e.Extract(log)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %q and %q", first, second)
	}
}

func TestPlaceKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/p/puzzle/p-aaaa-abcd.jpg": "abcd",
		"/p/puzzle/p-aaaa-ébcd.jpg": "ébcd",
		"/p/puzzle/p-aaaa-日本語x.jpg": "日本語x",
		"short":                     "short",
	}
	for in, want := range tests {
		if got := placeKey(in); got != want {
			t.Errorf("placeKey(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestExtractStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		log  []byte
		want Strategy
	}{
		{"none", logText("/index.html"), StrategyNone},
		{"place", logText("/p/puzzle/p-aaaa-abcd.jpg"), StrategyPlace},
		{"loose", logText("/~x/puzzle-foo.jpg"), StrategyLoose},
		{"place", logText("/~x/puzzle-foo.jpg", "/p/puzzle/é-aaaa-bbbb.jpg"), StrategyPlace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractStrategy(tt.log)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got.String() != tt.name {
				t.Errorf("expected %q, got %q", tt.name, got.String())
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads urls from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "animal_code.google.com")
		if err := os.WriteFile(path, logText("/~x/puzzle-foo.jpg", "/~x/puzzle-bar.jpg"), 0o600); err != nil {
			t.Fatalf("failed to write log: %v", err)
		}

		urls, err := ReadURLs(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 || urls[0] != "http://code.google.com/~x/puzzle-bar.jpg" {
			t.Errorf("unexpected urls %q", urls)
		}
	})

	t.Run("missing file is a file access error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.log")
		urls, err := ReadURLs(path)
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !errors.Is(err, ErrFileAccess) {
			t.Errorf("expected ErrFileAccess, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
		}
		var fileErr *FileAccessError
		if !errors.As(err, &fileErr) || fileErr.Path != path {
			t.Errorf("expected FileAccessError for %q, got %v", path, err)
		}
		if urls != nil {
			t.Errorf("expected nil urls, got %q", urls)
		}
	})

	t.Run("directory is a file access error", func(t *testing.T) {
		t.Parallel()

		_, err := ReadURLs(t.TempDir())
		if !errors.Is(err, ErrFileAccess) {
			t.Errorf("expected ErrFileAccess, got %v", err)
		}
	})
}
