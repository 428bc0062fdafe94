package logpuzzle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliercoder/grab"
)

// DefaultUserAgent is sent with every image request.
const DefaultUserAgent = "logpuzzle image downloader"

// FailurePolicy decides what a Download does when one image cannot be fetched.
type FailurePolicy int

const (
	// Abort stops the download at the first failed image.
	Abort FailurePolicy = iota
	// Skip logs the failed image, leaves it out of the index and continues.
	Skip
)

func (p FailurePolicy) String() string {
	if p == Skip {
		return "skip"
	}
	return "abort"
}

// Download holds all parameters to Start a download.
type Download struct {
	URLs []string // Image URLs in the order they should appear.
	Dst  string   // Directory receiving img0.jpg, img1.jpg, ... and index.html.

	Policy    FailurePolicy // What to do when an image cannot be fetched.
	Timeout   time.Duration // Per image timeout. Zero or below means none.
	UserAgent string        // Used when Client is nil. Empty means DefaultUserAgent.
	TempDir   string        // Where in-flight downloads are kept. Empty means os.TempDir().

	Client *grab.Client // Nil means a new grab client. A given client is used as is.
	Bar    ProgressBar  // Nil shows no progress.
	Logger *slog.Logger // Nil discards log output.
	Stdout io.Writer    // Per image status lines. Nil discards them.
}

// Result describes a finished download.
type Result struct {
	Files  []string      // Local image names referenced by the index, in order.
	Failed []*FetchError // Images left out under the Skip policy.
}

// Start downloads every URL into d.Dst as img{i}.jpg, where i is the URL's
// position in d.URLs, and writes an index.html showing the images in order.
//
// Images are fetched one at a time. An image only appears in d.Dst once it
// has been fetched completely.
func (d *Download) Start(ctx context.Context) (*Result, error) {
	logger := d.logger()
	if err := prepareDir(d.Dst); err != nil {
		return nil, err
	}
	tmpDir, err := d.makeTempDir()
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	indexPath := filepath.Join(d.Dst, IndexFile)
	f, err := os.Create(indexPath)
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %w", indexPath, err)
	}
	index := newIndexWriter(f)

	logger.Debug("starting download",
		"images", len(d.URLs),
		"dst", d.Dst,
		"policy", d.Policy.String(),
		"timeout", d.Timeout,
	)
	res, err := d.downloadImages(ctx, tmpDir, index)

	if cerr := index.close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("error closing %s: %w", indexPath, cerr)
	}
	if err != nil {
		return res, err
	}
	logger.Debug("download finished", "files", len(res.Files), "failed", len(res.Failed))
	return res, nil
}

func (d *Download) downloadImages(ctx context.Context, tmpDir string, index *indexWriter) (*Result, error) {
	res := &Result{Files: make([]string, 0, len(d.URLs))}
	if len(d.URLs) == 0 {
		return res, nil
	}

	client := d.Client
	if client == nil {
		client = grab.NewClient()
		client.UserAgent = d.UserAgent
		if client.UserAgent == "" {
			client.UserAgent = DefaultUserAgent
		}
	}
	bar := d.Bar
	if bar == nil {
		bar = nopProgressBar{}
	}
	out := d.Stdout
	if out == nil {
		out = io.Discard
	}
	logger := d.logger()

	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()

	for i, url := range d.URLs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fmt.Fprintf(out, "(%d/%d) Downloading %s", i+1, len(d.URLs), url)
		startTime := time.Now()
		err := d.downloadTo(ctx, i, url, tmpDir, client, bar, t)
		if err != nil {
			fmt.Fprintln(out, " - Failed")
			var fetchErr *FetchError
			if d.Policy == Skip && errors.As(err, &fetchErr) && ctx.Err() == nil {
				logger.Warn("skipping image", "index", i, "url", url, "error", fetchErr.Err)
				res.Failed = append(res.Failed, fetchErr)
				continue
			}
			return res, err
		}
		fmt.Fprintf(out, " - Took %s\n", time.Since(startTime))

		name := imageName(i)
		index.add(name)
		res.Files = append(res.Files, name)
	}
	return res, nil
}

// downloadTo fetches the image at position i and moves it to its final name in d.Dst.
// Fetch problems are returned as *FetchError, local I/O problems as plain errors.
func (d *Download) downloadTo(
	ctx context.Context,
	i int,
	url, tmpDir string,
	client *grab.Client,
	bar ProgressBar,
	t *time.Ticker,
) error {
	if d.Timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	tmpFilename, err := downloadImage(ctx, url, filepath.Join(tmpDir, imageName(i)), client, bar, t)
	if err != nil {
		return &FetchError{Index: i, URL: url, Err: err}
	}
	defer os.Remove(tmpFilename)

	// Copy file to destination
	src, err := os.Open(tmpFilename)
	if err != nil {
		return err
	}
	defer src.Close()

	dstFile := filepath.Join(d.Dst, imageName(i))
	return copyInto(dstFile, src)
}

// copyInto writes src to a hidden file next to dstFile and renames it into
// place, so dstFile is either absent, unchanged or complete.
func copyInto(dstFile string, src io.Reader) (err error) {
	dst, err := os.CreateTemp(filepath.Dir(dstFile), "."+filepath.Base(dstFile)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dst.Close()
			os.Remove(dst.Name())
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("error copying download to destination (%s): %w", dstFile, err)
	}
	if err = dst.Chmod(0o644); err != nil {
		return err
	}
	if err = dst.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", dst.Name(), err)
	}
	if err = os.Rename(dst.Name(), dstFile); err != nil {
		return fmt.Errorf("error moving download into place (%s): %w", dstFile, err)
	}
	return nil
}

func downloadImage(
	ctx context.Context,
	imageURL string,
	tmpFilename string,
	c *grab.Client,
	bar ProgressBar,
	t *time.Ticker,
) (string, error) {
	// Create request
	req, err := grab.NewRequest(tmpFilename, imageURL)
	if err != nil {
		return "", fmt.Errorf("error creating new download request for %q: %w", imageURL, err)
	}
	req.NoResume = true
	req = req.WithContext(ctx)

	// Start download
	res := c.Do(req)

	// Download progress
	bar.SetTotal(res.Size)
	bar.SetCurrent(0)
	bar.Start()
	defer bar.Finish()
loop:
	for {
		select {
		case <-t.C:
			bar.SetCurrent(res.BytesComplete())
		case <-res.Done:
			break loop
		}
	}
	if err := res.Err(); err != nil {
		return "", fmt.Errorf("error downloading %q: %w", imageURL, err)
	}
	bar.SetCurrent(res.BytesComplete())
	return res.Filename, nil
}

// prepareDir creates dir and its parents unless it already exists.
func prepareDir(dir string) error {
	if dir == "" {
		return &DirectoryCreationError{Dir: dir, Err: errors.New("empty path")}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &DirectoryCreationError{Dir: dir, Err: err}
	}
	return nil
}

func (d *Download) makeTempDir() (string, error) {
	root := d.TempDir
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("error creating temporary directory: %w", err)
	}
	dir, err := os.MkdirTemp(root, "logpuzzle-")
	if err != nil {
		return "", fmt.Errorf("error creating temporary directory: %w", err)
	}
	return dir, nil
}

func (d *Download) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
