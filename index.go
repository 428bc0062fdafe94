package logpuzzle

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IndexFile is the name of the generated index page.
const IndexFile = "index.html"

const (
	indexHeader = "<html>\n<head></head>\n<body>\n"
	indexFooter = "\n</body>\n</html>\n"
)

// indexWriter streams the index page, one img tag per downloaded image.
type indexWriter struct {
	w   io.Writer
	err error
}

func newIndexWriter(w io.Writer) *indexWriter {
	iw := &indexWriter{w: w}
	_, iw.err = io.WriteString(w, indexHeader)
	return iw
}

// add appends an img tag showing the local file name src.
func (iw *indexWriter) add(src string) {
	if iw.err != nil {
		return
	}
	img := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     atom.Img.String(),
		Attr:     []html.Attribute{{Key: "src", Val: src}},
	}
	iw.err = html.Render(iw.w, img)
}

// close writes the end of the document and returns the first write error.
func (iw *indexWriter) close() error {
	if iw.err == nil {
		_, iw.err = io.WriteString(iw.w, indexFooter)
	}
	if iw.err != nil {
		return fmt.Errorf("error writing %s: %w", IndexFile, iw.err)
	}
	return nil
}

// imageName is the local file name of the image at list position i.
func imageName(i int) string {
	return fmt.Sprintf("img%d.jpg", i)
}
