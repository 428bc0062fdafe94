package main

import (
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/robinbraemer/logpuzzle"
)

var _ logpuzzle.ProgressBar = (*progressBar)(nil)

const barTpl = pb.ProgressBarTemplate(`{{percent . }} {{bar . }}  {{counters . }} {{speed . }}`)

// progressBar shows the download of one image at a time.
// Every Start begins a fresh pb bar since a finished one cannot be restarted.
type progressBar struct {
	out     io.Writer
	bar     *pb.ProgressBar
	total   int64
	current int64
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out}
}

func (b *progressBar) Start() {
	b.bar = barTpl.New(0).
		Set(pb.Bytes, true).
		SetRefreshRate(10 * time.Millisecond).
		SetWriter(b.out)
	b.bar.SetTotal(b.total)
	b.bar.SetCurrent(b.current)
	b.bar.Start()
}

func (b *progressBar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
		b.bar = nil
	}
}

func (b *progressBar) SetTotal(i int64) {
	b.total = i
	if b.bar != nil {
		b.bar.SetTotal(i)
	}
}

func (b *progressBar) SetCurrent(i int64) {
	b.current = i
	if b.bar != nil {
		b.bar.SetCurrent(i)
	}
}
