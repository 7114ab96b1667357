package h2t

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

var writerPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(nil, 4096)
	},
}

// RenderRequest configures Render.
type RenderRequest struct {
	Root   Node
	Writer io.Writer
	// Sink, when set, receives the lines instead of Writer.
	Sink  Sink
	Width int
	// Theme selects decorated output; nil renders plain text.
	Theme   Theme
	Options []RenderOption
}

// Render lays out a document and writes it to a sink.
func Render(req RenderRequest) error {
	if req.Root == nil {
		return fmt.Errorf("render: %w", ErrNilRoot)
	}
	if req.Writer == nil && req.Sink == nil {
		return fmt.Errorf("render: writer is nil")
	}
	cfg := newConfig(req.Options)
	lines, _, err := layoutDocument(req.Root, req.Width, &cfg)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	sink := req.Sink
	if sink == nil {
		bw := writerPool.Get().(*bufio.Writer)
		bw.Reset(req.Writer)
		defer func() {
			bw.Reset(nil)
			writerPool.Put(bw)
		}()
		if req.Theme == nil {
			sink = NewPlainSink(bw)
		} else {
			sink = newDecoratedSink(bw, req.Theme, &cfg)
		}
	}
	for _, line := range lines {
		if err := sink.WriteLine(line); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// RenderString renders root as plain text.
func RenderString(root Node, width int, opts ...RenderOption) (string, error) {
	var b strings.Builder
	err := Render(RenderRequest{Root: root, Writer: &b, Width: width, Options: opts})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
