package htmldom

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"pkt.systems/h2t"
)

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

// HTTPRenderRequest configures RenderURL.
type HTTPRenderRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Width   int
	Theme   h2t.Theme
	Options []h2t.RenderOption
}

// Fetch retrieves and parses an HTML document over HTTP(S).
func Fetch(ctx context.Context, client *http.Client, url string) (h2t.Node, error) {
	if url == "" {
		return nil, fmt.Errorf("htmldom http: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("htmldom http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("htmldom http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	httpReq.Header.Set("Accept", "text/html, application/xhtml+xml;q=0.9, */*;q=0.5")
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("htmldom http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("htmldom http: status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("htmldom http: read body: %w", err)
	}
	return ParseBytes(body, resp.Header.Get("Content-Type"))
}

// RenderURL fetches an HTML document and renders it to req.Writer.
func RenderURL(ctx context.Context, req HTTPRenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("htmldom http: Writer is nil")
	}
	root, err := Fetch(ctx, req.Client, req.URL)
	if err != nil {
		return err
	}
	return h2t.Render(h2t.RenderRequest{
		Root:    root,
		Writer:  req.Writer,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
	})
}
