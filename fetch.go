package svgcrop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
)

// ProcessURL runs the full pipeline for a remote SVG: download it into
// dir, pull every remote image it embeds, rewrite the hrefs to the local
// filenames, then crop. The fetches all land on disk before the
// per-region loop starts.
func (p *Processor) ProcessURL(ctx context.Context, svgURL, dir, format string) (*Result, error) {
	svgPath := filepath.Join(dir, "view.svg")
	if err := p.DownloadSVG(ctx, svgURL, svgPath); err != nil {
		return nil, fmt.Errorf("downloading svg: %w", err)
	}

	doc, err := svgdoc.ParseFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	urls := doc.ImageHrefs()
	if len(urls) == 0 {
		return nil, ErrNoImages
	}

	names, downloaded := p.downloadImages(ctx, urls, dir)
	if downloaded == 0 {
		return nil, ErrDownloadFailed
	}

	if err := rewriteHrefs(svgPath, urls, names); err != nil {
		return nil, fmt.Errorf("rewriting image hrefs: %w", err)
	}

	res, err := p.ProcessFile(ctx, svgPath, dir, format)
	if err != nil {
		return nil, err
	}
	res.ImagesDownloaded = downloaded
	return res, nil
}

// DownloadSVG fetches the document and repairs the XML declaration damage
// some export pipelines produce before writing it to dest.
func (p *Processor) DownloadSVG(ctx context.Context, rawURL, dest string) error {
	body, err := p.fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, fixXMLDecl(body), 0o644)
}

// fixXMLDecl repairs a declaration that was turned into an HTML comment
// (`<!--?xml ... ?-->`) by an intermediate rewriter.
func fixXMLDecl(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("<!--?xml")) {
		return b
	}
	b = bytes.Replace(b, []byte("<!--?xml"), []byte("<?xml"), 1)
	return bytes.Replace(b, []byte("?-->"), []byte("?>"), 1)
}

func (p *Processor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// downloadImages fetches each URL into dir and returns the URL to local
// filename mapping plus the number of successful downloads. Name
// collisions between distinct URLs get an index suffix. Failures are
// logged and skipped; the run only dies when nothing downloads.
func (p *Processor) downloadImages(ctx context.Context, urls []string, dir string) (map[string]string, int) {
	names := make(map[string]string, len(urls))
	taken := make(map[string]bool, len(urls))
	downloaded := 0
	for i, rawURL := range urls {
		if _, ok := names[rawURL]; ok {
			continue // same asset referenced twice
		}
		name := filenameFromURL(rawURL)
		if taken[name] {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i, ext)
		}

		body, err := p.fetch(ctx, rawURL)
		if err != nil {
			slog.Error("image download failed", "url", rawURL, "error", err)
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			slog.Error("writing image", "file", name, "error", err)
			continue
		}
		names[rawURL] = name
		taken[name] = true
		downloaded++
		slog.Debug("downloaded", "file", name)
	}
	return names, downloaded
}

// rasterExts are the extensions recognized when extracting a filename
// from an image URL path.
var rasterExts = []string{".jpg", ".jpeg", ".png", ".gif"}

// filenameFromURL derives a local filename from an image URL: the last
// path segment carrying a known raster extension wins, else the last
// segment with a .jpeg suffix appended, else a fixed fallback.
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "image.jpeg"
	}
	parts := strings.Split(parsed.Path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		part := parts[i]
		if !strings.Contains(part, ".") {
			continue
		}
		lower := strings.ToLower(part)
		for _, ext := range rasterExts {
			if strings.Contains(lower, ext) {
				return part
			}
		}
	}
	if last := parts[len(parts)-1]; last != "" {
		return last + ".jpeg"
	}
	return "image.jpeg"
}

// rewriteHrefs replaces every downloaded URL in the SVG text with its
// local filename, so the document becomes self-contained inside dir.
func rewriteHrefs(svgPath string, urls []string, names map[string]string) error {
	content, err := os.ReadFile(svgPath)
	if err != nil {
		return err
	}
	for _, u := range urls {
		if name, ok := names[u]; ok {
			content = bytes.ReplaceAll(content, []byte(u), []byte(name))
		}
	}
	return os.WriteFile(svgPath, content, 0o644)
}

// joinWorkPath resolves an image href inside the working directory. The
// href is reduced to its base name so a crafted document cannot escape
// the per-request directory.
func joinWorkPath(dir, href string) string {
	return filepath.Join(dir, filepath.Base(href))
}
