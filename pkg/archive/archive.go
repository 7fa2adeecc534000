// Package archive packs downloaded images into an in-memory zip.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"spacedash/internal/downloader"
	"spacedash/pkg/logger"
	"spacedash/pkg/pipeline"
)

// MIMEType is the content type of a built archive
const MIMEType = "application/zip"

// DefaultExtension is appended to every entry name
const DefaultExtension = ".jpg"

// Entry is one file inside the archive
type Entry struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Archive is a finished zip held in memory
type Archive struct {
	data    []byte
	entries []Entry
	skipped []pipeline.ImageRef
	summary downloader.Summary
}

// Bytes returns the raw zip bytes
func (a *Archive) Bytes() []byte {
	return a.data
}

// Reader returns a reader positioned at the start of the zip
func (a *Archive) Reader() *bytes.Reader {
	return bytes.NewReader(a.data)
}

// WriteTo writes the zip to w
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}

// Entries lists the files written, in order
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Skipped lists the refs whose download failed
func (a *Archive) Skipped() []pipeline.ImageRef {
	return a.skipped
}

// Summary aggregates the downloads behind the archive
func (a *Archive) Summary() downloader.Summary {
	return a.summary
}

// Len returns the number of files in the archive
func (a *Archive) Len() int {
	return len(a.entries)
}

// Builder downloads images and packs them
type Builder struct {
	client    downloader.ImageDownloader
	observer  downloader.Observer
	extension string
	logger    logger.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithExtension overrides the entry file extension
func WithExtension(ext string) Option {
	return func(b *Builder) {
		if ext != "" {
			b.extension = ext
		}
	}
}

// WithProgress reports each finished download to fn
func WithProgress(fn downloader.Observer) Option {
	return func(b *Builder) {
		b.observer = fn
	}
}

// NewBuilder creates a Builder downloading through client
func NewBuilder(client downloader.ImageDownloader, log logger.Logger, opts ...Option) *Builder {
	if log == nil {
		log = logger.GetLogger()
	}
	b := &Builder{
		client:    client,
		extension: DefaultExtension,
		logger:    log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Filename turns a display name into an entry name
func Filename(name, ext string) string {
	return strings.ReplaceAll(name, " ", "_") + ext
}

// Build downloads every ref in order and writes the successful ones into a
// zip. Failed downloads are skipped. When two refs map to the same entry
// name the later download replaces the earlier one. An empty or entirely
// failed ref list still yields a valid, empty zip.
func (b *Builder) Build(ctx context.Context, refs []pipeline.ImageRef) (*Archive, error) {
	return b.BuildWithProgress(ctx, refs, b.observer)
}

// BuildWithProgress is Build reporting each finished download to fn
// instead of the builder's own observer
func (b *Builder) BuildWithProgress(ctx context.Context, refs []pipeline.ImageRef, fn downloader.Observer) (*Archive, error) {
	start := time.Now()

	runner := downloader.NewRunner(b.client, b.logger)
	if fn != nil {
		runner.OnResult(fn)
	}

	jobs := make([]downloader.Job, len(refs))
	for i, ref := range refs {
		jobs[i] = downloader.Job{Index: i, Name: ref.Name, URL: ref.URL}
	}
	results := runner.Run(ctx, jobs)

	a := &Archive{
		skipped: []pipeline.ImageRef{},
		entries: []Entry{},
		summary: downloader.Summarize(results),
	}
	contents := map[string][]byte{}
	var order []string

	for _, res := range results {
		if !res.Success {
			a.skipped = append(a.skipped, refs[res.Job.Index])
			continue
		}
		name := Filename(res.Job.Name, b.extension)
		if _, seen := contents[name]; !seen {
			order = append(order, name)
		}
		contents[name] = res.Data
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if _, err := w.Write(contents[name]); err != nil {
			return nil, fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
		a.entries = append(a.entries, Entry{Name: name, Size: len(contents[name])})
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	a.data = buf.Bytes()

	b.logger.DebugWithFields("Archive assembled", map[string]interface{}{
		"refs":     len(refs),
		"entries":  len(a.entries),
		"skipped":  len(a.skipped),
		"bytes":    a.summary.Bytes,
		"duration": time.Since(start),
	})
	return a, nil
}
