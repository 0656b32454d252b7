// Package fetch retrieves feed documents concurrently with bounded
// parallelism and per-source timeouts. Fetch failures are captured per source
// and never fail siblings.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/newsscope/newswatch/internal/sources"
)

const (
	userAgent    = "NewsWatch/1.0 (+https://github.com/newsscope/newswatch)"
	maxBodyBytes = 10 * 1024 * 1024 // 10 MB per feed document
)

// Error kinds, mirroring the per-source failure taxonomy.
const (
	KindNetwork = "network"
	KindTimeout = "timeout"
	KindHTTP    = "http_status"
)

// Error describes a per-source fetch failure.
type Error struct {
	Kind   string
	Source string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("fetch %s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result pairs one source with its fetched payload or error.
type Result struct {
	Source  sources.SourceConfig
	Payload []byte
	Err     *Error
}

// Archiver stores raw fetched payloads for later inspection. Implementations
// must treat failures as non-fatal.
type Archiver interface {
	ArchivePayload(ctx context.Context, sourceName string, payload []byte) error
}

// Fetcher retrieves feed documents with bounded parallelism.
type Fetcher struct {
	client      *http.Client
	concurrency int
	timeout     time.Duration
	archiver    Archiver
}

// New creates a Fetcher. concurrency and timeout fall back to safe defaults
// when non-positive. archiver may be nil.
func New(concurrency int, timeout time.Duration, archiver Archiver) *Fetcher {
	if concurrency <= 0 {
		concurrency = 10
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
		timeout:     timeout,
		archiver:    archiver,
	}
}

// FetchAll retrieves all sources in parallel and returns one Result per
// source, in completion order. One attempt per source per cycle; no retry.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []sources.SourceConfig) []Result {
	results := make([]Result, 0, len(srcs))
	resultCh := make(chan Result)

	sem := make(chan struct{}, f.concurrency)
	var wg sync.WaitGroup

	for _, src := range srcs {
		wg.Add(1)
		go func(src sources.SourceConfig) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultCh <- Result{Source: src, Err: &Error{
					Kind: KindTimeout, Source: src.Name, Err: ctx.Err(),
				}}
				return
			}

			resultCh <- f.fetchOne(ctx, src)
		}(src)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		if res.Err != nil {
			slog.Warn("fetch: source failed", "source", res.Source.Name,
				"kind", res.Err.Kind, "err", res.Err)
		}
		results = append(results, res)
	}
	return results
}

// fetchOne retrieves a single source within the per-source timeout.
func (f *Fetcher) fetchOne(ctx context.Context, src sources.SourceConfig) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Result{Source: src, Err: &Error{Kind: KindNetwork, Source: src.Name, Err: err}}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			kind = KindTimeout
		}
		return Result{Source: src, Err: &Error{Kind: kind, Source: src.Name, Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Source: src, Err: &Error{
			Kind: KindHTTP, Source: src.Name, Status: resp.StatusCode,
		}}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Source: src, Err: &Error{Kind: KindNetwork, Source: src.Name, Err: err}}
	}

	if f.archiver != nil {
		if err := f.archiver.ArchivePayload(ctx, src.Name, payload); err != nil {
			slog.Warn("fetch: archive failed", "source", src.Name, "err", err)
		}
	}

	slog.Debug("fetch: source ok", "source", src.Name, "bytes", len(payload))
	return Result{Source: src, Payload: payload}
}
