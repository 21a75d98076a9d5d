// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine orchestrates the two core pipelines: turning heterogeneous
// inputs (texts, images, urls) into a synthesized aesthetic, and restyling
// an HTML document against a saved or inline aesthetic. All model work is
// delegated to the description service; the engine owns ordering, batching,
// validation, and persistence.
package engine

import (
	"context"
	"log/slog"
	"time"

	"vaas/internal/batch"
	"vaas/internal/cache"
	"vaas/internal/fetch"
	"vaas/internal/store"
)

// Describer is the description-service surface the pipelines consume.
type Describer interface {
	DescribeImage(ctx context.Context, image string) (string, error)
	DescribeURL(ctx context.Context, url string) string
	Synthesize(ctx context.Context, descriptions []string) (string, error)
	RewriteHTML(ctx context.Context, html, aesthetic string) (string, error)
}

// Fetcher retrieves a webpage's HTML for transform-url requests.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// pipelineTimeout bounds a single pipeline invocation. The source behavior
// had no application-level deadline; a bulk mood request fans out dozens of
// model calls, so an upper bound keeps a stuck upstream from pinning the
// connection past the server's write timeout.
const pipelineTimeout = 75 * time.Second

// Engine wires the pipelines to their collaborators.
type Engine struct {
	describer Describer
	fetcher   Fetcher
	store     *store.Store
	cache     *cache.TransformCache // nil disables caching
	fanout    int
}

// New creates an engine. fanout is the concurrency ceiling for batched
// image/url description calls; cache may be nil.
func New(describer Describer, fetcher Fetcher, st *store.Store, tc *cache.TransformCache, fanout int) *Engine {
	if fanout < 1 {
		fanout = 1
	}
	return &Engine{
		describer: describer,
		fetcher:   fetcher,
		store:     st,
		cache:     tc,
		fanout:    fanout,
	}
}

// MoodRequest carries the inputs of one aesthetic-generation request.
// Images are data URIs or raw base64.
type MoodRequest struct {
	Texts  []string
	Images []string
	URLs   []string
	Name   string // optional; non-empty persists the result
}

// MoodResult is the outcome of the aesthetic pipeline.
type MoodResult struct {
	Aesthetic string
	SavedAs   string // empty when no name was supplied
}

// Mood runs the aesthetic pipeline: validate, collect raw texts, fan out
// image and url descriptions, synthesize once over the ordered aggregate,
// and optionally persist under a name. Image description failures abort the
// pipeline; url description failures degrade the aggregate silently.
func (e *Engine) Mood(ctx context.Context, req MoodRequest) (MoodResult, error) {
	if len(req.Texts) == 0 && len(req.Images) == 0 && len(req.URLs) == 0 {
		return MoodResult{}, &ValidationError{Msg: "at least one of texts, images or urls is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()

	// Raw texts enter the aggregate verbatim, no model call.
	descriptions := make([]string, 0, len(req.Texts)+len(req.Images)+len(req.URLs))
	descriptions = append(descriptions, req.Texts...)

	// Image kind fails fast: a dropped image description would silently
	// change the aggregate aesthetic.
	imageDescs, err := batch.Map(ctx, req.Images, e.fanout, e.describer.DescribeImage)
	if err != nil {
		return MoodResult{}, err
	}
	descriptions = append(descriptions, imageDescs...)

	// URL kind is best-effort: DescribeURL swallows its own failures and
	// returns empty, so Map never aborts here.
	urlDescs, err := batch.Map(ctx, req.URLs, e.fanout, func(ctx context.Context, url string) (string, error) {
		return e.describer.DescribeURL(ctx, url), nil
	})
	if err != nil {
		return MoodResult{}, err
	}
	for _, d := range urlDescs {
		if d != "" {
			descriptions = append(descriptions, d)
		}
	}

	aesthetic, err := e.describer.Synthesize(ctx, descriptions)
	if err != nil {
		return MoodResult{}, err
	}

	result := MoodResult{Aesthetic: aesthetic}
	if req.Name != "" {
		if _, err := e.store.Save(req.Name, aesthetic); err != nil {
			// Persistence failure is not surfaced to the caller; the
			// in-memory record is updated and the response proceeds.
			slog.Error("aesthetic save failed", "name", req.Name, "error", err)
		}
		result.SavedAs = req.Name
	}

	return result, nil
}

// Transform restyles an HTML document supplied directly, against an inline
// aesthetic text.
func (e *Engine) Transform(ctx context.Context, html, aesthetic string) (string, error) {
	if html == "" || aesthetic == "" {
		return "", &ValidationError{Msg: "html and aesthetic are required"}
	}

	ctx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()

	return e.rewrite(ctx, fetch.Truncate(html), aesthetic)
}

// TransformURL fetches a page and restyles it. The aesthetic resolves from
// the inline text when present, otherwise from the store by name — both
// before any network fetch, so an unknown name returns NotFoundError
// without touching the page.
func (e *Engine) TransformURL(ctx context.Context, url, aesthetic, aestheticName string) (string, error) {
	if url == "" {
		return "", &ValidationError{Msg: "url is required"}
	}

	resolved, err := e.resolveAesthetic(aesthetic, aestheticName)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, pipelineTimeout)
	defer cancel()

	html, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	html = fetch.InjectBase(html, url)

	return e.rewrite(ctx, fetch.Truncate(html), resolved)
}

// resolveAesthetic picks the aesthetic text for a transform: inline text
// wins; otherwise the named record is looked up.
func (e *Engine) resolveAesthetic(aesthetic, name string) (string, error) {
	if aesthetic != "" {
		return aesthetic, nil
	}
	if name == "" {
		return "", &ValidationError{Msg: "one of aesthetic or aesthetic_name is required"}
	}

	rec, ok := e.store.Get(name)
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return rec.Embedding, nil
}

// rewrite runs the model restyle with the transform cache in front of it.
func (e *Engine) rewrite(ctx context.Context, html, aesthetic string) (string, error) {
	key := cache.Key(html, aesthetic)
	if out, ok := e.cache.Get(ctx, key); ok {
		return out, nil
	}

	out, err := e.describer.RewriteHTML(ctx, html, aesthetic)
	if err != nil {
		return "", err
	}

	e.cache.Set(ctx, key, out)
	return out, nil
}
