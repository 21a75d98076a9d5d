// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package describe wraps the LLM provider registry with the four calls the
// aesthetic pipelines need: describe an image, describe a webpage,
// synthesize a combined aesthetic, and restyle an HTML document.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vaas/internal/fetch"
)

// Generator is the slice of the ai.Registry surface this package consumes.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Describe(ctx context.Context, prompt, imageDataURI string) (string, error)
}

// Fetcher retrieves a webpage's HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service implements the description calls with fixed prompts and the
// per-kind failure policies the pipelines rely on: image failures
// propagate, URL failures are swallowed.
type Service struct {
	gen     Generator
	fetcher Fetcher
}

// New creates a description service on top of a provider registry and a
// page fetcher.
func New(gen Generator, fetcher Fetcher) *Service {
	return &Service{gen: gen, fetcher: fetcher}
}

const imagePrompt = `Describe the aesthetic of this image in 2-3 sentences. ` +
	`Focus on mood, color palette, typography if visible, texture, and overall visual style. ` +
	`Do not describe the subject matter beyond what shapes the aesthetic.`

const urlSystemPrompt = `You are an aesthetic analyst. Given the raw HTML of a webpage, ` +
	`describe its visual aesthetic in 2-3 sentences: layout density, color palette, ` +
	`typography, spacing, and overall mood. Ignore the textual content itself.`

const synthesizeSystemPrompt = `You are an aesthetic curator. You receive several short ` +
	`descriptions of visual styles, images, and webpages. Synthesize them into ONE coherent ` +
	`aesthetic description of 3-5 sentences that captures the combined mood, color palette, ` +
	`typography, and texture. Output only the description, no preamble.`

const rewriteSystemPrompt = `You are a web designer. You receive an HTML document and an ` +
	`aesthetic description. Rewrite the document's styling (inline CSS and <style> blocks) ` +
	`to match the aesthetic. Preserve all structural content, text, links, and scripts — change ` +
	`only presentation. Output ONLY the complete HTML document, no explanation and no code fences.`

// DescribeImage asks the vision model for a short aesthetic description of
// one image (data URI or raw base64). Failures propagate: silently dropping
// an image description would change the aggregate aesthetic.
func (s *Service) DescribeImage(ctx context.Context, image string) (string, error) {
	out, err := s.gen.Describe(ctx, imagePrompt, image)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DescribeURL fetches a webpage and asks the model for a short aesthetic
// description. URLs are the least reliable input source, so every failure
// (fetch or model) is logged and swallowed; the empty result is filtered
// out of the aggregate by the caller.
func (s *Service) DescribeURL(ctx context.Context, url string) string {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Warn("url description skipped: fetch failed", "url", url, "error", err)
		return ""
	}

	out, err := s.gen.Generate(ctx, urlSystemPrompt, fetch.Truncate(html))
	if err != nil {
		slog.Warn("url description skipped: model failed", "url", url, "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// Synthesize combines the collected per-item descriptions into one coherent
// aesthetic text. Called exactly once per mood request.
func (s *Service) Synthesize(ctx context.Context, descriptions []string) (string, error) {
	var b strings.Builder
	for i, d := range descriptions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}

	out, err := s.gen.Generate(ctx, synthesizeSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("synthesize aesthetic: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RewriteHTML asks the model to restyle an HTML document to match the
// aesthetic text. The caller is responsible for truncating html to the
// shared cap first. The returned document is passed through verbatim apart
// from stripping markdown code fences models like to add.
func (s *Service) RewriteHTML(ctx context.Context, html, aesthetic string) (string, error) {
	user := fmt.Sprintf("Aesthetic description:\n%s\n\nHTML document:\n%s", aesthetic, html)

	out, err := s.gen.Generate(ctx, rewriteSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("rewrite html: %w", err)
	}
	return stripFences(out), nil
}

// stripFences removes markdown code fences (```html ... ```) from a model
// reply, returning the inner document.
func stripFences(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if firstNewline := strings.Index(response, "\n"); firstNewline != -1 {
			response = response[firstNewline+1:]
		}
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
	}

	return strings.TrimSpace(response)
}
