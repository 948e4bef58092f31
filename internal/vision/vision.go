// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vision asks a vision-capable model for slide titles and outlines.
//
// Both extraction paths report remote failures the same way, as a
// *CallError, and leave it to the caller to abort or carry on.
package vision

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/slidedeck/internal/imagedir"
	"github.com/pdiddy/slidedeck/internal/logger"
	"github.com/pdiddy/slidedeck/internal/outline"
	"github.com/pdiddy/slidedeck/internal/title"
	"github.com/pdiddy/slidedeck/internal/titlecache"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// CallError reports a failed request to the model for one image.
type CallError struct {
	Image string
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("vision call for %s: %v", filepath.Base(e.Image), e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Cache stores raw model responses between runs. *titlecache.Store
// implements it.
type Cache interface {
	Get(key titlecache.Key) (string, bool, error)
	Put(key titlecache.Key, image, raw string) error
}

// Extractor runs title and outline extraction. Configuration is explicit;
// nothing is read from the environment. An Extractor is not safe for
// concurrent use.
type Extractor struct {
	Backend Backend

	// Model names the model behind Backend. It is part of the cache key.
	Model string

	// Cache is optional.
	Cache Cache

	// Delay separates successive remote calls.
	Delay time.Duration

	// TitlesFile is the name of the numbered list written by ExtractTitles.
	TitlesFile string

	// MaxImageSide scales larger images down before upload. Zero disables.
	MaxImageSide int

	Log *logger.Logger

	// Out receives one progress line per image.
	Out io.Writer

	called bool
}

// NewExtractor returns an Extractor configured from cfg.
func NewExtractor(backend Backend, cfg types.VisionConfig, cache Cache, log *logger.Logger, out io.Writer) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	if out == nil {
		out = io.Discard
	}
	titlesFile := cfg.TitlesFile
	if titlesFile == "" {
		titlesFile = types.DefaultTitlesFile
	}
	model := cfg.Model
	if model == "" {
		model = types.DefaultModel
	}
	return &Extractor{
		Backend:      backend,
		Model:        model,
		Cache:        cache,
		Delay:        cfg.Delay,
		TitlesFile:   titlesFile,
		MaxImageSide: cfg.MaxImageSide,
		Log:          log,
		Out:          out,
	}
}

// TitleResult is the extracted title of one image.
type TitleResult struct {
	Image  string
	Raw    string
	Title  string
	Cached bool
}

// TitleBatch is the outcome of ExtractTitles.
type TitleBatch struct {
	Results []TitleResult

	// File is the path of the written title list. Empty when the batch
	// failed before completion.
	File string
}

// Titles returns the sanitized titles in image order.
func (b TitleBatch) Titles() []string {
	titles := make([]string, len(b.Results))
	for i, r := range b.Results {
		titles[i] = r.Title
	}
	return titles
}

// ExtractTitles asks the model for the title of every image in dir, in
// filename order, sanitizes each answer and writes the numbered list to
// dir/TitlesFile. On a failed call it stops and returns the titles gathered
// so far together with a *CallError; the list file is only written for a
// complete batch.
func (e *Extractor) ExtractTitles(ctx context.Context, dir string) (TitleBatch, error) {
	images, err := imagedir.List(dir)
	if err != nil {
		return TitleBatch{}, err
	}

	var batch TitleBatch
	for i, img := range images {
		raw, cached, err := e.complete(ctx, img, TitleInstruction, titlecache.KindTitle)
		if err != nil {
			return batch, err
		}
		res := TitleResult{
			Image:  img,
			Raw:    raw,
			Title:  title.Sanitize(raw),
			Cached: cached,
		}
		batch.Results = append(batch.Results, res)

		suffix := ""
		if cached {
			suffix = " (cached)"
		}
		fmt.Fprintf(e.out(), "%d. %s: %s%s\n", i+1, filepath.Base(img), res.Raw, suffix)
	}

	path := filepath.Join(dir, e.TitlesFile)
	if err := WriteTitleList(path, batch.Titles()); err != nil {
		return batch, err
	}
	batch.File = path
	e.Log.Info("titles saved", "file", path, "count", len(batch.Results))
	return batch, nil
}

// ExtractOutline asks the model for the outline shown on one slide and
// returns it as a list of lines. See outline.ParseBullets for parsing.
func (e *Extractor) ExtractOutline(ctx context.Context, imagePath string) ([]string, error) {
	raw, _, err := e.complete(ctx, imagePath, OutlineInstruction, titlecache.KindOutline)
	if err != nil {
		return nil, err
	}
	return outline.ParseBullets(raw), nil
}

// complete returns the model's answer for one image, from the cache when
// possible. Remote failures are wrapped in *CallError.
func (e *Extractor) complete(ctx context.Context, img, instruction string, kind titlecache.Kind) (string, bool, error) {
	log := e.logger().With("image", filepath.Base(img), "kind", string(kind))

	var key titlecache.Key
	if e.Cache != nil {
		hash, err := titlecache.HashFile(img)
		if err != nil {
			return "", false, err
		}
		key = titlecache.Key{ImageHash: hash, Model: e.Model, Kind: kind}
		raw, ok, err := e.Cache.Get(key)
		if err != nil {
			log.Warn("cache lookup failed", "error", err)
		} else if ok {
			log.Debug("cache hit")
			return raw, true, nil
		}
	}

	if e.called {
		if err := wait(ctx, e.Delay); err != nil {
			return "", false, err
		}
	}

	dataURL, err := imagedir.ScaledDataURL(img, e.MaxImageSide)
	if err != nil {
		return "", false, err
	}

	log.Debug("calling model", "model", e.Model, "image_url", dataURL)
	e.called = true
	raw, err := e.Backend.Complete(ctx, instruction, dataURL)
	if err != nil {
		return "", false, &CallError{Image: img, Err: err}
	}
	raw = strings.TrimSpace(raw)

	if e.Cache != nil {
		if err := e.Cache.Put(key, filepath.Base(img), raw); err != nil {
			log.Warn("cache write failed", "error", err)
		}
	}
	return raw, false, nil
}

func (e *Extractor) out() io.Writer {
	if e.Out == nil {
		return io.Discard
	}
	return e.Out
}

func (e *Extractor) logger() *logger.Logger {
	if e.Log == nil {
		return logger.Nop()
	}
	return e.Log
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WriteTitleList writes titles to path as "N. Title" lines, numbered from 1.
func WriteTitleList(path string, titles []string) error {
	var b strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing title list: %w", err)
	}
	return nil
}
