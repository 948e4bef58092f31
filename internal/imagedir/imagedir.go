// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagedir enumerates slide images and prepares them for PDF
// composition and for upload to a vision model.
package imagedir

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"
)

// extensions lists the accepted image extensions, compared case-insensitively.
var extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether name has an accepted image extension.
func IsImage(name string) bool {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// List returns the paths of the image files directly inside dir, sorted
// lexicographically by filename. Callers control page order by naming files
// with zero-padded prefixes.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// DataURL reads the image at path and returns it as a base64 data URL. The
// media subtype is the lowercased file extension.
func DataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", path, err)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ScaledDataURL is DataURL for images whose longer side is at most maxSide.
// Larger images are scaled down to fit and sent as PNG. maxSide <= 0 never
// scales.
func ScaledDataURL(path string, maxSide int) (string, error) {
	if maxSide <= 0 {
		return DataURL(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("decoding image %s: %w", path, err)
	}
	if max(cfg.Width, cfg.Height) <= maxSide {
		return DataURL(path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding %s: %w", path, err)
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding image %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Downscale(img, maxSide)); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Fit returns size shrunk proportionally so neither side exceeds maxSide.
// Sizes that already fit are returned unchanged. Each side stays >= 1.
func Fit(size image.Point, maxSide int) image.Point {
	longer := max(size.X, size.Y)
	if maxSide <= 0 || longer <= maxSide {
		return size
	}
	return image.Point{
		X: max(1, size.X*maxSide/longer),
		Y: max(1, size.Y*maxSide/longer),
	}
}

// Downscale resamples img with Catmull-Rom so its longer side is maxSide,
// flattening transparency onto white. Images that already fit are returned
// as is.
func Downscale(img image.Image, maxSide int) image.Image {
	size := img.Bounds().Size()
	fit := Fit(size, maxSide)
	if fit == size {
		return img
	}
	dst := image.NewRGBA(image.Rectangle{Max: fit})
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Normalize decodes the image at src, flattens any transparency onto white
// and writes an opaque RGB PNG to dst. It returns the image dimensions.
func Normalize(src, dst string) (image.Point, error) {
	in, err := os.Open(src)
	if err != nil {
		return image.Point{}, fmt.Errorf("opening image %s: %w", src, err)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return image.Point{}, fmt.Errorf("decoding image %s: %w", src, err)
	}

	rgb := ToRGB(img)

	out, err := os.Create(dst)
	if err != nil {
		return image.Point{}, fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := png.Encode(out, rgb); err != nil {
		out.Close()
		return image.Point{}, fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return image.Point{}, fmt.Errorf("closing %s: %w", dst, err)
	}
	return rgb.Bounds().Size(), nil
}

// ToRGB draws img over an opaque white canvas anchored at the origin.
// The result has no alpha, so PNG encodes it with three channels.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
