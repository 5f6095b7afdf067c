// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package imageio loads source images for relighting. It decodes the common
// raster formats directly and extracts the first image from ZIP and 7z
// archives, detected by magic bytes rather than file extension.
package imageio

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/gogpu/relight"

	// Registered image decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Magic bytes for archive detection.
var (
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	magic7z  = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
)

// ErrNoImage is returned when an archive contains no image entries.
var ErrNoImage = errors.New("imageio: no image found in archive")

// imageExts are the archive entry extensions treated as images.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// Load reads an image or archive from a file path.
func Load(name string) (*relight.Pixmap, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("imageio: read %s: %w", name, err)
	}
	return LoadBytes(data)
}

// LoadReader reads an image or archive from a stream.
func LoadReader(r io.Reader) (*relight.Pixmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: read stream: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes an in-memory image or archive. Archives yield their
// first image entry in name order.
func LoadBytes(data []byte) (*relight.Pixmap, error) {
	switch {
	case bytes.HasPrefix(data, magicZIP):
		return loadZIP(data)
	case bytes.HasPrefix(data, magic7z):
		return load7z(data)
	}
	return decodeImage(bytes.NewReader(data))
}

func decodeImage(r io.Reader) (*relight.Pixmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode image: %w", err)
	}
	return relight.FromImage(img), nil
}

func isImageEntry(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}

func loadZIP(data []byte) (*relight.Pixmap, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("imageio: open zip: %w", err)
	}

	var candidates []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isImageEntry(f.Name) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil, ErrNoImage
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })

	rc, err := candidates[0].Open()
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s in archive: %w", candidates[0].Name, err)
	}
	defer rc.Close()
	return decodeImage(rc)
}

func load7z(data []byte) (*relight.Pixmap, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("imageio: open 7z: %w", err)
	}

	var candidates []*sevenzip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isImageEntry(f.Name) {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil, ErrNoImage
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })

	rc, err := candidates[0].Open()
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s in archive: %w", candidates[0].Name, err)
	}
	defer rc.Close()
	return decodeImage(rc)
}
