// Package imagetest builds small datasets on a billy filesystem for tests.
package imagetest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// PNG encodes an opaque w x h RGB image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// GrayPNG encodes a single channel w x h image.
func GrayPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// JPEG encodes a w x h color image.
func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

// WriteFile writes data to name, creating parent directories.
func WriteFile(t *testing.T, fsys billy.Filesystem, name string, data []byte) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(path.Dir(name), 0o755))
	require.NoError(t, util.WriteFile(fsys, name, data, 0o644))
}

// Class writes n PNG images named img<i>.png into <root>/<class>.
// Image i is (10+i) pixels wide and (5+i) pixels high.
func Class(t *testing.T, fsys billy.Filesystem, root, class string, n int) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(path.Join(root, class), 0o755))
	for i := 0; i < n; i++ {
		name := path.Join(root, class, fmt.Sprintf("img%02d.png", i))
		WriteFile(t, fsys, name, PNG(t, 10+i, 5+i))
	}
}

// Devkit creates the Annotations and ImageSets/Main directories under dir.
func Devkit(t *testing.T, fsys billy.Filesystem, dir string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(path.Join(dir, "Annotations"), 0o755))
	require.NoError(t, fsys.MkdirAll(path.Join(dir, "ImageSets", "Main"), 0o755))
}
