package dataset

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackvalmadre/vocify/internal/imagetest"
)

func TestClassesSkipsHidden(t *testing.T) {
	fsys := memfs.New()
	imagetest.Class(t, fsys, "/data", "Car", 1)
	imagetest.Class(t, fsys, "/data", "Person", 1)
	imagetest.WriteFile(t, fsys, "/data/.DS_Store", []byte("x"))
	require.NoError(t, fsys.MkdirAll("/data/.git", 0o755))

	classes, err := Classes(fsys, "/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"Car", "Person"}, classes)
}

func TestClassesRejectsFiles(t *testing.T) {
	fsys := memfs.New()
	imagetest.Class(t, fsys, "/data", "car", 1)
	imagetest.WriteFile(t, fsys, "/data/labels.csv", []byte("x"))

	_, err := Classes(fsys, "/data")
	assert.ErrorContains(t, err, "labels.csv")
}

func TestClassesMissingRoot(t *testing.T) {
	_, err := Classes(memfs.New(), "/nope")
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	fsys := memfs.New()
	// Consecutive hidden entries must all be dropped.
	imagetest.WriteFile(t, fsys, "/data/car/.a", []byte("x"))
	imagetest.WriteFile(t, fsys, "/data/car/.b", []byte("x"))
	imagetest.WriteFile(t, fsys, "/data/car/a.jpg", []byte("x"))
	imagetest.WriteFile(t, fsys, "/data/car/b.png", []byte("x"))
	require.NoError(t, fsys.MkdirAll("/data/car/thumbs", 0o755))

	names, err := Files(fsys, "/data/car")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, names)
}

func TestImages(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/data/car/2024_000007.jpg", []byte("x"))
	imagetest.WriteFile(t, fsys, "/data/car/raw.png", []byte("x"))

	imgs, err := Images(fsys, "/data", "car")
	require.NoError(t, err)
	assert.Equal(t, []Image{
		{ID: "2024_000007", Ext: ".jpg", Class: "car", Seq: 7},
		{ID: "raw", Ext: ".png", Class: "car"},
	}, imgs)
	assert.Equal(t, "2024_000007.jpg", imgs[0].Filename())
	assert.Equal(t, []string{"2024_000007", "raw"}, IDs(imgs))
}
