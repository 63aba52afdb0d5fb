package verify

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackvalmadre/vocify/annotate"
	"github.com/jackvalmadre/vocify/internal/imagetest"
	"github.com/jackvalmadre/vocify/rename"
	"github.com/jackvalmadre/vocify/split"
	"github.com/jackvalmadre/vocify/voc"
)

const dir = "/kit/VOC2024"

// Runs the whole conversion over a small dataset.
func generate(t *testing.T) (billy.Filesystem, []string) {
	t.Helper()
	fsys := memfs.New()
	imagetest.Class(t, fsys, "/data", "Car", 12)
	imagetest.Class(t, fsys, "/data", "Person", 21)
	imagetest.Class(t, fsys, "/data", "dog", 5)
	imagetest.Devkit(t, fsys, dir)

	res, err := rename.New(fsys, rename.Config{Root: "/data", Year: 2024}).Rename()
	require.NoError(t, err)
	_, err = split.New(fsys, split.Config{
		Root: "/data", Dir: dir, Seed: 3,
		TrainRatio: split.DefaultTrainRatio, ValRatio: split.DefaultValRatio,
	}).Run(res.Classes)
	require.NoError(t, err)
	_, err = annotate.New(fsys, annotate.Config{Root: "/data", Dir: dir, Year: 2024}).Annotate(res.Classes)
	require.NoError(t, err)
	return fsys, res.Classes
}

func TestDevkit(t *testing.T) {
	fsys, classes := generate(t)

	report, err := Devkit(fsys, dir, classes)
	require.NoError(t, err)
	assert.Empty(t, report.Problems)
	assert.True(t, report.OK())
	assert.Equal(t, 38, report.Images)
}

func TestDevkitOverlap(t *testing.T) {
	fsys, classes := generate(t)
	train, err := voc.Images(fsys, dir, voc.Train)
	require.NoError(t, err)
	test, err := voc.Images(fsys, dir, voc.Test)
	require.NoError(t, err)
	require.NoError(t, voc.WriteImages(fsys, dir, voc.Test, append(test, train[0])))

	report, err := Devkit(fsys, dir, classes)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Contains(t, report.Problems, train[0]+": listed in both train and test")
}

func TestDevkitTrainValOrder(t *testing.T) {
	fsys, classes := generate(t)
	trainval, err := voc.Images(fsys, dir, voc.TrainVal)
	require.NoError(t, err)
	trainval[0], trainval[len(trainval)-1] = trainval[len(trainval)-1], trainval[0]
	require.NoError(t, voc.WriteImages(fsys, dir, voc.TrainVal, trainval))

	report, err := Devkit(fsys, dir, classes)
	require.NoError(t, err)
	assert.Contains(t, report.Problems, "trainval is not train followed by val")
}

func TestDevkitWrongLabel(t *testing.T) {
	fsys, classes := generate(t)
	labels, err := voc.Labels(fsys, dir, "dog_test")
	require.NoError(t, err)
	labels[0].Positive = !labels[0].Positive
	require.NoError(t, voc.WriteLabels(fsys, dir, "dog_test", labels))

	report, err := Devkit(fsys, dir, classes)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Contains(t, report.Problems[0], "dog_test: wrong label for "+labels[0].Image)
}

func TestDevkitMissingAnnotation(t *testing.T) {
	fsys, classes := generate(t)
	test, err := voc.Images(fsys, dir, voc.Test)
	require.NoError(t, err)
	require.NoError(t, fsys.Remove(voc.AnnotationFile(dir, test[0])))

	_, err = Devkit(fsys, dir, classes)
	assert.Error(t, err)
}
