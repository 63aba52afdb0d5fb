package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackvalmadre/vocify/internal/imagetest"
	"github.com/jackvalmadre/vocify/voc"
)

func TestAnnotate(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/data/car/2024_000001.png", imagetest.PNG(t, 40, 30))
	imagetest.WriteFile(t, fsys, "/data/car/2024_000002.jpg", imagetest.JPEG(t, 16, 8))
	imagetest.WriteFile(t, fsys, "/data/car/.DS_Store", []byte("junk"))
	imagetest.WriteFile(t, fsys, "/data/person/2024_000003.png", imagetest.GrayPNG(t, 7, 9))
	imagetest.Devkit(t, fsys, "/kit/VOC2024")

	a := New(fsys, Config{Root: "/data", Dir: "/kit/VOC2024", Year: 2024})
	n, err := a.Annotate([]string{"car", "person"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	tests := []struct {
		id, filename, class string
		size                voc.Size
	}{
		{"2024_000001", "2024_000001.png", "car", voc.Size{Depth: 3, Height: 30, Width: 40}},
		{"2024_000002", "2024_000002.jpg", "car", voc.Size{Depth: 3, Height: 8, Width: 16}},
		{"2024_000003", "2024_000003.png", "person", voc.Size{Depth: 3, Height: 9, Width: 7}},
	}
	for _, tt := range tests {
		ann, err := voc.LoadAnnotation(fsys, "/kit/VOC2024", tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.filename, ann.Filename)
		assert.Equal(t, "VOC2024", ann.Folder)
		assert.Equal(t, tt.size, ann.Size)
		require.Len(t, ann.Objects, 1)
		obj := ann.Objects[0]
		assert.Equal(t, tt.class, obj.Name)
		assert.Equal(t, voc.Box{XMax: tt.size.Width, XMin: 0, YMax: tt.size.Height, YMin: 0}, obj.BndBox)
		assert.Equal(t, voc.Unspecified, obj.Pose)
		assert.Equal(t, voc.Source{Annotation: voc.Unknown, Database: voc.Unknown, Image: voc.Unknown}, ann.Source)
	}

	infos, err := fsys.ReadDir("/kit/VOC2024/Annotations")
	require.NoError(t, err)
	assert.Len(t, infos, 3)
}

func TestAnnotateImageBoxes(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/data/Street/2024_000001.png", imagetest.PNG(t, 100, 50))
	imagetest.Devkit(t, fsys, "/voc")

	a := New(fsys, Config{Root: "/data", Dir: "/voc", Year: 2024, Annotator: "lab", Database: "street-cams"})
	boxes := []voc.Box{
		{XMax: 20, XMin: 10, YMax: 40, YMin: 5},
		// Not clipped to the image.
		{XMax: 150, XMin: 90, YMax: 60, YMin: 0},
	}
	ann, err := a.AnnotateImage("Street", "2024_000001.png", boxes)
	require.NoError(t, err)
	require.Len(t, ann.Objects, 2)
	assert.Equal(t, "street", ann.Objects[0].Name)

	objs, err := voc.Objects(fsys, "/voc", "2024_000001")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, boxes[0].Rect(), objs[0].Region)
	assert.Equal(t, boxes[1].Rect(), objs[1].Region)

	got, err := voc.LoadAnnotation(fsys, "/voc", "2024_000001")
	require.NoError(t, err)
	assert.Equal(t, "lab", got.Source.Annotation)
	assert.Equal(t, "street-cams", got.Source.Database)
	assert.Equal(t, voc.Unknown, got.Source.Image)
}

func TestAnnotateUnreadableImage(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/data/car/2024_000001.jpg", []byte("not an image"))
	imagetest.Devkit(t, fsys, "/voc")

	n, err := New(fsys, Config{Root: "/data", Dir: "/voc", Year: 2024}).Annotate([]string{"car"})
	assert.ErrorContains(t, err, "2024_000001.jpg")
	assert.Equal(t, 0, n)

	_, err = fsys.Stat("/voc/Annotations/2024_000001.xml")
	assert.Error(t, err)
}

func TestAnnotateFormat(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/data/car/2024_000001.png", imagetest.PNG(t, 4, 2))
	imagetest.Devkit(t, fsys, "/voc")

	_, err := New(fsys, Config{Root: "/data", Dir: "/voc", Year: 2024}).Annotate([]string{"car"})
	require.NoError(t, err)

	data, err := util.ReadFile(fsys, "/voc/Annotations/2024_000001.xml")
	require.NoError(t, err)
	assert.Equal(t, `<annotation>
	<filename>2024_000001.png</filename>
	<folder>VOC2024</folder>
	<object>
		<name>car</name>
		<bndbox>
			<xmax>4</xmax>
			<xmin>0</xmin>
			<ymax>2</ymax>
			<ymin>0</ymin>
		</bndbox>
		<difficult>0</difficult>
		<occluded>0</occluded>
		<pose>Unspecified</pose>
		<truncated>0</truncated>
	</object>
	<size>
		<depth>3</depth>
		<height>2</height>
		<width>4</width>
	</size>
	<segmented>0</segmented>
	<source>
		<annotation>Unknown</annotation>
		<database>Unknown</database>
		<image>Unknown</image>
	</source>
</annotation>
`, string(data))
}

func TestDimensionsDepth(t *testing.T) {
	fsys := memfs.New()
	imagetest.WriteFile(t, fsys, "/gray.png", imagetest.GrayPNG(t, 3, 2))
	imagetest.WriteFile(t, fsys, "/rgb.jpg", imagetest.JPEG(t, 3, 2))

	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 100})
	require.NoError(t, png.Encode(&buf, img))
	imagetest.WriteFile(t, fsys, "/alpha.png", buf.Bytes())

	for _, name := range []string{"/gray.png", "/rgb.jpg", "/alpha.png"} {
		size, err := Dimensions(fsys, name)
		require.NoError(t, err, name)
		assert.Equal(t, voc.Size{Depth: 3, Height: 2, Width: 3}, size, name)
	}
}
