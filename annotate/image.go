package annotate

import (
	"image"

	// Formats the dataset may contain.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/voc"
)

// Images are read as 3-channel color whatever their stored format,
// so every annotation reports this depth.
const Depth = 3

// Dimensions reads the width and height of an image from its header.
func Dimensions(fsys billy.Filesystem, name string) (voc.Size, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return voc.Size{}, imageError(name, err)
	}
	defer file.Close()

	conf, _, err := image.DecodeConfig(file)
	if err != nil {
		return voc.Size{}, imageError(name, err)
	}
	return voc.Size{
		Depth:  Depth,
		Height: conf.Height,
		Width:  conf.Width,
	}, nil
}
