// Package annotate writes a PASCAL VOC annotation for every image of a
// classification dataset, treating the whole image as one object of its
// class.
package annotate

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/dataset"
	"github.com/jackvalmadre/vocify/voc"
)

type Config struct {
	// Dataset root holding one directory per class.
	Root string
	// VOC directory, i.e. <devkit>/VOC<year>.
	Dir  string
	Year int
	// Notes copied into <source>. Empty fields become "Unknown".
	Annotator string
	Database  string
	Image     string
	// Pose of every object. Empty means "Unspecified".
	Pose   string
	Logger *slog.Logger
}

type Annotator struct {
	fs  billy.Filesystem
	cfg Config
	log *slog.Logger
}

func New(fsys billy.Filesystem, cfg Config) *Annotator {
	for _, s := range []*string{&cfg.Annotator, &cfg.Database, &cfg.Image} {
		if *s == "" {
			*s = voc.Unknown
		}
	}
	if cfg.Pose == "" {
		cfg.Pose = voc.Unspecified
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{fs: fsys, cfg: cfg, log: logger}
}

// Annotate writes one annotation per image of every class.
// Returns the number of annotations written.
func (a *Annotator) Annotate(classes []string) (int, error) {
	var n int
	for _, class := range classes {
		files, err := dataset.Files(a.fs, path.Join(a.cfg.Root, class))
		if err != nil {
			return n, err
		}
		for _, file := range files {
			if _, err := a.AnnotateImage(class, file, nil); err != nil {
				return n, err
			}
			n++
		}
		a.log.Info("annotated class", "class", class, "images", len(files))
	}
	return n, nil
}

// AnnotateImage writes the annotation of <root>/<class>/<filename> to
// <dir>/Annotations/<id>.xml.
//
// Each box becomes one object of the class.
// Without boxes there is a single box covering the whole image.
// Boxes are written as given, without checking the image bounds.
func (a *Annotator) AnnotateImage(class, filename string, boxes []voc.Box) (*voc.Annotation, error) {
	size, err := Dimensions(a.fs, path.Join(a.cfg.Root, class, filename))
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		boxes = []voc.Box{voc.FullFrame(size.Width, size.Height)}
	}

	ann := a.document(class, filename, size, boxes)
	id, _ := voc.SplitName(filename)
	if err := voc.WriteAnnotation(a.fs, a.cfg.Dir, id, ann); err != nil {
		return nil, err
	}
	a.log.Debug("wrote annotation", "image", filename, "objects", len(boxes),
		"width", size.Width, "height", size.Height)
	return ann, nil
}

func (a *Annotator) document(class, filename string, size voc.Size, boxes []voc.Box) *voc.Annotation {
	ann := &voc.Annotation{
		Filename: filename,
		Folder:   "VOC" + strconv.Itoa(a.cfg.Year),
		Objects:  make([]voc.Instance, len(boxes)),
		Size:     size,
		Source: voc.Source{
			Annotation: a.cfg.Annotator,
			Database:   a.cfg.Database,
			Image:      a.cfg.Image,
		},
	}
	for i, box := range boxes {
		ann.Objects[i] = voc.Instance{
			Name:   strings.ToLower(class),
			BndBox: box,
			Pose:   a.cfg.Pose,
		}
	}
	return ann
}

// Returns an error naming the image.
func imageError(name string, err error) error {
	return fmt.Errorf("read image %s: %w", name, err)
}
