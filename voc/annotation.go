package voc

import (
	"encoding/xml"
	"fmt"
	"image"
	"io"

	"github.com/go-git/go-billy/v5"
)

// Default values of the optional annotation fields.
const (
	Unspecified = "Unspecified"
	Unknown     = "Unknown"
)

// The contents of <dir>/Annotations/<image>.xml.
// Field order is the element order of the written document.
type Annotation struct {
	XMLName   xml.Name   `xml:"annotation"`
	Filename  string     `xml:"filename"`
	Folder    string     `xml:"folder"`
	Objects   []Instance `xml:"object"`
	Size      Size       `xml:"size"`
	Segmented int        `xml:"segmented"`
	Source    Source     `xml:"source"`
}

// One labelled box within an image.
type Instance struct {
	Name      string `xml:"name"`
	BndBox    Box    `xml:"bndbox"`
	Difficult int    `xml:"difficult"`
	Occluded  int    `xml:"occluded"`
	Pose      string `xml:"pose"`
	Truncated int    `xml:"truncated"`
}

// Bounding box in pixels.
// Fields are in the order [xmax, xmin, ymax, ymin].
type Box struct {
	XMax int `xml:"xmax"`
	XMin int `xml:"xmin"`
	YMax int `xml:"ymax"`
	YMin int `xml:"ymin"`
}

// Returns the box covering a whole width x height image.
func FullFrame(width, height int) Box {
	return Box{XMax: width, XMin: 0, YMax: height, YMin: 0}
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax, b.YMax)
}

type Size struct {
	Depth  int `xml:"depth"`
	Height int `xml:"height"`
	Width  int `xml:"width"`
}

// Free-text notes about where an annotation came from.
type Source struct {
	Annotation string `xml:"annotation"`
	Database   string `xml:"database"`
	Image      string `xml:"image"`
}

// Writes the document indented with tabs.
func (a *Annotation) Encode(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(a); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Writes the document to <dir>/Annotations/<img>.xml.
func WriteAnnotation(fsys billy.Filesystem, dir, img string, a *Annotation) error {
	name := AnnotationFile(dir, img)
	file, err := fsys.Create(name)
	if err != nil {
		return err
	}
	if err := a.Encode(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return file.Close()
}

// Loads the full annotation document of an image.
//
// Looks in <dir>/Annotations/<img>.xml.
func LoadAnnotation(fsys billy.Filesystem, dir, img string) (*Annotation, error) {
	file, err := fsys.Open(AnnotationFile(dir, img))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a := new(Annotation)
	if err := xml.NewDecoder(file).Decode(a); err != nil {
		return nil, fmt.Errorf("parse annotation %s: %w", img, err)
	}
	return a, nil
}
