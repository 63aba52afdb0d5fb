package voc

import (
	"encoding/xml"
	"image"

	"github.com/go-git/go-billy/v5"
)

// A window with a name.
type Object struct {
	Class  string
	Region image.Rectangle
	// Optional flags.
	Difficult *bool
	Occluded  *bool
	Truncated *bool
}

// Flags to select objects by.
type Tags struct {
	Difficult bool
	Occluded  bool
	Truncated bool
}

// Reports whether obj carries any of the set tags.
func (t Tags) Match(obj Object) bool {
	switch {
	case t.Difficult && isTrue(obj.Difficult):
		return true
	case t.Occluded && isTrue(obj.Occluded):
		return true
	case t.Truncated && isTrue(obj.Truncated):
		return true
	}
	return false
}

// Loads the objects present in an image.
// An image may contain multiple objects.
//
// Looks in <dir>/Annotations/<image>.xml.
func Objects(fsys billy.Filesystem, dir, img string) ([]Object, error) {
	// Open file.
	fi, err := fsys.Open(AnnotationFile(dir, img))
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	// Parse from XML.
	// Flags are pointers so that missing elements stay nil.
	var data struct {
		XMLName xml.Name `xml:"annotation"`
		Objects []struct {
			Name      string `xml:"name"`
			BndBox    Box    `xml:"bndbox"`
			Difficult *int   `xml:"difficult"`
			Occluded  *int   `xml:"occluded"`
			Truncated *int   `xml:"truncated"`
		} `xml:"object"`
	}
	if err := xml.NewDecoder(fi).Decode(&data); err != nil {
		return nil, err
	}

	// Construct from XML object.
	objs := make([]Object, len(data.Objects))
	for i, raw := range data.Objects {
		objs[i] = Object{
			Class:     raw.Name,
			Region:    raw.BndBox.Rect(),
			Difficult: intPtrToBool(raw.Difficult),
			Occluded:  intPtrToBool(raw.Occluded),
			Truncated: intPtrToBool(raw.Truncated),
		}
	}
	return objs, nil
}

func intPtrToBool(x *int) *bool {
	if x == nil {
		return nil
	}
	y := *x != 0
	return &y
}

func isTrue(x *bool) bool {
	return x != nil && *x
}
