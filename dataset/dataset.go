// Package dataset lists an image classification dataset laid out as one
// directory per class.
package dataset

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/voc"
)

// An image file of a class, named by its VOC id.
type Image struct {
	ID    string
	Ext   string
	Class string
	// Sequence number parsed from the id, zero if the name is not an id.
	Seq int
}

// Returns <id><ext>.
func (im Image) Filename() string {
	return im.ID + im.Ext
}

// IDs returns the ids of imgs in order.
func IDs(imgs []Image) []string {
	ids := make([]string, len(imgs))
	for i, im := range imgs {
		ids[i] = im.ID
	}
	return ids
}

// IsHidden reports whether a directory entry name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Entries lists dir in the order the filesystem returns,
// leaving out hidden entries.
func Entries(fsys billy.Filesystem, dir string) ([]os.FileInfo, error) {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	keep := make([]os.FileInfo, 0, len(infos))
	for _, fi := range infos {
		if IsHidden(fi.Name()) {
			continue
		}
		keep = append(keep, fi)
	}
	return keep, nil
}

// Classes returns the class directory names found under root.
// Any other non-hidden entry is an error.
func Classes(fsys billy.Filesystem, root string) ([]string, error) {
	infos, err := Entries(fsys, root)
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.IsDir() {
			return nil, fmt.Errorf("%s is not a class directory", path.Join(root, fi.Name()))
		}
		classes = append(classes, fi.Name())
	}
	return classes, nil
}

// Files returns the names of the non-hidden files in dir.
// Subdirectories are skipped.
func Files(fsys billy.Filesystem, dir string) ([]string, error) {
	infos, err := Entries(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		names = append(names, fi.Name())
	}
	return names, nil
}

// Images lists the files of <root>/<class> as image records.
func Images(fsys billy.Filesystem, root, class string) ([]Image, error) {
	names, err := Files(fsys, path.Join(root, class))
	if err != nil {
		return nil, err
	}
	imgs := make([]Image, len(names))
	for i, name := range names {
		imgs[i] = NewImage(class, name)
	}
	return imgs, nil
}

// NewImage builds the record of a file named name in class.
func NewImage(class, name string) Image {
	id, ext := voc.SplitName(name)
	im := Image{ID: id, Ext: ext, Class: class}
	if _, n, err := voc.ParseID(id); err == nil {
		im.Seq = n
	}
	return im
}
