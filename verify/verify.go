// Package verify reads a generated VOC directory back and checks that the
// manifests and annotations agree with each other.
package verify

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/exp/slices"

	"github.com/jackvalmadre/vocify/voc"
)

// Report lists every inconsistency found.
type Report struct {
	Images   int
	Problems []string
}

func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

func (r *Report) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Devkit checks the VOC directory dir (<devkit>/VOC<year>) for classes.
//
// Errors are returned only for files that cannot be read at all.
// Anything readable but inconsistent ends up in the report.
func Devkit(fsys billy.Filesystem, dir string, classes []string) (*Report, error) {
	lists := make(map[string][]string, len(voc.Sets))
	for _, set := range voc.Sets {
		imgs, err := voc.Images(fsys, dir, set)
		if err != nil {
			return nil, err
		}
		lists[set] = imgs
	}

	r := new(Report)
	checkDisjoint(r, lists)
	trainval := append(slices.Clone(lists[voc.Train]), lists[voc.Val]...)
	if !slices.Equal(trainval, lists[voc.TrainVal]) {
		r.addf("trainval is not train followed by val")
	}

	// Class of every image according to its annotation.
	owner := make(map[string]string)
	for _, set := range []string{voc.TrainVal, voc.Test} {
		imgset, err := voc.Load(fsys, dir, "*", set)
		if err != nil {
			return nil, err
		}
		for img, objs := range imgset {
			if len(objs) == 0 {
				r.addf("%s: annotation has no objects", img)
				continue
			}
			owner[img] = objs[0].Class
		}
	}
	r.Images = len(owner)

	for _, class := range classes {
		for _, set := range voc.Sets {
			checkLabels(r, fsys, dir, class, set, lists[set], owner)
		}
	}
	return r, nil
}

// Every image belongs to at most one of train, val and test.
func checkDisjoint(r *Report, lists map[string][]string) {
	seen := make(map[string]string)
	for _, set := range []string{voc.Train, voc.Val, voc.Test} {
		for _, img := range lists[set] {
			if prev, ok := seen[img]; ok {
				r.addf("%s: listed in both %s and %s", img, prev, set)
				continue
			}
			seen[img] = set
		}
	}
}

// The per-class manifest lists the same images as the overall one,
// positive exactly when the image is annotated with the class.
func checkLabels(r *Report, fsys billy.Filesystem, dir, class, set string, imgs []string, owner map[string]string) {
	name := voc.ClassSet(class, set)
	labels, err := voc.Labels(fsys, dir, name)
	if err != nil {
		r.addf("%s: %v", name, err)
		return
	}
	if len(labels) != len(imgs) {
		r.addf("%s: %d images, %s has %d", name, len(labels), set, len(imgs))
		return
	}
	for i, l := range labels {
		if l.Image != imgs[i] {
			r.addf("%s line %d: image %s, %s has %s", name, i+1, l.Image, set, imgs[i])
			continue
		}
		if want := owner[l.Image] == class; l.Positive != want {
			r.addf("%s: wrong label for %s (annotated as %q)", name, l.Image, owner[l.Image])
		}
	}
}
