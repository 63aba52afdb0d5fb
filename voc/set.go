package voc

import (
	"github.com/go-git/go-billy/v5"
)

// Objects of every image in a set, keyed by image id.
type Set map[string][]Object

// Loads all object annotations for all images in a set.
//
// With class "*" every image of <set> is loaded with all of its objects.
// Otherwise only the positive images of <class>_<set> are loaded,
// and only the objects of that class are kept.
func Load(fsys billy.Filesystem, dir, class, set string) (Set, error) {
	var imgs []string
	if class == "*" {
		var err error
		if imgs, err = Images(fsys, dir, set); err != nil {
			return nil, err
		}
	} else {
		labels, err := Labels(fsys, dir, ClassSet(class, set))
		if err != nil {
			return nil, err
		}
		for _, l := range labels {
			if l.Positive {
				imgs = append(imgs, l.Image)
			}
		}
	}

	// Load annotations.
	imgset := make(Set, len(imgs))
	for _, img := range imgs {
		objs, err := Objects(fsys, dir, img)
		if err != nil {
			return nil, err
		}
		imgset[img] = objs
	}
	if class == "*" {
		return imgset, nil
	}

	// Take subset for this class.
	for img, objs := range imgset {
		var subset []Object
		for _, obj := range objs {
			if obj.Class != class {
				continue
			}
			subset = append(subset, obj)
		}
		imgset[img] = subset
	}
	return imgset, nil
}
