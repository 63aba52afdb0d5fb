package voc

import (
	"bufio"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Names of the four image sets.
const (
	Train    = "train"
	Val      = "val"
	TrainVal = "trainval"
	Test     = "test"
)

// Sets lists the image sets in the order they are written.
var Sets = []string{Train, Val, TrainVal, Test}

// Returns <kit>/VOC<year>.
func Dir(kit string, year int) string {
	return path.Join(kit, "VOC"+strconv.Itoa(year))
}

// Returns <dir>/Annotations.
func AnnotationsDir(dir string) string {
	return path.Join(dir, "Annotations")
}

// Returns <dir>/ImageSets/Main.
func ManifestDir(dir string) string {
	return path.Join(dir, "ImageSets", "Main")
}

// Returns <dir>/ImageSets/Main/<set>.txt.
func ManifestFile(dir, set string) string {
	return path.Join(ManifestDir(dir), set+".txt")
}

// Returns <dir>/Annotations/<img>.xml.
func AnnotationFile(dir, img string) string {
	return path.Join(AnnotationsDir(dir), img+".xml")
}

// Returns the name of a per-class set, e.g. "horse_val".
func ClassSet(class, set string) string {
	return class + "_" + set
}

// An image and whether it contains the class of the set it was listed in.
type Label struct {
	Image    string
	Positive bool
}

func (l Label) String() string {
	if l.Positive {
		return l.Image + " 1"
	}
	return l.Image + " -1"
}

// Loads list of all image names.
//
// Looks in <dir>/ImageSets/Main/<set>.txt.
//
// The set can either be simply "train", "val" or "trainval",
// or it can be "<class>_<set>", for example "horse_val".
// The label column of a per-class set is discarded.
func Images(fsys billy.Filesystem, dir, set string) ([]string, error) {
	lines, err := loadLines(fsys, ManifestFile(dir, set))
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		lines[i] = strings.Fields(line)[0]
	}
	return lines, nil
}

// Loads the labelled image list of a per-class set.
func Labels(fsys billy.Filesystem, dir, set string) ([]Label, error) {
	lines, err := loadLines(fsys, ManifestFile(dir, set))
	if err != nil {
		return nil, err
	}

	// Extract "name label" from every line.
	labels := make([]Label, len(lines))
	for i, line := range lines {
		var (
			name  string
			label int
		)
		if _, err := fmt.Sscanf(line, "%s %d", &name, &label); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", set, i+1, err)
		}
		labels[i] = Label{name, label > 0}
	}
	return labels, nil
}

// Writes <dir>/ImageSets/Main/<set>.txt with one image per line.
func WriteImages(fsys billy.Filesystem, dir, set string, imgs []string) error {
	return WriteLines(fsys, imgs, ManifestFile(dir, set))
}

// Writes <dir>/ImageSets/Main/<set>.txt with one "<image> <1|-1>" per line.
func WriteLabels(fsys billy.Filesystem, dir, set string, labels []Label) error {
	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = l.String()
	}
	return WriteLines(fsys, lines, ManifestFile(dir, set))
}

func loadLines(fsys billy.Filesystem, filename string) ([]string, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return lines, nil
}

// WriteLines writes one line per element to filename, truncating any existing file.
func WriteLines(fsys billy.Filesystem, lines []string, filename string) error {
	file, err := fsys.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := fmt.Fprintln(buf, line); err != nil {
			return err
		}
	}
	return buf.Flush()
}
