// Package rename gives every image of a class-per-directory dataset a
// PASCAL VOC style id.
//
// Class directories are lower-cased and their files renamed in place to
// <year>_<NNNNNN><ext>, numbering continuously across classes.
package rename

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/dataset"
	"github.com/jackvalmadre/vocify/voc"
)

type Config struct {
	// Dataset root holding one directory per class.
	Root string
	Year int
	// First sequence number. Zero means 1.
	Start  int
	Logger *slog.Logger
}

type Renamer struct {
	fs  billy.Filesystem
	cfg Config
	log *slog.Logger
}

// Outcome of a rename pass.
type Result struct {
	Root string
	// Lower-cased class names in the order they were processed.
	Classes []string
	// Renamed images in id order.
	Images []dataset.Image
	// Next unused sequence number.
	Next int
}

func New(fsys billy.Filesystem, cfg Config) *Renamer {
	if cfg.Start <= 0 {
		cfg.Start = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{fs: fsys, cfg: cfg, log: logger}
}

// Rename renames all class directories and images under the dataset root.
// It stops at the first error and leaves what was already renamed in place.
func (r *Renamer) Rename() (*Result, error) {
	dirs, err := dataset.Classes(r.fs, r.cfg.Root)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: r.cfg.Root, Next: r.cfg.Start}
	for _, dir := range dirs {
		class, err := r.renameDir(dir)
		if err != nil {
			return nil, err
		}
		imgs, next, err := r.renameClass(class, res.Next)
		if err != nil {
			return nil, err
		}
		if len(imgs) > 0 {
			r.log.Info("renamed class", "class", class, "images", len(imgs),
				"first", imgs[0].ID, "last", imgs[len(imgs)-1].ID)
		} else {
			r.log.Warn("class has no images", "class", class)
		}
		res.Classes = append(res.Classes, class)
		res.Images = append(res.Images, imgs...)
		res.Next = next
	}
	return res, nil
}

// Lower-cases the name of a class directory.
func (r *Renamer) renameDir(dir string) (string, error) {
	class := strings.ToLower(dir)
	if class == dir {
		return class, nil
	}
	from, to := path.Join(r.cfg.Root, dir), path.Join(r.cfg.Root, class)
	if err := r.move(from, to); err != nil {
		return "", err
	}
	r.log.Debug("renamed class directory", "from", dir, "to", class)
	return class, nil
}

// Numbers the files of a class starting at next.
// Returns the renamed images and the next unused number.
func (r *Renamer) renameClass(class string, next int) ([]dataset.Image, int, error) {
	dir := path.Join(r.cfg.Root, class)
	names, err := dataset.Files(r.fs, dir)
	if err != nil {
		return nil, next, err
	}

	imgs := make([]dataset.Image, 0, len(names))
	for _, name := range names {
		_, ext := voc.SplitName(name)
		im := dataset.Image{
			ID:    voc.FormatID(r.cfg.Year, next),
			Ext:   ext,
			Class: class,
			Seq:   next,
		}
		if target := im.Filename(); target != name {
			if err := r.move(path.Join(dir, name), path.Join(dir, target)); err != nil {
				return nil, next, err
			}
			r.log.Debug("renamed image", "class", class, "from", name, "to", target)
		}
		imgs = append(imgs, im)
		next++
	}
	return imgs, next, nil
}

// Renames from to to, refusing to replace an existing entry.
// On case-insensitive filesystems to may resolve to from itself.
func (r *Renamer) move(from, to string) error {
	if dst, err := r.fs.Stat(to); err == nil {
		src, err := r.fs.Stat(from)
		if err != nil || !os.SameFile(src, dst) {
			return fmt.Errorf("rename %s to %s: %w", from, to, os.ErrExist)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	if err := r.fs.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	return nil
}
