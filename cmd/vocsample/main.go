// Command vocsample crops the annotated objects of a generated VOC
// directory out of the dataset images and saves them at a fixed size.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	// Formats the dataset may contain.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/nfnt/resize"

	"github.com/jackvalmadre/vocify/voc"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage of %s:\n", os.Args[0])
	fmt.Fprintln(os.Stderr, os.Args[0], "[flags] dir dataset classes sets")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `dir -- VOC directory written by vocify (e.g. VOCdevkit/VOC2024)`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `dataset -- Dataset root with one directory per class`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `classes -- Comma-separated list of classes`)
	fmt.Fprintln(os.Stderr, `  e.g. "car,person"`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `sets -- Comma-separated list of sets`)
	fmt.Fprintln(os.Stderr, `  e.g. "train,val"`)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, `Makes a directory ./<class>-<set>/ containing images.`)
	fmt.Fprintln(os.Stderr, `Creates a file ./<class>-<set>.txt with a list of these images.`)
	fmt.Fprintln(os.Stderr)
}

// Options of one sampling run.
type options struct {
	Width, Height int
	Exclude       voc.Tags
	// Directory the <class>-<set> outputs are written to.
	Out string
}

func main() {
	var opts options
	flag.IntVar(&opts.Width, "width", 64, "Width of saved windows")
	flag.IntVar(&opts.Height, "height", 64, "Height of saved windows")
	flag.BoolVar(&opts.Exclude.Difficult, "exclude-difficult", false, "Exclude objects marked as difficult")
	flag.BoolVar(&opts.Exclude.Occluded, "exclude-occluded", false, "Exclude objects marked as occluded")
	flag.BoolVar(&opts.Exclude.Truncated, "exclude-truncated", false, "Exclude objects marked as truncated")

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 4 {
		flag.Usage()
		os.Exit(1)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		log.Fatalln("window size must be positive")
	}
	var (
		dir        = mustAbs(flag.Arg(0))
		dataDir    = mustAbs(flag.Arg(1))
		classesStr = flag.Arg(2)
		setsStr    = flag.Arg(3)
	)
	opts.Out = mustAbs(".")

	// Extract classes and sets.
	classes := strings.Split(classesStr, ",")
	sets := strings.Split(setsStr, ",")

	fsys := osfs.New("/")
	for _, class := range classes {
		for _, set := range sets {
			log.Printf("sample: class %s, set %s", class, set)
			files, err := sample(fsys, dir, dataDir, class, set, opts)
			if err != nil {
				log.Fatalln("could not sample:", err)
			}
			log.Println("saved", len(files), "windows")
		}
	}
}

func mustAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		log.Fatalln("invalid path:", err)
	}
	return filepath.ToSlash(abs)
}

// Saves the windows of one class and set.
// Returns the names of the saved images.
func sample(fsys billy.Filesystem, vocDir, dataDir, class, set string, opts options) ([]string, error) {
	outDir := path.Join(opts.Out, class+"-"+set)
	// Create empty directory to write images to.
	if err := util.RemoveAll(fsys, outDir); err != nil {
		return nil, fmt.Errorf("could not clear image dir: %w", err)
	}
	if err := fsys.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create image dir: %w", err)
	}

	// Load images containing instances of class and corresponding annotations.
	log.Println("load annotations")
	imgset, err := voc.Load(fsys, vocDir, class, set)
	if err != nil {
		return nil, fmt.Errorf("could not load annotations: %w", err)
	}

	// Trim difficult, occluded or truncated examples.
	var n int
	imgset, n = removeTagged(imgset, opts.Exclude)
	log.Println("removed", n, "windows: excluded tags")

	// Visit images in id order so output is stable.
	names := make([]string, 0, len(imgset))
	for name := range imgset {
		names = append(names, name)
	}
	sort.Strings(names)

	var imgFiles []string
	for _, name := range names {
		ann, err := voc.LoadAnnotation(fsys, vocDir, name)
		if err != nil {
			return nil, err
		}
		// Load image from file.
		img, err := loadImage(fsys, path.Join(dataDir, class, ann.Filename))
		if err != nil {
			return nil, fmt.Errorf("could not load image: %w", err)
		}
		sub, ok := img.(subImager)
		if !ok {
			return nil, fmt.Errorf("could not call SubImage(): %T", img)
		}
		for i, obj := range imgset[name] {
			// Skip boxes that do not fit.
			if !obj.Region.In(img.Bounds()) || obj.Region.Empty() {
				log.Printf("skip %s object %d: box %v outside image %v", name, i, obj.Region, img.Bounds())
				continue
			}
			// Extract rectangle.
			subImg := sub.SubImage(obj.Region)
			// Resize.
			subImg = resize.Resize(uint(opts.Width), uint(opts.Height), subImg, resize.Bilinear)
			imgFile := fmt.Sprintf("%s_%d.png", name, i)
			if err := saveImage(fsys, subImg, path.Join(outDir, imgFile)); err != nil {
				return nil, fmt.Errorf("could not save image: %w", err)
			}
			imgFiles = append(imgFiles, imgFile)
		}
	}

	// Save list of images files.
	listFile := path.Join(opts.Out, class+"-"+set+".txt")
	if err := voc.WriteLines(fsys, imgFiles, listFile); err != nil {
		return nil, fmt.Errorf("could not save list of images: %w", err)
	}
	return imgFiles, nil
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

func loadImage(fsys billy.Filesystem, filename string) (image.Image, error) {
	file, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func saveImage(fsys billy.Filesystem, img image.Image, filename string) error {
	file, err := fsys.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Filter.
func removeTagged(set voc.Set, exclude voc.Tags) (voc.Set, int) {
	dstSet := make(voc.Set, len(set))
	var removed int
	for name, objs := range set {
		var dstObjs []voc.Object
		for _, obj := range objs {
			if exclude.Match(obj) {
				removed++
				continue
			}
			dstObjs = append(dstObjs, obj)
		}
		// Remove the image if it no longer has any objects.
		if len(dstObjs) > 0 {
			dstSet[name] = dstObjs
		}
	}
	return dstSet, removed
}
