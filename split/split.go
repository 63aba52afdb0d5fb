// Package split partitions a renamed dataset into training, validation and
// test images and writes the PASCAL VOC ImageSets/Main manifests.
package split

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/dataset"
)

// ErrPreSplit is returned for datasets that arrive already divided into
// training, validation and test sets. Those are not supported.
var ErrPreSplit = errors.New("handling existing training/validation/test split specifications is not a feature at this time")

// Default fractions of a class that go to training and validation.
// Test receives the remainder.
const (
	DefaultTrainRatio = 0.5
	DefaultValRatio   = 0.1
)

type Config struct {
	// Dataset root holding one directory per class.
	Root string
	// VOC directory, i.e. <devkit>/VOC<year>.
	Dir string
	// The dataset is already split.
	PreSplit bool
	// Fractions of each class for training and validation, used as given.
	// Zero for both puts every image in test.
	TrainRatio float64
	ValRatio   float64
	// Seed of the shuffle. Zero picks a random seed.
	Seed uint64
	// Replaces the seeded shuffle if set.
	Shuffle func([]dataset.Image)
	Logger  *slog.Logger
}

type Splitter struct {
	fs      billy.Filesystem
	cfg     Config
	shuffle func([]dataset.Image)
	log     *slog.Logger
}

// The images of one class by set.
type Class struct {
	Name  string
	Train []dataset.Image
	Val   []dataset.Image
	Test  []dataset.Image
}

// Split assignment of the whole dataset.
// The overall sets list classes in order, each class in shuffled order.
type Plan struct {
	Classes []Class
	Train   []dataset.Image
	Val     []dataset.Image
	Test    []dataset.Image
}

// TrainVal returns the training images followed by the validation images.
func (p *Plan) TrainVal() []dataset.Image {
	tv := make([]dataset.Image, 0, len(p.Train)+len(p.Val))
	tv = append(tv, p.Train...)
	return append(tv, p.Val...)
}

func New(fsys billy.Filesystem, cfg Config) *Splitter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	shuffle := cfg.Shuffle
	if shuffle == nil {
		shuffle = seededShuffle(cfg.Seed)
	}
	return &Splitter{fs: fsys, cfg: cfg, shuffle: shuffle, log: logger}
}

func seededShuffle(seed uint64) func([]dataset.Image) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	return func(imgs []dataset.Image) {
		rng.Shuffle(len(imgs), func(i, j int) {
			imgs[i], imgs[j] = imgs[j], imgs[i]
		})
	}
}

// Counts returns the set sizes of a class of n images.
// Training and validation are rounded down, test takes the rest.
func Counts(n int, trainRatio, valRatio float64) (train, val, test int) {
	train = int(float64(n) * trainRatio)
	val = int(float64(n) * valRatio)
	return train, val, n - train - val
}

// Run splits the classes and writes the manifests.
func (s *Splitter) Run(classes []string) (*Plan, error) {
	plan, err := s.Split(classes)
	if err != nil {
		return nil, err
	}
	if err := s.Write(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Check reports whether the splitter can run at all.
// It returns ErrPreSplit for pre-split datasets.
func (s *Splitter) Check() error {
	if s.cfg.PreSplit {
		return ErrPreSplit
	}
	if s.cfg.TrainRatio < 0 || s.cfg.ValRatio < 0 || s.cfg.TrainRatio+s.cfg.ValRatio > 1 {
		return fmt.Errorf("invalid split ratios: train %g, val %g", s.cfg.TrainRatio, s.cfg.ValRatio)
	}
	return nil
}

// Split assigns every image of every class to exactly one set.
func (s *Splitter) Split(classes []string) (*Plan, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}

	plan := new(Plan)
	for _, class := range classes {
		imgs, err := dataset.Images(s.fs, s.cfg.Root, class)
		if err != nil {
			return nil, err
		}
		// Randomly permute so that there is no notion of order.
		s.shuffle(imgs)
		numTrain, numVal, numTest := Counts(len(imgs), s.cfg.TrainRatio, s.cfg.ValRatio)
		c := Class{
			Name:  class,
			Train: imgs[:numTrain],
			Val:   imgs[numTrain : numTrain+numVal],
			Test:  imgs[numTrain+numVal:],
		}
		s.log.Info("split class", "class", class, "train", numTrain, "val", numVal, "test", numTest)

		plan.Classes = append(plan.Classes, c)
		plan.Train = append(plan.Train, c.Train...)
		plan.Val = append(plan.Val, c.Val...)
		plan.Test = append(plan.Test, c.Test...)
	}
	return plan, nil
}

func (s *Splitter) classDir(class string) string {
	return path.Join(s.cfg.Root, class)
}
