package split

import (
	"github.com/jackvalmadre/vocify/dataset"
	"github.com/jackvalmadre/vocify/voc"
)

// Write saves the plan as VOC manifests under <dir>/ImageSets/Main.
//
// There are four overall files (train, val, trainval, test) listing ids,
// and four per class (<class>_train, ...) listing "<id> 1" for images of
// that class and "<id> -1" for all others. Existing files are truncated.
func (s *Splitter) Write(plan *Plan) error {
	sets := map[string][]dataset.Image{
		voc.Train:    plan.Train,
		voc.Val:      plan.Val,
		voc.TrainVal: plan.TrainVal(),
		voc.Test:     plan.Test,
	}
	for _, set := range voc.Sets {
		if err := voc.WriteImages(s.fs, s.cfg.Dir, set, dataset.IDs(sets[set])); err != nil {
			return err
		}
	}

	for _, c := range plan.Classes {
		// Membership is decided against the class directory as it is now.
		names, err := dataset.Files(s.fs, s.classDir(c.Name))
		if err != nil {
			return err
		}
		files := make(map[string]bool, len(names))
		for _, name := range names {
			files[name] = true
		}
		for _, set := range voc.Sets {
			labels := label(sets[set], files)
			if err := voc.WriteLabels(s.fs, s.cfg.Dir, voc.ClassSet(c.Name, set), labels); err != nil {
				return err
			}
		}
		s.log.Debug("wrote class manifests", "class", c.Name)
	}
	s.log.Info("wrote manifests", "dir", voc.ManifestDir(s.cfg.Dir),
		"train", len(plan.Train), "val", len(plan.Val), "test", len(plan.Test))
	return nil
}

// Marks each image positive if its file is among files.
func label(imgs []dataset.Image, files map[string]bool) []voc.Label {
	labels := make([]voc.Label, len(imgs))
	for i, im := range imgs {
		labels[i] = voc.Label{
			Image:    im.ID,
			Positive: files[im.Filename()],
		}
	}
	return labels
}
