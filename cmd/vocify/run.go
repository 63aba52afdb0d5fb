package main

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/jackvalmadre/vocify/annotate"
	"github.com/jackvalmadre/vocify/config"
	"github.com/jackvalmadre/vocify/rename"
	"github.com/jackvalmadre/vocify/split"
	"github.com/jackvalmadre/vocify/verify"
)

// Runs rename, split and annotate in order, then optionally verifies.
func run(fsys billy.Filesystem, cfg *config.Config, logger *slog.Logger, check bool) error {
	splitter := split.New(fsys, split.Config{
		Root:       cfg.Dataset,
		Dir:        cfg.Dir(),
		PreSplit:   cfg.IsPreSplit(),
		TrainRatio: cfg.Split.Train,
		ValRatio:   cfg.Split.Val,
		Seed:       cfg.Split.Seed,
		Logger:     logger,
	})
	// Nothing is touched for a dataset that cannot be split.
	if err := splitter.Check(); err != nil {
		return err
	}
	if err := prepare(fsys, cfg); err != nil {
		return err
	}

	logger.Info("rename images", "dataset", cfg.Dataset, "year", cfg.Year)
	renamed, err := rename.New(fsys, rename.Config{
		Root:   cfg.Dataset,
		Year:   cfg.Year,
		Logger: logger,
	}).Rename()
	if err != nil {
		return err
	}
	logger.Info("renamed", "classes", len(renamed.Classes), "images", len(renamed.Images))

	logger.Info("split images", "dir", cfg.ManifestDir())
	if _, err := splitter.Run(renamed.Classes); err != nil {
		return err
	}

	logger.Info("write annotations", "dir", cfg.AnnotationsDir())
	n, err := annotate.New(fsys, annotate.Config{
		Root:      cfg.Dataset,
		Dir:       cfg.Dir(),
		Year:      cfg.Year,
		Annotator: cfg.Annotation.Annotator,
		Database:  cfg.Annotation.Database,
		Image:     cfg.Annotation.Image,
		Pose:      cfg.Annotation.Pose,
		Logger:    logger,
	}).Annotate(renamed.Classes)
	if err != nil {
		return err
	}
	logger.Info("annotated", "images", n)

	if !check {
		return nil
	}
	report, err := verify.Devkit(fsys, cfg.Dir(), renamed.Classes)
	if err != nil {
		return err
	}
	for _, p := range report.Problems {
		logger.Error("verify", "problem", p)
	}
	if !report.OK() {
		return fmt.Errorf("verify: %d problems in %s", len(report.Problems), cfg.Dir())
	}
	logger.Info("verified", "images", report.Images)
	return nil
}

// Checks the dataset root and the devkit skeleton, creating the latter
// when configured to.
func prepare(fsys billy.Filesystem, cfg *config.Config) error {
	if err := isDir(fsys, cfg.Dataset); err != nil {
		return err
	}
	for _, dir := range []string{cfg.AnnotationsDir(), cfg.ManifestDir()} {
		if cfg.CreateDirs {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			continue
		}
		if err := isDir(fsys, dir); err != nil {
			return fmt.Errorf("%w (run with -mkdirs to create it)", err)
		}
	}
	return nil
}

func isDir(fsys billy.Filesystem, name string) error {
	fi, err := fsys.Stat(name)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", name)
	}
	return nil
}
