// Command vocify converts an image classification dataset (one directory
// per class) into the PASCAL VOC devkit layout.
//
// Usage:
//
//	vocify                                  # prompt for everything
//	vocify -dataset ./flowers -devkit ./VOCdevkit -presplit=false
//	vocify -config vocify.yaml -verify
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jackvalmadre/vocify/config"
	"github.com/jackvalmadre/vocify/split"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	dataset := flag.String("dataset", "", "root directory of the dataset")
	devkit := flag.String("devkit", "", "path to the VOCdevkit directory")
	year := flag.Int("year", 0, "year used in image ids and VOC<year> (default current year)")
	seed := flag.Uint64("seed", 0, "shuffle seed (0 = random)")
	train := flag.Float64("train", split.DefaultTrainRatio, "fraction of each class used for training")
	val := flag.Float64("val", split.DefaultValRatio, "fraction of each class used for validation")
	preSplit := flag.String("presplit", "", "data is already split: true or false (asked if unset)")
	mkdirs := flag.Bool("mkdirs", false, "create Annotations and ImageSets/Main if missing")
	verify := flag.Bool("verify", false, "check the generated manifests and annotations")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Error("vocify: could not load config", "error", err)
			os.Exit(1)
		}
	}

	// Flags given on the command line override the file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dataset":
			cfg.Dataset = *dataset
		case "devkit":
			cfg.Devkit = *devkit
		case "year":
			cfg.Year = *year
		case "seed":
			cfg.Split.Seed = *seed
		case "train":
			cfg.Split.Train = *train
		case "val":
			cfg.Split.Val = *val
		case "mkdirs":
			cfg.CreateDirs = *mkdirs
		case "presplit":
			b, err := strconv.ParseBool(*preSplit)
			if err != nil {
				flagErr = fmt.Errorf("-presplit: %w", err)
				return
			}
			cfg.PreSplit = &b
		}
	})
	if flagErr != nil {
		logger.Error("vocify: bad flag", "error", flagErr)
		os.Exit(1)
	}

	if err := cfg.Complete(config.NewPrompter(os.Stdin, os.Stdout)); err != nil {
		logger.Error("vocify: could not read settings", "error", err)
		os.Exit(1)
	}
	if err := cfg.Clean(); err != nil {
		logger.Error("vocify: bad path", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("vocify: invalid config", "error", err)
		os.Exit(1)
	}

	err := run(osfs.New("/"), cfg, logger, *verify)
	switch {
	case errors.Is(err, split.ErrPreSplit):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Exiting...")
	case err != nil:
		logger.Error("vocify: fatal", "error", err)
		os.Exit(1)
	}
}
