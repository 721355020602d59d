package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"transcript-labeler-go/internal/classifier"
	"transcript-labeler-go/internal/compiler"
	"transcript-labeler-go/internal/config"
	"transcript-labeler-go/internal/labeler"
	"transcript-labeler-go/internal/logger"
	"transcript-labeler-go/internal/merger"
	"transcript-labeler-go/internal/table"
	"transcript-labeler-go/internal/validator"
)

const usage = `usage: interviews <command> [flags]

commands:
  compile   compile .txt transcripts into the two-row interview workbook
  label     classify every question and rewrite headers as Q_k_Label / R_k_Label
  check     validate a labeled workbook, mark problems red, write a JSON report
  merge     flatten a labeled workbook into one row per interview by label
`

func main() {
	_ = godotenv.Load() // loads .env

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	log := logger.New().WithRun(command)
	log.Info("starting")

	var err error
	switch command {
	case "compile":
		err = runCompile(args, log)
	case "label":
		err = runLabel(args, log)
	case "check":
		err = runCheck(args, log)
	case "merge":
		err = runMerge(args, log)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal("command failed")
	}
}

func runCompile(args []string, log *logrus.Entry) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	docs := fs.String("docs", "transcripts", "folder containing .txt transcripts")
	out := fs.String("out", "interview_data_raw.xlsx", "path to the output workbook")
	cfgPath := fs.String("config", "", "optional YAML config file")
	fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	doc, err := compiler.CompileDir(*docs, cfg.Tags, log)
	if err != nil {
		return err
	}
	if err := table.Write(doc, *out); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"interviews": len(doc.Records), "out": *out}).Info("compiled workbook written")
	return nil
}

func runLabel(args []string, log *logrus.Entry) error {
	fs := flag.NewFlagSet("label", flag.ExitOnError)
	input := fs.String("input", "interview_data_raw.xlsx", "input workbook (alternating header/content rows)")
	output := fs.String("output", "interview_data_labeled.xlsx", "path for the labeled workbook")
	model := fs.String("model", "", "chat model override (default from config/env)")
	cfgPath := fs.String("config", "", "optional YAML config file")
	fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *model != "" {
		cfg.Model = *model
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	doc, err := table.Read(*input)
	if err != nil {
		return err
	}

	policy := classifier.RetryPolicy{
		MaxRetries: uint64(cfg.MaxRetries),
		BaseDelay:  cfg.BaseDelay(),
		Multiplier: cfg.Multiplier,
	}
	oracle := classifier.NewChatOracle(cfg.APIKey, cfg.Model)
	cls := classifier.New(oracle, policy, log.WithField("component", "classifier"))

	start := time.Now()
	labeled := labeler.New(cls, cfg.Workers, log.WithField("component", "labeler")).
		LabelDocument(context.Background(), doc)
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("classification finished")

	if err := table.Write(labeled, *output); err != nil {
		return err
	}
	log.WithField("out", *output).Info("labeled workbook written")
	return nil
}

func runCheck(args []string, log *logrus.Entry) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	input := fs.String("input", "interview_data_labeled.xlsx", "labeled workbook to validate")
	output := fs.String("output", "", "path for the marked workbook (default: *_checked.xlsx next to input)")
	reportPath := fs.String("report", "", "path for the JSON report (default: check_report.json next to input)")
	baseline := fs.String("baseline", "", "optional JSON report from a previous run to compare against")
	fs.Parse(args)

	outPath := *output
	if outPath == "" {
		ext := filepath.Ext(*input)
		outPath = strings.TrimSuffix(*input, ext) + "_checked" + ext
	}
	repPath := *reportPath
	if repPath == "" {
		repPath = filepath.Join(filepath.Dir(*input), "check_report.json")
	}

	doc, err := table.Read(*input)
	if err != nil {
		return err
	}

	report, flags := validator.Check(doc)
	report.Input = *input
	report.Output = outPath

	if *baseline != "" {
		base, err := validator.LoadReport(*baseline)
		if err != nil {
			log.WithError(err).Warn("could not read baseline report")
		} else {
			report.ComparisonToBaseline = validator.Compare(report, base)
			if p := report.ComparisonToBaseline.OverallPercentFixed; p != nil {
				log.WithField("percent_fixed", *p).Info("improvement since baseline")
			} else {
				log.Info("baseline had zero errors, no regression measurable")
			}
		}
	}

	if err := table.MarkCells(*input, outPath, validator.Refs(flags)); err != nil {
		return err
	}
	if err := report.Save(repPath); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"checked":      outPath,
		"report":       repPath,
		"error_counts": report.ErrorCounts,
		"total_errors": report.TotalErrors,
	}).Info("validation complete")
	return nil
}

func runMerge(args []string, log *logrus.Entry) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	input := fs.String("input", "interview_data_labeled.xlsx", "labeled workbook to merge")
	output := fs.String("output", "interview_data_merged.xlsx", "path for the merged workbook")
	fs.Parse(args)

	doc, err := table.Read(*input)
	if err != nil {
		return err
	}
	rows := merger.Merge(doc)
	if err := merger.Write(rows, *output); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"interviews": len(rows), "out": *output}).Info("merged workbook written")
	return nil
}
