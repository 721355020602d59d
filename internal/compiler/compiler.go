// Package compiler scans a directory of plain-text interview transcripts and
// normalizes each into one table record: metadata plus alternating unlabeled
// Q_n / R_n columns ready for classification.
package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"transcript-labeler-go/internal/segmenter"
	"transcript-labeler-go/internal/table"
	"transcript-labeler-go/internal/types"
)

var filenameSep = regexp.MustCompile(`[_\-\s]+`)

// Metadata are the record-level fields pulled from "Key: Value" lines.
type Metadata struct {
	Name     string
	Date     string
	Location string
}

// ParseMetadata reads "Corporator Name:", "Date:" and "Location:" lines from
// the transcript. Fields still empty afterwards fall back to filename tokens
// split on separators and assigned positionally: Name_Date_Location. Best
// effort only; empty cells are gray-filled at write time for manual review.
func ParseMetadata(text, filename string) Metadata {
	var md Metadata
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		lower := strings.ToLower(t)
		switch {
		case strings.HasPrefix(lower, "corporator name:"):
			md.Name = strings.TrimSpace(t[len("corporator name:"):])
		case strings.HasPrefix(lower, "date:"):
			md.Date = strings.TrimSpace(t[len("date:"):])
		case strings.HasPrefix(lower, "location:"):
			md.Location = strings.TrimSpace(t[len("location:"):])
		}
	}

	if md.Name == "" || md.Date == "" || md.Location == "" {
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		var parts []string
		for _, p := range filenameSep.Split(base, -1) {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 && md.Name == "" {
			md.Name = parts[0]
		}
		if len(parts) > 1 && md.Date == "" {
			md.Date = parts[1]
		}
		if len(parts) > 2 && md.Location == "" {
			md.Location = strings.Join(parts[2:], " ")
		}
	}
	return md
}

// CompileText turns one transcript into a record. The dialogue is segmented
// on the tag table, then paired; pair headers are unlabeled Q_n / R_n.
func CompileText(text, filename string, rules []types.TagRule) table.Record {
	md := ParseMetadata(text, filename)
	segs := segmenter.Segment(text, rules)
	questions, responses, startsWithRespondent := segmenter.ExtractPairs(segs)
	pairs := segmenter.BuildPairs(questions, responses, startsWithRespondent)

	rec := table.Record{Name: md.Name, Date: md.Date, Location: md.Location}
	for _, p := range pairs {
		rec.Cells = append(rec.Cells,
			table.Cell{Header: fmt.Sprintf("Q_%d", p.Index), Value: p.Question},
			table.Cell{Header: fmt.Sprintf("R_%d", p.Index), Value: p.Response},
		)
	}
	return rec
}

// CompileDir compiles every .txt transcript under root, in sorted path order.
func CompileDir(root string, rules []types.TagRule, log *logrus.Entry) (*table.Document, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".txt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan transcripts: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .txt transcripts under %s", root)
	}
	sort.Strings(files)

	doc := &table.Document{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read transcript %s: %w", path, err)
		}
		rec := CompileText(string(data), path, rules)
		log.WithFields(logrus.Fields{
			"file":  filepath.Base(path),
			"pairs": len(rec.Cells) / 2,
		}).Info("compiled transcript")
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}
