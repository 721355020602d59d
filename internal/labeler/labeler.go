// Package labeler walks a compiled interview table and rewrites every
// header row with classified labels: each question cell is sent to the
// classifier with its surrounding context, and the record's columns are
// renumbered densely as Q_k_Label / R_k_Label in source order.
package labeler

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"transcript-labeler-go/internal/table"
)

// QuestionClassifier labels one question given its context. The concrete
// oracle-backed classifier satisfies this; tests inject a deterministic fake.
type QuestionClassifier interface {
	Classify(ctx context.Context, question, prevQuestion, nextResponse string) string
}

type Labeler struct {
	classifier QuestionClassifier
	workers    int
	log        *logrus.Entry
}

func New(classifier QuestionClassifier, workers int, log *logrus.Entry) *Labeler {
	if workers < 1 {
		workers = 1
	}
	return &Labeler{classifier: classifier, workers: workers, log: log}
}

// task is one question cell awaiting classification. Its slot in the tasks
// slice is the only state a worker writes, so no locking is needed and the
// rebuilt layout follows source column order exactly.
type task struct {
	record   int
	col      int // Q cell position within the record
	question string
	prevQ    string
	nextR    string
	label    string
}

// LabelDocument classifies every question in the document and returns a new
// document with rewritten header rows. The input is not mutated. Exactly one
// classification call is made per question (plus that call's own retries).
func (l *Labeler) LabelDocument(ctx context.Context, doc *table.Document) *table.Document {
	var tasks []task
	for ri, rec := range doc.Records {
		tasks = append(tasks, collectTasks(ri, rec)...)
	}
	l.log.WithFields(logrus.Fields{
		"records":   len(doc.Records),
		"questions": len(tasks),
		"workers":   l.workers,
	}).Info("classifying questions")

	l.runPool(ctx, tasks)

	out := &table.Document{Records: make([]table.Record, len(doc.Records))}
	byRecord := make(map[int][]task, len(doc.Records))
	for _, t := range tasks {
		byRecord[t.record] = append(byRecord[t.record], t)
	}
	for ri, rec := range doc.Records {
		out.Records[ri] = rebuildRecord(rec, byRecord[ri])
	}
	return out
}

// collectTasks walks a record's columns the way the header row is laid out:
// a Q header consumes itself and the following column as its R, anything
// else advances by one. Context is the nearest prior Q cell's text and the
// nearest following R cell's text; absence of either yields "".
func collectTasks(ri int, rec table.Record) []task {
	var tasks []task
	col := 0
	for col < len(rec.Cells) {
		kind, ok := table.ParseKind(rec.Cells[col].Header)
		if !ok || kind != "Q" {
			col++
			continue
		}

		t := task{record: ri, col: col, question: strings.TrimSpace(rec.Cells[col].Value)}

		for back := col - 1; back >= 0; back-- {
			if kb, ok := table.ParseKind(rec.Cells[back].Header); ok && kb == "Q" {
				t.prevQ = strings.TrimSpace(rec.Cells[back].Value)
				break
			}
		}
		for fwd := col + 1; fwd < len(rec.Cells); fwd++ {
			if kf, ok := table.ParseKind(rec.Cells[fwd].Header); ok && kf == "R" {
				t.nextR = strings.TrimSpace(rec.Cells[fwd].Value)
				break
			}
		}

		tasks = append(tasks, t)
		col += 2
	}
	return tasks
}

func (l *Labeler) runPool(ctx context.Context, tasks []task) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t := &tasks[i]
				t.label = l.classifier.Classify(ctx, t.question, t.prevQ, t.nextR)
			}
		}()
	}
	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// rebuildRecord emits the labeled two-column pairs with a dense 1..K index in
// task (source) order.
func rebuildRecord(rec table.Record, tasks []task) table.Record {
	out := table.Record{Name: rec.Name, Date: rec.Date, Location: rec.Location}
	for k, t := range tasks {
		rVal := ""
		if t.col+1 < len(rec.Cells) {
			rVal = rec.Cells[t.col+1].Value
		}
		out.Cells = append(out.Cells,
			table.Cell{Header: table.FormatHeader("Q", k+1, t.label), Value: rec.Cells[t.col].Value},
			table.Cell{Header: table.FormatHeader("R", k+1, t.label), Value: rVal},
		)
	}
	return out
}
