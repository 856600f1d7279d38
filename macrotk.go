// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package macrotk

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/frostu8/macrotk/meta"
	"github.com/frostu8/macrotk/report"
	"github.com/frostu8/macrotk/token"
)

// Source is a single attribute body to parse.
type Source struct {
	// Path names the source in diagnostics, such as the file the attribute
	// appears in. May be empty.
	Path string
	// Text is the body itself: everything between the parentheses of the
	// attribute.
	Text string
}

// Job pairs a source with the value its arguments decode into, for
// [Decoder.DecodeAll].
type Job struct {
	Source Source
	// Value is decoded into as by [Decoder.Decode]. Each job needs its own
	// value.
	Value any
}

// Unmarshal parses text as an attribute body and decodes it into v, which
// must be a pointer to a struct. See [meta.Decode] for how the fields of the
// struct map to keys.
//
// Shorthand for a [Decoder.Decode] with an unnamed source and default
// limits.
func Unmarshal(text string, v any) error {
	_, err := new(Decoder).Decode(Source{Text: text}, v)
	return err
}

// Decoder decodes attribute bodies. The zero value is ready to use.
type Decoder struct {
	// MaxDepth limits how deep braced groups may nest when decoding. Zero
	// means [meta.DefaultMaxDepth].
	MaxDepth int

	// MaxParallelism limits how many sources [Decoder.DecodeAll] works on
	// concurrently. If unspecified or set to a non-positive value,
	// min(runtime.NumCPU, runtime.GOMAXPROCS) is used.
	MaxParallelism int
}

// Decode parses src as a sequence of `name = value` pairs and decodes them
// into v per [meta.Decode].
//
// The returned report holds everything worth showing the user, warnings
// included, and can be rendered with [report.Renderer]. The error is a
// [report.AsError] wrapping that same report when it contains errors, and a
// plain error only when v itself is not decodable.
func (d *Decoder) Decode(src Source, v any) (report.Report, error) {
	var errs report.Report

	file := report.NewFile(src.Path, src.Text)
	stream := token.Lex(file, &errs)
	if err := errs.Err(); err != nil {
		return errs, err
	}

	err := meta.Decode(&meta.Stream{
		Cursor:   stream.Cursor(),
		MaxDepth: d.MaxDepth,
	}, v)
	return errs, diagnose(&errs, err)
}

// Parse parses src into an argument tree, for callers that want to inspect
// arguments dynamically rather than decode them into a struct.
func (d *Decoder) Parse(src Source) (*meta.List, report.Report, error) {
	var errs report.Report

	file := report.NewFile(src.Path, src.Text)
	stream := token.Lex(file, &errs)
	if err := errs.Err(); err != nil {
		return nil, errs, err
	}

	list, err := meta.ParseList(stream.Cursor())
	if err != nil {
		return nil, errs, diagnose(&errs, err)
	}
	return list, errs, nil
}

// DecodeAll decodes many sources at once, one goroutine per job.
//
// The returned report aggregates every job's diagnostics, in job order.
// Canceling ctx abandons jobs that have not yet started; the error for those
// jobs is ctx's error.
func (d *Decoder) DecodeAll(ctx context.Context, jobs ...Job) (report.Report, error) {
	sem := semaphore.NewWeighted(int64(d.parallelism()))

	var wg sync.WaitGroup
	reports := make([]report.Report, len(jobs))
	errs := make([]error, len(jobs))
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return
			}
			defer sem.Release(1)

			reports[i], errs[i] = d.Decode(job.Source, job.Value)
		}()
	}
	wg.Wait()

	var all report.Report
	for _, r := range reports {
		all = append(all, r...)
	}

	err := all.Err()
	for _, jobErr := range errs {
		var as *report.AsError
		if jobErr != nil && !errors.As(jobErr, &as) {
			// Not a diagnostic error; all.Err covers those already.
			err = errors.Join(err, jobErr)
		}
	}
	return all, err
}

func (d *Decoder) parallelism() int {
	if d.MaxParallelism > 0 {
		return d.MaxParallelism
	}
	return min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
}

// diagnose files err into errs if it carries diagnostics, and passes it
// through unchanged otherwise.
func diagnose(errs *report.Report, err error) error {
	if err == nil {
		return nil
	}

	var diag report.Diagnose
	if errors.As(err, &diag) {
		errs.Error(diag)
		return errs.Err()
	}
	return err
}
