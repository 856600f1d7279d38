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

package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/frostu8/macrotk/internal/golden"
)

// rendererCase is the YAML schema for the renderer corpus: a source file plus
// the diagnostics to render against it.
type rendererCase struct {
	File struct {
		Path string `yaml:"path"`
		Text string `yaml:"text"`
	} `yaml:"file"`
	Diagnostics []struct {
		Level    string `yaml:"level"`
		Message  string `yaml:"message"`
		InFile   string `yaml:"in_file"`
		Snippets []struct {
			Start   int    `yaml:"start"`
			End     int    `yaml:"end"`
			Message string `yaml:"message"`
		} `yaml:"snippets"`
		Notes []string `yaml:"notes"`
		Help  []string `yaml:"help"`
	} `yaml:"diagnostics"`
}

func TestRender(t *testing.T) {
	t.Parallel()

	corpus := golden.Corpus{
		Root:      "testdata/renderer",
		Refresh:   "MACROTK_REFRESH",
		Extension: "yaml",
		Outputs: []golden.Output{
			{Extension: "compact.txt"},
			{Extension: "fancy.txt"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		var c rendererCase
		require.NoError(t, yaml.Unmarshal([]byte(text), &c))

		file := NewFile(c.File.Path, c.File.Text)

		var errs Report
		for _, want := range c.Diagnostics {
			var d *Diagnostic
			switch want.Level {
			case "error":
				d = errs.Errorf("%s", want.Message)
			case "warning":
				d = errs.Warnf("%s", want.Message)
			default:
				t.Fatalf("unknown level %q", want.Level)
			}

			if want.InFile != "" {
				d.With(InFile(want.InFile))
			}
			for _, snip := range want.Snippets {
				d.With(SnippetAtf(file.Span(snip.Start, snip.End), "%s", snip.Message))
			}
			for _, note := range want.Notes {
				d.With(Note("%s", note))
			}
			for _, help := range want.Help {
				d.With(Help("%s", help))
			}
		}

		outputs[0], _, _ = Renderer{Compact: true}.RenderString(&errs)
		outputs[1], _, _ = Renderer{}.RenderString(&errs)
	})
}

func TestRenderFlags(t *testing.T) {
	t.Parallel()

	var errs Report
	errs.Warnf("suspicious escape")
	errs = append(errs, Diagnostic{Err: errors.New("leftover debugging remark"), Level: Remark})

	compact, errorCount, warningCount := Renderer{Compact: true}.RenderString(&errs)
	assert.Equal(t, 0, errorCount)
	assert.Equal(t, 1, warningCount)
	assert.Equal(t, "warning: suspicious escape\n", compact)

	shown, _, _ := Renderer{Compact: true, ShowRemarks: true}.RenderString(&errs)
	assert.Equal(t, "warning: suspicious escape\nremark: leftover debugging remark\n", shown)

	hard, errorCount, warningCount := Renderer{Compact: true, WarningsAreErrors: true}.RenderString(&errs)
	assert.Equal(t, 1, errorCount)
	assert.Equal(t, 0, warningCount)
	assert.Equal(t, "error: suspicious escape\n", hard)
}

func TestRenderColor(t *testing.T) {
	t.Parallel()

	file := NewFile("x.attr", "a = 1")

	var errs Report
	errs.Errorf("some error").With(SnippetAt(file.Span(0, 1)))

	text, _, _ := Renderer{Colorize: true}.RenderString(&errs)
	assert.Contains(t, text, "\033[1;31m", "expected a bold red header")
	assert.Contains(t, text, "\033[0m", "expected a reset")
}
