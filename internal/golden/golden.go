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

// Package golden provides a mechanism for managing test corpora: collections
// of files on disk that define test cases along with their expected outputs.
package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a test data corpus. This is essentially a way for doing
// table-driven tests where the "table" is in your file system.
type Corpus struct {
	// The root of the test data directory. This path is relative to the file
	// that calls [Corpus.Run].
	Root string

	// An environment variable to check with regards to whether to run in
	// "refresh" mode or not. The variable's value is a doublestar glob; test
	// cases whose paths match it have their outputs regenerated instead of
	// compared.
	Refresh string

	// The file extension (without a dot) of files which define a test case,
	// e.g. "attr".
	Extension string

	// Possible outputs of the test, which are found using Outputs.Extension.
	// If the file for a particular output is missing, it is implicitly treated
	// as being expected to be empty.
	Outputs []Output
}

// Output represents the output of a test case.
type Output struct {
	// The extension of the output. This is a suffix to the name of the
	// testcase's main file; so if Corpus.Extension is "attr", and this is
	// "stderr", for a test "foo.attr" the test runner will look for files
	// named "foo.attr.stderr".
	Extension string

	// The comparison function for this output. May be nil, in which case the
	// values are compared byte-for-byte and mismatches render as a unified
	// diff.
	Compare Compare
}

// Compare is a comparison function between strings, used in [Output].
//
// Returns empty string if the strings match, otherwise returns an error
// message.
type Compare func(got, want string) string

// Run executes the corpus. test is called once per test case; it should fill
// in outputs with one result per [Corpus.Outputs] entry.
func (c Corpus) Run(t *testing.T, test func(t *testing.T, path, text string, outputs []string)) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	// Enumerate the tests to run by walking the filesystem.
	var tests []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.TrimPrefix(path.Ext(p), ".") == c.Extension {
			tests = append(tests, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal("golden: error while stating testdata FS:", err)
	}

	// Check if a refresh has been requested.
	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid glob: %q", refresh)
		}
	}

	if refresh != "" {
		t.Logf("golden: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, testPath := range tests {
		name, _ := filepath.Rel(testDir, testPath)
		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(testPath)
			if err != nil {
				t.Fatalf("golden: error while loading input file %q: %v", testPath, err)
			}

			results := make([]string, len(c.Outputs))
			test(t, name, string(input), results)

			refresh, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				path := fmt.Sprint(testPath, ".", output.Extension)

				if refresh {
					if results[i] == "" {
						err := os.Remove(path)
						if err != nil && !errors.Is(err, os.ErrNotExist) {
							t.Logf("golden: error while deleting output file %q: %v", path, err)
							t.Fail()
						}
					} else if err := os.WriteFile(path, []byte(results[i]), 0660); err != nil {
						t.Logf("golden: error while writing output file %q: %v", path, err)
						t.Fail()
					}
					continue
				}

				want, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Logf("golden: error while loading output file %q: %v", path, err)
					t.Fail()
					continue
				}

				cmp := output.Compare
				if cmp == nil {
					cmp = defaultCompare
				}
				if err := cmp(results[i], string(want)); err != "" {
					t.Logf("output mismatch for %q:\n%s", path, err)
					t.Fail()
				}
			}
		})
	}
}

func defaultCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Colorize the diff so it's easier to read. We're looking for lines that
	// start with a - or a +.
	lines := strings.Split(diff, "\n")
	for i := range lines {
		s := lines[i]
		if strings.HasPrefix(s, "+") {
			lines[i] = "\033[1;92m" + s + "\033[0m"
		} else if strings.HasPrefix(s, "-") {
			lines[i] = "\033[1;91m" + s + "\033[0m"
		}
	}

	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("golden: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
