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

// stylesheet is the colors used for pretty-rendering diagnostics.
type stylesheet struct {
	reset string

	// Normal and bold colors, per diagnostic level.
	nError, bError     string
	nWarning, bWarning string
	nRemark, bRemark   string

	// Used for "accents" such as non-primary span underlines, line numbers,
	// and other rendering details to clearly separate them from the source
	// code (which appears in white).
	nAccent, bAccent string
}

// ColorForLevel returns the normal color for a diagnostic level.
func (c *stylesheet) ColorForLevel(l Level) string {
	switch l {
	case Error:
		return c.nError
	case Warning:
		return c.nWarning
	case Remark:
		return c.nRemark
	case note:
		return c.nAccent
	default:
		return ""
	}
}

// BoldForLevel returns the bold color for a diagnostic level.
func (c *stylesheet) BoldForLevel(l Level) string {
	switch l {
	case Error:
		return c.bError
	case Warning:
		return c.bWarning
	case Remark:
		return c.bRemark
	case note:
		return c.bAccent
	default:
		return ""
	}
}
