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

package token

import (
	"fmt"
	"os"
	"strings"

	"github.com/petermattis/goid"
)

// debugMode is the status of the MACROTK_DEBUG environment variable at
// startup. This cannot be set in any way except by environment variable. It
// enables expensive self-checks, such as the stream ownership assertion.
var debugMode = func() bool {
	switch strings.ToLower(os.Getenv("MACROTK_DEBUG")) {
	case "", "0", "off", "false":
		return false
	default:
		return true
	}
}()

// currentGoroutine returns the ID of the calling goroutine, or 0 when debug
// checks are off.
func currentGoroutine() int64 {
	if !debugMode {
		return 0
	}
	return goid.Get()
}

// touch asserts that the calling goroutine is the one that lexed this stream.
//
// Streams are unsynchronized: sharing one across goroutines without external
// synchronization is a race, even for reads mixed with lexing. This check
// makes such bugs loud instead of subtle, but only when debugMode is set,
// because goroutine IDs are not free to look up.
func (s *Stream) touch() {
	if !debugMode {
		return
	}
	if gid := goid.Get(); gid != s.owner {
		panic(fmt.Sprintf(
			"macrotk/token: stream owned by goroutine %d was used from goroutine %d",
			s.owner, gid,
		))
	}
}
