// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import goerrors "gopkg.in/src-d/go-errors.v1"

// Typed sentinel error kinds for this package's caller-visible failures: a
// store open failure is fatal and propagates straight to the caller, with
// no recovery attempted. Cross-package I/O wrapping (a page-store read
// failure surfacing through the header parser) still uses
// github.com/pkg/errors.Wrap.
var (
	// ErrInvalidMagic is raised when a store file's header page does not
	// begin with the Castor magic bytes.
	ErrInvalidMagic = goerrors.NewKind("store: invalid magic number")

	// ErrUnsupportedVersion is raised when a store file's declared format
	// version does not match formatVersion.
	ErrUnsupportedVersion = goerrors.NewKind("store: unsupported format version %d")
)
