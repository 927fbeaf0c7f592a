// Copyright 2025 Paperdesk Labs
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPaperRecord indicates a PaperRecord failed validation.
	ErrInvalidPaperRecord = errors.New("invalid paper record")

	// ErrEmptyPaperID indicates the ID field is empty.
	ErrEmptyPaperID = errors.New("paper id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTextWithoutBlob indicates extracted text exists without a stored blob.
	ErrTextWithoutBlob = errors.New("extracted text requires a blob location")

	// ErrSummaryWithoutText indicates a summary exists without extracted text.
	ErrSummaryWithoutText = errors.New("summary requires extracted text")

	// ErrInvalidField indicates an unknown Field value.
	ErrInvalidField = errors.New("invalid field")
)
