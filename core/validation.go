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

import "fmt"

// ValidatePaperRecord validates a PaperRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - ExtractedText must not be set without BlobLocation
//   - Summary must not be set without ExtractedText
//
// NOT validated (populated by stages):
//   - BlobLocation, Digest, ExtractedText, Summary (empty until the owning
//     stage runs)
//   - Seq (0 until assigned by storage)
func ValidatePaperRecord(record *PaperRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPaperRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrEmptyPaperID)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrEmptyTitle)
	}

	if record.Has(FieldExtractedText) && !record.Has(FieldBlobLocation) {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrTextWithoutBlob)
	}

	if record.Has(FieldSummary) && !record.Has(FieldExtractedText) {
		return fmt.Errorf("%w: %w", ErrInvalidPaperRecord, ErrSummaryWithoutText)
	}

	return nil
}

// ValidateField validates that a Field has a known value.
func ValidateField(f Field) error {
	switch f {
	case FieldBlobLocation, FieldExtractedText, FieldSummary:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidField, f)
	}
}
