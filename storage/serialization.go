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


package storage

import (
	"fmt"

	"github.com/paperdesk/paperdesk/core"
)

// MarshalPaperRecord serializes a PaperRecord to bytes.
func MarshalPaperRecord(record *core.PaperRecord) []byte {
	buf := make([]byte, core.PaperRecordMUS.Size(*record))
	core.PaperRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalPaperRecord deserializes a PaperRecord from bytes.
func UnmarshalPaperRecord(data []byte) (*core.PaperRecord, error) {
	record, _, err := core.PaperRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
