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


package badger

import "github.com/paperdesk/paperdesk/storage"

// NewMemoryRepository creates an in-memory paper repository for testing.
// The returned cleanup closes the repository and its backend.
func NewMemoryRepository() (storage.PaperRepository, func(), error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	cleanup := func() {
		repo.Close()
		backend.Close()
	}
	return repo, cleanup, nil
}
