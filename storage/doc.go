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


// Package storage provides the metadata-store abstraction for paperdesk.
//
// It defines the PaperRepository interface that decouples the pipeline
// stages from the storage backend. The contract is deliberately small:
// single-key existence checks for dedup, partial-field upsert as the unit
// of commit, and field-presence queries (GetMissing/GetWith) that stages
// use to select their backlog. Those three operations are the whole
// coordination mechanism between stages; there is no workflow graph.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.PaperRepository interface to keep
// consumers decoupled from BadgerDB specifics:
//
//	repo, err := badger.NewPaperRepository(backend)
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := badger.NewPaperRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Tests can use an in-memory backend:
//
//	repo, cleanup, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Mutation is per-record
// read-merge-write inside one transaction, so a record is never torn;
// concurrent writes to the same field resolve as last-write-wins.
package storage
