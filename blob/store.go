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


// Package blob defines durable storage for raw paper PDFs, addressed by
// paper id on write and by opaque location on read. The pipeline treats
// locations as opaque strings so alternative backends (object stores)
// remain pluggable behind the same contract.
package blob

import (
	"context"
	"errors"
)

// Store persists raw blob content.
type Store interface {
	// Put durably stores data under the paper id and returns the location
	// to read it back with. Re-putting the same id overwrites in place.
	Put(ctx context.Context, paperID string, data []byte) (string, error)

	// Get retrieves the blob stored at location.
	// Returns ErrNotFound if nothing is stored there.
	Get(ctx context.Context, location string) ([]byte, error)
}

var (
	// ErrNotFound indicates no blob exists at the requested location.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidLocation indicates a location this store cannot serve.
	ErrInvalidLocation = errors.New("invalid blob location")

	// ErrEmptyBlob indicates an attempt to store empty content.
	ErrEmptyBlob = errors.New("blob content is empty")
)
