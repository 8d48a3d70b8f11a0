// Copyright 2025 Poiesic Systems
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


// Package badger implements the storage repositories on BadgerDB.
//
// Each record type gets its own key prefix, and secondary indexes
// (source path, tag, report date) are maintained alongside the primary
// records inside the same transaction. Vector search is a brute-force
// scan over all stored embeddings, which holds up well for the few
// thousand chunks a personal vault contains.
//
// # Usage
//
//	repos, err := badger.NewRepositories("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// Use in tests with in-memory storage:
//
//	repos, err := badger.NewMemoryRepositories()
package badger
