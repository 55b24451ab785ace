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

// Package checkpoint is the durable ledger of an ingestion run.
//
// A work directory holds three files:
//
//	processed_files.log  completed basenames, one per line
//	fragments.ckpt       framed records [len:u32][crc32:u32][payload], one per completed file
//	failed_files.log     CSV of failures (timestamp,category,filename,error_message)
//
// A batch is synced to fragments.ckpt before its basename is appended to
// processed_files.log. Open truncates a torn final record and appends
// completed entries for batches that lack one.
package checkpoint
