/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history implements a bounded linear undo/redo stack of full
// document snapshots.
package history

import (
	"log/slog"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
)

// DefaultLimit bounds the snapshot stack.
const DefaultLimit = 50

// History holds deep document snapshots with a cursor. New edits after
// an undo discard the redo branch. When the stack is full the oldest
// entry is dropped instead of growing.
type History struct {
	snapshots []*domain.Document
	index     int // position of the current state within snapshots
	limit     int
	restoring bool
	log       *slog.Logger
}

// New returns a history with the given snapshot limit (<=0 uses
// DefaultLimit).
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{index: -1, limit: limit, log: applog.WithComponent("history")}
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Save deep-copies the document onto the stack. Called after every
// committed mutation. While a restore is in flight, Save is suppressed
// so undo does not push a redundant snapshot of the state it just
// wrote back.
func (h *History) Save(doc *domain.Document) {
	if h.restoring || doc == nil {
		return
	}
	// a new edit after undo kills the redo branch
	if h.index < len(h.snapshots)-1 {
		h.snapshots = h.snapshots[:h.index+1]
	}
	h.snapshots = append(h.snapshots, doc.Clone())
	if len(h.snapshots) > h.limit {
		// drop the oldest; the cursor stays on the same snapshot,
		// which has shifted one slot down
		h.snapshots = h.snapshots[1:]
	} else {
		h.index++
	}
	h.log.Debug("snapshot saved", slog.Int("index", h.index), slog.Int("len", len(h.snapshots)))
}

// Undo steps back one snapshot and hands a deep copy to apply. Returns
// false (without calling apply) when there is nothing to undo.
func (h *History) Undo(apply func(*domain.Document)) bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	h.restore(h.snapshots[h.index], apply)
	return true
}

// Redo steps forward one snapshot and hands a deep copy to apply.
func (h *History) Redo(apply func(*domain.Document)) bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	h.restore(h.snapshots[h.index], apply)
	return true
}

func (h *History) restore(snap *domain.Document, apply func(*domain.Document)) {
	if apply == nil {
		return
	}
	h.restoring = true
	defer func() { h.restoring = false }()
	apply(snap.Clone())
}

// Reset drops all snapshots and seeds the stack with the given
// document as the baseline state, e.g. after loading a project.
func (h *History) Reset(doc *domain.Document) {
	h.snapshots = h.snapshots[:0]
	h.index = -1
	if doc != nil {
		h.snapshots = append(h.snapshots, doc.Clone())
		h.index = 0
	}
}
