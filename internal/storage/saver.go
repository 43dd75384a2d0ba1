/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"log/slog"
	"sync"
	"time"

	"visualdoc/internal/domain"
	applog "visualdoc/internal/log"
)

// DebouncedSaver coalesces rapid mutation bursts into a single write:
// every Request resets the timer, and only the final pending document
// after a quiet period reaches disk. Failures are reported through the
// status callback rather than retried; the in-memory document stays
// the source of truth and the next successful save carries everything.
type DebouncedSaver struct {
	ws     *Workspace
	delay  time.Duration
	status func(error)
	log    *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *domain.Document
}

// NewDebouncedSaver builds a saver with the given quiet period.
// status may be nil.
func NewDebouncedSaver(ws *Workspace, delay time.Duration, status func(error)) *DebouncedSaver {
	if delay <= 0 {
		delay = time.Second
	}
	return &DebouncedSaver{
		ws:     ws,
		delay:  delay,
		status: status,
		log:    applog.WithComponent("saver"),
	}
}

// Request schedules a save of a snapshot of the document, replacing
// any not-yet-flushed request.
func (s *DebouncedSaver) Request(doc *domain.Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = doc.Clone()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flushPending)
}

// Flush writes any pending document immediately. Used on shutdown.
func (s *DebouncedSaver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.flushPending()
}

func (s *DebouncedSaver) flushPending() {
	s.mu.Lock()
	doc := s.pending
	s.pending = nil
	s.mu.Unlock()
	if doc == nil {
		return
	}
	err := s.ws.Save(doc)
	if err != nil {
		s.log.Error("autosave failed", slog.String("project", doc.ProjectName), slog.Any("err", err))
	}
	if s.status != nil {
		s.status(err)
	}
}
