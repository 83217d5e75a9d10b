/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"sync"

	"github.com/mfreeman451/pathwatch/pkg/models"
)

// RingBuffer keeps the most recent points, oldest first on read.
type RingBuffer struct {
	mu     sync.RWMutex
	points []models.LatencyPoint
	pos    int
	count  int
}

func NewBuffer(size int) LatencyStore {
	if size <= 0 {
		size = 1
	}

	return &RingBuffer{
		points: make([]models.LatencyPoint, size),
	}
}

func (b *RingBuffer) Add(point models.LatencyPoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.points[b.pos] = point
	b.pos = (b.pos + 1) % len(b.points)

	if b.count < len(b.points) {
		b.count++
	}
}

func (b *RingBuffer) GetPoints() []models.LatencyPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := len(b.points)
	out := make([]models.LatencyPoint, 0, b.count)

	for i := b.count; i > 0; i-- {
		out = append(out, b.points[(b.pos-i+size)%size])
	}

	return out
}

func (b *RingBuffer) GetLastPoint() *models.LatencyPoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	p := b.points[(b.pos-1+len(b.points))%len(b.points)]

	return &p
}
