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

package monitor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfreeman451/pathwatch/pkg/models"
	"github.com/mfreeman451/pathwatch/pkg/traffic"
	"github.com/mfreeman451/pathwatch/pkg/transition"
)

// pendingWrite is a cycle result the store has not accepted yet.
type pendingWrite struct {
	check *models.CheckRecord
	event *models.TransitionEvent
}

// NodeRuntime is the in-memory state of one monitored node. Cycles for the
// node hold cycleMu for their whole duration; readers only take mu.
type NodeRuntime struct {
	Config models.NodeConfig

	inFlight atomic.Bool
	cycleMu  sync.Mutex

	mu          sync.RWMutex
	memory      transition.Memory
	confidence  models.Confidence
	lastChecked time.Time
	seeded      bool

	// owned by the running cycle
	counters *traffic.Counters
	pending  []pendingWrite
}

func newNodeRuntime(cfg models.NodeConfig) *NodeRuntime {
	return &NodeRuntime{
		Config: cfg,
		memory: transition.NewMemory(),
	}
}

// TryBegin marks the node in flight. It returns false if a cycle is
// already running.
func (rt *NodeRuntime) TryBegin() bool {
	return rt.inFlight.CompareAndSwap(false, true)
}

// End clears the in-flight flag.
func (rt *NodeRuntime) End() {
	rt.inFlight.Store(false)
}

func (rt *NodeRuntime) InFlight() bool {
	return rt.inFlight.Load()
}

func (rt *NodeRuntime) loadMemory() transition.Memory {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return rt.memory
}

func (rt *NodeRuntime) commit(mem transition.Memory, conf models.Confidence, at time.Time) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.memory = mem
	rt.confidence = conf
	rt.lastChecked = at
}

func (rt *NodeRuntime) seed(mem transition.Memory, conf models.Confidence, lastChecked time.Time) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.memory = mem
	rt.confidence = conf
	rt.lastChecked = lastChecked
	rt.seeded = true
}

func (rt *NodeRuntime) isSeeded() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return rt.seeded
}

// Snapshot returns the dashboard view of the node.
func (rt *NodeRuntime) Snapshot() models.RuntimeSnapshot {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return models.RuntimeSnapshot{
		NodeIP:      rt.Config.IP,
		Label:       rt.Config.Label,
		Tags:        append([]string(nil), rt.Config.Tags...),
		State:       rt.memory.State,
		Confidence:  rt.confidence,
		Region:      rt.memory.Region,
		LastChecked: rt.lastChecked,
		StateSince:  rt.memory.Since,
		InFlight:    rt.inFlight.Load(),
	}
}
