package engagement

import (
	"sync"
)

const (
	// MaxSamplesPerConnection bounds each connection's sliding window.
	MaxSamplesPerConnection = 30

	// MaxSamplesPerBatch caps how many samples of one incoming batch are
	// admitted; only the most recent survive.
	MaxSamplesPerBatch = 10
)

// BufferManager owns the room -> connection -> samples structure. All
// access goes through one mutex so a drain-and-clear is atomic with
// respect to concurrent appends: samples appended after a drain snapshot
// always belong to the next cycle.
type BufferManager struct {
	mu    sync.Mutex
	rooms map[string]map[string][]BehaviorSample
}

func NewBufferManager() *BufferManager {
	return &BufferManager{
		rooms: make(map[string]map[string][]BehaviorSample),
	}
}

// EnsureRoom lazily initializes the buffer for a room. Called on join.
func (b *BufferManager) EnsureRoom(roomId string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.rooms[roomId]; !ok {
		b.rooms[roomId] = make(map[string][]BehaviorSample)
	}
}

// Append admits at most the last MaxSamplesPerBatch elements of the batch
// into the connection's window, evicting oldest-first once the window
// exceeds MaxSamplesPerConnection.
func (b *BufferManager) Append(roomId, connId string, samples []BehaviorSample) {
	if len(samples) == 0 {
		return
	}
	if len(samples) > MaxSamplesPerBatch {
		samples = samples[len(samples)-MaxSamplesPerBatch:]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[roomId]
	if !ok {
		room = make(map[string][]BehaviorSample)
		b.rooms[roomId] = room
	}

	window := append(room[connId], samples...)
	if len(window) > MaxSamplesPerConnection {
		window = window[len(window)-MaxSamplesPerConnection:]
	}
	room[connId] = window
}

// DrainAll returns the room's current buffer contents and clears them in
// the same critical section.
func (b *BufferManager) DrainAll(roomId string) map[string][]BehaviorSample {
	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[roomId]
	if !ok || len(room) == 0 {
		return map[string][]BehaviorSample{}
	}

	b.rooms[roomId] = make(map[string][]BehaviorSample)
	return room
}

// ConnectionLeft purges a connection's window. Its samples never reach a
// later cycle; switching rooms or disconnecting orphans them.
func (b *BufferManager) ConnectionLeft(roomId, connId string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[roomId]
	if !ok {
		return
	}
	delete(room, connId)
	if len(room) == 0 {
		delete(b.rooms, roomId)
	}
}
