// Package events is a synchronous, per-name listener list.
//
// Emit calls every listener before it returns. One-shot listeners are
// detached before they run, so each one sees exactly the next occurrence
// of its event even when a listener emits again from inside Emit.
package events

import "sync"

// Handler receives the event name and its payload.
type Handler func(event string, data any)

type listener struct {
	id uint64
	h  Handler
}

// Emitter is safe for concurrent use. Handlers run on the emitting
// goroutine without any emitter lock held.
type Emitter struct {
	mu         sync.Mutex
	next       uint64
	persistent map[string][]listener
	once       map[string][]listener
}

func New() *Emitter {
	return &Emitter{
		persistent: make(map[string][]listener),
		once:       make(map[string][]listener),
	}
}

// On subscribes h to every occurrence of event. The returned func
// unsubscribes; calling it more than once is harmless.
func (e *Emitter) On(event string, h Handler) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	id := e.next
	e.persistent[event] = append(e.persistent[event], listener{id: id, h: h})
	return func() { e.remove(e.persistent, event, id) }
}

// Once subscribes h to the next occurrence of event only.
func (e *Emitter) Once(event string, h Handler) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	id := e.next
	e.once[event] = append(e.once[event], listener{id: id, h: h})
	return func() { e.remove(e.once, event, id) }
}

// Off drops every listener of event.
func (e *Emitter) Off(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.persistent, event)
	delete(e.once, event)
}

// Clear drops every listener.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistent = make(map[string][]listener)
	e.once = make(map[string][]listener)
}

// Count returns the number of listeners attached to event.
func (e *Emitter) Count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.persistent[event]) + len(e.once[event])
}

// Emit calls persistent listeners, then one-shot listeners, each group in
// subscription order.
func (e *Emitter) Emit(event string, data any) {
	e.mu.Lock()
	persistent := append([]listener(nil), e.persistent[event]...)
	once := e.once[event]
	delete(e.once, event)
	e.mu.Unlock()

	for _, l := range persistent {
		l.h(event, data)
	}
	for _, l := range once {
		l.h(event, data)
	}
}

func (e *Emitter) remove(lists map[string][]listener, event string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := lists[event]
	for i, l := range ls {
		if l.id == id {
			lists[event] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(lists[event]) == 0 {
		delete(lists, event)
	}
}
