package editor

import (
	"sync"

	"github.com/xkilldash9x/shapes-cli/internal/shapes"
)

// EventType names an editor notification.
type EventType string

const (
	// EventReady fires once, after the first draw.
	EventReady EventType = "ready"
	// EventShapeChange fires after every draw.
	EventShapeChange EventType = "shapechange"
	// EventRemoved fires when the editor tears down.
	EventRemoved EventType = "removed"
)

// Event is the payload handed to observers.
type Event struct {
	Type     EventType
	EditorID string
	Property string
	Kind     shapes.Kind
	// Value is the serialized shape at the time of the event. Empty for removed.
	Value string
	// Geometry is an element relative copy of the shape. Nil for removed.
	Geometry shapes.Geometry
}

// Handler receives editor events.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// observers is a per editor list of handlers keyed by event name.
type observers struct {
	mu     sync.Mutex
	nextID int
	subs   map[EventType][]subscription
}

func (o *observers) add(t EventType, fn Handler) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = make(map[EventType][]subscription)
	}
	o.nextID++
	id := o.nextID
	o.subs[t] = append(o.subs[t], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(t, id) })
	}
}

func (o *observers) remove(t EventType, id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	list := o.subs[t]
	for i, s := range list {
		if s.id == id {
			o.subs[t] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (o *observers) clear(t EventType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.subs, t)
}

// emit calls the handlers registered for ev.Type, in registration order.
func (o *observers) emit(ev Event) {
	o.mu.Lock()
	list := append([]subscription(nil), o.subs[ev.Type]...)
	o.mu.Unlock()
	for _, s := range list {
		s.fn(ev)
	}
}
