// Package links decorates API responses with absolute URLs built from the
// service's public base URL.
package links

import (
	"strings"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// Builder produces absolute URLs under a fixed base.
type Builder struct {
	base string
}

// NewBuilder returns a Builder for base, e.g. "https://hub.example.com".
func NewBuilder(base string) *Builder {
	return &Builder{base: strings.TrimRight(base, "/")}
}

// API returns the absolute URL of an API path such as "events/123".
func (b *Builder) API(path string) string {
	return b.base + "/api/" + strings.TrimLeft(path, "/")
}

// EventPage returns the public registration page of an event.
func (b *Builder) EventPage(publicID string) string {
	return b.base + "/event/" + publicID
}

// Event sets url and apiUrl on an event and everything nested under it.
func (b *Builder) Event(e *model.Event) {
	if e == nil {
		return
	}
	e.URL = b.EventPage(e.UUID)
	e.APIURL = b.API("events/" + e.ID)
	for i := range e.Slots {
		b.Slot(&e.Slots[i])
	}
}

// Slot sets apiUrl on a slot, its event and its topics.
func (b *Builder) Slot(s *model.Slot) {
	if s == nil {
		return
	}
	s.APIURL = b.API("slots/" + s.ID)
	if s.Event != nil && s.Event.APIURL == "" {
		b.Event(s.Event)
	}
	for i := range s.Topics {
		b.Topic(&s.Topics[i])
	}
}

// Topic sets apiUrl on a topic, its slot and its registrations.
func (b *Builder) Topic(t *model.Topic) {
	if t == nil {
		return
	}
	t.APIURL = b.API("topics/" + t.ID)
	if t.Slot != nil && t.Slot.APIURL == "" {
		b.Slot(t.Slot)
	}
	for i := range t.Registrations {
		b.Registration(&t.Registrations[i])
	}
}

// Registration sets apiUrl on a registration, its slot and its topic.
func (b *Builder) Registration(r *model.Registration) {
	if r == nil {
		return
	}
	r.APIURL = b.API("registrations/" + r.ID)
	b.Slot(r.Slot)
	b.Topic(r.Topic)
}

// Events decorates a slice in place.
func (b *Builder) Events(events []model.Event) {
	for i := range events {
		b.Event(&events[i])
	}
}

// Slots decorates a slice in place.
func (b *Builder) Slots(slots []model.Slot) {
	for i := range slots {
		b.Slot(&slots[i])
	}
}

// Topics decorates a slice in place.
func (b *Builder) Topics(topics []model.Topic) {
	for i := range topics {
		b.Topic(&topics[i])
	}
}

// Registrations decorates a slice in place.
func (b *Builder) Registrations(regs []model.Registration) {
	for i := range regs {
		b.Registration(&regs[i])
	}
}
