// Package seed loads sample workshop data into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
)

// Creator is the subset of the event service the loader needs.
type Creator interface {
	CreateEvent(ctx context.Context, req model.EventRequest) (*model.Event, error)
	CreateSlot(ctx context.Context, req model.CreateSlotRequest) (*model.Slot, error)
	CreateTopic(ctx context.Context, req model.TopicRequest) (*model.Topic, error)
}

// Workshop describes an event and its schedule.
type Workshop struct {
	Name        string
	Description string
	Slots       []Slot
}

type Slot struct {
	Name   string
	Date   string
	Time   string
	Topics []Topic
}

type Topic struct {
	Title           string
	Description     string
	Instructor      string
	MaxParticipants int
}

var cardiologyTopics = []Topic{
	{"Imaging (Wojciech Kosmala)", "Cardiac imaging techniques and applications", "Wojciech Kosmala", 15},
	{"Interventional Cardiology (Krzysztof Reczuch)", "Interventional procedures and techniques", "Krzysztof Reczuch", 15},
	{"Intensive Care (Robert Zymliński)", "Critical care cardiology and management", "Robert Zymliński", 15},
	{"Heart Transplantation and Mechanical Circulatory Support (Michał Zakliczyński)", "Advanced heart failure and transplant procedures", "Michał Zakliczyński", 15},
	{"Electrophysiology (Krzysztof Nowak)", "Cardiac rhythm disorders and electrophysiology", "Krzysztof Nowak", 15},
	{`"One-day" Cardiology Care (Małgorzata Kobusiak-Prokopowicz)`, "Outpatient cardiology services and management", "Małgorzata Kobusiak-Prokopowicz", 15},
}

// Cardiology is the sample workshop: three sessions on one day, each
// offering the same six topics.
var Cardiology = Workshop{
	Name:        "Cardiology Workshop 2024",
	Description: "A one-day workshop with hands-on sessions across six areas of cardiology.",
	Slots: []Slot{
		{Name: "Morning Session", Date: "2024-01-15", Time: "09:00 - 10:20", Topics: cardiologyTopics},
		{Name: "Mid-Morning Session", Date: "2024-01-15", Time: "10:40 - 12:00", Topics: cardiologyTopics},
		{Name: "Afternoon Session", Date: "2024-01-15", Time: "12:00 - 13:20", Topics: cardiologyTopics},
	},
}

// Load creates w through c and returns the new event.
func Load(ctx context.Context, c Creator, w Workshop) (*model.Event, error) {
	desc := w.Description
	event, err := c.CreateEvent(ctx, model.EventRequest{Name: w.Name, Description: &desc})
	if err != nil {
		return nil, fmt.Errorf("create event %q: %w", w.Name, err)
	}

	for _, s := range w.Slots {
		slot, err := c.CreateSlot(ctx, model.CreateSlotRequest{Name: s.Name, Date: s.Date, Time: s.Time, EventID: event.ID})
		if err != nil {
			return nil, fmt.Errorf("create slot %q: %w", s.Name, err)
		}
		for _, t := range s.Topics {
			_, err := c.CreateTopic(ctx, model.TopicRequest{
				Title:           t.Title,
				Description:     t.Description,
				Instructor:      t.Instructor,
				MaxParticipants: t.MaxParticipants,
				SlotID:          slot.ID,
			})
			if err != nil {
				return nil, fmt.Errorf("create topic %q in %q: %w", t.Title, s.Name, err)
			}
		}
	}
	return event, nil
}
