package services

import (
	"sync"

	"github.com/yigit/courseplanner/internal/app/models"
)

// EventLog keeps the most recent catalog events per course
type EventLog struct {
	mu     sync.RWMutex
	size   int
	events map[string][]models.CatalogEvent
}

// NewEventLog creates a log holding at most size events per course
func NewEventLog(size int) *EventLog {
	if size < 1 {
		size = 1
	}
	return &EventLog{size: size, events: make(map[string][]models.CatalogEvent)}
}

// Record appends an event, evicting the oldest when full
func (l *EventLog) Record(event models.CatalogEvent) {
	key := models.CourseKey(event.Subject, event.CatalogNumber)

	l.mu.Lock()
	defer l.mu.Unlock()

	list := append(l.events[key], event)
	if len(list) > l.size {
		list = append([]models.CatalogEvent(nil), list[len(list)-l.size:]...)
	}
	l.events[key] = list
}

// Events returns a copy of a course's events, oldest first
func (l *EventLog) Events(subject, catalogNumber string) []models.CatalogEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.events[models.CourseKey(subject, catalogNumber)]
	return append(make([]models.CatalogEvent, 0, len(list)), list...)
}
