// Package classify maps raw transport events onto the closed set of
// semantic event types. Unknown input is never an error: it classifies as
// model.Unrecognized and the caller drops it.
package classify

import (
	"strings"

	"github.com/okian/headlights/internal/domain/model"
)

type route struct {
	orig, dest model.Code
}

var directions = map[route]model.EventType{
	{model.CodeLocation, model.CodeWork}: model.LocationToWork,
	{model.CodeLocation, model.CodeHome}: model.LocationToHome,
	{model.CodeHome, model.CodeWork}:     model.HomeToWork,
	{model.CodeWork, model.CodeHome}:     model.WorkToHome,
}

var byName = func() map[string]model.EventType {
	m := make(map[string]model.EventType, len(model.EventTypes()))
	for _, et := range model.EventTypes() {
		m[et.String()] = et
	}
	return m
}()

// Classify returns the event type for e. It is pure and total.
func Classify(e model.RawEvent) model.EventType {
	if e.Action == model.ActionDirections {
		return directions[route{e.Orig, e.Dest}]
	}
	return ParseEventType(e.Action)
}

// ParseEventType looks up a pre-named event type by its wire name, e.g.
// "calendar" or "home_work". Matching is exact apart from surrounding
// whitespace.
func ParseEventType(name string) model.EventType {
	return byName[strings.TrimSpace(name)]
}
