// Package model contains domain models passed between layers.
package model

import "time"

// ActionDirections is the action carried by directional commute events.
const ActionDirections = "directions"

// Code identifies a commute endpoint as sent by the event source.
type Code int

// Known commute endpoints. The zero value is CodeUnknown so that a missing
// attribute never matches a real endpoint.
const (
	CodeUnknown Code = iota
	CodeLocation
	CodeHome
	CodeWork
)

// ParseCode maps a wire code ("0", "1", "2") to a Code.
func ParseCode(s string) Code {
	switch s {
	case "0":
		return CodeLocation
	case "1":
		return CodeHome
	case "2":
		return CodeWork
	default:
		return CodeUnknown
	}
}

// Wire returns the code as sent on the wire, or "" for CodeUnknown.
func (c Code) Wire() string {
	switch c {
	case CodeLocation:
		return "0"
	case CodeHome:
		return "1"
	case CodeWork:
		return "2"
	default:
		return ""
	}
}

func (c Code) String() string {
	switch c {
	case CodeLocation:
		return "location"
	case CodeHome:
		return "home"
	case CodeWork:
		return "work"
	default:
		return "unknown"
	}
}

// RawEvent is the normalized event descriptor handed over by a transport.
// Orig and Dest are only meaningful when Action is ActionDirections.
type RawEvent struct {
	ID         string    // transport message id, may be empty
	Action     string    // "directions" or a pre-named event, e.g. "calendar"
	Orig       Code      // directions origin
	Dest       Code      // directions destination
	ReceivedAt time.Time // when the transport received it
}

// EventType is the closed set of semantic events the strip can display.
type EventType int

// Semantic event types. Unrecognized is the zero value and is always dropped.
const (
	Unrecognized EventType = iota
	LocationToWork
	LocationToHome
	HomeToWork
	WorkToHome
	Calendar
	Settings
	Error
)

var eventTypeNames = [...]string{
	Unrecognized:   "unrecognized",
	LocationToWork: "location_work",
	LocationToHome: "location_home",
	HomeToWork:     "home_work",
	WorkToHome:     "work_home",
	Calendar:       "calendar",
	Settings:       "settings",
	Error:          "error",
}

// String returns the wire name of the event type.
func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return eventTypeNames[Unrecognized]
	}
	return eventTypeNames[t]
}

// Known reports whether t is a displayable event type.
func (t EventType) Known() bool {
	return t > Unrecognized && int(t) < len(eventTypeNames)
}

// EventTypes lists every displayable event type in declaration order.
func EventTypes() []EventType {
	return []EventType{LocationToWork, LocationToHome, HomeToWork, WorkToHome, Calendar, Settings, Error}
}
