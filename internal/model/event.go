package model

import "time"

// EventKind distinguishes scanned events
type EventKind string

const (
	EventIngress EventKind = "ingress" // Body enters a new sign
	EventAspect  EventKind = "aspect"  // Two bodies reach an exact aspect
)

// Event is one ingress or exact aspect found by the event scan
type Event struct {
	Kind       EventKind  `json:"kind"`
	Time       time.Time  `json:"time"`
	Body       Body       `json:"body"`
	Other      Body       `json:"other,omitempty"`  // Aspect events only
	Aspect     AspectKind `json:"aspect,omitempty"` // Aspect events only
	Sign       Sign       `json:"sign"`             // Sign entered, or Body's sign at the aspect
	Longitude  float64    `json:"longitude"`
	Retrograde bool       `json:"retrograde"`
}
