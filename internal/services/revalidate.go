package services

import (
	"log"
)

// Revalidator invalidates cached pages after a mutation. Calls are
// fire-and-forget; no acknowledgment is expected and failures are not
// reported back to the caller.
type Revalidator interface {
	Revalidate(paths ...string)
}

// LogRevalidator logs the invalidated paths. It stands in for a real
// page-cache invalidation backend.
type LogRevalidator struct{}

func (LogRevalidator) Revalidate(paths ...string) {
	go func() {
		for _, path := range paths {
			log.Printf("revalidate: %s", path)
		}
	}()
}
