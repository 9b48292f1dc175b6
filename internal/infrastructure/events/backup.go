package events

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// BackupTrigger asks the backup worker for a snapshot after writes,
// at most once per interval. It never blocks and never fails the caller.
type BackupTrigger struct {
	publisher Publisher
	sometimes *rate.Sometimes
	timeout   time.Duration
	// fire runs the publish; replaced in tests to run synchronously
	fire func(func())
}

func NewBackupTrigger(publisher Publisher, interval time.Duration) *BackupTrigger {
	return &BackupTrigger{
		publisher: publisher,
		sometimes: &rate.Sometimes{Interval: interval},
		timeout:   5 * time.Second,
		fire:      func(f func()) { go f() },
	}
}

// Poke requests a backup if the interval has elapsed since the last request
func (b *BackupTrigger) Poke(reason string) {
	b.sometimes.Do(func() {
		b.fire(func() {
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			err := b.publisher.Publish(ctx, BackupRequested, map[string]string{"reason": reason})
			if err != nil {
				log.Printf("Warning: backup trigger failed: %v", err)
			}
		})
	})
}
