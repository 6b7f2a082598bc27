/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import (
	"sync"
	"testing"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventContentCreated)

	bus.Publish(EventContentCreated, Payload{"id": "m1"})

	got := <-sub
	if got["id"] != "m1" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestPublishSkipsSlowSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventViewRecorded)

	// Fill the buffer and keep going; extra publishes must not block.
	for i := 0; i < cap(sub)+5; i++ {
		bus.Publish(EventViewRecorded, Payload{"n": i})
	}

	if len(sub) != cap(sub) {
		t.Errorf("expected a full buffer, got %d of %d", len(sub), cap(sub))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(EventGenreCreated)

	bus.Unsubscribe(EventGenreCreated, sub)

	if _, ok := <-sub; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// Publishing after the removal must not reach the closed channel.
	bus.Publish(EventGenreCreated, Payload{"id": "g1"})
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				bus.Publish(EventDownloadCompleted, Payload{"id": "d1"})
			}
		}
	}()

	// Churn subscribers while the publisher runs. A send landing on a
	// channel mid-close panics, which would fail the test.
	for i := 0; i < 200; i++ {
		sub := bus.Subscribe(EventDownloadCompleted)
		for range sub {
			break
		}
		bus.Unsubscribe(EventDownloadCompleted, sub)
	}

	close(done)
	wg.Wait()
}
