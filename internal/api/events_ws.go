/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	ws "nhooyr.io/websocket"

	"github.com/streamsphere/hub/internal/events"
	"github.com/streamsphere/hub/internal/telemetry"
)

// streamableEvents lists the event types a client may subscribe to.
// Session and backup audit events stay internal.
var streamableEvents = []events.EventType{
	events.EventContentCreated,
	events.EventContentUpdated,
	events.EventContentDeleted,
	events.EventContentImported,
	events.EventGenreCreated,
	events.EventGenreUpdated,
	events.EventGenreDeleted,
	events.EventCategoryCreated,
	events.EventCategoryUpdated,
	events.EventCategoryDeleted,
	events.EventViewRecorded,
	events.EventDownloadAdded,
	events.EventDownloadCompleted,
	events.EventDownloadRemoved,
	events.EventSettingsUpdated,
	events.EventSettingsImported,
}

type eventFrame struct {
	Type    events.EventType `json:"type"`
	Payload events.Payload   `json:"payload"`
}

// parseEventTypes filters the ?types= query against the streamable set.
// An empty or missing filter subscribes to everything.
func parseEventTypes(raw string) []events.EventType {
	if raw == "" {
		return streamableEvents
	}
	wanted := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		wanted[strings.TrimSpace(part)] = true
	}
	var out []events.EventType
	for _, et := range streamableEvents {
		if wanted[string(et)] {
			out = append(out, et)
		}
	}
	if len(out) == 0 {
		return streamableEvents
	}
	return out
}

// handleEvents streams store mutation events to the client over WebSocket.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(ws.StatusInternalError, "server error")

	telemetry.APIWebSocketConnections.Inc()
	defer telemetry.APIWebSocketConnections.Dec()

	ctx := r.Context()
	types := parseEventTypes(r.URL.Query().Get("types"))

	frames := make(chan eventFrame, 32)
	done := make(chan struct{})
	var wg sync.WaitGroup

	for _, et := range types {
		sub := a.bus.Subscribe(et)
		wg.Add(1)
		go func(et events.EventType, sub events.Subscriber) {
			defer wg.Done()
			defer a.bus.Unsubscribe(et, sub)
			for {
				select {
				case <-done:
					return
				case payload, ok := <-sub:
					if !ok {
						return
					}
					select {
					case frames <- eventFrame{Type: et, Payload: payload}:
					default:
					}
				}
			}
		}(et, sub)
	}
	defer func() {
		close(done)
		wg.Wait()
	}()

	ping := time.NewTicker(15 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(ws.StatusNormalClosure, "client disconnected")
			return
		case <-ping.C:
			if err := conn.Ping(ctx); err != nil {
				a.logger.Debug().Err(err).Msg("websocket ping failed, client gone")
				return
			}
		case frame := <-frames:
			raw, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, ws.MessageText, raw); err != nil {
				a.logger.Debug().Err(err).Msg("websocket write failed, client gone")
				return
			}
		}
	}
}
