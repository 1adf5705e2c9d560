package streaming

import (
	"strings"
	"testing"
)

func testClient(h *Hub, id string, buf int, events ...EventType) *Client {
	subs := make(map[EventType]bool, len(events))
	for _, e := range events {
		subs[e] = true
	}
	return &Client{
		id:            id,
		hub:           h,
		send:          make(chan []byte, buf),
		subscriptions: subs,
	}
}

func TestBroadcastEventDelivery(t *testing.T) {
	h := NewHub()
	subscribed := testClient(h, "a", 1, EventTypeRefresh)
	other := testClient(h, "b", 1, EventTypeStatus)
	h.clients[subscribed] = true
	h.clients[other] = true

	h.broadcastEvent(Event{
		Type: EventTypeRefresh,
		Data: map[string]interface{}{"date": "2026-03-14"},
	})

	select {
	case msg := <-subscribed.send:
		if !strings.Contains(string(msg), `"refresh"`) {
			t.Errorf("Unexpected payload: %s", msg)
		}
	default:
		t.Fatal("Expected the subscribed client to receive the event")
	}

	select {
	case msg := <-other.send:
		t.Errorf("Unsubscribed client received %s", msg)
	default:
	}
}

func TestBroadcastEventDropsClientWithFullBuffer(t *testing.T) {
	h := NewHub()
	stuck := testClient(h, "stuck", 0, EventTypeRefresh)
	h.clients[stuck] = true

	h.broadcastEvent(Event{Type: EventTypeRefresh})

	if got := h.ClientCount(); got != 0 {
		t.Fatalf("Expected the stuck client to be dropped, %d remain", got)
	}
	if _, open := <-stuck.send; open {
		t.Error("Expected the dropped client's send channel to be closed")
	}
}

func TestHandleMessageSubscriptions(t *testing.T) {
	h := NewHub()
	c := testClient(h, "c", 1, EventTypeRefresh, EventTypeHeartbeat)

	c.handleMessage([]byte(`{"type":"unsubscribe","events":["heartbeat"]}`))
	if c.isSubscribed(EventTypeHeartbeat) {
		t.Error("Expected heartbeat to be unsubscribed")
	}
	if !c.isSubscribed(EventTypeRefresh) {
		t.Error("Expected refresh subscription to survive")
	}

	c.handleMessage([]byte(`{"type":"subscribe","events":["error"]}`))
	if !c.isSubscribed(EventTypeError) {
		t.Error("Expected error subscription after subscribe message")
	}
}
