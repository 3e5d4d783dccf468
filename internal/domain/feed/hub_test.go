package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
)

func TestHubLocalBroadcast(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{Send: make(chan []byte, 8)}
	hub.Register(conn)

	// Register travels through the run loop; wait for it to land.
	deadline := time.Now().Add(time.Second)
	for hub.ConnectionCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b := &booking.Booking{
		ID:              uuid.New(),
		OrderNumber:     "PT-FEED01",
		Status:          booking.StatusConfirmed,
		ProductID:       uuid.New(),
		NumberOfAdults:  2,
		NumberOfDogs:    1,
		TotalAmountPaid: 4500,
		Currency:        "GBP",
	}
	hub.PublishBookingCreated(b)

	select {
	case data := <-conn.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("unmarshal event failed: %v", err)
		}
		if event.Type != EventBookingCreated {
			t.Fatalf("expected booking_created, got %s", event.Type)
		}
		if event.BookingID != b.ID {
			t.Fatalf("expected booking id %s, got %s", b.ID, event.BookingID)
		}
		if event.Adults != 2 || event.Dogs != 1 {
			t.Fatalf("expected counts 2/1, got %d/%d", event.Adults, event.Dogs)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	hub.Unregister(conn)
	deadline = time.Now().Add(time.Second)
	for hub.ConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{Send: make(chan []byte, 1)}
	hub.Register(conn)

	deadline := time.Now().Add(time.Second)
	for hub.ConnectionCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b := &booking.Booking{ID: uuid.New(), Status: booking.StatusConfirmed}
	hub.PublishBookingCreated(b)
	// Second publish hits a full buffer and must not block.
	done := make(chan struct{})
	go func() {
		hub.PublishBookingCancelled(b)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full buffer")
	}
}
