package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_DispatchesToCurrentSubscribers(t *testing.T) {
	bus := NewBus()
	var a, b []string
	unsubA := bus.Subscribe(func(m Message) { a = append(a, m.Text) })
	bus.Subscribe(func(m Message) { b = append(b, m.Text) })

	bus.Publish("first")
	unsubA()
	unsubA()
	bus.Publish("second")

	assert.Equal(t, []string{"first"}, a)
	assert.Equal(t, []string{"first", "second"}, b)
}

func TestBus_NoSubscribersIsFine(t *testing.T) {
	NewBus().Publish("nobody listens")
	var nilBus *Bus
	nilBus.Publish("nil bus")
}

func TestBanner_Expires(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b := Banner{Timeout: 4 * time.Second}
	b.Show(Message{Text: "3 new quotes synced from server", At: start})

	assert.Equal(t, "3 new quotes synced from server", b.Text(start.Add(time.Second)))
	assert.False(t, b.Expired(start.Add(3*time.Second)))
	assert.True(t, b.Expired(start.Add(4*time.Second)))
	assert.Equal(t, "", b.Text(start.Add(4*time.Second)))

	b.Show(Message{Text: "again", At: start})
	b.Dismiss()
	assert.Equal(t, "", b.Text(start))
	assert.False(t, b.Expired(start.Add(time.Hour)))
}

func TestBanner_DefaultTimeout(t *testing.T) {
	start := time.Now()
	var b Banner
	b.Show(Message{Text: "hi", At: start})
	assert.Equal(t, "hi", b.Text(start.Add(DefaultBannerTimeout-time.Millisecond)))
	assert.Equal(t, "", b.Text(start.Add(DefaultBannerTimeout)))
}
