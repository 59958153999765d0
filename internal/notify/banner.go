package notify

import "time"

// Banner is the single visible notification. A newer message replaces the
// current one and restarts its timer.
type Banner struct {
	Timeout time.Duration

	text    string
	expires time.Time
}

// Show replaces the banner with msg.
func (b *Banner) Show(msg Message) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBannerTimeout
	}
	b.text = msg.Text
	b.expires = msg.At.Add(timeout)
}

// Dismiss hides the banner immediately.
func (b *Banner) Dismiss() {
	b.text = ""
	b.expires = time.Time{}
}

// Text returns the banner text, or "" once it has expired at now.
func (b *Banner) Text(now time.Time) string {
	if b.text == "" || !now.Before(b.expires) {
		return ""
	}
	return b.text
}

// Expired reports whether a shown banner has passed its expiry at now.
func (b *Banner) Expired(now time.Time) bool {
	return b.text != "" && !now.Before(b.expires)
}
