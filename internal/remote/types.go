package remote

// Post mirrors one record returned by the remote endpoint. Only Title is
// required; the rest is kept for logging.
type Post struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// pushPayload is the body sent for an outbound push.
type pushPayload struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}
