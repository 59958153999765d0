package quote

import "errors"

// Error taxonomy. Callers wrap these with goerr and test with errors.Is.
var (
	// ErrValidation marks a quote with an empty text or category.
	ErrValidation = errors.New("validation error")
	// ErrTransport marks a network failure talking to the remote source.
	ErrTransport = errors.New("transport error")
	// ErrFormat marks a remote payload that could not be decoded as a list of posts.
	ErrFormat = errors.New("format error")
	// ErrImportDecode marks an import payload that is not a list of quotes.
	ErrImportDecode = errors.New("import decode error")
	// ErrPersistence marks a failed write to the durable store.
	ErrPersistence = errors.New("persistence write error")
)
