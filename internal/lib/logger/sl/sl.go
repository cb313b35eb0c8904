package sl

import (
	"log/slog"
)

// Err returns an attribute with the error message under the "error" key.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
