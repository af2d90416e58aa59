// Package ocr defines the text-recognition collaborator used by the receipt
// scan path and its Google Cloud Vision implementation.
package ocr

import "context"

// Engine recognizes plain text in an image supplied as base64 data plus a
// MIME type. Implementations may fail; callers surface a scan error to the
// user and leave the transaction draft untouched.
type Engine interface {
	Recognize(ctx context.Context, base64Image, mimeType string) (string, error)
}
