package imageproxy

import "errors"

// ErrImageUnavailable wraps every failure of Externalize. Callers that only
// need to know whether to fall back to a placeholder check this sentinel.
var ErrImageUnavailable = errors.New("image unavailable")

// Policy errors.
var (
	ErrUnsafeScheme  = errors.New("only http and https image URLs are allowed")
	ErrMissingHost   = errors.New("image URL has no host")
	ErrUnsafeAddress = errors.New("image URL targets a private or reserved address")
	ErrMetadataHost  = errors.New("image URL targets a cloud metadata endpoint")
)

// Fetch and upload errors.
var (
	ErrFetch            = errors.New("image fetch failed")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrNotImage         = errors.New("content is not an image")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrUpload           = errors.New("image upload failed")
)
