package svgcrop

import "errors"

var (
	// ErrUnsupportedFormat is returned for an output format other than
	// png or jpeg.
	ErrUnsupportedFormat = errors.New("svgcrop: unsupported output format")

	// ErrNoImages is returned when the document embeds no remote images.
	ErrNoImages = errors.New("svgcrop: no images found in svg")

	// ErrDownloadFailed is returned when none of the referenced images
	// could be downloaded.
	ErrDownloadFailed = errors.New("svgcrop: failed to download any images")

	// ErrNoRegions is returned when a run yields zero processed regions.
	// Per-region skips reduce counts silently; an empty run is surfaced.
	ErrNoRegions = errors.New("svgcrop: no regions processed")

	// ErrBadDocument is returned when the submitted SVG cannot be read or
	// parsed. The document is the caller's input, so the failure is theirs.
	ErrBadDocument = errors.New("svgcrop: malformed svg document")
)
