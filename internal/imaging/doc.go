// Package imaging provides the frame, color and drawing primitives the blob
// detector is built on.
//
// Frames are dense 8-bit pixel grids in one of two color spaces: the display
// space, with channels in blue, green, red[, alpha] order, and an 8-bit
// full-range HSV space where hue runs 0..255 around the circle. ToHSV,
// FromHSV, ConvertToHSV and ConvertToBGR move between them.
//
// The package also loads and caches images from disk, picks reference colors
// from them, crops and reduces frames, measures contour polygons, and renders
// annotated overlays returned to clients as base64 PNG.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Frames are plain values;
// callers that share one across goroutines must synchronize writes.
//
// # Color Representation
//
// Picked colors are reported as a ColorSample:
//   - Hex: "#RRGGBB" (alpha excluded)
//   - BGRA: display channel order, 8 bits each
//   - HSV: the 8-bit full-range triple used for matching
//
// # Error Handling
//
// Frames and colors with the wrong channel count or color space fail with
// ErrInvalidFormat; frames with a zero dimension fail with ErrEmptyFrame.
// Both are matched with errors.Is.
package imaging
