// Package detection finds regions of one selected color in frames and reports
// their outlines.
//
// The work is split into small pure stages that the Detector chains together:
//
//  1. Range: BuildHueRange turns the reference color and a Spread into the
//     HSV box (or pair of boxes) that counts as a match
//  2. Mask: BuildMask thresholds an HSV frame against the range
//  3. Cleanup: CleanMask opens then closes the mask with a square kernel
//  4. Contours: FindContours traces the outer border of every region and
//     compresses straight runs; PruneContours drops the small ones
//
// Contour.Shape measures extent and circularity of an outline and classifies
// it as a rectangle, a circle or an irregular blob.
//
// Spectrum renders the matched hue band as a preview image. The Detector
// rebuilds it only when the selected color or spread changes.
//
// # Hue Wrap
//
// Hue is stored in 8 bits over the full circle, so 0 and 255 are neighbors. A
// band centered near red therefore crosses the wrap point; BuildHueRange
// returns a SplitRange for it, whose two segments together cover exactly the
// circular band. Saturation and value never wrap.
//
// # Coordinate System
//
// Contour points use the standard image convention: origin at the top-left,
// X rightward, Y downward. Points are pixel centers, so contour areas are
// measured between centers and a solid w x h block has area (w-1)*(h-1).
//
// # Limitations
//
// Only outer borders are reported. A region sitting inside the hole of
// another region is not reported, and holes never produce contours of their
// own.
package detection
