// Package server implements the MCP (Model Context Protocol) server for
// color blob detection.
//
// The server wraps one detection.Detector and exposes it, plus a few image
// helpers for picking a reference color, as MCP tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never corrupt the protocol stream.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image helpers:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get the color at a pixel
//   - image_dominant_hues: Suggest reference colors
//
// Blob detection:
//   - blob_select_color: Set the reference color (hex, B/G/R values, or a picked point)
//   - blob_status: Report the detector state and parameters
//   - blob_process: Find blobs of the selected color in an image
//   - blob_mask: Return the cleaned mask from the last processed image
//   - blob_spectrum: Return the hue-range preview strip
//   - blob_overlay: Draw the detected contours over the image
//
// Video:
//   - video_info: Probe a video file
//   - blob_process_video: Run the detector over sampled video frames
//
// # State
//
// The detector is shared by every call. blob_select_color arms it and the
// selection persists until the next blob_select_color. Before a color is
// selected, blob_process returns no contours.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv, err := server.New(cfg, logger, version)
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
package server
