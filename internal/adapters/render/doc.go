// Package render turns diagram sources and raw images into upload-ready
// assets. Diagram tools (d2, mmdc, docker) and the AVIF encoder (avifenc) are
// external programs driven through ports.CommandRunner; framing and
// flattening happen in process.
package render
