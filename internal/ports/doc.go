// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [DocumentStore]: Reads and writes post entry files
//   - [Materializer]: Turns a located region into an uploaded asset URL
//   - [Renderer]: Renders diagram source to PNG
//   - [Encoder]: Encodes PNG into the upload format
//   - [Fetcher]: Downloads remote resources
//   - [SourceResolver]: Finds the bytes behind an image reference
//   - [Uploader]: Stores assets in the bucket
//   - [CommandRunner]: Runs external tools
//   - [ReportRepository]: Persists run reports
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters under internal/adapters implement them with the file system,
// external CLIs, HTTP, S3 and zerolog.
package ports
