// Package embeddings turns mood notes into sentence-embedding vectors.
//
// Two providers are supported:
//
//   - fastembed: a local ONNX model run through fastembed-go. This is the
//     default and uses sentence-transformers/all-MiniLM-L6-v2. It requires a
//     cgo build and the ONNX runtime (ONNX_PATH).
//   - tei: a HuggingFace Text Embeddings Inference server reached over HTTP.
//
// NewProvider selects one from configuration. Every provider records
// generation duration, batch size and errors through OpenTelemetry.
package embeddings
