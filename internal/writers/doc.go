// Package writers turns search hits into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text/TSV/JSONL).
//   - The pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
