// Package tokenizer provides driven.Tokenizer implementations.
//
// Tiktoken is the real sub-word tokenizer and is used for every size
// decision in the chunking engine. Estimator is a character heuristic that
// exists only as a fallback when no encoding can be loaded; it reports
// Estimated() == true so callers can flag its use.
package tokenizer
