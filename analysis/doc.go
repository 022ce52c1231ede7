// Package analysis extracts verifiable claims, keywords and lexical bias
// indicators from free text. Every function is pure and safe for concurrent use.
package analysis
