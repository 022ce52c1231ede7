// Package knowledge provides knowledge retrieval collaborators.
//
// MemorySearcher is a process-local Searcher over documents registered per
// provider. It is used by the command line tool, the examples and tests; a
// deployment would plug a real Wikipedia, PubMed or news client behind the
// same core.Searcher interface.
package knowledge
