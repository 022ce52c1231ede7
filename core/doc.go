// Package core provides the foundational domain types, collaborator interfaces
// and tagged errors shared by every component of the consensus engine:
//
//   - Insights, knowledge sources and extracted claims
//   - Fact-check results, bias profiles and validation reports
//   - Consensus, synthesis and coordination results
//   - Vote sessions, delegations and agent registry entries
//   - Small interfaces for the external collaborators (search, signing,
//     persistence and content addressing)
//
// The package keeps algorithms out of scope. Scoring, aggregation and state
// machines live in their own packages and exchange the values defined here.
package core
