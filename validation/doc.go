// Package validation combines fact-check results, source credibility and bias
// analysis into one signed ValidationReport with a recommendation.
//
// Reliability is a weighted sum of three components:
//
//	facts   = mean(confidence * statusWeight) over fact-checks
//	sources = mean credibility over attached sources
//	tone    = 1 - overall bias score
//
// Components without data (no claims, no sources) are dropped and the
// remaining weights renormalized. The report body is serialized canonically,
// hashed and signed through the signing collaborator.
package validation
