// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing core model objects (insights, sources, agent
// inputs). They are not intended for production usage.
package testutil
