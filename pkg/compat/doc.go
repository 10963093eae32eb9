// Package compat resolves Hadoop version differences: which features a
// given runtime version supports and how jobconf keys are spelled for it.
//
// Every table in this package is built once at init and never modified, so
// all functions are safe for concurrent use.
package compat
