// Package model contains the shared interfaces and data structures.
//
// This package should contain interfaces shared by several packages, with
// the objective of separating unrelated pieces of code and making unit
// testing easier, and the data types flowing between them. It should not
// contain logic, unless such logic is strictly related to the data types.
//
// The following list summarizes the content of this package:
//
// - backend.go: the [Backend] capability and the [Request] it executes;
//
// - doh.go: the [DoHProvider] capability used to discover alternative routes;
//
// - http.go: the [HTTPClient] abstraction;
//
// - kvstore.go: generic definition of a key-value store;
//
// - logger.go: generic definition of an apex/log compatible logger;
//
// - modes.go: the mode signals gating alternative routing;
//
// - result.go: the [Result] of invoking a [Backend].
package model
