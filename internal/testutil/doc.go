// Package testutil holds helpers shared by the test suites: model builders,
// HCL fixtures and a concurrency-safe log buffer. It must not import packages
// above the model layer, so that their own tests can use it.
package testutil
