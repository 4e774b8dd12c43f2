// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures (FieldErrors for
// form input, HTTPError for API responses) so the client receives
// meaningful, actionable, and consistent error messages.
package errs
