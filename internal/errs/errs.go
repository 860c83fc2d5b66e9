// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for forms or HTTPError for API responses)
// so the client receives meaningful, actionable, and consistent
// error messages.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level validation errors for forms.
//   - Provide a closed set of domain error kinds (see Kind).
//   - Play nicely with Go's standard errors package.
package errs
