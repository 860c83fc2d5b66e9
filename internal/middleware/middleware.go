// Package middleware holds the Echo middleware chain and the global
// error handler, the single place that writes error responses.
package middleware
