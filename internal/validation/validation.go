// Package validation binds request input and checks it against the
// go-playground/validator tags declared on the model types.
//
// Tag violations become a 400 errs.HTTPError whose Errors list has one
// entry per failing JSON field.
package validation
