// Package model holds the data shapes shared between layers: the
// persisted User entity and the typed request/response payloads of the
// user endpoints.
package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every request type. validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = newValidator()

// newValidator reports fields by the name clients send: the json tag,
// or the path param name for fields that are not part of the body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			if param := fld.Tag.Get("param"); param != "" {
				return param
			}
			return fld.Name
		}
		return name
	})
	return v
}
