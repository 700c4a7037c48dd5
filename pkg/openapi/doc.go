// Package openapi builds form definitions from OpenAPI 3 documents. The
// request body schema of an operation becomes a form.Document: properties map
// to controls, enums to selects, password formats to password controls and
// schema constraints to validation rules. Nested objects become groups whose
// controls use bracketed names ("address[city]").
//
// Documents are parsed and validated with kin-openapi.
package openapi
