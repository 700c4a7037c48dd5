// Package validation checks submitted form values against the rules a form
// collection aggregates.
//
// Rules are pipe separated strings ("required|email|max:120") or lists of
// rule strings, keyed by field name. Every failing rule adds a message
// unless the field carries "bail", which stops it at the first failure.
// Empty values only go through "required" and "accepted", so optional fields
// can still carry format rules.
//
//	v := validation.New()
//	errs := v.Validate(validation.Request{
//	    Data:       values,
//	    Rules:      collection.ValidationRules(),
//	    Messages:   collection.ValidationMessages(),
//	    Attributes: collection.ValidationAttributes(),
//	})
//	if errs.Has() {
//	    // errs.Bag: {"email": ["The E-mail must be a valid email address."]}
//	}
//
// Messages use the placeholders :attribute, :param and :other. Custom
// messages are looked up as "field.rule" first, then "rule".
//
// Built-in rules: required, accepted, string, array, numeric, integer,
// boolean, email, url, min, max, size, between, in, not_in, confirmed, same,
// different, alpha, alpha_num, alpha_dash, regex, nullable, sometimes, bail, gt,
// gte, lt, lte. min, max, size and between compare numbers when the field
// also has numeric or integer, element counts for array, and character
// counts otherwise.
package validation
