// Package validation checks request input before it reaches the stores.
//
// # Overview
//
// Struct validation is driven by go-playground/validator `validate` tags on the
// request types in pkg/api. Failures are returned as apperrors with
// CodeUnprocessable (422) and a message naming the JSON field.
//
// Credential rules are separate because they map to different statuses:
//
//   - Email format: 422 "Invalid email format"
//   - Password shorter than 8 characters: 400
//   - Password longer than 72 bytes (bcrypt input limit): 400
//
// Emails are normalized (trimmed, lower-cased) before validation, storage and
// lookup, which makes uniqueness case-insensitive.
//
// # Usage
//
//	v := validation.New()
//	if err := v.Struct(&req); err != nil {
//	    return err // 422
//	}
//	email := validation.NormalizeEmail(req.Email)
//	if err := v.Email(email); err != nil { ... }
//	if err := validation.Password(req.Password); err != nil { ... }
package validation
