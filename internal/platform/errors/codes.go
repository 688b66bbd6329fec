// Package errors provides structured error handling for the string table tools.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Language catalog errors
	CodeInvalidLanguage Code = "INVALID_LANGUAGE"

	// Authoring source errors
	CodeSourceNotFound     Code = "SOURCE_NOT_FOUND"
	CodeSourceParseFailure Code = "SOURCE_PARSE_FAILURE"

	// Table errors
	CodeInvalidTable        Code = "INVALID_TABLE"
	CodeDuplicateKey        Code = "DUPLICATE_KEY"
	CodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	CodeInvalidNameTemplate Code = "INVALID_NAME_TEMPLATE"

	// Encoding errors
	CodeFieldTooLarge Code = "FIELD_TOO_LARGE"

	// Key generation errors
	CodeKeySpaceExhausted Code = "KEY_SPACE_EXHAUSTED"
)
