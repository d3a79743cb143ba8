package errs

import "github.com/cockroachdb/errors"

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound           = ErrorKind("Not Found")
	InvalidArgument    = ErrorKind("Invalid Argument")
	Unsupported        = ErrorKind("Unsupported")
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	// MalformedScript is a shape-level rejection while parsing a genesis output.
	// The scripts are simply not a CRC20 genesis.
	MalformedScript = ErrorKind("malformed script")

	// ParameterDecodeFailure is returned when an integer or byte-length decode inside a script fails.
	ParameterDecodeFailure = ErrorKind("parameter decode failure")

	// VerificationMismatch is returned when the covenant hash derived from the extracted
	// parameters disagrees with the hash observed on-chain.
	VerificationMismatch = ErrorKind("covenant verification mismatch")

	// CollaboratorFailure is returned when the indexing service failed or returned malformed data.
	// It must never be reported as "not a token".
	CollaboratorFailure = ErrorKind("collaborator failure")

	// InvalidParameter is a contract violation by the caller, e.g. a public key of the wrong length.
	InvalidParameter = ErrorKind("invalid parameter")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// IsRejection reports whether err means "these scripts are not a token genesis"
// rather than "could not determine".
func IsRejection(err error) bool {
	return errors.IsAny(err, MalformedScript, ParameterDecodeFailure, VerificationMismatch)
}
