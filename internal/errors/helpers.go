package errors

import (
	"errors"
)

// As finds the first *Error in err's chain.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is is errors.Is. Sentinels such as config.ErrNotLoaded match through
// wrapped causes.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode returns err's code, CodeOK for nil and CodeInternal for errors
// that are not an *Error.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta returns the metadata of the first *Error in err's chain.
func GetMeta(err error) map[string]any {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}
	return nil
}

// GetMessage extracts the message from an error without the code prefix.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// IsNotFound and the other Is helpers compare GetCode against one code.
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

func IsResourceExhausted(err error) bool {
	return GetCode(err) == CodeResourceExhausted
}

func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

func IsUnimplemented(err error) bool {
	return GetCode(err) == CodeUnimplemented
}
