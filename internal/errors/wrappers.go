package errors

import "fmt"

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	message := fmt.Sprintf("failed to parse %s", item)
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, message, cause),
		Input:     item,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// FileSystemError creates a file system error
func FileSystemError(operation, path, message string) *BaseError {
	fullMessage := fmt.Sprintf("failed to %s file '%s': %s", operation, path, message)
	return New(FileSystemErrorCode, fullMessage).
		WithContext("operation", operation).
		WithContext("path", path)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// NotFoundError creates an error for a lookup of an absent name
func NotFoundError(what, name string) *BaseError {
	return Newf(NotFoundErrorCode, "%s '%s' not found", what, name).
		WithContext(what, name)
}

// IsCode reports whether err, or any error it wraps, carries the given code
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if me, ok := err.(MirrorError); ok {
			if me.ErrorCode() == code {
				return true
			}
			if multi, ok := me.(*MultipleErrors); ok {
				return multi.HasCode(code)
			}
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
