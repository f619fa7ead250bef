// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeUnknown       = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002

	// Script generation errors (1100-1199)
	CodeScriptGenFailed     = 1100
	CodeScriptFormatInvalid = 1101
	CodeScriptEmpty         = 1102

	// Narration errors (1200-1299)
	CodeTTSFailed     = 1200
	CodeAudioDecode   = 1201
	CodeAudioConcat   = 1202
	CodeVoiceNotFound = 1203

	// Image generation errors (1300-1399)
	CodeImageGenFailed = 1300
	CodeNoSceneImages  = 1301

	// Assembly errors (1400-1499)
	CodeAssetMissing    = 1400
	CodeAssemblyFailed  = 1401
	CodeEncoderFailed   = 1402
	CodeSubtitleInvalid = 1403

	// Storage errors (1500-1599)
	CodeDBError        = 1500
	CodeFileNotFound   = 1501
	CodeFileWriteError = 1502

	// Search errors (1600-1699)
	CodeSearchFailed = 1600
)

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeUnknown if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "Invalid parameters")
	ErrNotFound      = New(CodeNotFound, "Resource not found")

	// Script generation
	ErrScriptGenFailed     = New(CodeScriptGenFailed, "Script generation failed")
	ErrScriptFormatInvalid = New(CodeScriptFormatInvalid, "Script format invalid")
	ErrScriptEmpty         = New(CodeScriptEmpty, "Script is empty")

	// Narration
	ErrTTSFailed     = New(CodeTTSFailed, "Speech synthesis failed")
	ErrAudioDecode   = New(CodeAudioDecode, "Audio decode failed")
	ErrVoiceNotFound = New(CodeVoiceNotFound, "Voice not found")

	// Image generation
	ErrImageGenFailed = New(CodeImageGenFailed, "Image generation failed")
	ErrNoSceneImages  = New(CodeNoSceneImages, "No scene images available")

	// Assembly
	ErrAssetMissing  = New(CodeAssetMissing, "Required asset missing")
	ErrAssemblyFailed = New(CodeAssemblyFailed, "Video assembly failed")
	ErrEncoderFailed = New(CodeEncoderFailed, "Video encoder failed")

	// Storage
	ErrDBError      = New(CodeDBError, "Database error")
	ErrFileNotFound = New(CodeFileNotFound, "File not found")
)
