package core

// # Error Codes Reference
//
// Run-level errors are mapped to short messages with a code operators can
// grep the logs for. Codes are grouped by category:
//
//	DB001 - Connection refused          Patterns: "connection refused"
//	DB002 - Connection reset            Patterns: "connection reset"
//	DB003 - Timeout                     Patterns: "timeout", "context deadline exceeded"
//	DB004 - Deadlock                    Patterns: "deadlock"
//	DB005 - Foreign key                 Patterns: "violates foreign key"
//	DB006 - Duplicate key               Patterns: "duplicate key"
//
//	FILE001 - Source not found          Sentinel: ErrSourceNotFound
//	FILE002 - Empty file                Sentinel: ErrEmptySource
//	FILE003 - Malformed CSV             Patterns: "parse error", "bare \" in non-quoted-field"
//
//	RUN001 - Run in progress            Sentinel: ErrRunInProgress
//	RUN002 - Truncate declined          Sentinel: ErrTruncateDeclined
//	RUN003 - Unknown entity             Sentinel: ErrUnknownEntity
//	RUN004 - Queue full                 Sentinel: ErrQueueFull
//	RUN005 - Cancelled                  Sentinel: context.Canceled
//
//	ERR000 - Unknown error
//
// Sentinels are checked with errors.Is before any pattern, so a wrapped
// sentinel always wins over text that happens to contain a pattern.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides an operator-facing explanation of a failed run.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorSentinels = []errorSentinel{
	{ErrSourceNotFound, UserMessage{
		Message: "Export file not found",
		Action:  "Check --file or place the Notion export in the data directory",
		Code:    "FILE001",
	}},
	{ErrEmptySource, UserMessage{
		Message: "Export file has no header row",
		Action:  "Re-export the database from Notion as CSV",
		Code:    "FILE002",
	}},
	{ErrRunInProgress, UserMessage{
		Message: "Another import is running for this owner",
		Action:  "Wait for it to finish and try again",
		Code:    "RUN001",
	}},
	{ErrTruncateDeclined, UserMessage{
		Message: "Existing rows were not deleted",
		Action:  "Confirm the prompt, pass --force, or use --truncate=false",
		Code:    "RUN002",
	}},
	{ErrUnknownEntity, UserMessage{
		Message: "Unknown entity",
		Action:  "Use one of: projects, tasks",
		Code:    "RUN003",
	}},
	{ErrQueueFull, UserMessage{
		Message: "Too many imports are waiting",
		Action:  "Please wait a moment and try again",
		Code:    "RUN004",
	}},
	{ErrInvalidOption, UserMessage{
		Message: "Invalid import options",
		Action:  "Check the flags or query parameters of the request",
		Code:    "RUN006",
	}},
	{context.Canceled, UserMessage{
		Message: "Import was cancelled",
		Action:  "Batches written before the cancel are kept; re-run to finish",
		Code:    "RUN005",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Operation timed out",
		Action:  "Raise STORE_CALL_TIMEOUT or IMPORT_RUN_TIMEOUT and re-run",
		Code:    "DB003",
	}},
}

// errorPatterns are matched case-insensitively; the first match wins.
var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Check DATABASE_URL and that the server is up",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB002",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Raise STORE_CALL_TIMEOUT or IMPORT_RUN_TIMEOUT and re-run",
		Code:    "DB003",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"violates foreign key", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Import projects before tasks",
		Code:    "DB005",
	}},
	{"duplicate key", UserMessage{
		Message: "A record already exists",
		Action:  "Re-run with truncation enabled",
		Code:    "DB006",
	}},
	{"parse error", UserMessage{
		Message: "Export file is not valid CSV",
		Action:  "Re-export the database from Notion as CSV",
		Code:    "FILE003",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the run_id",
	Code:    "ERR000",
}

// MapError converts a run error to an operator-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range errorSentinels {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
