// Package core provides the business logic for study plan maintenance.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. The console prints the message, the code and a suggested action;
// the technical error goes to the log.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid semester: semester must be 1-10
//	VAL002 - Invalid date: date must be YYYY-MM-DD or DD/MM/YYYY
//	VAL003 - Invalid id: plan id must be a whole number
//	VAL004 - No valid subjects: none of the entered subject codes exist
//
// # Reference Errors (REF001-REF099)
//
//	REF001 - Career not found: the career code does not exist
//	REF002 - Plan not found: no plan has the given id
//
// # Database Errors (DB001-DB099)
//
// Matched first by driver error type (MySQL error numbers, PostgreSQL
// SQLSTATE codes), then by message pattern:
//
//	DB001 - Duplicate key        (MySQL 1062, SQLSTATE 23505, "duplicate", "unique constraint")
//	DB002 - Foreign key          (MySQL 1451/1452, SQLSTATE 23503, "foreign key")
//	DB003 - Value too long       (MySQL 1406, SQLSTATE 22001, "too long")
//	DB004 - Connection refused   ("connection refused")
//	DB005 - Connection lost      (MySQL 2006/2013, "connection reset", "bad connection", "broken pipe")
//	DB006 - Timeout              ("timeout", "deadline exceeded")
//	DB007 - Deadlock             (MySQL 1213, SQLSTATE 40P01, "deadlock")
//	DB008 - Table missing        (MySQL 1146, SQLSTATE 42P01, "no such table", "doesn't exist")
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: check the log for the technical error
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by the validators and operations.
// Callers match them with errors.Is.
var (
	ErrInvalidSemester = errors.New("invalid semester")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidPlanID   = errors.New("invalid plan id")
	ErrNoValidSubjects = errors.New("no valid subject codes")
	ErrCareerNotFound  = errors.New("career not found")
	ErrPlanNotFound    = errors.New("plan not found")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this key already exists",
		Action:  "Check the codes you entered",
		Code:    "DB001",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Check the career and subject codes",
		Code:    "DB002",
	}
	msgTooLong = UserMessage{
		Message: "A value is longer than the column allows",
		Action:  "Use the short codes shown in the lists",
		Code:    "DB003",
	}
	msgConnRefused = UserMessage{
		Message: "Unable to connect to database",
		Action:  "Check MYSQL_HOST and MYSQL_PORT and that the server is running",
		Code:    "DB004",
	}
	msgConnLost = UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}
	msgTimeout = UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}
	msgDeadlock = UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}
	msgNoTable = UserMessage{
		Message: "A required table is missing",
		Action:  "Check MYSQL_DB points at the school database",
		Code:    "DB008",
	}
)

// sentinelMessages maps sentinel errors to user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrInvalidSemester, UserMessage{
		Message: "Invalid semester",
		Action:  "Enter a number from 1 to 10",
		Code:    "VAL001",
	}},
	{ErrInvalidDate, UserMessage{
		Message: "Invalid date format",
		Action:  "Use YYYY-MM-DD or DD/MM/YYYY, or leave empty / NULL to clear",
		Code:    "VAL002",
	}},
	{ErrInvalidPlanID, UserMessage{
		Message: "Invalid plan id",
		Action:  "Enter the numeric id shown in the plan list",
		Code:    "VAL003",
	}},
	{ErrNoValidSubjects, UserMessage{
		Message: "None of the subject codes exist",
		Action:  "Enter codes from the subject list, separated by commas",
		Code:    "VAL004",
	}},
	{ErrCareerNotFound, UserMessage{
		Message: "Career not found",
		Action:  "Enter a code from the career list",
		Code:    "REF001",
	}},
	{ErrPlanNotFound, UserMessage{
		Message: "Plan not found",
		Action:  "Enter an id from the plan list",
		Code:    "REF002",
	}},
}

// errorPatterns maps technical error substrings (case-insensitive) to user
// messages. The first matching pattern wins, so specific patterns come first.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"duplicate", msgDuplicate},
	{"unique constraint", msgDuplicate},
	{"foreign key", msgForeignKey},
	{"too long", msgTooLong},
	{"connection refused", msgConnRefused},
	{"connection reset", msgConnLost},
	{"bad connection", msgConnLost},
	{"broken pipe", msgConnLost},
	{"deadline exceeded", msgTimeout},
	{"timeout", msgTimeout},
	{"deadlock", msgDeadlock},
	{"no such table", msgNoTable},
	{"doesn't exist", msgNoTable},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the log",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
// Sentinel errors are matched first, then MySQL and PostgreSQL driver errors
// by number or SQLSTATE, then message patterns. If nothing matches, the
// ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return msgDuplicate
		case 1451, 1452:
			return msgForeignKey
		case 1406:
			return msgTooLong
		case 1213:
			return msgDeadlock
		case 1146:
			return msgNoTable
		case 2006, 2013:
			return msgConnLost
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return msgDuplicate
		case "23503":
			return msgForeignKey
		case "22001":
			return msgTooLong
		case "40P01":
			return msgDeadlock
		case "42P01":
			return msgNoTable
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a known message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// IsValidation reports whether err is an input problem (VAL/REF codes)
// rather than a store failure.
func IsValidation(err error) bool {
	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return true
		}
	}
	return false
}
