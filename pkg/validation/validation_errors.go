package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Application fields
	"JobID":       "Job",
	"CoverLetter": "Cover Letter",
	"ResumeURL":   "Resume URL",

	// Interview fields
	"ApplicationID": "Application",
	"ScheduledTime": "Scheduled Time",
	"Reason":        "Cancellation Reason",
	"Outcome":       "Interview Outcome",

	// Project and task fields
	"InterviewID": "Interview",
	"Title":       "Title",
	"Description": "Description",
	"Duration":    "Duration",
	"Deadline":    "Deadline",
	"Payment":     "Payment Amount",
	"Status":      "Status",
	"Files":       "Files",

	// Payment fields
	"ProjectID": "Project",
	"Amount":    "Amount",

	// Review fields
	"PaymentID":      "Payment",
	"ReviewedUserID": "Reviewed User",
	"Rating":         "Rating",
	"Comment":        "Comment",

	// Job posting fields
	"Company":       "Company",
	"WorkplaceType": "Workplace Type",
	"Location":      "Location",
	"JobType":       "Job Type",
	"Category":      "Category",
	"SubCategory":   "Sub-category",

	// Profile fields
	"KhaltiID": "Wallet ID",
	"Email":    "Email",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "valid_name":
		return fmt.Sprintf("%s contains invalid characters", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", label)
	case "future_time":
		return fmt.Sprintf("%s must be in the future", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
