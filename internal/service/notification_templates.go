package service

import (
	"fmt"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/pkg/lifecycle"
)

type notificationContent struct {
	Title    string
	Message  string
	Priority lifecycle.Priority
}

// statusNotification returns the user-facing text for a status change. ok
// is false for statuses that carry their own notification or none.
func statusNotification(msg dto.StatusChangedMessage) (notificationContent, bool) {
	number := msg.ApplicationNumber
	switch lifecycle.Status(msg.To) {
	case lifecycle.StatusSubmitted:
		return notificationContent{
			Title:    "Application Submitted",
			Message:  fmt.Sprintf("Your application %s has been successfully submitted and is awaiting review.", number),
			Priority: lifecycle.PriorityNormal,
		}, true
	case lifecycle.StatusUnderReview:
		return notificationContent{
			Title:    "Application Under Review",
			Message:  fmt.Sprintf("Your application %s is now under review by our team.", number),
			Priority: lifecycle.PriorityNormal,
		}, true
	case lifecycle.StatusDocumentsRejected:
		return notificationContent{
			Title:    "Document Rejected",
			Message:  fmt.Sprintf("One or more documents for application %s were rejected. Please upload a corrected file.", number),
			Priority: lifecycle.PriorityHigh,
		}, true
	case lifecycle.StatusChangesRequested:
		return notificationContent{
			Title:    "Changes Requested",
			Message:  fmt.Sprintf("Changes were requested on your application %s. Please check the reviewer notes for details.", number),
			Priority: lifecycle.PriorityHigh,
		}, true
	case lifecycle.StatusApproved:
		return notificationContent{
			Title:    "Application Approved",
			Message:  fmt.Sprintf("Congratulations! Your application %s has been approved.", number),
			Priority: lifecycle.PriorityHigh,
		}, true
	case lifecycle.StatusRejected:
		return notificationContent{
			Title:    "Application Rejected",
			Message:  fmt.Sprintf("Your application %s has been rejected. Please check the reviewer notes for details.", number),
			Priority: lifecycle.PriorityHigh,
		}, true
	case lifecycle.StatusCompleted, lifecycle.StatusCertificateIssued:
		return notificationContent{
			Title:    "Application Completed",
			Message:  fmt.Sprintf("Your application %s has been completed. You can now download your certificate.", number),
			Priority: lifecycle.PriorityNormal,
		}, true
	case lifecycle.StatusCancelled:
		return notificationContent{
			Title:    "Application Cancelled",
			Message:  fmt.Sprintf("Your application %s has been cancelled at your request.", number),
			Priority: lifecycle.PriorityNormal,
		}, true
	}
	return notificationContent{}, false
}

func autoCancelReason(missing int, deadline time.Time) string {
	return fmt.Sprintf(
		"Automatic cancellation: Failed to submit all requirements within deadline. Missing %d document(s). Deadline was %s.",
		missing, deadline.Format("2006-01-02"),
	)
}

func autoCancelLogReason(missing int) string {
	return fmt.Sprintf("Failed to submit all requirements within deadline. Missing %d document(s).", missing)
}

func autoCancelNotification(number, purpose string, missing int) notificationContent {
	return notificationContent{
		Title: "🚨 Application Cancelled",
		Message: fmt.Sprintf(
			"Your application #%s for %s has been automatically cancelled due to incomplete requirements. You were missing %d document(s). You may submit a new application.",
			number, purpose, missing,
		),
		Priority: lifecycle.PriorityHigh,
	}
}

func deadlineWarningNotification(number string, days, missing int, priority lifecycle.Priority) notificationContent {
	urgency := "⚠️ WARNING"
	if days == 1 {
		urgency = "🚨 URGENT"
	}
	return notificationContent{
		Title: fmt.Sprintf("%s: Deadline in %d day(s)!", urgency, days),
		Message: fmt.Sprintf(
			"Your application #%s deadline is in %d day(s)! You still have %d missing document(s). Upload them now or your application will be automatically cancelled.",
			number, days, missing,
		),
		Priority: priority,
	}
}
