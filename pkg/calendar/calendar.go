package calendar

import (
	"context"
	"fmt"
	"net/mail"

	"karya-backend/config"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleScheduler creates Google Calendar events with Meet conferencing on
// the organizer's own calendar, using their stored OAuth credential.
type GoogleScheduler struct {
	oauth *oauth2.Config
}

func NewGoogleScheduler(cfg *config.Config) *GoogleScheduler {
	return &GoogleScheduler{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		},
	}
}

func (s *GoogleScheduler) ScheduleMeeting(ctx context.Context, credential *oauth2.Token, req domain.MeetingRequest) (*domain.MeetingResult, error) {
	if credential == nil || credential.RefreshToken == "" {
		return nil, apperror.Credential("calendar account is not connected")
	}
	if _, err := mail.ParseAddress(req.Organizer); err != nil {
		return nil, apperror.BadRequest("invalid organizer email")
	}
	if _, err := mail.ParseAddress(req.Attendee); err != nil {
		return nil, apperror.BadRequest("invalid attendee email")
	}

	// TokenSource refreshes transparently when the access token expired.
	source := s.oauth.TokenSource(ctx, credential)
	fresh, err := source.Token()
	if err != nil {
		return nil, apperror.Credential("calendar credential has expired; reconnect the calendar account")
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(fresh)))
	if err != nil {
		return nil, apperror.ExternalProvider("calendar service unavailable", err)
	}

	event := &calendar.Event{
		Summary:     req.Subject,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime.Format("2006-01-02T15:04:05-07:00"),
		},
		End: &calendar.EventDateTime{
			DateTime: req.StartTime.Add(req.Duration).Format("2006-01-02T15:04:05-07:00"),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: req.Organizer, Organizer: true},
			{Email: req.Attendee},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := svc.Events.Insert("primary", event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 401 || gerr.Code == 403) {
			return nil, apperror.Credential("calendar access was revoked; reconnect the calendar account")
		}
		return nil, apperror.ExternalProvider("failed to create calendar event", err)
	}

	meetLink := created.HangoutLink
	if meetLink == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				meetLink = ep.Uri
				break
			}
		}
	}
	if meetLink == "" {
		return nil, apperror.ExternalProvider("calendar event created without a meeting link", fmt.Errorf("event %s has no conference entry point", created.Id))
	}

	result := &domain.MeetingResult{
		MeetLink: meetLink,
		EventID:  created.Id,
	}
	if fresh.AccessToken != credential.AccessToken {
		result.RefreshedCredential = fresh
	}
	return result, nil
}
