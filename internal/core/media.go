package core

import (
	"context"
	"fmt"
	"io"

	"scenecore/internal/blob"
)

// MediaService stores avatar and poster payloads in a blob store and stamps
// the resulting keys onto the owning records. Blob writes happen before the
// record update; an orphaned blob from an aborted update is harmless and can
// be collected by key prefix.
type MediaService struct {
	service *Service
	blobs   blob.Store
}

// NewMediaService binds a blob store to the service.
func NewMediaService(service *Service, blobs blob.Store) *MediaService {
	return &MediaService{service: service, blobs: blobs}
}

// Blobs exposes the underlying blob store.
func (m *MediaService) Blobs() blob.Store { return m.blobs }

// AttachUserAvatar stores the avatar payload and stamps its key on the user.
func (m *MediaService) AttachUserAvatar(ctx context.Context, userID string, r io.Reader, contentType string) (User, blob.Info, error) {
	if _, err := m.service.GetUser(userID); err != nil {
		return User{}, blob.Info{}, err
	}
	key := fmt.Sprintf("avatars/%s", userID)
	info, err := m.put(ctx, key, r, contentType, map[string]string{"user_id": userID})
	if err != nil {
		return User{}, blob.Info{}, fmt.Errorf("store avatar: %w", err)
	}
	user, _, err := m.service.UpdateUser(ctx, userID, func(u *User) error {
		u.AvatarKey = &info.Key
		return nil
	})
	return user, info, err
}

// AttachEventPoster stores the poster payload and stamps its key on the event.
func (m *MediaService) AttachEventPoster(ctx context.Context, eventID string, r io.Reader, contentType string) (CalendarEvent, blob.Info, error) {
	if _, err := m.service.GetCalendarEvent(eventID); err != nil {
		return CalendarEvent{}, blob.Info{}, err
	}
	key := fmt.Sprintf("posters/%s", eventID)
	info, err := m.put(ctx, key, r, contentType, map[string]string{"calendar_event_id": eventID})
	if err != nil {
		return CalendarEvent{}, blob.Info{}, fmt.Errorf("store poster: %w", err)
	}
	event, _, err := m.service.UpdateCalendarEvent(ctx, eventID, func(e *CalendarEvent) error {
		e.PosterKey = &info.Key
		return nil
	})
	return event, info, err
}

// put replaces any existing blob under key. Blob stores reject overwrites, so
// re-attachment deletes first.
func (m *MediaService) put(ctx context.Context, key string, r io.Reader, contentType string, metadata map[string]string) (blob.Info, error) {
	if _, err := m.blobs.Delete(ctx, key); err != nil {
		return blob.Info{}, err
	}
	return m.blobs.Put(ctx, key, r, blob.PutOptions{ContentType: contentType, Metadata: metadata})
}

// OpenMedia resolves a stored media key to its metadata and content.
func (m *MediaService) OpenMedia(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	return m.blobs.Get(ctx, key)
}

// MediaURL returns a time-limited URL for a stored media key when the backend
// supports pre-signing.
func (m *MediaService) MediaURL(ctx context.Context, key string) (string, error) {
	return m.blobs.PresignURL(ctx, key, blob.SignedURLOptions{Method: "GET"})
}
