package entity

import "errors"

var (
	// Not found errors
	ErrEventNotFound       = errors.New("event not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrRequestNotFound     = errors.New("participation request not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCompilationNotFound = errors.New("compilation not found")

	// Validation errors
	ErrEventDateTooSoon     = errors.New("event date must be at least 2 hours from now")
	ErrInvalidDateRange     = errors.New("range start must be before range end")
	ErrUnknownSort          = errors.New("unknown sort parameter")
	ErrUnknownStateAction   = errors.New("unknown state action")
	ErrNotInitiator         = errors.New("user is not the event initiator")
	ErrCommentEventMismatch = errors.New("comment belongs to another event")
	ErrNotCommentAuthor     = errors.New("only the author can modify the comment")
	ErrCommentNotPublished  = errors.New("comments are available only for published events")
	ErrStatsResponse        = errors.New("failed to parse stats response")
	ErrHitTimestampInFuture = errors.New("hit timestamp must not be in the future")
	ErrEmptyEventsForStats  = errors.New("stats window start was not found")

	// Conflict errors
	ErrRequestExists           = errors.New("participation request already exists")
	ErrOwnEventRequest         = errors.New("initiator can't request participation in own event")
	ErrEventNotPublished       = errors.New("participation is possible only in a published event")
	ErrParticipantLimitReached = errors.New("participant limit has been reached")
	ErrCategoryExists          = errors.New("category name already exists")
	ErrCategoryInUse           = errors.New("category is referenced by events")
	ErrUserExists              = errors.New("user email already exists")

	// Forbidden errors
	ErrPublishedEventUpdate = errors.New("published events can't be updated")
	ErrPublishNotPending    = errors.New("event can't be published because it's not pending")
	ErrRejectPublished      = errors.New("event can't be rejected because it's already published")

	// Infrastructure errors
	ErrHitNotSaved      = errors.New("failed to record endpoint hit")
	ErrStatsUnavailable = errors.New("stats service is unavailable")
)

var notFoundErrors = []error{
	ErrEventNotFound, ErrCategoryNotFound, ErrUserNotFound,
	ErrRequestNotFound, ErrCommentNotFound, ErrCompilationNotFound,
	ErrEmptyEventsForStats,
}

var validationErrors = []error{
	ErrEventDateTooSoon, ErrInvalidDateRange, ErrUnknownSort,
	ErrUnknownStateAction, ErrNotInitiator, ErrCommentEventMismatch, ErrNotCommentAuthor,
	ErrCommentNotPublished, ErrStatsResponse, ErrHitTimestampInFuture,
}

var conflictErrors = []error{
	ErrRequestExists, ErrOwnEventRequest, ErrEventNotPublished,
	ErrParticipantLimitReached, ErrCategoryExists, ErrCategoryInUse,
	ErrUserExists,
}

var forbiddenErrors = []error{
	ErrPublishedEventUpdate, ErrPublishNotPending, ErrRejectPublished,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool   { return isAny(err, notFoundErrors) }
func IsValidation(err error) bool { return isAny(err, validationErrors) }
func IsConflict(err error) bool   { return isAny(err, conflictErrors) }
func IsForbidden(err error) bool  { return isAny(err, forbiddenErrors) }
