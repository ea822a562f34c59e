package notification

import (
	"context"
	"time"

	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/models"
)

// CategoryIncentive pins the inbox type filter to the incentive type set.
const CategoryIncentive = "incentive"

const defaultPerPage = 10

// Inbox returns one filtered page of the joined notification hierarchy for
// a single user. System-only types and expired notifications never appear;
// incentive types appear only under the "incentive" category. Uses the
// two-query pagination pattern: a count with the same predicate as the page
// query, then next_offset when more rows remain.
func (s *DefaultNotificationService) Inbox(ctx context.Context, q InboxQuery) (*InboxPage, error) {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}

	f := notificationRepo.InboxFilter{
		UserID:       q.UserID,
		Status:       q.Status,
		ExcludeTypes: append([]int{}, models.SystemOnlyTypes...),
		Now:          time.Now().UTC(),
	}

	if q.Category == CategoryIncentive {
		// The category overrides any explicit type filter.
		f.Types = append([]int{}, models.IncentiveTypes...)
	} else {
		f.ExcludeTypes = append(f.ExcludeTypes, models.IncentiveTypes...)
		if q.Type != nil {
			f.Types = []int{*q.Type}
		}
	}

	total, err := s.Repo.CountInbox(ctx, f)
	if err != nil {
		return nil, StorageError{Err: err}
	}

	items, err := s.Repo.ListInbox(ctx, f, q.Offset, q.PerPage)
	if err != nil {
		return nil, StorageError{Err: err}
	}

	page := &InboxPage{
		TotalCount:    total,
		Notifications: items,
	}
	if q.Offset+q.PerPage < total {
		next := q.Offset + q.PerPage
		page.NextOffset = &next
	}
	return page, nil
}
