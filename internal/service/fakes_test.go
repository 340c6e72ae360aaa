package service

import (
	"context"
	"sort"
	"strings"
	"time"

	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/entity"
)

// Фейки репозиториев держат данные в памяти и повторяют контрактное
// поведение Postgres-реализаций, включая проверки под блокировкой.

type fakeEventRepo struct {
	events    map[int64]*entity.Event
	locations []entity.Location
	nextID    int64
	nextLocID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*entity.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.nextID++
	event.ID = r.nextID
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetByIDAndInitiator(_ context.Context, eventID, userID int64) (*entity.Event, error) {
	event, ok := r.events[eventID]
	if !ok || event.Initiator.ID != userID {
		return nil, entity.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetByInitiator(_ context.Context, userID int64, limit, offset int) ([]*entity.Event, error) {
	var events []*entity.Event
	for _, event := range r.sorted() {
		if event.Initiator.ID == userID {
			copied := *event
			events = append(events, &copied)
		}
	}
	return paginate(events, limit, offset), nil
}

func (r *fakeEventRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Event, error) {
	var events []*entity.Event
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) SearchAdmin(_ context.Context, filter *repository.AdminEventsFilter) ([]*entity.Event, error) {
	var events []*entity.Event
	for _, event := range r.sorted() {
		if len(filter.Users) > 0 && !containsInt64(filter.Users, event.Initiator.ID) {
			continue
		}
		if len(filter.States) > 0 && !containsString(filter.States, string(event.State)) {
			continue
		}
		if len(filter.Categories) > 0 && !containsInt64(filter.Categories, event.Category.ID) {
			continue
		}
		if filter.RangeStart != nil && event.EventDate.Before(*filter.RangeStart) {
			continue
		}
		if filter.RangeEnd != nil && event.EventDate.After(*filter.RangeEnd) {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	return paginate(events, filter.Limit, filter.Offset), nil
}

func (r *fakeEventRepo) SearchPublic(_ context.Context, filter *repository.PublicEventsFilter) ([]*entity.Event, error) {
	var events []*entity.Event
	for _, event := range r.sorted() {
		if event.State != entity.EventStatePublished {
			continue
		}
		if filter.Text != "" {
			text := strings.ToLower(filter.Text)
			if !strings.Contains(strings.ToLower(event.Annotation), text) &&
				!strings.Contains(strings.ToLower(event.Description), text) {
				continue
			}
		}
		if len(filter.Categories) > 0 && !containsInt64(filter.Categories, event.Category.ID) {
			continue
		}
		if filter.Paid != nil && event.Paid != *filter.Paid {
			continue
		}
		if !event.EventDate.After(filter.RangeStart) {
			continue
		}
		if filter.RangeEnd != nil && !event.EventDate.Before(*filter.RangeEnd) {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Time.Before(events[j].EventDate.Time)
	})
	return paginate(events, filter.Limit, filter.Offset), nil
}

func (r *fakeEventRepo) GetOrCreateLocation(_ context.Context, location entity.Location) (entity.Location, error) {
	for _, existing := range r.locations {
		if existing.Lat == location.Lat && existing.Lon == location.Lon {
			return existing, nil
		}
	}
	r.nextLocID++
	location.ID = r.nextLocID
	r.locations = append(r.locations, location)
	return location, nil
}

func (r *fakeEventRepo) ExistsByCategory(_ context.Context, categoryID int64) (bool, error) {
	for _, event := range r.events {
		if event.Category.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) sorted() []*entity.Event {
	events := make([]*entity.Event, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

type fakeRequestRepo struct {
	requests map[int64]*entity.ParticipationRequest
	events   *fakeEventRepo
	nextID   int64
}

func newFakeRequestRepo(events *fakeEventRepo) *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[int64]*entity.ParticipationRequest{}, events: events}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entity.ParticipationRequest) error {
	event, ok := r.events.events[request.EventID]
	if !ok {
		return entity.ErrEventNotFound
	}
	for _, existing := range r.requests {
		if existing.RequesterID == request.RequesterID &&
			existing.EventID == request.EventID &&
			existing.Status != entity.RequestStatusCanceled {
			return entity.ErrRequestExists
		}
	}
	if event.ParticipantLimit > 0 {
		confirmed, _ := r.CountConfirmed(ctx, request.EventID)
		if confirmed >= int64(event.ParticipantLimit) {
			return entity.ErrParticipantLimitReached
		}
	}
	r.nextID++
	request.ID = r.nextID
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) GetByIDAndRequester(_ context.Context, requestID, userID int64) (*entity.ParticipationRequest, error) {
	request, ok := r.requests[requestID]
	if !ok || request.RequesterID != userID {
		return nil, entity.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, status entity.RequestStatus) error {
	request, ok := r.requests[id]
	if !ok {
		return entity.ErrRequestNotFound
	}
	request.Status = status
	return nil
}

func (r *fakeRequestRepo) GetByRequester(_ context.Context, userID int64) ([]*entity.ParticipationRequest, error) {
	var requests []*entity.ParticipationRequest
	for _, request := range r.sorted() {
		if request.RequesterID == userID {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) GetByEvent(_ context.Context, eventID int64) ([]*entity.ParticipationRequest, error) {
	var requests []*entity.ParticipationRequest
	for _, request := range r.sorted() {
		if request.EventID == eventID {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) GetPendingByEventAndIDs(_ context.Context, eventID int64, ids []int64) ([]*entity.ParticipationRequest, error) {
	var requests []*entity.ParticipationRequest
	for _, request := range r.sorted() {
		if request.EventID == eventID &&
			request.Status == entity.RequestStatusPending &&
			containsInt64(ids, request.ID) {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) ApplyStatusUpdate(ctx context.Context, eventID int64, participantLimit int, confirmedIDs, rejectedIDs []int64) error {
	if participantLimit > 0 {
		confirmed, _ := r.CountConfirmed(ctx, eventID)
		if confirmed+int64(len(confirmedIDs)) > int64(participantLimit) {
			return entity.ErrParticipantLimitReached
		}
	}
	for _, id := range confirmedIDs {
		if request, ok := r.requests[id]; ok {
			request.Status = entity.RequestStatusConfirmed
		}
	}
	for _, id := range rejectedIDs {
		if request, ok := r.requests[id]; ok {
			request.Status = entity.RequestStatusRejected
		}
	}
	return nil
}

func (r *fakeRequestRepo) CountConfirmed(_ context.Context, eventID int64) (int64, error) {
	var count int64
	for _, request := range r.requests {
		if request.EventID == eventID && request.Status == entity.RequestStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := map[int64]int64{}
	for _, id := range eventIDs {
		count, _ := r.CountConfirmed(ctx, id)
		if count > 0 {
			counts[id] = count
		}
	}
	return counts, nil
}

func (r *fakeRequestRepo) sorted() []*entity.ParticipationRequest {
	requests := make([]*entity.ParticipationRequest, 0, len(r.requests))
	for _, request := range r.requests {
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests
}

type fakeCategoryRepo struct {
	categories map[int64]*entity.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int64]*entity.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return entity.ErrCategoryExists
		}
	}
	r.nextID++
	category.ID = r.nextID
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return entity.ErrCategoryNotFound
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return entity.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, entity.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) GetAll(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	categories := make([]*entity.Category, 0, len(r.categories))
	for _, category := range r.categories {
		copied := *category
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return paginate(categories, limit, offset), nil
}

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return entity.ErrUserExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context, ids []int64, limit, offset int) ([]*entity.User, error) {
	var users []*entity.User
	for _, user := range r.users {
		if len(ids) > 0 && !containsInt64(ids, user.ID) {
			continue
		}
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return paginate(users, limit, offset), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type fakeCommentRepo struct {
	comments map[int64]*entity.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[int64]*entity.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *entity.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return entity.ErrCommentNotFound
	}
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*entity.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, entity.ErrCommentNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) GetByEvent(_ context.Context, eventID int64, limit, offset int) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	for _, comment := range r.sorted() {
		if comment.EventID == eventID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	return paginate(comments, limit, offset), nil
}

func (r *fakeCommentRepo) GetByAuthor(_ context.Context, userID int64, limit, offset int) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	for _, comment := range r.sorted() {
		if comment.Author.ID == userID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	return paginate(comments, limit, offset), nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return entity.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) sorted() []*entity.Comment {
	comments := make([]*entity.Comment, 0, len(r.comments))
	for _, comment := range r.comments {
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments
}

type fakeCompilationRepo struct {
	compilations map[int64]*entity.Compilation
	eventIDs     map[int64][]int64
	nextID       int64
}

func newFakeCompilationRepo() *fakeCompilationRepo {
	return &fakeCompilationRepo{
		compilations: map[int64]*entity.Compilation{},
		eventIDs:     map[int64][]int64{},
	}
}

func (r *fakeCompilationRepo) Create(_ context.Context, compilation *entity.Compilation, eventIDs []int64) error {
	r.nextID++
	compilation.ID = r.nextID
	copied := *compilation
	r.compilations[compilation.ID] = &copied
	r.eventIDs[compilation.ID] = append([]int64{}, eventIDs...)
	return nil
}

func (r *fakeCompilationRepo) Update(_ context.Context, id int64, title *string, pinned *bool, eventIDs []int64, replaceEvents bool) error {
	compilation, ok := r.compilations[id]
	if !ok {
		return entity.ErrCompilationNotFound
	}
	if title != nil {
		compilation.Title = *title
	}
	if pinned != nil {
		compilation.Pinned = *pinned
	}
	if replaceEvents {
		r.eventIDs[id] = append([]int64{}, eventIDs...)
	}
	return nil
}

func (r *fakeCompilationRepo) GetByID(_ context.Context, id int64) (*entity.Compilation, error) {
	compilation, ok := r.compilations[id]
	if !ok {
		return nil, entity.ErrCompilationNotFound
	}
	copied := *compilation
	return &copied, nil
}

func (r *fakeCompilationRepo) GetAll(_ context.Context, pinned *bool, limit, offset int) ([]*entity.Compilation, error) {
	var compilations []*entity.Compilation
	for _, compilation := range r.compilations {
		if pinned != nil && compilation.Pinned != *pinned {
			continue
		}
		copied := *compilation
		compilations = append(compilations, &copied)
	}
	sort.Slice(compilations, func(i, j int) bool { return compilations[i].ID < compilations[j].ID })
	return paginate(compilations, limit, offset), nil
}

func (r *fakeCompilationRepo) GetEventIDs(_ context.Context, compilationID int64) ([]int64, error) {
	return append([]int64{}, r.eventIDs[compilationID]...), nil
}

func (r *fakeCompilationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.compilations[id]; !ok {
		return entity.ErrCompilationNotFound
	}
	delete(r.compilations, id)
	delete(r.eventIDs, id)
	return nil
}

// fakeStatsClient записывает обращения и отдает заранее заданную
// статистику.
type fakeStatsClient struct {
	savedHits []*entity.EndpointHit
	stats     []*entity.ViewStats
	saveErr   error
	statsErr  error

	getStatsCalls int
	lastStart     time.Time
	lastEnd       time.Time
	lastURIs      []string
	lastUnique    bool
}

func (c *fakeStatsClient) SaveHit(_ context.Context, hit *entity.EndpointHit) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.savedHits = append(c.savedHits, hit)
	return nil
}

func (c *fakeStatsClient) GetStats(_ context.Context, start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error) {
	c.getStatsCalls++
	c.lastStart = start
	c.lastEnd = end
	c.lastURIs = uris
	c.lastUnique = unique
	if c.statsErr != nil {
		return nil, c.statsErr
	}
	return c.stats, nil
}

type fakeHitRepo struct {
	hits   []*entity.EndpointHit
	nextID int64
}

func (r *fakeHitRepo) Save(_ context.Context, hit *entity.EndpointHit) error {
	r.nextID++
	hit.ID = r.nextID
	copied := *hit
	r.hits = append(r.hits, &copied)
	return nil
}

func (r *fakeHitRepo) GetBetween(_ context.Context, start, end time.Time, uris []string) ([]*entity.EndpointHit, error) {
	var hits []*entity.EndpointHit
	for _, hit := range r.hits {
		if hit.Timestamp.Before(start) || hit.Timestamp.After(end) {
			continue
		}
		if len(uris) > 0 && !containsString(uris, hit.URI) {
			continue
		}
		copied := *hit
		hits = append(hits, &copied)
	}
	return hits, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsInt64(values []int64, target int64) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
