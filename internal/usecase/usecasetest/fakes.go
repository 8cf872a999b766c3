// Package usecasetest holds in-memory repositories used by usecase tests.
package usecasetest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

// Users is an in-memory user.Repository.
type Users struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]user.User
	Locks int
	Err   error
}

func NewUsers(users ...user.User) *Users {
	u := &Users{byID: make(map[uuid.UUID]user.User)}
	for _, x := range users {
		u.byID[x.ID] = x
	}
	return u
}

func (f *Users) Put(u user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *Users) Get(id uuid.UUID) user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *Users) CreateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for _, x := range f.byID {
		if x.Username == u.Username {
			return user.ErrUsernameAlreadyExists
		}
		if x.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *Users) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *Users) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (f *Users) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *Users) UpdateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	cur.FirstName, cur.LastName, cur.Bio = u.FirstName, u.LastName, u.Bio
	cur.ProfilePicture, cur.Location = u.ProfilePicture, u.Location
	cur.Skills, cur.LearningInterests = u.Skills, u.LearningInterests
	f.byID[u.ID] = cur
	return nil
}

func (f *Users) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.LastLogin = time.Now()
	f.byID[id] = u
	return nil
}

func (f *Users) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = false
	f.byID[id] = u
	return nil
}

func (f *Users) Search(_ context.Context, flt user.SearchFilter) ([]user.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.User
	for _, u := range f.byID {
		if !u.IsActive {
			continue
		}
		if flt.Location != "" && !strings.Contains(strings.ToLower(u.Location), strings.ToLower(flt.Location)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating.Average > out[j].Rating.Average })
	total := len(out)
	return page(out, flt.Limit, flt.Offset), total, nil
}

func (f *Users) Suggest(_ context.Context, q string, limit int) ([]user.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]user.Summary, 0)
	for _, u := range f.byID {
		if u.IsActive && strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, user.Summary{ID: u.ID, Username: u.Username})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Users) Stats(_ context.Context, id uuid.UUID) (user.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.Stats{}, user.ErrNotFound
	}
	return user.Stats{AverageRating: u.Rating.Average, TotalRatings: u.Rating.Count}, nil
}

func (f *Users) LockForRatingUpdate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return user.ErrNotFound
	}
	f.Locks++
	return nil
}

func (f *Users) UpdateRating(_ context.Context, id uuid.UUID, r user.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Rating = r
	f.byID[id] = u
	return nil
}

// Skills is an in-memory skill.Repository.
type Skills struct {
	mu   sync.Mutex
	byID map[uuid.UUID]skill.Listing
}

func NewSkills(listings ...skill.Listing) *Skills {
	s := &Skills{byID: make(map[uuid.UUID]skill.Listing)}
	for _, l := range listings {
		s.byID[l.ID] = l
	}
	return s
}

func (f *Skills) Get(id uuid.UUID) skill.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *Skills) Create(_ context.Context, l skill.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.IsActive = true
	f.byID[l.ID] = l
	return nil
}

func (f *Skills) GetByID(_ context.Context, id uuid.UUID) (skill.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok {
		return skill.Listing{}, skill.ErrNotFound
	}
	l.Interests = append([]skill.Interest(nil), l.Interests...)
	return l, nil
}

func (f *Skills) Update(_ context.Context, l skill.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[l.ID]
	if !ok || !cur.IsActive {
		return skill.ErrNotFound
	}
	l.Interests, l.Views, l.IsActive = cur.Interests, cur.Views, cur.IsActive
	f.byID[l.ID] = l
	return nil
}

func (f *Skills) Deactivate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok || !l.IsActive {
		return skill.ErrNotFound
	}
	l.IsActive = false
	f.byID[id] = l
	return nil
}

func (f *Skills) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[id]
	if !ok || !l.IsActive {
		return 0, skill.ErrNotFound
	}
	l.Views++
	f.byID[id] = l
	return l.Views, nil
}

func (f *Skills) List(_ context.Context, flt skill.ListFilter) ([]skill.Listing, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []skill.Listing
	for _, l := range f.byID {
		if !l.IsActive {
			continue
		}
		if flt.Category != "" && flt.Category != l.Category {
			continue
		}
		if flt.SkillType != "" && flt.SkillType != l.SkillType {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return page(out, flt.Limit, flt.Offset), total, nil
}

func (f *Skills) ListByProvider(_ context.Context, providerID uuid.UUID, skillType string) ([]skill.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]skill.Listing, 0)
	for _, l := range f.byID {
		if l.IsActive && l.ProviderID == providerID && (skillType == "" || l.SkillType == skillType) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *Skills) AddInterest(_ context.Context, in skill.Interest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[in.SkillID]
	if !ok {
		return skill.ErrNotFound
	}
	if _, dup := l.InterestByUser(in.UserID); dup {
		return skill.ErrDuplicateInterest
	}
	l.Interests = append(l.Interests, in)
	f.byID[l.ID] = l
	return nil
}

func (f *Skills) UpdateInterestStatus(_ context.Context, in skill.Interest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[in.SkillID]
	if !ok {
		return skill.ErrNotFound
	}
	for i, cur := range l.Interests {
		if cur.ID != in.ID {
			continue
		}
		if !cur.Status.CanTransitionTo(in.Status) {
			return skill.ErrInvalidTransition
		}
		l.Interests[i].Status = in.Status
		l.Interests[i].UpdatedAt = in.UpdatedAt
		f.byID[l.ID] = l
		return nil
	}
	return skill.ErrInterestNotFound
}

// Messages is an in-memory message.Repository.
type Messages struct {
	mu   sync.Mutex
	byID map[uuid.UUID]message.Message
}

func NewMessages(msgs ...message.Message) *Messages {
	m := &Messages{byID: make(map[uuid.UUID]message.Message)}
	for _, x := range msgs {
		m.byID[x.ID] = x
	}
	return m
}

func (f *Messages) Get(id uuid.UUID) message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *Messages) Create(_ context.Context, m message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[m.ID] = m
	return nil
}

func (f *Messages) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return message.Message{}, message.ErrNotFound
	}
	return m, nil
}

func (f *Messages) UpdateContent(_ context.Context, m message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[m.ID]
	if !ok || cur.IsDeleted {
		return message.ErrNotFound
	}
	cur.Content, cur.IsEdited, cur.EditedAt = m.Content, m.IsEdited, m.EditedAt
	f.byID[m.ID] = cur
	return nil
}

func (f *Messages) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[id]
	if !ok || cur.IsDeleted {
		return message.ErrNotFound
	}
	cur.IsDeleted = true
	cur.DeletedAt = &at
	f.byID[id] = cur
	return nil
}

func (f *Messages) ListConversation(_ context.Context, conversation string, limit, offset int) ([]message.Message, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []message.Message
	for _, m := range f.byID {
		if m.Conversation == conversation && !m.IsDeleted {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return page(out, limit, offset), total, nil
}

func (f *Messages) MarkConversationRead(_ context.Context, conversation string, userID uuid.UUID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, m := range f.byID {
		if m.Conversation != conversation || m.RecipientID != userID || m.IsDeleted || m.IsReadBy(userID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, message.ReadReceipt{UserID: userID, ReadAt: at})
		f.byID[id] = m
		n++
	}
	return n, nil
}

func (f *Messages) Conversations(_ context.Context, userID uuid.UUID) ([]message.ConversationSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := make(map[string]message.ConversationSummary)
	for _, m := range f.byID {
		if m.IsDeleted || (m.SenderID != userID && m.RecipientID != userID) {
			continue
		}
		cs := latest[m.Conversation]
		if m.RecipientID == userID && !m.IsReadBy(userID) {
			cs.UnreadCount++
		}
		if cs.LastAt.IsZero() || m.CreatedAt.After(cs.LastAt) {
			other := m.SenderID
			if other == userID {
				other = m.RecipientID
			}
			cs.ConversationID = m.Conversation
			cs.Participant = user.Summary{ID: other}
			cs.LastContent, cs.LastAt, cs.LastIsOwn = m.Content, m.CreatedAt, m.SenderID == userID
		}
		latest[m.Conversation] = cs
	}
	out := make([]message.ConversationSummary, 0, len(latest))
	for _, cs := range latest {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

func (f *Messages) UpsertReaction(_ context.Context, messageID uuid.UUID, r message.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[messageID]
	if !ok {
		return message.ErrNotFound
	}
	kept := m.Reactions[:0:0]
	for _, x := range m.Reactions {
		if x.UserID != r.UserID {
			kept = append(kept, x)
		}
	}
	m.Reactions = append(kept, r)
	f.byID[messageID] = m
	return nil
}

func (f *Messages) DeleteReaction(_ context.Context, messageID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[messageID]
	if !ok {
		return message.ErrNotFound
	}
	kept := m.Reactions[:0:0]
	for _, x := range m.Reactions {
		if x.UserID != userID {
			kept = append(kept, x)
		}
	}
	m.Reactions = kept
	f.byID[messageID] = m
	return nil
}

// Reviews is an in-memory review.Repository.
type Reviews struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]review.Review
	helpful map[uuid.UUID]map[uuid.UUID]bool
	reports map[uuid.UUID]map[uuid.UUID]string
}

func NewReviews(reviews ...review.Review) *Reviews {
	r := &Reviews{
		byID:    make(map[uuid.UUID]review.Review),
		helpful: make(map[uuid.UUID]map[uuid.UUID]bool),
		reports: make(map[uuid.UUID]map[uuid.UUID]string),
	}
	for _, x := range reviews {
		r.byID[x.ID] = x
	}
	return r
}

func (f *Reviews) Create(_ context.Context, rv review.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.ReviewerID == rv.ReviewerID && x.RevieweeID == rv.RevieweeID && x.SkillID == rv.SkillID {
			return review.ErrDuplicate
		}
	}
	rv.IsVisible = true
	f.byID[rv.ID] = rv
	return nil
}

func (f *Reviews) GetByID(_ context.Context, id uuid.UUID) (review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rv, ok := f.byID[id]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	rv.HelpfulCount = len(f.helpful[id])
	rv.ReportCount = len(f.reports[id])
	return rv, nil
}

func (f *Reviews) Exists(_ context.Context, reviewerID, revieweeID, skillID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.ReviewerID == reviewerID && x.RevieweeID == revieweeID && x.SkillID == skillID {
			return true, nil
		}
	}
	return false, nil
}

func (f *Reviews) Update(_ context.Context, rv review.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[rv.ID]
	if !ok {
		return review.ErrNotFound
	}
	cur.Rating, cur.Comment = rv.Rating, rv.Comment
	f.byID[rv.ID] = cur
	return nil
}

func (f *Reviews) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return review.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *Reviews) SetVisibility(_ context.Context, id uuid.UUID, visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[id]
	if !ok {
		return review.ErrNotFound
	}
	cur.IsVisible = visible
	f.byID[id] = cur
	return nil
}

func (f *Reviews) VisibleRatings(_ context.Context, revieweeID uuid.UUID) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0)
	for _, x := range f.byID {
		if x.RevieweeID == revieweeID && x.IsVisible {
			out = append(out, x.Rating)
		}
	}
	return out, nil
}

func (f *Reviews) ListForUser(_ context.Context, revieweeID uuid.UUID, limit, offset int) ([]review.Review, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []review.Review
	for _, x := range f.byID {
		if x.RevieweeID == revieweeID && x.IsVisible {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return page(out, limit, offset), total, nil
}

func (f *Reviews) ListForSkill(_ context.Context, skillID uuid.UUID) ([]review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]review.Review, 0)
	for _, x := range f.byID {
		if x.SkillID == skillID && x.IsVisible {
			out = append(out, x)
		}
	}
	return out, nil
}

func (f *Reviews) ToggleHelpful(_ context.Context, reviewID, userID uuid.UUID) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[reviewID]; !ok {
		return false, 0, review.ErrNotFound
	}
	votes := f.helpful[reviewID]
	if votes == nil {
		votes = make(map[uuid.UUID]bool)
		f.helpful[reviewID] = votes
	}
	if votes[userID] {
		delete(votes, userID)
		return false, len(votes), nil
	}
	votes[userID] = true
	return true, len(votes), nil
}

func (f *Reviews) AddReport(_ context.Context, reviewID, userID uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[reviewID]; !ok {
		return review.ErrNotFound
	}
	reps := f.reports[reviewID]
	if reps == nil {
		reps = make(map[uuid.UUID]string)
		f.reports[reviewID] = reps
	}
	if _, dup := reps[userID]; dup {
		return review.ErrAlreadyReported
	}
	reps[userID] = reason
	return nil
}

// TxManager runs fn inline and serializes calls, standing in for row locks.
type TxManager struct {
	mu    sync.Mutex
	Calls int
}

func (t *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls++
	return fn(ctx)
}

// Cache is an in-memory JSON cache with glob-suffix pattern deletes.
type Cache struct {
	mu       sync.Mutex
	data     map[string][]byte
	Gets     int
	Hits     int
	Patterns []string
}

func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (c *Cache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(b, out)
}

func (c *Cache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *Cache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Patterns = append(c.Patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
