package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase/usecasetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	users   *usecasetest.Users
	reviews *usecasetest.Reviews
	tx      *usecasetest.TxManager
	tutor   user.User
	mod     user.User
	listing skill.Listing
}

func newFixture() *fixture {
	tutor := user.User{ID: uuid.New(), Username: "tutor", Role: user.RoleUser, IsActive: true}
	mod := user.User{ID: uuid.New(), Username: "mod", Role: user.RoleModerator, IsActive: true}
	listing := skill.Listing{ID: uuid.New(), ProviderID: tutor.ID, Title: "Piano", IsActive: true}

	f := &fixture{
		users:   usecasetest.NewUsers(tutor, mod),
		reviews: usecasetest.NewReviews(),
		tx:      &usecasetest.TxManager{},
		tutor:   tutor,
		mod:     mod,
		listing: listing,
	}
	f.svc = NewService(f.reviews, f.users, usecasetest.NewSkills(listing), f.tx)
	return f
}

func (f *fixture) input(rating int) CreateInput {
	return CreateInput{
		RevieweeID:  f.tutor.ID,
		SkillID:     f.listing.ID,
		Rating:      rating,
		Comment:     "Great session",
		SessionType: "Teaching",
		SessionDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) create(t *testing.T, rating int) review.Review {
	t.Helper()
	rv, err := f.svc.Create(context.Background(), uuid.New(), f.input(rating))
	require.NoError(t, err)
	return rv
}

func TestCreate_UpdatesAggregate(t *testing.T) {
	f := newFixture()
	f.create(t, 4)
	f.create(t, 5)
	f.create(t, 3)

	got := f.users.Get(f.tutor.ID).Rating
	assert.Equal(t, user.Rating{Average: 4.0, Count: 3}, got)
	assert.Equal(t, 3, f.tx.Calls)
	assert.Equal(t, 3, f.users.Locks)
}

func TestCreate_Rules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reviewer := uuid.New()

	in := f.input(5)
	in.Comment = ""
	_, err := f.svc.Create(ctx, reviewer, in)
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Create(ctx, reviewer, f.input(6))
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Create(ctx, f.tutor.ID, f.input(5))
	assert.ErrorIs(t, err, review.ErrSelfReview)

	in = f.input(5)
	in.SkillID = uuid.New()
	_, err = f.svc.Create(ctx, reviewer, in)
	assert.ErrorIs(t, err, skill.ErrNotFound)

	in = f.input(5)
	in.RevieweeID = f.mod.ID
	_, err = f.svc.Create(ctx, reviewer, in)
	assert.ErrorIs(t, err, validate.ErrInvalid)

	_, err = f.svc.Create(ctx, reviewer, f.input(5))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, reviewer, f.input(4))
	assert.ErrorIs(t, err, review.ErrDuplicate)
}

func TestUpdateAndDelete_Recompute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reviewer := uuid.New()
	rv, err := f.svc.Create(ctx, reviewer, f.input(4))
	require.NoError(t, err)
	f.create(t, 5)

	five := 5
	_, err = f.svc.Update(ctx, uuid.New(), rv.ID, UpdateInput{Rating: &five})
	assert.ErrorIs(t, err, ErrNotReviewer)

	_, err = f.svc.Update(ctx, reviewer, rv.ID, UpdateInput{Rating: &five})
	require.NoError(t, err)
	assert.Equal(t, user.Rating{Average: 5.0, Count: 2}, f.users.Get(f.tutor.ID).Rating)

	assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New(), rv.ID), ErrNotReviewer)
	require.NoError(t, f.svc.Delete(ctx, reviewer, rv.ID))
	assert.Equal(t, user.Rating{Average: 5.0, Count: 1}, f.users.Get(f.tutor.ID).Rating)
}

func TestSetVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	low := f.create(t, 1)
	f.create(t, 5)

	_, err := f.svc.SetVisibility(ctx, f.tutor.ID, low.ID, false)
	assert.ErrorIs(t, err, ErrNotModerator)

	_, err = f.svc.SetVisibility(ctx, f.mod.ID, low.ID, false)
	require.NoError(t, err)
	assert.Equal(t, user.Rating{Average: 5.0, Count: 1}, f.users.Get(f.tutor.ID).Rating)

	_, err = f.svc.SetVisibility(ctx, f.mod.ID, low.ID, true)
	require.NoError(t, err)
	assert.Equal(t, user.Rating{Average: 3.0, Count: 2}, f.users.Get(f.tutor.ID).Rating)
}

func TestConcurrentCreates_AggregateMatchesReviews(t *testing.T) {
	f := newFixture()
	ratings := []int{1, 2, 3, 4, 5, 5, 4, 3, 2, 1, 5, 5}

	var wg sync.WaitGroup
	for _, r := range ratings {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), uuid.New(), f.input(r))
			assert.NoError(t, err)
		}(r)
	}
	wg.Wait()

	assert.Equal(t, review.Summarize(ratings), f.users.Get(f.tutor.ID).Rating)
}

func TestHelpfulAndReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	rv := f.create(t, 4)
	voter := uuid.New()

	res, err := f.svc.ToggleHelpful(ctx, voter, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, HelpfulResult{IsHelpful: true, HelpfulCount: 1}, res)

	res, err = f.svc.ToggleHelpful(ctx, voter, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, HelpfulResult{IsHelpful: false, HelpfulCount: 0}, res)

	require.NoError(t, f.svc.Report(ctx, voter, rv.ID, "spam"))
	assert.ErrorIs(t, f.svc.Report(ctx, voter, rv.ID, "spam again"), review.ErrAlreadyReported)
	assert.ErrorIs(t, f.svc.Report(ctx, voter, uuid.New(), ""), review.ErrNotFound)
}

func TestListForUser_Paginates(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		f.create(t, 4)
	}
	res, err := f.svc.ListForUser(context.Background(), f.tutor.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Reviews, 1)
}
