package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/usecase"
	ucreview "skillbridge/internal/usecase/review"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewUsecase struct {
	usecase.ReviewUsecase

	create     func(reviewer uuid.UUID, in ucreview.CreateInput) (review.Review, error)
	listUser   func(userID uuid.UUID, page, limit int) (ucreview.ListResult, error)
	del        func(requester, id uuid.UUID) error
	helpful    func(userID, id uuid.UUID) (ucreview.HelpfulResult, error)
	visibility func(moderator, id uuid.UUID, visible bool) (review.Review, error)
}

func (f *fakeReviewUsecase) Create(_ context.Context, reviewer uuid.UUID, in ucreview.CreateInput) (review.Review, error) {
	return f.create(reviewer, in)
}

func (f *fakeReviewUsecase) ListForUser(_ context.Context, userID uuid.UUID, page, limit int) (ucreview.ListResult, error) {
	return f.listUser(userID, page, limit)
}

func (f *fakeReviewUsecase) Delete(_ context.Context, requester, id uuid.UUID) error {
	return f.del(requester, id)
}

func (f *fakeReviewUsecase) ToggleHelpful(_ context.Context, userID, id uuid.UUID) (ucreview.HelpfulResult, error) {
	return f.helpful(userID, id)
}

func (f *fakeReviewUsecase) SetVisibility(_ context.Context, moderator, id uuid.UUID, visible bool) (review.Review, error) {
	return f.visibility(moderator, id, visible)
}

func reviewApp(uc *fakeReviewUsecase) *fiber.App {
	return newTestApp(func(app *fiber.App, authMw fiber.Handler) {
		NewReviewHandler(uc).RegisterRoutes(app.Group("/api/reviews"), authMw)
	})
}

func authed(t *testing.T, req *http.Request, userID uuid.UUID) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, userID))
	return req
}

func TestReviewHandler_CreateParsesDateOnly(t *testing.T) {
	me, reviewee, skillID := uuid.New(), uuid.New(), uuid.New()
	uc := &fakeReviewUsecase{create: func(reviewer uuid.UUID, in ucreview.CreateInput) (review.Review, error) {
		assert.Equal(t, me, reviewer)
		assert.Equal(t, reviewee, in.RevieweeID)
		assert.Equal(t, skillID, in.SkillID)
		assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), in.SessionDate)
		return review.Review{ID: uuid.New(), ReviewerID: me, RevieweeID: reviewee, SkillID: skillID, Rating: in.Rating, IsVisible: true}, nil
	}}

	req := authed(t, jsonRequest(http.MethodPost, "/api/reviews/", map[string]any{
		"reviewee": reviewee.String(), "skill": skillID.String(), "rating": 5,
		"comment": "Great session", "sessionType": "Teaching", "sessionDate": "2024-03-09",
	}), me)
	resp, env := do(t, reviewApp(uc), req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Review created successfully", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.EqualValues(t, 5, data["rating"])
}

func TestReviewHandler_CreateRejectsMalformedIDs(t *testing.T) {
	uc := &fakeReviewUsecase{}
	req := authed(t, jsonRequest(http.MethodPost, "/api/reviews/", map[string]any{
		"reviewee": "not-a-uuid", "skill": uuid.NewString(), "rating": 4,
	}), uuid.New())

	resp, env := do(t, reviewApp(uc), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid reviewee id", env.Message)
}

func TestReviewHandler_CreateErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{review.ErrSelfReview, http.StatusBadRequest, "Cannot review yourself"},
		{review.ErrDuplicate, http.StatusBadRequest, "You have already reviewed this skill exchange"},
		{skill.ErrNotFound, http.StatusNotFound, "Skill not found"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			uc := &fakeReviewUsecase{create: func(uuid.UUID, ucreview.CreateInput) (review.Review, error) {
				return review.Review{}, tc.err
			}}
			req := authed(t, jsonRequest(http.MethodPost, "/api/reviews/", map[string]any{
				"reviewee": uuid.NewString(), "skill": uuid.NewString(), "rating": 4,
				"comment": "ok", "sessionType": "Learning", "sessionDate": "2024-03-09T10:00:00Z",
			}), uuid.New())
			resp, env := do(t, reviewApp(uc), req)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

func TestReviewHandler_DeleteByOtherUserIsForbidden(t *testing.T) {
	uc := &fakeReviewUsecase{del: func(uuid.UUID, uuid.UUID) error { return ucreview.ErrNotReviewer }}

	req := authed(t, httptest.NewRequest(http.MethodDelete, "/api/reviews/"+uuid.NewString(), nil), uuid.New())
	resp, env := do(t, reviewApp(uc), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to delete this review", env.Message)
}

func TestReviewHandler_InvalidIDParam(t *testing.T) {
	req := authed(t, httptest.NewRequest(http.MethodDelete, "/api/reviews/abc", nil), uuid.New())
	resp, env := do(t, reviewApp(&fakeReviewUsecase{}), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid review id", env.Message)
}

func TestReviewHandler_HelpfulMessages(t *testing.T) {
	helpful := true
	uc := &fakeReviewUsecase{helpful: func(uuid.UUID, uuid.UUID) (ucreview.HelpfulResult, error) {
		res := ucreview.HelpfulResult{IsHelpful: helpful, HelpfulCount: 1}
		if !helpful {
			res.HelpfulCount = 0
		}
		helpful = !helpful
		return res, nil
	}}
	app := reviewApp(uc)
	id := uuid.NewString()
	me := uuid.New()

	_, env := do(t, app, authed(t, httptest.NewRequest(http.MethodPost, "/api/reviews/"+id+"/helpful", nil), me))
	assert.Equal(t, "Marked as helpful", env.Message)
	assert.JSONEq(t, `{"helpfulCount":1,"isHelpful":true}`, string(env.Data))

	_, env = do(t, app, authed(t, httptest.NewRequest(http.MethodPost, "/api/reviews/"+id+"/helpful", nil), me))
	assert.Equal(t, "Helpful vote removed", env.Message)
}

func TestReviewHandler_Visibility(t *testing.T) {
	t.Run("flag required", func(t *testing.T) {
		req := authed(t, jsonRequest(http.MethodPut, "/api/reviews/"+uuid.NewString()+"/visibility", map[string]any{}), uuid.New())
		resp, env := do(t, reviewApp(&fakeReviewUsecase{}), req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "isVisible is required", env.Message)
	})

	t.Run("moderator only", func(t *testing.T) {
		uc := &fakeReviewUsecase{visibility: func(uuid.UUID, uuid.UUID, bool) (review.Review, error) {
			return review.Review{}, ucreview.ErrNotModerator
		}}
		req := authed(t, jsonRequest(http.MethodPut, "/api/reviews/"+uuid.NewString()+"/visibility", map[string]any{"isVisible": false}), uuid.New())
		resp, env := do(t, reviewApp(uc), req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "Moderator access required", env.Message)
	})
}

func TestReviewHandler_ListForUserIsPublicAndPaginated(t *testing.T) {
	target := uuid.New()
	uc := &fakeReviewUsecase{listUser: func(userID uuid.UUID, page, limit int) (ucreview.ListResult, error) {
		assert.Equal(t, target, userID)
		assert.Equal(t, 2, page)
		assert.Equal(t, 5, limit)
		return ucreview.ListResult{Reviews: []review.Review{{ID: uuid.New(), Rating: 4}}, Page: 2, Limit: 5, Total: 6}, nil
	}}

	resp, env := do(t, reviewApp(uc), httptest.NewRequest(http.MethodGet, "/api/reviews/user/"+target.String()+"?page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Reviews    []map[string]any `json:"reviews"`
		Pagination struct {
			Page  int `json:"page"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Reviews, 1)
	assert.Equal(t, 2, data.Pagination.Page)
	assert.Equal(t, 6, data.Pagination.Total)
	assert.Equal(t, 2, data.Pagination.Pages)
}

func TestReviewHandler_BadPageQuery(t *testing.T) {
	resp, env := do(t, reviewApp(&fakeReviewUsecase{}), httptest.NewRequest(http.MethodGet, "/api/reviews/user/"+uuid.NewString()+"?page=x", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid page parameter", env.Message)
}
