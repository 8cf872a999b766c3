package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillbridge/internal/domain/user"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase"
	ucuser "skillbridge/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserUsecase struct {
	usecase.UserUsecase

	list        func(p ucuser.ListParams) (ucuser.ListResult, error)
	suggestions func(q string) ([]user.Summary, error)
	profile     func(id uuid.UUID) (ucuser.Profile, error)
	stats       func(id uuid.UUID) (user.Stats, error)
	update      func(id uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
	deactivate  func(id uuid.UUID) error
}

func (f *fakeUserUsecase) List(_ context.Context, p ucuser.ListParams) (ucuser.ListResult, error) {
	return f.list(p)
}

func (f *fakeUserUsecase) Suggestions(_ context.Context, q string) ([]user.Summary, error) {
	return f.suggestions(q)
}

func (f *fakeUserUsecase) Profile(_ context.Context, id uuid.UUID) (ucuser.Profile, error) {
	return f.profile(id)
}

func (f *fakeUserUsecase) Stats(_ context.Context, id uuid.UUID) (user.Stats, error) {
	return f.stats(id)
}

func (f *fakeUserUsecase) UpdateProfile(_ context.Context, id uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	return f.update(id, in)
}

func (f *fakeUserUsecase) Deactivate(_ context.Context, id uuid.UUID) error {
	return f.deactivate(id)
}

func userApp(uc *fakeUserUsecase) *fiber.App {
	return newTestApp(func(app *fiber.App, authMw fiber.Handler) {
		NewUserHandler(uc).RegisterRoutes(app.Group("/api/users"), authMw)
	})
}

func TestUserHandler_ListFiltersAndPagination(t *testing.T) {
	uc := &fakeUserUsecase{list: func(p ucuser.ListParams) (ucuser.ListResult, error) {
		assert.Equal(t, "ada", p.Search)
		assert.Equal(t, "go", p.Skills)
		assert.Equal(t, "Jakarta", p.Location)
		assert.Equal(t, 2, p.Page)
		assert.Equal(t, 5, p.Limit)
		return ucuser.ListResult{
			Users: []user.User{{ID: uuid.New(), Username: "ada", Email: "ada@example.com"}},
			Page:  2,
			Limit: 5,
			Total: 6,
		}, nil
	}}

	resp, env := do(t, userApp(uc), httptest.NewRequest(http.MethodGet, "/api/users?search=ada&skills=go&location=Jakarta&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Users      []map[string]any `json:"users"`
		Pagination map[string]int   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Users, 1)
	assert.NotContains(t, data.Users[0], "email")
	assert.Equal(t, 2, data.Pagination["pages"])
}

func TestUserHandler_BadLimitQuery(t *testing.T) {
	resp, env := do(t, userApp(&fakeUserUsecase{}), httptest.NewRequest(http.MethodGet, "/api/users?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid limit parameter", env.Message)
}

func TestUserHandler_SuggestionsRouteWinsOverProfile(t *testing.T) {
	uc := &fakeUserUsecase{
		suggestions: func(q string) ([]user.Summary, error) {
			assert.Equal(t, "ad", q)
			return []user.Summary{{ID: uuid.New(), Username: "ada"}}, nil
		},
		profile: func(uuid.UUID) (ucuser.Profile, error) {
			t.Error("profile must not handle /search/suggestions")
			return ucuser.Profile{}, nil
		},
	}

	resp, env := do(t, userApp(uc), httptest.NewRequest(http.MethodGet, "/api/users/search/suggestions?q=ad", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data []user.Summary
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "ada", data[0].Username)
}

func TestUserHandler_Profile(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		resp, env := do(t, userApp(&fakeUserUsecase{}), httptest.NewRequest(http.MethodGet, "/api/users/abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid user id", env.Message)
	})

	t.Run("unknown", func(t *testing.T) {
		uc := &fakeUserUsecase{profile: func(uuid.UUID) (ucuser.Profile, error) { return ucuser.Profile{}, user.ErrNotFound }}
		resp, env := do(t, userApp(uc), httptest.NewRequest(http.MethodGet, "/api/users/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "User not found", env.Message)
	})

	t.Run("public view", func(t *testing.T) {
		id := uuid.New()
		uc := &fakeUserUsecase{profile: func(got uuid.UUID) (ucuser.Profile, error) {
			assert.Equal(t, id, got)
			return ucuser.Profile{User: user.User{ID: id, Username: "ada", Email: "ada@example.com"}}, nil
		}}
		resp, env := do(t, userApp(uc), httptest.NewRequest(http.MethodGet, "/api/users/"+id.String(), nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			User    map[string]any   `json:"user"`
			Skills  []map[string]any `json:"skills"`
			Reviews []map[string]any `json:"reviews"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "ada", data.User["username"])
		assert.NotContains(t, data.User, "email")
		assert.NotNil(t, data.Skills)
		assert.NotNil(t, data.Reviews)
	})
}

func TestUserHandler_Stats(t *testing.T) {
	uc := &fakeUserUsecase{stats: func(uuid.UUID) (user.Stats, error) {
		return user.Stats{SkillsOffered: 2, ReviewsReceived: 3, AverageRating: 4.3, TotalRatings: 3}, nil
	}}

	resp, env := do(t, userApp(uc), httptest.NewRequest(http.MethodGet, "/api/users/"+uuid.NewString()+"/stats", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"skillsOffered":2,"skillsSeeking":0,"reviewsReceived":3,"reviewsGiven":0,"averageRating":4.3,"totalRatings":3}`,
		string(env.Data))
}

func TestUserHandler_UpdateMe(t *testing.T) {
	me := uuid.New()

	t.Run("requires auth", func(t *testing.T) {
		resp, _ := do(t, userApp(&fakeUserUsecase{}), jsonRequest(http.MethodPut, "/api/users/me", map[string]string{"bio": "x"}))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("partial update returns private view", func(t *testing.T) {
		uc := &fakeUserUsecase{update: func(id uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
			assert.Equal(t, me, id)
			if assert.NotNil(t, in.Bio) {
				assert.Equal(t, "Mathematician", *in.Bio)
			}
			assert.Nil(t, in.FirstName)
			assert.Nil(t, in.Skills)
			return user.User{ID: me, Username: "ada", Email: "ada@example.com", Bio: *in.Bio}, nil
		}}
		resp, env := do(t, userApp(uc), authed(t, jsonRequest(http.MethodPut, "/api/users/me", map[string]string{"bio": "Mathematician"}), me))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Profile updated successfully", env.Message)

		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "ada@example.com", data["email"])
	})

	t.Run("validation message", func(t *testing.T) {
		uc := &fakeUserUsecase{update: func(uuid.UUID, ucuser.UpdateProfileInput) (user.User, error) {
			return user.User{}, validate.Errorf("Bio cannot exceed 500 characters")
		}}
		resp, env := do(t, userApp(uc), authed(t, jsonRequest(http.MethodPut, "/api/users/me", map[string]string{"bio": "long"}), me))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Bio cannot exceed 500 characters", env.Message)
	})
}

func TestUserHandler_DeactivateMe(t *testing.T) {
	me := uuid.New()
	var called uuid.UUID
	uc := &fakeUserUsecase{deactivate: func(id uuid.UUID) error {
		called = id
		return nil
	}}

	resp, env := do(t, userApp(uc), authed(t, httptest.NewRequest(http.MethodDelete, "/api/users/me", nil), me))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account deactivated successfully", env.Message)
	assert.Equal(t, me, called)
}
