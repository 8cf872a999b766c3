package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/validate"
	"skillbridge/internal/usecase"
	ucskill "skillbridge/internal/usecase/skill"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSkillUsecase struct {
	usecase.SkillUsecase

	list     func(p ucskill.ListParams) (ucskill.ListResult, error)
	get      func(id uuid.UUID) (skill.Listing, error)
	create   func(provider uuid.UUID, in ucskill.CreateInput) (skill.Listing, error)
	update   func(requester, id uuid.UUID, in ucskill.UpdateInput) (skill.Listing, error)
	interest func(requester, id uuid.UUID, msg string) (skill.Interest, error)
	status   func(requester, id, interestID uuid.UUID, status string) (skill.Interest, error)
}

func (f *fakeSkillUsecase) List(_ context.Context, p ucskill.ListParams) (ucskill.ListResult, error) {
	return f.list(p)
}

func (f *fakeSkillUsecase) Get(_ context.Context, id uuid.UUID) (skill.Listing, error) {
	return f.get(id)
}

func (f *fakeSkillUsecase) Create(_ context.Context, provider uuid.UUID, in ucskill.CreateInput) (skill.Listing, error) {
	return f.create(provider, in)
}

func (f *fakeSkillUsecase) Update(_ context.Context, requester, id uuid.UUID, in ucskill.UpdateInput) (skill.Listing, error) {
	return f.update(requester, id, in)
}

func (f *fakeSkillUsecase) ExpressInterest(_ context.Context, requester, id uuid.UUID, msg string) (skill.Interest, error) {
	return f.interest(requester, id, msg)
}

func (f *fakeSkillUsecase) UpdateInterestStatus(_ context.Context, requester, id, interestID uuid.UUID, status string) (skill.Interest, error) {
	return f.status(requester, id, interestID, status)
}

func skillApp(uc *fakeSkillUsecase) *fiber.App {
	return newTestApp(func(app *fiber.App, authMw fiber.Handler) {
		NewSkillHandler(uc).RegisterRoutes(app.Group("/api/skills"), authMw)
	})
}

func TestSkillHandler_ListPassesFilters(t *testing.T) {
	uc := &fakeSkillUsecase{list: func(p ucskill.ListParams) (ucskill.ListResult, error) {
		assert.Equal(t, "Technology", p.Category)
		assert.Equal(t, "Offering", p.SkillType)
		assert.Equal(t, "go", p.Search)
		assert.Equal(t, 1, p.Page)
		return ucskill.ListResult{Skills: []skill.Listing{{ID: uuid.New(), Title: "Go"}}, Page: 1, Limit: 12, Total: 1}, nil
	}}

	resp, env := do(t, skillApp(uc), httptest.NewRequest(http.MethodGet, "/api/skills?category=Technology&skillType=Offering&search=go", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Skills     []map[string]any `json:"skills"`
		Pagination map[string]int   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Skills, 1)
	assert.Equal(t, "Go", data.Skills[0]["title"])
	assert.Equal(t, 1, data.Pagination["pages"])
}

func TestSkillHandler_GetUnknownIs404(t *testing.T) {
	uc := &fakeSkillUsecase{get: func(uuid.UUID) (skill.Listing, error) { return skill.Listing{}, skill.ErrNotFound }}

	resp, env := do(t, skillApp(uc), httptest.NewRequest(http.MethodGet, "/api/skills/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Skill not found", env.Message)
}

func TestSkillHandler_CreateRequiresAuth(t *testing.T) {
	resp, env := do(t, skillApp(&fakeSkillUsecase{}), jsonRequest(http.MethodPost, "/api/skills", map[string]string{"title": "x"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No authorization header provided", env.Message)
}

func TestSkillHandler_CreateValidationMessage(t *testing.T) {
	uc := &fakeSkillUsecase{create: func(_ uuid.UUID, in ucskill.CreateInput) (skill.Listing, error) {
		assert.Equal(t, "Go", in.Title)
		return skill.Listing{}, validate.Errorf("Invalid category")
	}}

	req := authed(t, jsonRequest(http.MethodPost, "/api/skills", map[string]string{"title": "Go", "category": "Nope"}), uuid.New())
	resp, env := do(t, skillApp(uc), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid category", env.Message)
}

func TestSkillHandler_BindRejectsUnknownWeekday(t *testing.T) {
	uc := &fakeSkillUsecase{create: func(uuid.UUID, ucskill.CreateInput) (skill.Listing, error) {
		t.Error("usecase must not be called")
		return skill.Listing{}, nil
	}}

	req := authed(t, jsonRequest(http.MethodPost, "/api/skills", map[string]any{
		"title":        "Go",
		"availability": map[string]any{"days": []string{"Monday", "Funday"}},
	}), uuid.New())
	resp, env := do(t, skillApp(uc), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid availability day", env.Message)
}

func TestSkillHandler_UpdateLeavesAbsentFieldsNil(t *testing.T) {
	me := uuid.New()
	uc := &fakeSkillUsecase{update: func(requester, _ uuid.UUID, in ucskill.UpdateInput) (skill.Listing, error) {
		assert.Equal(t, me, requester)
		if assert.NotNil(t, in.Title) {
			assert.Equal(t, "New title", *in.Title)
		}
		assert.Nil(t, in.Description)
		assert.Nil(t, in.Tags)
		return skill.Listing{}, ucskill.ErrNotOwner
	}}

	req := authed(t, jsonRequest(http.MethodPut, "/api/skills/"+uuid.NewString(), map[string]string{"title": "New title"}), me)
	resp, env := do(t, skillApp(uc), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized to update this skill", env.Message)
}

func TestSkillHandler_InterestWithoutBody(t *testing.T) {
	uc := &fakeSkillUsecase{interest: func(_, _ uuid.UUID, msg string) (skill.Interest, error) {
		assert.Empty(t, msg)
		return skill.Interest{}, skill.ErrSelfInterest
	}}

	req := authed(t, httptest.NewRequest(http.MethodPost, "/api/skills/"+uuid.NewString()+"/interest", nil), uuid.New())
	resp, env := do(t, skillApp(uc), req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot express interest in your own skill", env.Message)
}

func TestSkillHandler_InterestStatusErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{skill.ErrInvalidTransition, http.StatusBadRequest, "Invalid interest status transition"},
		{skill.ErrInterestNotFound, http.StatusNotFound, "Interest not found"},
		{ucskill.ErrNotOwner, http.StatusForbidden, "Not authorized to update interest status"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			uc := &fakeSkillUsecase{status: func(_, _, _ uuid.UUID, status string) (skill.Interest, error) {
				assert.Equal(t, "Accepted", status)
				return skill.Interest{}, tc.err
			}}
			path := "/api/skills/" + uuid.NewString() + "/interest/" + uuid.NewString()
			req := authed(t, jsonRequest(http.MethodPut, path, map[string]string{"status": "Accepted"}), uuid.New())
			resp, env := do(t, skillApp(uc), req)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}
