package skill

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillbridge/internal/domain/skill"
	"skillbridge/internal/pkg/logger"
	"skillbridge/internal/pkg/validate"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100

	listCachePrefix  = "skills:list:"
	listCachePattern = listCachePrefix + "*"
)

var ErrNotOwner = errors.New("not authorized to modify this skill")

// ListCache is the slice of the Redis cache the listing search uses.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type ListParams struct {
	Category  string
	Level     string
	SkillType string
	Search    string
	Sort      string
	Page      int
	Limit     int
}

type ListResult struct {
	Skills []skill.Listing `json:"skills"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Total  int             `json:"total"`
}

type CreateInput struct {
	Title              string
	Description        string
	Category           string
	Subcategory        string
	Level              string
	SkillType          string
	Tags               []string
	Duration           string
	Availability       skill.Availability
	Format             string
	Location           string
	ExchangePreference string
	Prerequisites      string
	Materials          []string
}

// UpdateInput carries only the fields the owner sent.
type UpdateInput struct {
	Title              *string
	Description        *string
	Category           *string
	Subcategory        *string
	Level              *string
	SkillType          *string
	Tags               *[]string
	Duration           *string
	Availability       *skill.Availability
	Format             *string
	Location           *string
	ExchangePreference *string
	Prerequisites      *string
	Materials          *[]string
}

type Service struct {
	skills   skill.Repository
	cache    ListCache
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func NewService(skills skill.Repository, cache ListCache, cacheTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{skills: skills, cache: cache, cacheTTL: cacheTTL, log: log, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, p ListParams) (ListResult, error) {
	p = normalizeListParams(p)
	key := ListCacheKey(p)
	// Popular order moves with every view, which does not invalidate.
	cacheable := s.cache != nil && p.Sort != skill.SortPopular

	if cacheable {
		var cached ListResult
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn("skill list cache read failed", "key", key, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	listings, total, err := s.skills.List(ctx, skill.ListFilter{
		Category:  p.Category,
		Level:     p.Level,
		SkillType: p.SkillType,
		Search:    p.Search,
		Sort:      p.Sort,
		Limit:     p.Limit,
		Offset:    (p.Page - 1) * p.Limit,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list skills: %w", err)
	}
	res := ListResult{Skills: listings, Page: p.Page, Limit: p.Limit, Total: total}

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, res, s.cacheTTL); err != nil {
			s.log.Warn("skill list cache write failed", "key", key, "error", err)
		}
	}
	return res, nil
}

// Get returns an active listing and counts the view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (skill.Listing, error) {
	l, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return skill.Listing{}, err
	}
	if !l.IsActive {
		return skill.Listing{}, skill.ErrNotFound
	}
	views, err := s.skills.IncrementViews(ctx, id)
	if err != nil {
		return skill.Listing{}, fmt.Errorf("increment views: %w", err)
	}
	l.Views = views
	return l, nil
}

func (s *Service) ListByProvider(ctx context.Context, providerID uuid.UUID, skillType string) ([]skill.Listing, error) {
	return s.skills.ListByProvider(ctx, providerID, skillType)
}

func (s *Service) Create(ctx context.Context, providerID uuid.UUID, in CreateInput) (skill.Listing, error) {
	now := s.now().UTC()
	l := skill.Listing{
		ID:                 uuid.New(),
		ProviderID:         providerID,
		Title:              strings.TrimSpace(in.Title),
		Description:        strings.TrimSpace(in.Description),
		Category:           strings.TrimSpace(in.Category),
		Subcategory:        strings.TrimSpace(in.Subcategory),
		Level:              strings.TrimSpace(in.Level),
		SkillType:          strings.TrimSpace(in.SkillType),
		Tags:               cleanTags(in.Tags),
		Duration:           orDefault(in.Duration, skill.DefaultDuration),
		Availability:       in.Availability,
		Format:             orDefault(in.Format, skill.DefaultFormat),
		Location:           strings.TrimSpace(in.Location),
		ExchangePreference: orDefault(in.ExchangePreference, skill.DefaultExchangePreference),
		Prerequisites:      strings.TrimSpace(in.Prerequisites),
		Materials:          cleanStrings(in.Materials),
		IsActive:           true,
		Interests:          []skill.Interest{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := validateListing(l); err != nil {
		return skill.Listing{}, err
	}

	if err := s.skills.Create(ctx, l); err != nil {
		return skill.Listing{}, fmt.Errorf("create skill: %w", err)
	}
	s.invalidateLists(ctx)
	return l, nil
}

func (s *Service) Update(ctx context.Context, requester, id uuid.UUID, in UpdateInput) (skill.Listing, error) {
	l, err := s.ownedActive(ctx, requester, id)
	if err != nil {
		return skill.Listing{}, err
	}

	setString(&l.Title, in.Title)
	setString(&l.Description, in.Description)
	setString(&l.Category, in.Category)
	setString(&l.Subcategory, in.Subcategory)
	setString(&l.Level, in.Level)
	setString(&l.SkillType, in.SkillType)
	setString(&l.Duration, in.Duration)
	setString(&l.Format, in.Format)
	setString(&l.Location, in.Location)
	setString(&l.ExchangePreference, in.ExchangePreference)
	setString(&l.Prerequisites, in.Prerequisites)
	if in.Tags != nil {
		l.Tags = cleanTags(*in.Tags)
	}
	if in.Materials != nil {
		l.Materials = cleanStrings(*in.Materials)
	}
	if in.Availability != nil {
		l.Availability = *in.Availability
	}
	if err := validateListing(l); err != nil {
		return skill.Listing{}, err
	}

	l.UpdatedAt = s.now().UTC()
	if err := s.skills.Update(ctx, l); err != nil {
		return skill.Listing{}, fmt.Errorf("update skill: %w", err)
	}
	s.invalidateLists(ctx)
	return l, nil
}

// Delete deactivates the listing so reviews keep pointing at it.
func (s *Service) Delete(ctx context.Context, requester, id uuid.UUID) error {
	if _, err := s.ownedActive(ctx, requester, id); err != nil {
		return err
	}
	if err := s.skills.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate skill: %w", err)
	}
	s.invalidateLists(ctx)
	return nil
}

func (s *Service) ExpressInterest(ctx context.Context, requester, skillID uuid.UUID, message string) (skill.Interest, error) {
	l, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return skill.Interest{}, err
	}
	if !l.IsActive {
		return skill.Interest{}, skill.ErrNotFound
	}
	if err := validate.Var(strings.TrimSpace(message), "max=500", "Message cannot exceed 500 characters"); err != nil {
		return skill.Interest{}, err
	}

	in, err := skill.NewInterest(l, requester, message, s.now().UTC())
	if err != nil {
		return skill.Interest{}, err
	}
	if err := s.skills.AddInterest(ctx, in); err != nil {
		return skill.Interest{}, err
	}
	return in, nil
}

func (s *Service) UpdateInterestStatus(ctx context.Context, requester, skillID, interestID uuid.UUID, status string) (skill.Interest, error) {
	next, err := skill.ParseInterestStatus(status)
	if err != nil {
		return skill.Interest{}, err
	}

	l, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return skill.Interest{}, err
	}
	if !l.IsOwnedBy(requester) {
		return skill.Interest{}, ErrNotOwner
	}
	in, ok := l.InterestByID(interestID)
	if !ok {
		return skill.Interest{}, skill.ErrInterestNotFound
	}

	updated, err := in.Transition(next, s.now().UTC())
	if err != nil {
		return skill.Interest{}, err
	}
	if err := s.skills.UpdateInterestStatus(ctx, updated); err != nil {
		return skill.Interest{}, err
	}
	return updated, nil
}

func (s *Service) ownedActive(ctx context.Context, requester, id uuid.UUID) (skill.Listing, error) {
	l, err := s.skills.GetByID(ctx, id)
	if err != nil {
		return skill.Listing{}, err
	}
	if !l.IsActive {
		return skill.Listing{}, skill.ErrNotFound
	}
	if !l.IsOwnedBy(requester) {
		return skill.Listing{}, ErrNotOwner
	}
	return l, nil
}

func (s *Service) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, listCachePattern); err != nil {
		s.log.Warn("skill list cache invalidation failed", "error", err)
	}
}

func validateListing(l skill.Listing) error {
	return validate.Struct(l)
}

func normalizeListParams(p ListParams) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	p.Category = allToEmpty(p.Category)
	p.Level = allToEmpty(p.Level)
	p.SkillType = allToEmpty(p.SkillType)
	p.Search = strings.Join(strings.Fields(p.Search), " ")
	switch p.Sort {
	case skill.SortNewest, skill.SortOldest, skill.SortPopular, skill.SortTitle:
	default:
		p.Sort = skill.SortNewest
	}
	return p
}

// ListCacheKey hashes the normalized query so equal searches share a key.
func ListCacheKey(p ListParams) string {
	b, _ := json.Marshal(struct {
		Category  string `json:"category"`
		Level     string `json:"level"`
		SkillType string `json:"skill_type"`
		Search    string `json:"search"`
		Sort      string `json:"sort"`
		Page      int    `json:"page"`
		Limit     int    `json:"limit"`
	}{p.Category, p.Level, p.SkillType, strings.ToLower(p.Search), p.Sort, p.Page, p.Limit})
	sum := sha256.Sum256(b)
	return listCachePrefix + hex.EncodeToString(sum[:])
}

func allToEmpty(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
