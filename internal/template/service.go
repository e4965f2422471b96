package template

import (
	"context"
	defError "errors"
	"fmt"
	"sort"
	"time"

	"b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"
	"b2b-print-designer/redis"

	"gorm.io/gorm"
)

const catalogVersionKey = "templates:version"

// CatalogEntry is the slim listing row shown in template pickers.
type CatalogEntry struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	OrgID uint64 `json:"org_id"`
}

// PendingInfo is the soft "approval pending" signal returned instead of a
// template list when the actor's organization exists but is not approved yet.
type PendingInfo struct {
	OrgName        string `json:"org_name"`
	OrganizerFirst string `json:"organizer_first"`
}

// OrgProvider supplies the organization details the pending signal needs.
type OrgProvider interface {
	PendingContact(ctx context.Context, orgID uint64) (orgName, organizerFirst string, err error)
}

type Service interface {
	GetTemplate(ctx context.Context, actor policy.Actor, id uint64) (*Template, error)
	TemplatesFor(ctx context.Context, actor policy.Actor, productID uint64) ([]CatalogEntry, *PendingInfo, error)
	CreateTemplate(ctx context.Context, tpl *Template) error
	UpdateTemplate(ctx context.Context, tpl *Template) error
}

type DefaultService struct {
	repository TemplateRepository
	orgs       OrgProvider
	cache      *redis.Cache
}

func NewService(repository TemplateRepository, orgs OrgProvider, cache *redis.Cache) Service {
	return &DefaultService{repository: repository, orgs: orgs, cache: cache}
}

func (s *DefaultService) GetTemplate(ctx context.Context, actor policy.Actor, id uint64) (*Template, error) {
	tpl, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Template not found.", err)
		}
		return nil, err
	}
	if !policy.CanViewTemplate(actor, tpl.OrgID) {
		return nil, errors.Forbidden("Not allowed.", nil)
	}
	return tpl, nil
}

// TemplatesFor lists the templates the actor may use with the product.
// An unapproved member of an existing organization gets an empty list plus a
// pending signal rather than an error; that softening is presentation only,
// access is still enforced on every read and write.
func (s *DefaultService) TemplatesFor(ctx context.Context, actor policy.Actor, productID uint64) ([]CatalogEntry, *PendingInfo, error) {
	if actor.OrgID != 0 && !policy.IsApprovedMember(actor) && !policy.CanBypassOrg(actor) {
		orgName, first, err := s.orgs.PendingContact(ctx, actor.OrgID)
		if err != nil {
			return nil, nil, err
		}
		return []CatalogEntry{}, &PendingInfo{OrgName: orgName, OrganizerFirst: first}, nil
	}

	v := s.cache.GetVersion(ctx, catalogVersionKey)
	cacheKey := fmt.Sprintf("templates:p:%d:o:%d:b:%t:v:%d", productID, actor.OrgID, actor.CanBypass, v)

	var cached []CatalogEntry
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil, nil
	}

	all, err := s.repository.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	entries := []CatalogEntry{}
	for i := range all {
		t := &all[i]
		if !t.AppliesTo(productID) {
			continue
		}
		if !policy.CanViewTemplate(actor, t.OrgID) {
			continue
		}
		entries = append(entries, CatalogEntry{ID: t.ID, Title: t.Title, OrgID: t.OrgID})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Title < entries[j].Title })

	s.cache.Set(ctx, cacheKey, entries, 24*time.Hour)
	return entries, nil, nil
}

func (s *DefaultService) CreateTemplate(ctx context.Context, tpl *Template) error {
	if tpl.Title == "" {
		return errors.BadRequest("Title is required.", nil)
	}
	tpl.ProductIDs = NormalizeProductIDs(tpl.ProductIDs)
	tpl.Surfaces = Normalize(tpl.Surfaces)
	if err := s.repository.Create(ctx, tpl); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, catalogVersionKey)
	return nil
}

func (s *DefaultService) UpdateTemplate(ctx context.Context, tpl *Template) error {
	existing, err := s.repository.FindByID(ctx, tpl.ID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Template not found.", err)
		}
		return err
	}
	tpl.CreatedAt = existing.CreatedAt
	tpl.ProductIDs = NormalizeProductIDs(tpl.ProductIDs)
	tpl.Surfaces = Normalize(tpl.Surfaces)
	if err := s.repository.Update(ctx, tpl); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, catalogVersionKey)
	return nil
}
