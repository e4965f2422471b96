package draft

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"b2b-print-designer/internal/cart"
	apiError "b2b-print-designer/internal/errors"
	"b2b-print-designer/internal/policy"
	"b2b-print-designer/internal/proofstore"
	"b2b-print-designer/internal/render"
	"b2b-print-designer/internal/template"
	"b2b-print-designer/internal/utils"
	"b2b-print-designer/internal/worker"
)

// fontWaitBudget bounds the font warm-up before a save renders. On timeout
// the renderer falls back to its embedded face and the save proceeds.
const fontWaitBudget = 3 * time.Second

// TemplateProvider is the slice of the template service the draft workflow
// needs. Visibility checks happen inside the provider.
type TemplateProvider interface {
	GetTemplate(ctx context.Context, actor policy.Actor, id uint64) (*template.Template, error)
}

// QtyDefaulter supplies the org's starting quantity for new drafts.
type QtyDefaulter interface {
	DefaultQty(ctx context.Context, orgID uint64) int
}

type CreateDraftInput struct {
	ProductID   uint64
	VariationID uint64
	Variation   map[string]string
	TemplateID  uint64
	Qty         int
}

// SaveResult reports a proof save. Warnings carry per-surface render
// failures; the save itself still succeeded.
type SaveResult struct {
	Previews map[string]string `json:"previews"`
	Warnings []string          `json:"warnings,omitempty"`
}

// AttachResult pairs the cart line with the frozen snapshot's preview URLs,
// so the portal can show exactly what was ordered.
type AttachResult struct {
	Item             cart.CartItemRef  `json:"item"`
	SnapshotPreviews map[string]string `json:"snapshot_previews"`
}

type Service interface {
	CreateDraft(ctx context.Context, actor policy.Actor, input CreateDraftInput) (*Draft, error)
	GetDraft(ctx context.Context, actor policy.Actor, id uint64) (*Draft, map[string]string, error)
	SaveProof(ctx context.Context, actor policy.Actor, id uint64, payload Payload) (*SaveResult, error)
	UpdateQty(ctx context.Context, actor policy.Actor, id uint64, qty int) (*Draft, error)
	SwitchTemplate(ctx context.Context, actor policy.Actor, id uint64, templateID uint64) (*Draft, error)
	MarkEmployeeReady(ctx context.Context, actor policy.Actor, id uint64) error
	MarkAdminReady(ctx context.Context, actor policy.Actor, id uint64) error
	SetOverride(ctx context.Context, actor policy.Actor, id uint64, value bool) error
	AttachToCart(ctx context.Context, actor policy.Actor, id uint64) (*AttachResult, error)
	CartLines(ctx context.Context, actor policy.Actor, id uint64) ([]cart.CartItem, error)
	DuplicateDraft(ctx context.Context, actor policy.Actor, id uint64) (*Draft, error)
	ListOrgDrafts(ctx context.Context, actor policy.Actor, page, pageSize int) ([]Draft, error)
}

type DefaultService struct {
	repository DraftRepository
	templates  TemplateProvider
	orgs       QtyDefaulter
	store      *proofstore.Store
	fonts      *render.FontCache
	sink       cart.Sink
	pool       *worker.WorkerPool
}

func NewService(
	repository DraftRepository,
	templates TemplateProvider,
	orgs QtyDefaulter,
	store *proofstore.Store,
	fonts *render.FontCache,
	sink cart.Sink,
	pool *worker.WorkerPool,
) *DefaultService {
	return &DefaultService{
		repository: repository,
		templates:  templates,
		orgs:       orgs,
		store:      store,
		fonts:      fonts,
		sink:       sink,
		pool:       pool,
	}
}

func (s *DefaultService) CreateDraft(ctx context.Context, actor policy.Actor, input CreateDraftInput) (*Draft, error) {
	if !policy.IsApprovedMember(actor) && !policy.CanBypassOrg(actor) {
		return nil, apiError.Forbidden("organization approval pending", nil)
	}
	tpl, err := s.templates.GetTemplate(ctx, actor, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.AppliesTo(input.ProductID) {
		return nil, apiError.BadRequest("template does not apply to this product", nil)
	}

	qty := input.Qty
	if qty < 1 {
		qty = s.orgs.DefaultQty(ctx, actor.OrgID)
	}
	qty = utils.ClampQty(qty)

	draft := &Draft{
		OrgID:       actor.OrgID,
		UserID:      actor.ID,
		ProductID:   input.ProductID,
		VariationID: input.VariationID,
		Variation:   input.Variation,
		TemplateID:  input.TemplateID,
		Qty:         qty,
		Payload:     Payload{},
	}
	if err := s.repository.Create(ctx, draft); err != nil {
		return nil, apiError.Internal(err)
	}
	return draft, nil
}

func (s *DefaultService) findAccessible(ctx context.Context, actor policy.Actor, id uint64) (*Draft, error) {
	found, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFound("draft not found", nil)
		}
		return nil, apiError.Internal(err)
	}
	if !policy.CanAccessDraft(actor, found.State()) {
		return nil, apiError.Forbidden("you do not have access to this draft", nil)
	}
	return found, nil
}

func (s *DefaultService) GetDraft(ctx context.Context, actor policy.Actor, id uint64) (*Draft, map[string]string, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	found.Qty = found.Quantity()
	return found, s.store.Previews(found.ID), nil
}

// filterPayload keeps only the surfaces and field keys the template defines,
// truncating each value at entry. Unknown keys are dropped silently.
func filterPayload(tpl *template.Template, raw Payload) Payload {
	filtered := Payload{}
	for surfaceKey, surface := range tpl.Surfaces {
		incoming, ok := raw[surfaceKey]
		if !ok || incoming.Fields == nil {
			continue
		}
		fields := map[string]string{}
		for _, field := range surface.Fields {
			if value, ok := incoming.Fields[field.Key]; ok {
				fields[field.Key] = render.Truncate(value, field.MaxChars)
			}
		}
		if len(fields) > 0 {
			filtered[surfaceKey] = SurfaceValues{Fields: fields}
		}
	}
	return filtered
}

// SaveProof persists the payload, resets the two approval flags, and
// regenerates every surface's artifacts. A surface that fails to rasterize
// is reported as a warning and skipped; the save never aborts on it.
func (s *DefaultService) SaveProof(ctx context.Context, actor policy.Actor, id uint64, payload Payload) (*SaveResult, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetTemplate(ctx, actor, found.TemplateID)
	if err != nil {
		return nil, err
	}

	filtered := filterPayload(tpl, payload)
	if err := s.repository.SavePayload(ctx, id, filtered, actor.ID); err != nil {
		return nil, apiError.Internal(err)
	}
	found.Payload = filtered

	fontCtx, cancel := context.WithTimeout(ctx, fontWaitBudget)
	// font warm-up is best effort; the fallback face covers a miss
	_ = s.fonts.EnsureFonts(fontCtx)
	cancel()

	result := &SaveResult{}
	for _, surfaceKey := range sortedSurfaceKeys(tpl.Surfaces) {
		surface := tpl.Surfaces[surfaceKey]
		scene := render.BuildScene(surface, found.Values(surfaceKey), float64(surface.DPI), false)
		if surface.BGImage != "" {
			scene.Background = s.store.ResolveUpload(surface.BGImage)
		}

		pngData, renderErr := render.ExportPNG(scene, s.fonts)
		if renderErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("surface %s: %v", surfaceKey, renderErr))
		}
		svgData := render.RenderSVG(scene)

		if err := s.store.SaveSurface(id, surfaceKey, pngData, svgData); err != nil {
			return nil, apiError.Internal(err)
		}
		if pngData != nil {
			key := surfaceKey
			s.pool.Submit(func(context.Context) error {
				return s.store.Thumbnail(id, key)
			})
		}
	}

	if err := s.store.SaveDesignJSON(id, filtered); err != nil {
		return nil, apiError.Internal(err)
	}
	result.Previews = s.store.Previews(id)
	return result, nil
}

func sortedSurfaceKeys(surfaces template.SurfaceMap) []string {
	keys := make([]string, 0, len(surfaces))
	for key := range surfaces {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *DefaultService) UpdateQty(ctx context.Context, actor policy.Actor, id uint64, qty int) (*Draft, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	qty = utils.ClampQty(qty)
	if err := s.repository.UpdateQty(ctx, found.ID, qty); err != nil {
		return nil, apiError.Internal(err)
	}
	found.Qty = qty
	found.EmployeeReady = false
	found.AdminReady = false
	return found, nil
}

// carryoverPayload rebuilds the payload for a new template, keeping values
// only where surface key and field key match exactly.
func carryoverPayload(old Payload, next *template.Template) Payload {
	rebuilt := Payload{}
	for surfaceKey, surface := range next.Surfaces {
		previous, ok := old[surfaceKey]
		if !ok || previous.Fields == nil {
			continue
		}
		fields := map[string]string{}
		for _, field := range surface.Fields {
			if value, ok := previous.Fields[field.Key]; ok {
				fields[field.Key] = value
			}
		}
		if len(fields) > 0 {
			rebuilt[surfaceKey] = SurfaceValues{Fields: fields}
		}
	}
	return rebuilt
}

func (s *DefaultService) SwitchTemplate(ctx context.Context, actor policy.Actor, id uint64, templateID uint64) (*Draft, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	next, err := s.templates.GetTemplate(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}
	if !next.AppliesTo(found.ProductID) {
		return nil, apiError.BadRequest("template does not apply to this product", nil)
	}

	rebuilt := carryoverPayload(found.Payload, next)
	if err := s.repository.UpdateTemplate(ctx, found.ID, templateID, rebuilt); err != nil {
		return nil, apiError.Internal(err)
	}
	// stale artifacts would show the old template's surfaces
	if err := s.store.ClearDraft(found.ID); err != nil {
		return nil, apiError.Internal(err)
	}

	found.TemplateID = templateID
	found.Payload = rebuilt
	found.EmployeeReady = false
	found.AdminReady = false
	return found, nil
}

func (s *DefaultService) MarkEmployeeReady(ctx context.Context, actor policy.Actor, id uint64) error {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repository.SetEmployeeReady(ctx, found.ID, actor.ID); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

func (s *DefaultService) MarkAdminReady(ctx context.Context, actor policy.Actor, id uint64) error {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.CanApproveAsAdmin(actor) {
		return apiError.Forbidden("admin approval requires an org admin", nil)
	}
	if err := s.repository.SetAdminReady(ctx, found.ID, actor.ID); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

func (s *DefaultService) SetOverride(ctx context.Context, actor policy.Actor, id uint64, value bool) error {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.CanApproveAsAdmin(actor) {
		return apiError.Forbidden("override requires an org admin", nil)
	}
	if err := s.repository.SetOverride(ctx, found.ID, value); err != nil {
		return apiError.Internal(err)
	}
	return nil
}

// AttachToCart freezes the current proof under a snapshot token and hands it
// to the cart sink. The draft itself is not mutated, so a sink failure is
// safely retryable.
func (s *DefaultService) AttachToCart(ctx context.Context, actor policy.Actor, id uint64) (*AttachResult, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAttachToCart(actor, found.State()) {
		return nil, apiError.Forbidden("draft is not approved for ordering", nil)
	}
	if !s.store.HasProof(found.ID) {
		return nil, apiError.Unprocessable("save a proof before adding to cart", nil)
	}

	token, err := s.store.Snapshot(found.ID)
	if err != nil {
		return nil, apiError.Internal(err)
	}

	ref, err := s.sink.Attach(ctx, cart.CartItem{
		DraftID:       found.ID,
		ProductID:     found.ProductID,
		VariationID:   found.VariationID,
		Qty:           found.Quantity(),
		SnapshotToken: token,
	})
	if err != nil {
		return nil, apiError.Unprocessable("cart rejected the draft: "+err.Error(), err)
	}

	previews := make(map[string]string)
	for key := range s.store.Previews(found.ID) {
		previews[key] = s.store.SnapshotURL(token, key)
	}
	return &AttachResult{Item: ref, SnapshotPreviews: previews}, nil
}

// CartLines lists the cart items created from this draft, newest first.
func (s *DefaultService) CartLines(ctx context.Context, actor policy.Actor, id uint64) ([]cart.CartItem, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.sink.ListByDraft(ctx, found.ID)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	return lines, nil
}

// DuplicateDraft copies content but not approvals or proof artifacts; the
// copy starts its approval cycle from scratch.
func (s *DefaultService) DuplicateDraft(ctx context.Context, actor policy.Actor, id uint64) (*Draft, error) {
	found, err := s.findAccessible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	copyOf := &Draft{
		OrgID:       found.OrgID,
		UserID:      actor.ID,
		ProductID:   found.ProductID,
		VariationID: found.VariationID,
		Variation:   found.Variation,
		TemplateID:  found.TemplateID,
		Qty:         found.Quantity(),
		Payload:     found.Payload,
	}
	if err := s.repository.Create(ctx, copyOf); err != nil {
		return nil, apiError.Internal(err)
	}
	return copyOf, nil
}

func (s *DefaultService) ListOrgDrafts(ctx context.Context, actor policy.Actor, page, pageSize int) ([]Draft, error) {
	if !policy.CanApproveAsAdmin(actor) {
		return nil, apiError.Forbidden("org drafts are visible to org admins only", nil)
	}
	drafts, err := s.repository.ListByOrg(ctx, actor.OrgID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apiError.Internal(err)
	}
	for i := range drafts {
		drafts[i].Qty = drafts[i].Quantity()
	}
	return drafts, nil
}
