package features

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

type memSections struct {
	items []models.SectionType
}

func (m *memSections) List(_ context.Context) ([]models.SectionType, error) {
	return m.items, nil
}

func (m *memSections) ActiveKeys(_ context.Context) (map[string]bool, error) {
	keys := map[string]bool{}
	for _, st := range m.items {
		if st.IsActive {
			keys[st.TypeKey] = true
		}
	}
	return keys, nil
}

func (m *memSections) KeyExists(_ context.Context, key string) (bool, error) {
	for _, st := range m.items {
		if st.TypeKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSections) Create(_ context.Context, st *models.SectionType) (uuid.UUID, error) {
	cp := *st
	cp.ID = uuid.New()
	cp.IsActive = true
	m.items = append(m.items, cp)
	return cp.ID, nil
}

type memTemplates struct {
	items map[uuid.UUID]*models.LayoutTemplate
}

func (m *memTemplates) List(_ context.Context) ([]models.LayoutTemplate, error) {
	var out []models.LayoutTemplate
	for _, t := range m.items {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTemplates) FindByID(_ context.Context, id uuid.UUID) (*models.LayoutTemplate, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTemplates) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, t := range m.items {
		if t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTemplates) Create(_ context.Context, t *models.LayoutTemplate) (uuid.UUID, error) {
	cp := *t
	cp.ID = uuid.New()
	m.items[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memTemplates) Update(_ context.Context, t *models.LayoutTemplate) error {
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *memTemplates) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memTemplates) ClearDefault(_ context.Context, keep uuid.UUID) error {
	for id, t := range m.items {
		if id != keep {
			t.IsDefault = false
		}
	}
	return nil
}

func (m *memTemplates) IncrementUsage(_ context.Context, id uuid.UUID) error {
	m.items[id].UsageCount++
	return nil
}

type memPages struct {
	items map[uuid.UUID]*models.Page
	// beforeSave runs between the caller's read and the conditional write.
	beforeSave func(p *models.Page)
}

func (m *memPages) FindByID(_ context.Context, id uuid.UUID) (*models.Page, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPages) FindPublishedBySlug(_ context.Context, slug string) (*models.Page, error) {
	for _, p := range m.items {
		if p.Slug == slug && p.IsPublished {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPages) SaveLayout(_ context.Context, id uuid.UUID, templateID *uuid.UUID, config string, expected, version int) (bool, error) {
	p, ok := m.items[id]
	if !ok {
		return false, nil
	}
	if m.beforeSave != nil {
		m.beforeSave(p)
	}
	if p.LayoutVersion != expected {
		return false, nil
	}
	p.LayoutTemplateID = templateID
	p.LayoutConfig = &config
	p.LayoutVersion = version
	return true, nil
}

type layoutFixture struct {
	h         *Layouts
	sections  *memSections
	templates *memTemplates
	pages     *memPages
	page      *models.Page
	user      uuid.UUID
}

func newLayoutFixture() *layoutFixture {
	sections := &memSections{items: []models.SectionType{
		{ID: uuid.New(), Name: "Hero", TypeKey: "hero", IsActive: true},
		{ID: uuid.New(), Name: "Lưới bài viết", TypeKey: "blog-grid", IsActive: true},
		{ID: uuid.New(), Name: "Cũ", TypeKey: "legacy", IsActive: false},
	}}
	page := &models.Page{ID: uuid.New(), Title: "Trang chủ", Slug: "trang-chu", IsPublished: true}
	f := &layoutFixture{
		sections:  sections,
		templates: &memTemplates{items: map[uuid.UUID]*models.LayoutTemplate{}},
		pages:     &memPages{items: map[uuid.UUID]*models.Page{page.ID: page}},
		page:      page,
		user:      uuid.New(),
	}
	f.h = NewLayouts(f.sections, f.templates, f.pages)
	f.h.suffix = func() string { return "cafebabe" }
	return f
}

func heroLayout() models.PageLayout {
	return models.PageLayout{Sections: []models.LayoutSection{
		{ID: "s1", Type: "hero", Config: map[string]any{"title": "Chào mừng"}, Order: 1, IsVisible: true},
		{ID: "s2", Type: "blog-grid", Config: map[string]any{}, Order: 2, IsVisible: true},
	}}
}

func TestCreateSectionType(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()

	r := f.h.CreateSectionType(ctx, SectionTypeRequest{Name: "Liên hệ", TypeKey: "contact-form"})
	if !r.IsSuccess() {
		t.Fatalf("CreateSectionType: %v", r.Err())
	}
	if got := f.sections.items[3].ConfigSchema.Fields; got == nil {
		t.Error("config schema fields should default to an empty list")
	}

	dup := f.h.CreateSectionType(ctx, SectionTypeRequest{Name: "Hero 2", TypeKey: "hero"})
	if kind := failureKind(t, dup); kind != result.KindConflict {
		t.Errorf("duplicate key: got %s, want conflict", kind)
	}

	bad := f.h.CreateSectionType(ctx, SectionTypeRequest{Name: "X", TypeKey: "Bad Key"})
	if kind := failureKind(t, bad); kind != result.KindValidation {
		t.Errorf("bad key: got %s, want validation", kind)
	}

	if n := len(f.h.ListSectionTypes(ctx).Value()); n != 4 {
		t.Errorf("ListSectionTypes: got %d, want 4", n)
	}
}

func TestCreateLayoutTemplate(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()

	first := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "Trang Đích", Layout: heroLayout(), IsDefault: true}, f.user)
	if !first.IsSuccess() {
		t.Fatalf("CreateLayoutTemplate: %v", first.Err())
	}
	second := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "Trang đích", Layout: heroLayout(), IsDefault: true}, f.user)
	if !second.IsSuccess() {
		t.Fatalf("CreateLayoutTemplate: %v", second.Err())
	}

	a := f.templates.items[first.Value()]
	b := f.templates.items[second.Value()]
	if a.Slug != "trang-dich" || b.Slug != "trang-dich-cafebabe" {
		t.Errorf("slugs: %q, %q", a.Slug, b.Slug)
	}
	if a.IsDefault || !b.IsDefault {
		t.Error("a new default template should clear the previous default")
	}
	if !a.IsActive || a.CreatedBy == nil || *a.CreatedBy != f.user {
		t.Errorf("template: %+v", a)
	}
}

func TestLayoutValidation(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		sections []models.LayoutSection
		message  string
	}{
		{"unknown type", []models.LayoutSection{{ID: "a", Type: "carousel"}}, `unknown section type "carousel"`},
		{"inactive type", []models.LayoutSection{{ID: "a", Type: "legacy"}}, `unknown section type "legacy"`},
		{"missing id", []models.LayoutSection{{ID: " ", Type: "hero"}}, "section 1 has no id"},
		{"duplicate id", []models.LayoutSection{{ID: "a", Type: "hero"}, {ID: "a", Type: "blog-grid"}}, `section id "a" is used more than once`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "X", Layout: models.PageLayout{Sections: tt.sections}}, f.user)
			if kind := failureKind(t, r); kind != result.KindValidation {
				t.Fatalf("got %s, want validation", kind)
			}
			if r.Failure().Message != tt.message {
				t.Errorf("message: got %q, want %q", r.Failure().Message, tt.message)
			}
		})
	}
}

func TestUpdateAndDeleteLayoutTemplate(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()
	id := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "Mẫu", Layout: heroLayout()}, f.user).Value()

	name := "Mẫu mới"
	inactive := false
	r := f.h.UpdateLayoutTemplate(ctx, id, LayoutTemplateUpdate{Name: &name, IsActive: &inactive}, f.user)
	if !r.IsSuccess() {
		t.Fatalf("UpdateLayoutTemplate: %v", r.Err())
	}
	got := f.h.GetLayoutTemplate(ctx, id).Value()
	if got.Name != "Mẫu mới" || got.IsActive || got.Slug != "mau" {
		t.Errorf("template after update: %+v", got)
	}
	if len(got.Layout.Sections) != 2 {
		t.Error("layout should be kept when not supplied")
	}

	if r := f.h.DeleteLayoutTemplate(ctx, id); !r.IsSuccess() {
		t.Fatalf("DeleteLayoutTemplate: %v", r.Err())
	}
	if kind := failureKind(t, f.h.GetLayoutTemplate(ctx, id)); kind != result.KindNotFound {
		t.Errorf("get after delete: got %s", kind)
	}
	if kind := failureKind(t, f.h.DeleteLayoutTemplate(ctx, id)); kind != result.KindNotFound {
		t.Errorf("delete twice: got %s", kind)
	}
	if kind := failureKind(t, f.h.UpdateLayoutTemplate(ctx, id, LayoutTemplateUpdate{}, f.user)); kind != result.KindNotFound {
		t.Errorf("update after delete: got %s", kind)
	}
}

func TestPageLayoutLifecycle(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()

	empty := f.h.GetPageLayout(ctx, f.page.ID)
	if !empty.IsSuccess() || len(empty.Value().Sections) != 0 || empty.Value().Sections == nil {
		t.Fatalf("fresh page layout: %+v (%v)", empty.Value(), empty.Err())
	}

	saved := f.h.UpdatePageLayout(ctx, f.page.ID, heroLayout())
	if !saved.IsSuccess() {
		t.Fatalf("UpdatePageLayout: %v", saved.Err())
	}
	if saved.Value().Version != 1 || f.page.LayoutVersion != 1 {
		t.Errorf("version: got %d/%d, want 1", saved.Value().Version, f.page.LayoutVersion)
	}

	got := f.h.GetPageLayout(ctx, f.page.ID).Value()
	if diff := cmp.Diff(saved.Value(), got); diff != "" {
		t.Errorf("layout mismatch (-saved +loaded):\n%s", diff)
	}

	stale := heroLayout()
	stale.Version = 7
	if kind := failureKind(t, f.h.UpdatePageLayout(ctx, f.page.ID, stale)); kind != result.KindConflict {
		t.Errorf("stale version: got %s, want conflict", kind)
	}

	current := heroLayout()
	current.Version = 1
	if r := f.h.UpdatePageLayout(ctx, f.page.ID, current); !r.IsSuccess() || r.Value().Version != 2 {
		t.Errorf("matching version should save as 2, got %d (%v)", r.Value().Version, r.Err())
	}

	if kind := failureKind(t, f.h.GetPageLayout(ctx, uuid.New())); kind != result.KindNotFound {
		t.Errorf("missing page: got %s", kind)
	}
}

func TestUpdatePageLayoutLosesRace(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()
	if r := f.h.UpdatePageLayout(ctx, f.page.ID, heroLayout()); !r.IsSuccess() {
		t.Fatalf("UpdatePageLayout: %v", r.Err())
	}

	// Another editor saves after this request read version 1.
	f.pages.beforeSave = func(p *models.Page) { p.LayoutVersion = 2 }

	current := heroLayout()
	current.Version = 1
	if kind := failureKind(t, f.h.UpdatePageLayout(ctx, f.page.ID, current)); kind != result.KindConflict {
		t.Errorf("concurrent save: got %s, want conflict", kind)
	}
	if f.page.LayoutVersion != 2 {
		t.Errorf("version: got %d, want the other editor's 2", f.page.LayoutVersion)
	}
}

func TestApplyLayoutTemplate(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()
	id := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "Mẫu", Layout: heroLayout()}, f.user).Value()

	r := f.h.ApplyLayoutTemplate(ctx, f.page.ID, id)
	if !r.IsSuccess() {
		t.Fatalf("ApplyLayoutTemplate: %v", r.Err())
	}
	l := r.Value()
	if l.LayoutTemplateID == nil || *l.LayoutTemplateID != id || l.TemplateName == nil || *l.TemplateName != "Mẫu" {
		t.Errorf("template reference: %+v", l)
	}
	if l.Version != 1 || len(l.Sections) != 2 {
		t.Errorf("applied layout: %+v", l)
	}
	if f.templates.items[id].UsageCount != 1 {
		t.Errorf("usage count: got %d, want 1", f.templates.items[id].UsageCount)
	}
	if f.page.LayoutTemplateID == nil || *f.page.LayoutTemplateID != id {
		t.Error("page should reference the template")
	}

	view := f.h.GetPageBySlug(ctx, "trang-chu")
	if !view.IsSuccess() || view.Value().Page.ID != f.page.ID || len(view.Value().Layout.Sections) != 2 {
		t.Errorf("GetPageBySlug: %+v (%v)", view.Value(), view.Err())
	}

	inactive := false
	f.h.UpdateLayoutTemplate(ctx, id, LayoutTemplateUpdate{IsActive: &inactive}, f.user)
	if kind := failureKind(t, f.h.ApplyLayoutTemplate(ctx, f.page.ID, id)); kind != result.KindValidation {
		t.Errorf("inactive template: got %s, want validation", kind)
	}
	if kind := failureKind(t, f.h.ApplyLayoutTemplate(ctx, f.page.ID, uuid.New())); kind != result.KindNotFound {
		t.Errorf("missing template: got %s, want not_found", kind)
	}
	if kind := failureKind(t, f.h.ApplyLayoutTemplate(ctx, uuid.New(), id)); kind != result.KindNotFound {
		t.Errorf("missing page: got %s, want not_found", kind)
	}
}

func TestPageFallsBackToTemplateLayout(t *testing.T) {
	f := newLayoutFixture()
	ctx := context.Background()
	id := f.h.CreateLayoutTemplate(ctx, LayoutTemplateRequest{Name: "Mẫu", Layout: heroLayout()}, f.user).Value()
	f.page.LayoutTemplateID = &id
	f.page.LayoutVersion = 4

	l := f.h.GetPageLayout(ctx, f.page.ID).Value()
	if len(l.Sections) != 2 || l.Version != 4 || l.TemplateName == nil {
		t.Errorf("fallback layout: %+v", l)
	}

	if kind := failureKind(t, f.h.GetPageBySlug(ctx, "khong-co")); kind != result.KindNotFound {
		t.Errorf("missing slug: got %s", kind)
	}
}
