package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"nunchakuclub/internal/features"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

func TestLayoutsUpdatePageLayout(t *testing.T) {
	pageID := uuid.New()

	t.Run("stale version is a conflict", func(t *testing.T) {
		svc := &stubLayouts{layout: result.Conflict[models.PageLayout]("page layout was changed by someone else, reload and try again")}
		h := NewLayouts(svc, nil)

		body := `{"sections":[{"id":"hero-1","type":"hero","order":1}],"version":3}`
		req := withParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)), "page", pageID.String())
		rr := httptest.NewRecorder()
		h.UpdatePageLayout(rr, req)

		if rr.Code != http.StatusConflict {
			t.Fatalf("status: got %d, want 409", rr.Code)
		}
		if svc.gotLayout.Version != 3 || len(svc.gotLayout.Sections) != 1 {
			t.Errorf("layout not decoded: %+v", svc.gotLayout)
		}
	})

	t.Run("success returns the saved layout", func(t *testing.T) {
		svc := &stubLayouts{layout: result.Ok(models.PageLayout{Sections: []models.LayoutSection{}, Version: 4})}
		h := NewLayouts(svc, nil)

		req := withParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"sections":[],"version":3}`)), "page", pageID.String())
		rr := httptest.NewRecorder()
		h.UpdatePageLayout(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"version":4`) {
			t.Errorf("body: got %s", rr.Body.String())
		}
	})
}

func TestLayoutsTemplatesNeedUser(t *testing.T) {
	svc := &stubLayouts{create: result.Ok(testNewID), empty: result.Done()}
	h := NewLayouts(svc, nil)

	rr := httptest.NewRecorder()
	h.CreateTemplate(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Trang chủ"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: got %d, want 401", rr.Code)
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Trang chủ"}`)), models.RoleAdmin)
	rr = httptest.NewRecorder()
	h.CreateTemplate(rr, req)
	if rr.Code != http.StatusCreated || svc.gotUser != testUserID {
		t.Errorf("create: got %d user %s", rr.Code, svc.gotUser)
	}

	req = asUser(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"is_default":true}`)), models.RoleAdmin)
	req = withParams(req, "id", testNewID.String())
	rr = httptest.NewRecorder()
	h.UpdateTemplate(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("update: got %d, want 204", rr.Code)
	}
}

func TestLayoutsGetTemplateNotFound(t *testing.T) {
	h := NewLayouts(&stubLayouts{}, nil)
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "id", testNewID.String())
	rr := httptest.NewRecorder()
	h.GetTemplate(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestLayoutsApplyTemplateBadID(t *testing.T) {
	h := NewLayouts(&stubLayouts{}, nil)
	req := withParams(httptest.NewRequest(http.MethodPost, "/", nil), "page", uuid.NewString(), "templateId", "nope")
	rr := httptest.NewRecorder()
	h.ApplyTemplate(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestLayoutsGetPage(t *testing.T) {
	svc := &stubLayouts{page: result.Ok(features.PageView{
		Page:   &models.Page{Title: "Trang chủ", Slug: "trang-chu"},
		Layout: models.PageLayout{Sections: []models.LayoutSection{}},
	})}
	h := NewLayouts(svc, nil)

	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), "page", "trang-chu")
	rr := httptest.NewRecorder()
	h.GetPage(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"sections":[]`) {
		t.Errorf("body: got %s", rr.Body.String())
	}
}
