package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nunchakuclub/internal/auth"
	"nunchakuclub/internal/features"
	"nunchakuclub/internal/middleware"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/pagination"
	"nunchakuclub/internal/result"
)

var (
	testUserID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testPostID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	testNewID  = uuid.MustParse("55555555-5555-5555-5555-555555555555")
)

// withParams attaches chi URL parameters to r, as the router would.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser marks r as authenticated with the given role.
func asUser(r *http.Request, role models.Role) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &auth.Claims{UserID: testUserID, Role: role}))
}

type stubAuth struct {
	register result.Result[uuid.UUID]
	login    result.Result[features.AuthResponse]
	gotLogin features.LoginRequest
}

func (s *stubAuth) Register(_ context.Context, _ features.RegisterRequest) result.Result[uuid.UUID] {
	return s.register
}

func (s *stubAuth) Login(_ context.Context, req features.LoginRequest) result.Result[features.AuthResponse] {
	s.gotLogin = req
	return s.login
}

type stubPosts struct {
	gotQuery  features.ListPostsQuery
	gotAuthor uuid.UUID
	gotReq    features.PostRequest
	gotLimit  int
	detail    result.Result[*models.PostDetail]
	create    result.Result[uuid.UUID]
	empty     result.Result[result.Empty]
	likes     result.Result[int]
}

func (s *stubPosts) ListPosts(_ context.Context, q features.ListPostsQuery) result.Result[pagination.Page[models.PostSummary]] {
	s.gotQuery = q
	return result.Ok(pagination.New([]models.PostSummary{}, q.Page, q.Size, 0))
}

func (s *stubPosts) GetPostByID(context.Context, uuid.UUID) result.Result[*models.PostDetail] {
	return s.detail
}

func (s *stubPosts) GetPostBySlug(context.Context, string) result.Result[*models.PostDetail] {
	return s.detail
}

func (s *stubPosts) CreatePost(_ context.Context, req features.PostRequest, authorID uuid.UUID) result.Result[uuid.UUID] {
	s.gotReq = req
	s.gotAuthor = authorID
	return s.create
}

func (s *stubPosts) UpdatePost(_ context.Context, _ uuid.UUID, req features.PostRequest) result.Result[result.Empty] {
	s.gotReq = req
	return s.empty
}

func (s *stubPosts) PublishPost(context.Context, uuid.UUID) result.Result[result.Empty] { return s.empty }
func (s *stubPosts) DeletePost(context.Context, uuid.UUID) result.Result[result.Empty]  { return s.empty }
func (s *stubPosts) LikePost(context.Context, uuid.UUID) result.Result[int]             { return s.likes }

func (s *stubPosts) GetRelatedPosts(_ context.Context, _ string, limit int) result.Result[[]models.RelatedPost] {
	s.gotLimit = limit
	return result.Ok([]models.RelatedPost{})
}

type stubComments struct {
	add  result.Result[uuid.UUID]
	list result.Result[[]models.CommentThread]
}

func (s *stubComments) AddComment(context.Context, uuid.UUID, features.CommentRequest) result.Result[uuid.UUID] {
	return s.add
}

func (s *stubComments) ListComments(context.Context, uuid.UUID) result.Result[[]models.CommentThread] {
	return s.list
}

type stubCatalog struct {
	categoryCalls int
	gotTree       bool
	courses       result.Result[[]models.Course]
	create        result.Result[uuid.UUID]
}

func (s *stubCatalog) ListCategories(_ context.Context, includeChildren bool) result.Result[[]models.Category] {
	s.categoryCalls++
	s.gotTree = includeChildren
	return result.Ok([]models.Category{{ID: testNewID, Name: "Kỹ thuật", Slug: "ky-thuat"}})
}

func (s *stubCatalog) CreateCategory(context.Context, features.CategoryRequest) result.Result[uuid.UUID] {
	return s.create
}

func (s *stubCatalog) ListCourses(context.Context) result.Result[[]models.Course] { return s.courses }

func (s *stubCatalog) CreateCourse(context.Context, features.CourseRequest) result.Result[uuid.UUID] {
	return s.create
}

type stubContact struct {
	gotIP, gotUA   string
	gotPage, gotSz int
	submit         result.Result[uuid.UUID]
}

func (s *stubContact) SubmitContact(_ context.Context, _ features.ContactRequest, ip, ua string) result.Result[uuid.UUID] {
	s.gotIP, s.gotUA = ip, ua
	return s.submit
}

func (s *stubContact) ListContactSubmissions(_ context.Context, page, size int) result.Result[pagination.Page[models.ContactSubmission]] {
	s.gotPage, s.gotSz = page, size
	return result.Ok(pagination.New([]models.ContactSubmission{}, page, size, 0))
}

type stubLayouts struct {
	gotUser   uuid.UUID
	gotLayout models.PageLayout
	layout    result.Result[models.PageLayout]
	create    result.Result[uuid.UUID]
	empty     result.Result[result.Empty]
	page      result.Result[features.PageView]
}

func (s *stubLayouts) ListSectionTypes(context.Context) result.Result[[]models.SectionType] {
	return result.Ok([]models.SectionType{})
}

func (s *stubLayouts) CreateSectionType(context.Context, features.SectionTypeRequest) result.Result[uuid.UUID] {
	return s.create
}

func (s *stubLayouts) ListLayoutTemplates(context.Context) result.Result[[]models.LayoutTemplate] {
	return result.Ok([]models.LayoutTemplate{})
}

func (s *stubLayouts) GetLayoutTemplate(context.Context, uuid.UUID) result.Result[*models.LayoutTemplate] {
	return result.NotFound[*models.LayoutTemplate]("layout template not found")
}

func (s *stubLayouts) CreateLayoutTemplate(_ context.Context, _ features.LayoutTemplateRequest, userID uuid.UUID) result.Result[uuid.UUID] {
	s.gotUser = userID
	return s.create
}

func (s *stubLayouts) UpdateLayoutTemplate(_ context.Context, _ uuid.UUID, _ features.LayoutTemplateUpdate, userID uuid.UUID) result.Result[result.Empty] {
	s.gotUser = userID
	return s.empty
}

func (s *stubLayouts) DeleteLayoutTemplate(context.Context, uuid.UUID) result.Result[result.Empty] {
	return s.empty
}

func (s *stubLayouts) GetPageLayout(context.Context, uuid.UUID) result.Result[models.PageLayout] {
	return s.layout
}

func (s *stubLayouts) UpdatePageLayout(_ context.Context, _ uuid.UUID, l models.PageLayout) result.Result[models.PageLayout] {
	s.gotLayout = l
	return s.layout
}

func (s *stubLayouts) ApplyLayoutTemplate(context.Context, uuid.UUID, uuid.UUID) result.Result[models.PageLayout] {
	return s.layout
}

func (s *stubLayouts) GetPageBySlug(context.Context, string) result.Result[features.PageView] {
	return s.page
}

type stubMedia struct {
	enabled  bool
	gotFiles []features.FileUpload
	gotUser  uuid.UUID
}

func (s *stubMedia) Enabled() bool { return s.enabled }

func (s *stubMedia) Upload(_ context.Context, f features.FileUpload, by uuid.UUID) result.Result[*models.Media] {
	s.gotFiles = append(s.gotFiles, f)
	s.gotUser = by
	return result.Ok(&models.Media{ID: testNewID, OriginalFilename: f.Filename, FileSize: int64(len(f.Data))})
}

func (s *stubMedia) UploadMany(_ context.Context, files []features.FileUpload, by uuid.UUID) result.Result[[]*models.Media] {
	s.gotFiles = append(s.gotFiles, files...)
	s.gotUser = by
	out := make([]*models.Media, 0, len(files))
	for _, f := range files {
		out = append(out, &models.Media{ID: uuid.New(), OriginalFilename: f.Filename})
	}
	return result.Ok(out)
}

func (s *stubMedia) Delete(context.Context, uuid.UUID) result.Result[result.Empty] {
	return result.NotFound[result.Empty]("media not found")
}

func (s *stubMedia) PresignedURL(context.Context, uuid.UUID) result.Result[features.PresignedLink] {
	return result.Ok(features.PresignedLink{URL: "https://cdn.example/media/x.png?sig=1"})
}
