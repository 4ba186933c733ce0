package domain

import "context"

type ListPage struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

type NewsListResponse struct {
	Items []News `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type OfficerListResponse struct {
	Items []Officer `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type DocListResponse struct {
	Items []Doc `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type CreateNewsRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	IsPinned    bool   `json:"is_pinned"`
	IsPublished *bool  `json:"is_published"`
}

// UpdateNewsRequest carries the PATCH body. Nil pointers leave the stored
// value untouched.
type UpdateNewsRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	IsPinned    *bool   `json:"is_pinned"`
	IsPublished *bool   `json:"is_published"`
}

type CreateOfficerRequest struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	SortOrder int    `json:"sort_order"`
}

type UpdateOfficerRequest struct {
	Name      *string `json:"name"`
	Position  *string `json:"position"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	SortOrder *int    `json:"sort_order"`
}

type CreateDocRequest struct {
	Title    string `json:"title"`
	DocURL   string `json:"doc_url"`
	Category string `json:"category"`
}

type UpdateDocRequest struct {
	Title    *string `json:"title"`
	DocURL   *string `json:"doc_url"`
	Category *string `json:"category"`
}

type UpsertSettingsRequest struct {
	BranchName    *string `json:"branch_name"`
	ContactEmail  *string `json:"contact_email"`
	ContactPhone  *string `json:"contact_phone"`
	SignageNotice *string `json:"signage_notice"`
}

// Service is the branch content facade. The acting org always comes from
// orgcontext; any org id in a request body is ignored.
type Service interface {
	CreateNews(ctx context.Context, req CreateNewsRequest) (*News, error)
	GetNews(ctx context.Context, id string) (*News, error)
	ListNews(ctx context.Context, page ListPage, category string, published *bool) (NewsListResponse, error)
	UpdateNews(ctx context.Context, id string, req UpdateNewsRequest) (*News, error)
	DeleteNews(ctx context.Context, id string) error

	CreateOfficer(ctx context.Context, req CreateOfficerRequest) (*Officer, error)
	GetOfficer(ctx context.Context, id string) (*Officer, error)
	ListOfficers(ctx context.Context, page ListPage) (OfficerListResponse, error)
	UpdateOfficer(ctx context.Context, id string, req UpdateOfficerRequest) (*Officer, error)
	DeleteOfficer(ctx context.Context, id string) error

	CreateDoc(ctx context.Context, req CreateDocRequest) (*Doc, error)
	GetDoc(ctx context.Context, id string) (*Doc, error)
	ListDocs(ctx context.Context, page ListPage, category string) (DocListResponse, error)
	UpdateDoc(ctx context.Context, id string, req UpdateDocRequest) (*Doc, error)
	DeleteDoc(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*Settings, error)
	UpsertSettings(ctx context.Context, req UpsertSettingsRequest) (*Settings, error)
	SetSettingsStatus(ctx context.Context, active bool) (*Settings, error)
}
