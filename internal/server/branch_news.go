package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
)

type listContentQuery struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Category  string `form:"category"`
	Published string `form:"published"`
}

func (s *Server) ListNews(c *gin.Context) {
	if _, ok := orgcontext.OrgIDFromContext(c.Request.Context()); !ok {
		respondData(c, http.StatusOK, branchdomain.NewsListResponse{Items: []branchdomain.News{}})
		return
	}

	var query listContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	published, err := parseOptionalBool(query.Published)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.branchSvc.ListNews(c.Request.Context(), branchdomain.ListPage{
		Page:  query.Page,
		Limit: query.Limit,
	}, query.Category, published)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) CreateNews(c *gin.Context) {
	var req branchdomain.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	news, err := s.branchSvc.CreateNews(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, news)
}

func (s *Server) GetNews(c *gin.Context) {
	news, err := s.branchSvc.GetNews(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, news)
}

func (s *Server) UpdateNews(c *gin.Context) {
	var req branchdomain.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	news, err := s.branchSvc.UpdateNews(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, news)
}

func (s *Server) DeleteNews(c *gin.Context) {
	if err := s.branchSvc.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
