package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
)

func (s *Server) ListDocs(c *gin.Context) {
	if _, ok := orgcontext.OrgIDFromContext(c.Request.Context()); !ok {
		respondData(c, http.StatusOK, branchdomain.DocListResponse{Items: []branchdomain.Doc{}})
		return
	}

	var query listContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.branchSvc.ListDocs(c.Request.Context(), branchdomain.ListPage{
		Page:  query.Page,
		Limit: query.Limit,
	}, query.Category)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) CreateDoc(c *gin.Context) {
	var req branchdomain.CreateDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, err := s.branchSvc.CreateDoc(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, doc)
}

func (s *Server) GetDoc(c *gin.Context) {
	doc, err := s.branchSvc.GetDoc(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, doc)
}

func (s *Server) UpdateDoc(c *gin.Context) {
	var req branchdomain.UpdateDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, err := s.branchSvc.UpdateDoc(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, doc)
}

func (s *Server) DeleteDoc(c *gin.Context) {
	if err := s.branchSvc.DeleteDoc(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
