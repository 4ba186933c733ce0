package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
)

func (s *Server) ListOfficers(c *gin.Context) {
	if _, ok := orgcontext.OrgIDFromContext(c.Request.Context()); !ok {
		respondData(c, http.StatusOK, branchdomain.OfficerListResponse{Items: []branchdomain.Officer{}})
		return
	}

	var query listContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.branchSvc.ListOfficers(c.Request.Context(), branchdomain.ListPage{
		Page:  query.Page,
		Limit: query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) CreateOfficer(c *gin.Context) {
	var req branchdomain.CreateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	officer, err := s.branchSvc.CreateOfficer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusCreated, officer)
}

func (s *Server) GetOfficer(c *gin.Context) {
	officer, err := s.branchSvc.GetOfficer(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, officer)
}

func (s *Server) UpdateOfficer(c *gin.Context) {
	var req branchdomain.UpdateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	officer, err := s.branchSvc.UpdateOfficer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, officer)
}

func (s *Server) DeleteOfficer(c *gin.Context) {
	if err := s.branchSvc.DeleteOfficer(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
