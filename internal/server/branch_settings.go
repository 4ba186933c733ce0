package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
)

func (s *Server) GetSettings(c *gin.Context) {
	settings, err := s.branchSvc.GetSettings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, settings)
}

func (s *Server) UpsertSettings(c *gin.Context) {
	var req branchdomain.UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settings, err := s.branchSvc.UpsertSettings(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, settings)
}

type settingsStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (s *Server) SetSettingsStatus(c *gin.Context) {
	var req settingsStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	settings, err := s.branchSvc.SetSettingsStatus(c.Request.Context(), *req.IsActive)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, settings)
}
