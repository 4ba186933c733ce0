package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kpharma/pharmgate/internal/orgcontext"
	settlementdomain "github.com/kpharma/pharmgate/internal/settlement/domain"
	"github.com/kpharma/pharmgate/pkg/db/pagination"
)

type listSettlementsQuery struct {
	PageToken      string `form:"page_token"`
	PageSize       int    `form:"page_size"`
	SettlementType string `form:"settlement_type"`
	Status         string `form:"status"`
	PeriodFrom     string `form:"period_from"`
	PeriodTo       string `form:"period_to"`
}

func (s *Server) ListSettlements(c *gin.Context) {
	if _, ok := orgcontext.OrgIDFromContext(c.Request.Context()); !ok {
		respondData(c, http.StatusOK, settlementdomain.ListResponse{Batches: []settlementdomain.SettlementBatch{}})
		return
	}

	var query listSettlementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	periodFrom, err := parseOptionalTime(query.PeriodFrom, false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	periodTo, err := parseOptionalTime(query.PeriodTo, true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.settlementSvc.List(c.Request.Context(), settlementdomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		SettlementType: query.SettlementType,
		Status:         query.Status,
		PeriodFrom:     periodFrom,
		PeriodTo:       periodTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetSettlement(c *gin.Context) {
	batch, err := s.settlementSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, batch)
}

func (s *Server) ListSettlementItems(c *gin.Context) {
	items, err := s.settlementSvc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"items": items})
}

type transitionSettlementRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) TransitionSettlement(c *gin.Context) {
	var req transitionSettlementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	batch, err := s.settlementSvc.Transition(c.Request.Context(), settlementdomain.TransitionRequest{
		BatchID: c.Param("id"),
		Action:  settlementdomain.Action(strings.TrimSpace(c.Param("action"))),
		Reason:  req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, batch)
}
