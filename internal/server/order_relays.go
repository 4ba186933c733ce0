package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderrelaydomain "github.com/kpharma/pharmgate/internal/orderrelay/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
	"github.com/kpharma/pharmgate/pkg/db/pagination"
)

type listOrderRelaysQuery struct {
	PageToken   string `form:"page_token"`
	PageSize    int    `form:"page_size"`
	Status      string `form:"status"`
	OrderNo     string `form:"order_no"`
	CreatedFrom string `form:"created_from"`
	CreatedTo   string `form:"created_to"`
}

func (s *Server) ListOrderRelays(c *gin.Context) {
	if _, ok := orgcontext.OrgIDFromContext(c.Request.Context()); !ok {
		respondData(c, http.StatusOK, orderrelaydomain.ListResponse{Relays: []orderrelaydomain.OrderRelay{}})
		return
	}

	var query listOrderRelaysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderRelaySvc.List(c.Request.Context(), orderrelaydomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		Status:      query.Status,
		OrderNo:     query.OrderNo,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

func (s *Server) GetOrderRelay(c *gin.Context) {
	relay, err := s.orderRelaySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, relay)
}

func (s *Server) ListOrderRelayLogs(c *gin.Context) {
	logs, err := s.orderRelaySvc.ListLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"logs": logs})
}

func (s *Server) OrderRelayStatusOptions(c *gin.Context) {
	options, err := s.orderRelaySvc.StatusOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"status_options": options})
}

type changeOrderRelayStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (s *Server) ChangeOrderRelayStatus(c *gin.Context) {
	var req changeOrderRelayStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	relay, err := s.orderRelaySvc.ChangeStatus(c.Request.Context(), orderrelaydomain.ChangeStatusRequest{
		RelayID: c.Param("id"),
		Target:  orderrelaydomain.Status(strings.ToLower(strings.TrimSpace(req.Status))),
		Reason:  req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, http.StatusOK, relay)
}
