package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/roundup/internal/config"
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/strategy"
)

const returnsPrefix = "returns:"

func (s *Server) dispatch(c *gin.Context) {
	action := c.Param("action")
	if handler, ok := s.actions[action]; ok {
		handler(c)
		return
	}
	if strings.HasPrefix(action, returnsPrefix) {
		s.handleReturns(c, strings.TrimPrefix(action, returnsPrefix))
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
}

func (s *Server) handleParse(c *gin.Context) {
	var expenses []domain.Expense
	if !bindJSON(c, &expenses) {
		return
	}
	transactions := s.engine.Parse(expenses)
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

func (s *Server) handleValidator(c *gin.Context) {
	var req domain.ValidatorRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.parser.ValidateValidatorRequest(&req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.engine.Validate(req.Transactions))
}

func (s *Server) handleFilter(c *gin.Context) {
	var req domain.FilterRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.parser.ValidateFilterRequest(&req); err != nil {
		writeError(c, err)
		return
	}
	result, err := s.engine.Filter(req)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Valid == nil {
		result.Valid = []domain.FilteredTransaction{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleReturns(c *gin.Context, strategyID string) {
	// Resolve the strategy first so an unknown one is reported even for a bad body.
	if _, err := s.engine.Registry.Get(strategyID); err != nil {
		writeError(c, err)
		return
	}

	var req domain.ReturnsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.parser.ValidateReturnsRequest(&req); err != nil {
		writeError(c, err)
		return
	}
	report, err := s.engine.Returns(c.Request.Context(), strategyID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	if report.SavingsByDates == nil {
		report.SavingsByDates = []domain.SavingsByDate{}
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handlePerformance(c *gin.Context) {
	c.JSON(http.StatusOK, collectPerformance(s.started))
}

func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

// writeError maps engine errors to status codes
func writeError(c *gin.Context, err error) {
	var (
		unknown    *strategy.UnknownStrategyError
		dateErr    *domain.DateParseError
		validation *config.ValidationError
	)
	switch {
	case errors.As(err, &unknown):
		c.JSON(http.StatusBadRequest, gin.H{"detail": unknown.Error()})
	case errors.As(err, &dateErr), errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}
