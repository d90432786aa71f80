package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
)

// cashEntryResponse fixes wire rendering: dates as YYYY-MM-DD and
// amounts with exactly two fractional digits.
type cashEntryResponse struct {
	ID          int64     `json:"id"`
	TenantCode  string    `json:"tenant_code"`
	EntryDate   string    `json:"entry_date"`
	Kind        string    `json:"kind"`
	Amount      string    `json:"amount"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCashEntryResponse(e cashdomain.CashEntry) cashEntryResponse {
	return cashEntryResponse{
		ID:          e.ID,
		TenantCode:  e.TenantCode,
		EntryDate:   e.EntryDate.Format(cashdomain.DateLayout),
		Kind:        string(e.Kind),
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

type cashSummaryResponse struct {
	TenantCode   string  `json:"tenant_code"`
	From         *string `json:"from,omitempty"`
	To           *string `json:"to,omitempty"`
	IncomeTotal  string  `json:"income_total"`
	ExpenseTotal string  `json:"expense_total"`
	NetTotal     string  `json:"net_total"`
	IncomeCount  int64   `json:"income_count"`
	ExpenseCount int64   `json:"expense_count"`
}

func newCashSummaryResponse(s cashdomain.Summary) cashSummaryResponse {
	resp := cashSummaryResponse{
		TenantCode:   s.TenantCode,
		IncomeTotal:  s.IncomeTotal.StringFixed(2),
		ExpenseTotal: s.ExpenseTotal.StringFixed(2),
		NetTotal:     s.NetTotal.StringFixed(2),
		IncomeCount:  s.IncomeCount,
		ExpenseCount: s.ExpenseCount,
	}
	if s.From != nil {
		from := s.From.Format(cashdomain.DateLayout)
		resp.From = &from
	}
	if s.To != nil {
		to := s.To.Format(cashdomain.DateLayout)
		resp.To = &to
	}
	return resp
}

func (s *Server) CreateCashEntry(c *gin.Context) {
	in, err := cashdomain.DecodeEntryInput(c.Request.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	req := cashdomain.CreateEntryRequest{
		Amount:      in.Amount,
		Description: in.DescriptionValue(),
	}
	if v := in.EntryDateValue(); v != nil {
		req.EntryDate = *v
	}
	if in.Kind != nil {
		req.Kind = *in.Kind
	}

	resp, err := s.cashSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": newCashEntryResponse(*resp)})
}

func (s *Server) ListCashEntries(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	offset, err := parseOptionalInt(c.Query("offset"))
	if err != nil {
		AbortWithError(c, newValidationError("offset", "invalid_offset", "invalid offset"))
		return
	}

	resp, err := s.cashSvc.List(c.Request.Context(), cashdomain.ListEntriesRequest{
		From:   optionalQuery(c, "from"),
		To:     optionalQuery(c, "to"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]cashEntryResponse, 0, len(resp))
	for _, entry := range resp {
		out = append(out, newCashEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) GetCashEntryByID(c *gin.Context) {
	id, err := parseEntryID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.cashSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newCashEntryResponse(*resp)})
}

func (s *Server) UpdateCashEntry(c *gin.Context) {
	id, err := parseEntryID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	in, err := cashdomain.DecodeEntryInput(c.Request.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.cashSvc.Update(c.Request.Context(), cashdomain.UpdateEntryRequest{
		ID:          id,
		EntryDate:   in.EntryDateValue(),
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: in.DescriptionValue(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newCashEntryResponse(*resp)})
}

func (s *Server) DeleteCashEntry(c *gin.Context) {
	id, err := parseEntryID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.cashSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CashSummary(c *gin.Context) {
	resp, err := s.cashSvc.Summary(c.Request.Context(), cashdomain.SummaryRequest{
		From: optionalQuery(c, "from"),
		To:   optionalQuery(c, "to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newCashSummaryResponse(*resp)})
}

// parseEntryID treats a non-numeric id the same as a missing row so the
// path shape never leaks implementation detail.
func parseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, cashdomain.ErrNotFound
	}
	return id, nil
}

func parseOptionalInt(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, strconv.ErrSyntax
	}
	return parsed, nil
}

func optionalQuery(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}
