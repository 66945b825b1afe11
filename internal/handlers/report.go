package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/services"
)

const (
	reportDateLayout  = "2006-01-02"
	defaultReportDays = 30
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportRange reads from/to as calendar dates. The to date is inclusive, so
// the returned end is midnight of the following day.
func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	to := today.AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -defaultReportDays)

	if toStr := c.Query("to"); toStr != "" {
		t, err := time.Parse(reportDateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to must be YYYY-MM-DD")
		}
		to = t.AddDate(0, 0, 1)
		from = to.AddDate(0, 0, -defaultReportDays)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		f, err := time.Parse(reportDateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from must be YYYY-MM-DD")
		}
		from = f
	}

	return from, to, nil
}

// SalesSummary godoc
// @Summary Sales summary
// @Description Totals sales and labor cost over a date range (default: last 30 days)
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} services.SalesReport
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/reports/sales [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	report, err := h.reportService.SalesSummary(middleware.GetUserID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportSales godoc
// @Summary Export sales ledger
// @Description Download the sales ledger for a date range as an Excel workbook
// @Tags farmer
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date, inclusive (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	data, err := h.reportService.ExportSalesXLSX(middleware.GetUserID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("sales_%s_%s.xlsx", from.Format(reportDateLayout), to.AddDate(0, 0, -1).Format(reportDateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// LaborEarnings godoc
// @Summary Laborer earnings
// @Description Completed-task wages per laborer
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.LaborerEarnings
// @Router /farmer/reports/earnings [get]
func (h *ReportHandler) LaborEarnings(c *gin.Context) {
	earnings, err := h.reportService.LaborEarnings(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, earnings)
}
