package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const salesSheet = "Sales"

var salesHeader = []string{"Date", "Order", "Buyer", "Quantity", "Unit Price", "Total", "Payment Method", "Payment Status"}

type SalesReport struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Count     int64           `json:"sales_count"`
	Quantity  decimal.Decimal `json:"quantity_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	LaborCost decimal.Decimal `json:"labor_cost"`
	Net       decimal.Decimal `json:"net"`
}

type ReportService struct {
	saleRepo    *repository.SaleRepository
	expenseRepo *repository.ExpenseRepository
	wageRepo    *repository.LaborWageRepository
}

func NewReportService(saleRepo *repository.SaleRepository, expenseRepo *repository.ExpenseRepository, wageRepo *repository.LaborWageRepository) *ReportService {
	return &ReportService{
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		wageRepo:    wageRepo,
	}
}

// SalesSummary totals sales and labor cost booked in [from, to).
func (s *ReportService) SalesSummary(farmerID uint, from, to time.Time) (*SalesReport, error) {
	if !to.After(from) {
		return nil, newError(KindValidation, "report range end must be after its start")
	}

	totals, err := s.saleRepo.TotalsByFarmer(farmerID, from, to)
	if err != nil {
		return nil, err
	}
	laborCost, err := s.expenseRepo.SumByCategory(farmerID, models.ExpenseCategoryLabor, from, to)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		From:      from,
		To:        to,
		Count:     totals.Count,
		Quantity:  totals.Quantity.Round(2),
		Revenue:   totals.Revenue.Round(2),
		LaborCost: laborCost.Round(2),
		Net:       totals.Revenue.Sub(laborCost).Round(2),
	}, nil
}

func (s *ReportService) LaborEarnings(farmerID uint) ([]repository.LaborerEarnings, error) {
	return s.wageRepo.EarningsByOwner(farmerID)
}

// ExportSalesXLSX renders the sales ledger for [from, to) as a workbook with
// a totals row at the bottom.
func (s *ReportService) ExportSalesXLSX(farmerID uint, from, to time.Time) ([]byte, error) {
	if !to.After(from) {
		return nil, newError(KindValidation, "report range end must be after its start")
	}

	sales, err := s.saleRepo.ListByFarmer(farmerID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}

	for i, title := range salesHeader {
		if err := setCell(f, i+1, 1, title); err != nil {
			return nil, err
		}
	}

	quantity := decimal.Zero
	revenue := decimal.Zero
	for i, sale := range sales {
		row := i + 2
		buyer := sale.Buyer.Name
		if buyer == "" {
			buyer = sale.Buyer.Username
		}
		values := []interface{}{
			sale.SaleDate.Format("2006-01-02"),
			sale.RiceOrderID,
			buyer,
			sale.Quantity.InexactFloat64(),
			sale.UnitPrice.InexactFloat64(),
			sale.TotalAmount.InexactFloat64(),
			sale.PaymentMethod,
			sale.PaymentStatus,
		}
		for col, value := range values {
			if err := setCell(f, col+1, row, value); err != nil {
				return nil, err
			}
		}
		quantity = quantity.Add(sale.Quantity)
		revenue = revenue.Add(sale.TotalAmount)
	}

	totalRow := len(sales) + 2
	if err := setCell(f, 1, totalRow, "Total"); err != nil {
		return nil, err
	}
	if err := setCell(f, 4, totalRow, quantity.InexactFloat64()); err != nil {
		return nil, err
	}
	if err := setCell(f, 6, totalRow, revenue.Round(2).InexactFloat64()); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(salesSheet, "A", "H", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(salesSheet, cell, value)
}
