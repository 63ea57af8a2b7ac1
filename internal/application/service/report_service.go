package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// ReportService renders goods requests as Excel and PDF documents.
type ReportService struct {
	goods  *GoodsService
	logger *zap.Logger
}

// NewReportService creates a report service.
func NewReportService(goods *GoodsService, logger *zap.Logger) *ReportService {
	return &ReportService{
		goods:  goods,
		logger: logger,
	}
}

// purchaseColumnsVisible reports whether the actor sees the purchase
// figures (received quantity and spend) in exports.
func purchaseColumnsVisible(actor workflow.Actor) bool {
	return actor.Authorized(goodsReviewers)
}

// GoodsRequestsExcel renders every goods request visible to the actor as
// an xlsx workbook. Purchase figures appear only for reviewer roles.
func (s *ReportService) GoodsRequestsExcel(ctx context.Context, actor workflow.Actor) ([]byte, error) {
	requests, err := s.goods.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Goods Requests"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Number", "Item", "Quantity", "Cost Center", "Requester", "Status", "Created"}
	withPurchase := purchaseColumnsVisible(actor)
	if withPurchase {
		headers = append(headers, "Received Qty", "Total Spend")
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, req := range requests {
		values := []interface{}{
			req.Number,
			req.ItemName,
			req.Quantity,
			req.CostCenter,
			req.OwnerName,
			string(req.Status),
			req.CreatedAt.Format("2006-01-02"),
		}
		if withPurchase {
			qty, total := req.TotalPurchased()
			values = append(values, qty, total)
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("goods request excel rendered",
		zap.Int("rows", len(requests)),
		zap.Bool("purchase_columns", withPurchase))
	return buf.Bytes(), nil
}

// GoodsRequestPDF renders one goods request the actor may see as a PDF.
func (s *ReportService) GoodsRequestPDF(ctx context.Context, actor workflow.Actor, id string) ([]byte, error) {
	req, err := s.goods.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Goods Request %s", req.Number))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	writeField := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	writeField("Item", req.ItemName)
	writeField("Quantity", fmt.Sprintf("%d", req.Quantity))
	writeField("Cost Center", req.CostCenter)
	writeField("Requester", req.OwnerName)
	writeField("Status", string(req.Status))
	writeField("Created", req.CreatedAt.Format("2006-01-02"))
	if req.NeedDate != "" {
		writeField("Need Date", req.NeedDate)
	}

	if len(req.Receipts) > 0 && purchaseColumnsVisible(actor) {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Receipts")
		pdf.Ln(10)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 7, "Number", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, "Quantity", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "Total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "Confirmed", "1", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, r := range req.Receipts {
			confirmed := "no"
			if r.Confirmed() {
				confirmed = "yes"
			}
			pdf.CellFormat(35, 7, r.Number, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, fmt.Sprintf("%d", r.Quantity), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", r.UnitPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", r.TotalPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, confirmed, "1", 1, "C", false, 0, "")
		}

		qty, total := req.TotalPurchased()
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 7, "Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
