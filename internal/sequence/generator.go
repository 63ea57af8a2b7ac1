// Package sequence formats the human-facing document numbers issued from
// the persistent counters.
package sequence

import (
	"context"
	"fmt"

	"github.com/alirezakafim/pardis/internal/application/port"
)

// Counter types persisted in the counters table.
const (
	counterGoodsRequest    = "goods_request"
	counterProjectProposal = "project_proposal"
	counterPaymentRequest  = "payment_request"
	counterReceipt         = "receipt_number"
)

// Generator issues formatted document numbers. Numbers within one
// (type, year) pair are strictly increasing and gap-free; the counter repo
// guarantees uniqueness under concurrency.
type Generator struct {
	counters port.CounterRepository
	year     string
}

// NewGenerator creates a generator for the given fiscal year.
func NewGenerator(counters port.CounterRepository, year string) *Generator {
	return &Generator{counters: counters, year: year}
}

// GoodsRequestNumber issues the next goods request number, e.g. "1404-7".
func (g *Generator) GoodsRequestNumber(ctx context.Context) (string, error) {
	n, err := g.counters.Next(ctx, counterGoodsRequest, g.year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", g.year, n), nil
}

// ProposalNumber issues the next project proposal number, e.g. "PP-1404-3".
func (g *Generator) ProposalNumber(ctx context.Context) (string, error) {
	n, err := g.counters.Next(ctx, counterProjectProposal, g.year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PP-%s-%d", g.year, n), nil
}

// PaymentNumber issues the next payment request number, e.g. "PAY-1404-12".
func (g *Generator) PaymentNumber(ctx context.Context) (string, error) {
	n, err := g.counters.Next(ctx, counterPaymentRequest, g.year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%s-%d", g.year, n), nil
}

// ReceiptNumber issues the next receipt number, e.g. "R-00042". Receipt
// numbering is global, not per fiscal year.
func (g *Generator) ReceiptNumber(ctx context.Context) (string, error) {
	n, err := g.counters.Next(ctx, counterReceipt, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("R-%05d", n), nil
}
