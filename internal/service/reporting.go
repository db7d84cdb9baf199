package service

import (
	"context"

	"finledger"
)

// ReportingService builds the aggregated dashboard view on top of the
// ledger service, so listing and totals always agree on the same filter.
type ReportingService struct {
	ledger Ledger
}

func NewReportingService(ledger Ledger) *ReportingService {
	return &ReportingService{ledger: ledger}
}

// Overview lists the owner's entries for the range and computes the totals.
func (s *ReportingService) Overview(ctx context.Context, ownerID int, r DateRange) (Overview, error) {
	entries, err := s.ledger.List(ctx, ownerID, r)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Entries: entries,
		Summary: finledger.Summarize(entries),
		Range:   r,
	}, nil
}
