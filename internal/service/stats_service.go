package service

import (
	"context"

	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/repository"
	"github.com/nurpe/freight-desk/internal/stats"
)

type StatsService struct {
	orders OrderStore
	quotes QuoteStore
}

func NewStatsService(orders OrderStore, quotes QuoteStore) *StatsService {
	return &StatsService{orders: orders, quotes: quotes}
}

func (s *StatsService) Summary(ctx context.Context, principal model.Principal) (*stats.Summary, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	orders, err := s.orders.ListOrders(ctx, repository.OrderQuery{})
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListQuotesForOrders(ctx, nil)
	if err != nil {
		return nil, err
	}
	summary := stats.Summarize(orders, quotes)
	return &summary, nil
}
