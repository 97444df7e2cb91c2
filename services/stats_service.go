package services

import (
	"context"

	"skb-backend/models"
)

// StatsService reads and writes the peserta paket counts.
type StatsService struct {
	store SiteStore
}

func NewStatsService(store SiteStore) *StatsService {
	return &StatsService{store: store}
}

func (s *StatsService) UpdatePesertaPaket(ctx context.Context, req models.PesertaPaketRequest) error {
	return s.store.SetPesertaPaket(ctx, req.ToPesertaPaket())
}

func (s *StatsService) GetPesertaPaket(ctx context.Context) (*models.PesertaPaket, error) {
	return s.store.GetPesertaPaket(ctx)
}
