package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/fetch"
)

// Counter is a collection service the dashboard can count.
type Counter interface {
	Revisioner
	Count(ctx context.Context) (int64, error)
}

// DashboardCounts is the payload of the back-office landing screen.
type DashboardCounts struct {
	Users      int64 `json:"users"`
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
}

type DashboardService struct {
	users, products, categories Counter
	counts                      *fetch.Resource[DashboardCounts]
	log                         zerolog.Logger
}

func NewDashboardService(users, products, categories Counter, log zerolog.Logger) *DashboardService {
	s := &DashboardService{users: users, products: products, categories: categories, log: log}
	s.counts = fetch.New(s.load, fetch.WithNotifier(func(op, msg string) {
		log.Warn().Str("op", op).Msg(msg)
	}))
	return s
}

// Overview returns the counts, reloading them when any collection changed.
func (s *DashboardService) Overview(ctx context.Context) fetch.State[DashboardCounts] {
	return s.counts.Use(ctx, s.users.Revision(), s.products.Revision(), s.categories.Revision())
}

// Refresh reloads the counts unconditionally.
func (s *DashboardService) Refresh(ctx context.Context) fetch.State[DashboardCounts] {
	return s.counts.Refetch(ctx)
}

// RefreshJob adapts Refresh to the scheduler.
func (s *DashboardService) RefreshJob(ctx context.Context) error {
	if st := s.Refresh(ctx); st.Failed() {
		return envelopeError(st.Error)
	}
	return nil
}

func (s *DashboardService) load(ctx context.Context) envelope.Envelope[DashboardCounts] {
	const op = "getDashboardCounts"

	var c DashboardCounts
	var err error
	if c.Users, err = s.users.Count(ctx); err != nil {
		return fail[DashboardCounts](s.log, op, err)
	}
	if c.Products, err = s.products.Count(ctx); err != nil {
		return fail[DashboardCounts](s.log, op, err)
	}
	if c.Categories, err = s.categories.Count(ctx); err != nil {
		return fail[DashboardCounts](s.log, op, err)
	}
	return envelope.OK("Resumen obtenido correctamente", c, op)
}
