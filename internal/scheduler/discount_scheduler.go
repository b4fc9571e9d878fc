package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/tiendago/tienda-backend/internal/app/service"
	"github.com/tiendago/tienda-backend/pkg/logger"
)

// DiscountScheduler clears expired product discounts on a schedule.
// Expired discounts are already ignored at read time; this keeps the
// stored rows tidy so exports and admin views show the real price.
type DiscountScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
}

func NewDiscountScheduler(productService service.ProductService) *DiscountScheduler {
	return &DiscountScheduler{
		cron:           cron.New(),
		productService: productService,
	}
}

// Start schedules the cleanup to run every night at 00:05
func (s *DiscountScheduler) Start() error {
	_, err := s.cron.AddFunc("5 0 * * *", func() {
		logger.Info("Starting scheduled discount cleanup", nil)

		cleared, err := s.productService.ClearExpiredDiscounts()
		if err != nil {
			logger.Error("Failed to clear expired discounts", err)
			return
		}

		logger.Info("Expired discounts cleared", map[string]interface{}{
			"products_cleared": cleared,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for discount cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Discount scheduler started (daily at 00:05)", nil)

	return nil
}

func (s *DiscountScheduler) Stop() {
	logger.Info("Stopping discount scheduler...", nil)
	s.cron.Stop()
	logger.Info("Discount scheduler stopped", nil)
}
