// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jupani/storefront/internal/config"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("pedido não encontrado")
	ErrInvalidStatus = errors.New("status inválido")
	ErrInvalidRange  = errors.New("datas inválidas para o período")
	ErrFinalStatus   = errors.New("o status do pedido não pode ser alterado")
)

const (
	defaultPageSize  = 20
	maxPageSize      = 50
	defaultRangeDays = 7
)

// Service handles order persistence and the admin order views
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateOrder stores the order and its items in one transaction
func (s *Service) CreateOrder(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := o.Items
		o.Items = nil

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = o.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create order items: %w", err)
			}
		}
		o.Items = items

		return nil
	})
}

// GetOrder retrieves an order with its items and status history
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	result := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&order)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &order, nil
}

// UpdateOrderStatus changes the order status and records the change
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus, comment string) (*Order, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if order.Status == status {
			return nil
		}
		if !order.CanTransitionTo(status) {
			return ErrFinalStatus
		}

		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := OrderStatusHistory{
			OrderID: order.ID,
			From:    order.Status,
			Status:  status,
			Comment: comment,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// DashboardRequest selects the admin order window. Start and End are
// calendar dates (YYYY-MM-DD or RFC 3339); empty means the last seven days.
type DashboardRequest struct {
	Start string `form:"start"`
	End   string `form:"end"`
	Page  int    `form:"page"`
	// PageSize is nil when the query omits it. Explicit values are clamped.
	PageSize *int `form:"pageSize"`
}

// OrderSummary is one row of the admin order list
type OrderSummary struct {
	ID           string      `json:"id"`
	CreatedAt    time.Time   `json:"createdAt"`
	CustomerName string      `json:"customerName"`
	Total        int64       `json:"total"`
	Status       OrderStatus `json:"status"`
}

// DashboardSummary aggregates the orders of the selected window
type DashboardSummary struct {
	TotalRevenue int64                 `json:"totalRevenue"`
	TotalOrders  int64                 `json:"totalOrders"`
	ByStatus     map[OrderStatus]int64 `json:"byStatus"`
}

// Pagination describes the returned page
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// DashboardResponse is the admin order overview
type DashboardResponse struct {
	Orders     []OrderSummary   `json:"orders"`
	Summary    DashboardSummary `json:"summary"`
	Pagination Pagination       `json:"pagination"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
}

// Dashboard lists orders created in the window and summarizes them.
// The page, count, revenue and per-status queries run concurrently.
func (s *Service) Dashboard(ctx context.Context, req *DashboardRequest) (*DashboardResponse, error) {
	start, end, err := s.resolveRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := defaultPageSize
	if req.PageSize != nil {
		pageSize = *req.PageSize
	}
	switch {
	case pageSize < 1:
		pageSize = 1
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	var (
		orders   []OrderSummary
		total    int64
		revenue  int64
		byStatus = make(map[OrderStatus]int64, len(Statuses()))
	)
	for _, status := range Statuses() {
		byStatus[status] = 0
	}

	window := func(ctx context.Context) *gorm.DB {
		return s.db.WithContext(ctx).Model(&Order{}).
			Where("created_at >= ? AND created_at <= ?", start.UTC(), end.UTC())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := window(gctx).
			Select("id, created_at, customer_name, total, status").
			Order("created_at DESC, id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Scan(&orders).Error
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := window(gctx).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var sum struct{ Total int64 }
		if err := window(gctx).Select("COALESCE(SUM(total), 0) AS total").Scan(&sum).Error; err != nil {
			return fmt.Errorf("failed to sum revenue: %w", err)
		}
		revenue = sum.Total
		return nil
	})

	var statusRows []struct {
		Status OrderStatus
		Count  int64
	}
	g.Go(func() error {
		err := window(gctx).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status ASC").
			Scan(&statusRows).Error
		if err != nil {
			return fmt.Errorf("failed to group orders by status: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, row := range statusRows {
		byStatus[row.Status] = row.Count
	}
	if orders == nil {
		orders = []OrderSummary{}
	}

	return &DashboardResponse{
		Orders: orders,
		Summary: DashboardSummary{
			TotalRevenue: revenue,
			TotalOrders:  total,
			ByStatus:     byStatus,
		},
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages(total, pageSize),
		},
		Start: start,
		End:   end,
	}, nil
}

func (s *Service) resolveRange(startParam, endParam string) (time.Time, time.Time, error) {
	loc := s.config.Location()
	today := time.Now().In(loc)

	start := dayStart(today.AddDate(0, 0, -(defaultRangeDays - 1)))
	end := dayEnd(today)

	if startParam != "" {
		day, err := parseDay(startParam, loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		start = dayStart(day)
	}
	if endParam != "" {
		day, err := parseDay(endParam, loc)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		end = dayEnd(day)
	}

	return start, end, nil
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	if day, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return day, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}

func totalPages(total int64, pageSize int) int {
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}
