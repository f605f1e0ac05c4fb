package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"laundry-pos/internal/auth"
	"laundry-pos/internal/model"
	"laundry-pos/internal/pricing"
	"laundry-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	dateSkewDays int
	logger       zerolog.Logger
}

// NewOrderService creates a new order service. dateSkewDays configures
// the single-date filter compensation (see model.OrderFilter).
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	dateSkewDays int,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		dateSkewDays: dateSkewDays,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Create validates the request, derives the computed fields and
// persists the order. Validation runs in full before any write.
func (s *orderService) Create(ctx context.Context, p *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error) {
	if p == nil {
		return nil, model.ErrUnauthenticated
	}

	ve := model.NewValidationError()
	validateCustomerFields(ve, req.CustomerName, req.CustomerPhone, req.CustomerEmail)
	validateItems(ve, req.Items)

	method := model.DeliveryMethod(req.DeliveryMethod)
	if req.DeliveryMethod == "" {
		ve.Add("delivery_method", "The delivery method field is required.")
	} else if !method.Valid() {
		ve.Add("delivery_method", "The selected delivery method is invalid.")
	}

	pickupDate := parseDateField(ve, "pickup_date", req.PickupDate)
	deliveryDate := parseDateField(ve, "delivery_date", req.DeliveryDate)

	switch method {
	case model.DeliveryPickup:
		if req.PickupDate == nil || strings.TrimSpace(*req.PickupDate) == "" {
			ve.Add("pickup_date", "Pickup date is required for pickup orders")
		}
		// The opposite date is cleared regardless of what the caller sent.
		deliveryDate = nil
	case model.DeliveryDeliver:
		if req.DeliveryDate == nil || strings.TrimSpace(*req.DeliveryDate) == "" {
			ve.Add("delivery_date", "Delivery date is required for delivery orders")
		}
		pickupDate = nil
	}

	if ve.HasErrors() {
		s.logger.Warn().Interface("errors", ve.Errors).Msg("order validation failed")
		return nil, ve
	}

	items := toOrderItems(req.Items)
	now := time.Now().UTC()
	order := &model.Order{
		ID:             uuid.New(),
		UserID:         p.ID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  normalizeOptional(req.CustomerEmail),
		Items:          items,
		ServiceType:    pricing.ResolveServiceType(items),
		TotalAmount:    pricing.Total(items),
		Status:         model.StatusPending,
		DeliveryMethod: method,
		PickupDate:     pickupDate,
		DeliveryDate:   deliveryDate,
		Notes:          normalizeOptional(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if user, err := s.userRepo.GetByID(ctx, p.ID); err == nil && user != nil {
		order.User = user.Summary()
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("service_type", string(order.ServiceType)).
		Str("total_amount", order.TotalAmount.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return order, nil
}

// List retrieves orders visible to the principal.
func (s *orderService) List(ctx context.Context, p *auth.Principal, query model.OrderListQuery) ([]model.Order, error) {
	if p == nil {
		return nil, model.ErrUnauthenticated
	}

	ve := model.NewValidationError()
	filter := model.OrderFilter{
		Date:         parseDateField(ve, "date", query.Date),
		StartDate:    parseDateField(ve, "start_date", query.StartDate),
		EndDate:      parseDateField(ve, "end_date", query.EndDate),
		DateSkewDays: s.dateSkewDays,
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if !auth.Can(p, auth.ActionListAllOrders) {
		id := p.ID
		filter.UserID = &id
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get retrieves a single order the principal may view.
func (s *orderService) Get(ctx context.Context, p *auth.Principal, id uuid.UUID) (*model.Order, error) {
	if p == nil {
		return nil, model.ErrUnauthenticated
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !auth.CanViewOrder(p, order.UserID) {
		return nil, model.ErrForbidden
	}

	return order, nil
}

// Update applies a partial update. Derived fields are recomputed
// whenever the item list changes; client values for them are never
// consulted.
func (s *orderService) Update(ctx context.Context, p *auth.Principal, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error) {
	if p == nil {
		return nil, model.ErrUnauthenticated
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !auth.Can(p, auth.ActionUpdateOrder) {
		return nil, model.ErrForbidden
	}

	ve := model.NewValidationError()

	if req.CustomerName != nil && strings.TrimSpace(*req.CustomerName) == "" {
		ve.Add("customer_name", "The customer name field is required.")
	}
	if req.CustomerName != nil && len(*req.CustomerName) > 255 {
		ve.Add("customer_name", "The customer name may not be greater than 255 characters.")
	}
	if req.CustomerPhone != nil && strings.TrimSpace(*req.CustomerPhone) == "" {
		ve.Add("customer_phone", "The customer phone field is required.")
	}
	if req.CustomerPhone != nil && len(*req.CustomerPhone) > 20 {
		ve.Add("customer_phone", "The customer phone may not be greater than 20 characters.")
	}
	if req.CustomerEmail != nil && strings.TrimSpace(*req.CustomerEmail) != "" {
		if _, err := mail.ParseAddress(*req.CustomerEmail); err != nil {
			ve.Add("customer_email", "The customer email must be a valid email address.")
		}
	}

	if req.Items != nil {
		validateItems(ve, *req.Items)
	}

	if req.Status != nil && !model.OrderStatus(*req.Status).Valid() {
		ve.Add("status", "The selected status is invalid.")
	}

	var method model.DeliveryMethod
	if req.DeliveryMethod != nil {
		method = model.DeliveryMethod(*req.DeliveryMethod)
		if !method.Valid() {
			ve.Add("delivery_method", "The selected delivery method is invalid.")
		}
	} else {
		method = order.DeliveryMethod
	}

	pickupDate := parseDateField(ve, "pickup_date", req.PickupDate)
	deliveryDate := parseDateField(ve, "delivery_date", req.DeliveryDate)

	// When both dates arrive in one request, delivery must be strictly
	// after pickup. A violation is a validation failure, never a
	// silent correction.
	if pickupDate != nil && deliveryDate != nil && !deliveryDate.After(*pickupDate) {
		ve.Add("delivery_date", "The delivery date must be a date after pickup date.")
	}

	if ve.HasErrors() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Interface("errors", ve.Errors).
			Msg("order update validation failed")
		return nil, ve
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		order.CustomerEmail = normalizeOptional(req.CustomerEmail)
	}
	if req.Status != nil {
		order.Status = model.OrderStatus(*req.Status)
	}
	if req.Notes != nil {
		order.Notes = normalizeOptional(req.Notes)
	}
	if pickupDate != nil {
		order.PickupDate = pickupDate
	}
	if deliveryDate != nil {
		order.DeliveryDate = deliveryDate
	}
	order.DeliveryMethod = method

	if req.Items != nil {
		items := toOrderItems(*req.Items)
		order.Items = items
		order.ServiceType = pricing.ResolveServiceType(items)
		order.TotalAmount = pricing.Total(items)
	}

	// Re-assert the exactly-one-date invariant after the merge.
	switch order.DeliveryMethod {
	case model.DeliveryPickup:
		order.DeliveryDate = nil
		if order.PickupDate == nil {
			ve.Add("pickup_date", "Pickup date is required for pickup orders")
		}
	case model.DeliveryDeliver:
		order.PickupDate = nil
		if order.DeliveryDate == nil {
			ve.Add("delivery_date", "Delivery date is required for delivery orders")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	order.UpdatedAt = time.Now().UTC()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		if err == model.ErrOrderNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID.String()).Msg("order updated")
	return order, nil
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if p == nil {
		return model.ErrUnauthenticated
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	if !auth.Can(p, auth.ActionDeleteOrder) {
		return model.ErrForbidden
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if err == model.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// SearchByCustomerName is the public customer lookup.
func (s *orderService) SearchByCustomerName(ctx context.Context, name string) ([]model.Order, error) {
	orders, err := s.orderRepo.SearchByCustomerName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}

	s.logger.Debug().
		Str("customer_name", name).
		Int("count", len(orders)).
		Msg("customer search completed")

	return orders, nil
}

// Statistics returns the admin dashboard summary.
func (s *orderService) Statistics(ctx context.Context, p *auth.Principal) (*model.Statistics, error) {
	if !auth.Can(p, auth.ActionViewStatistics) {
		return nil, model.ErrForbidden
	}

	stats, err := s.orderRepo.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return stats, nil
}

// EmployeeOverview returns the admin employee roster with order counts.
func (s *orderService) EmployeeOverview(ctx context.Context, p *auth.Principal) ([]model.EmployeeOverview, error) {
	if !auth.Can(p, auth.ActionViewEmployeeOverview) {
		return nil, model.ErrForbidden
	}

	rows, err := s.userRepo.EmployeeRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee overview: %w", err)
	}

	overview := make([]model.EmployeeOverview, 0, len(rows))
	for _, row := range rows {
		overview = append(overview, model.EmployeeOverview{
			ID:                 row.ID,
			Name:               row.Name,
			Email:              row.Email,
			OrdersCount:        row.OrdersCount,
			CreatedAt:          row.CreatedAt.Format("2006-01-02 15:04:05"),
			CreatedAtFormatted: row.CreatedAt.Format("January 2, 2006"),
		})
	}
	return overview, nil
}

// validateCustomerFields checks the shared customer field rules.
func validateCustomerFields(ve *model.ValidationError, name, phone string, email *string) {
	if strings.TrimSpace(name) == "" {
		ve.Add("customer_name", "The customer name field is required.")
	} else if len(name) > 255 {
		ve.Add("customer_name", "The customer name may not be greater than 255 characters.")
	}

	if strings.TrimSpace(phone) == "" {
		ve.Add("customer_phone", "The customer phone field is required.")
	} else if len(phone) > 20 {
		ve.Add("customer_phone", "The customer phone may not be greater than 20 characters.")
	}

	if email != nil && strings.TrimSpace(*email) != "" {
		if _, err := mail.ParseAddress(*email); err != nil {
			ve.Add("customer_email", "The customer email must be a valid email address.")
		}
	}
}

// validateItems checks the per-item rules. "mixed" is rejected at item
// level: it exists only as an order-level derived value.
func validateItems(ve *model.ValidationError, items []model.OrderItemRequest) {
	if len(items) == 0 {
		ve.Add("items", "The items field is required.")
		return
	}

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			ve.Add(fmt.Sprintf("items.%d.name", i), "The name field is required.")
		}
		if item.Quantity < 1 {
			ve.Add(fmt.Sprintf("items.%d.quantity", i), "The quantity must be at least 1.")
		}
		if !model.ServiceType(item.ServiceType).ValidForItem() {
			ve.Add(fmt.Sprintf("items.%d.service_type", i), "The selected service type is invalid.")
		}
	}
}

// parseDateField parses an optional YYYY-MM-DD field, reporting a
// validation error for malformed input. Blank counts as absent.
func parseDateField(ve *model.ValidationError, field string, value *string) *time.Time {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}

	parsed, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		ve.Add(field, fmt.Sprintf("The %s is not a valid date.", strings.ReplaceAll(field, "_", " ")))
		return nil
	}
	return &parsed
}

// toOrderItems converts request items to stored items.
func toOrderItems(items []model.OrderItemRequest) []model.OrderItem {
	converted := make([]model.OrderItem, len(items))
	for i, item := range items {
		converted[i] = model.OrderItem{
			Name:        item.Name,
			Quantity:    item.Quantity,
			ServiceType: model.ServiceType(item.ServiceType),
		}
	}
	return converted
}

// normalizeOptional maps blank optional strings to nil.
func normalizeOptional(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
