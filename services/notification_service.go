package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"wholesale-backend/models"
	"wholesale-backend/repository"
	"wholesale-backend/sender"

	"go.uber.org/zap"
)

// Recipient classes for order notifications. Each is toggled independently
// in store settings; a disabled class is simply skipped.
const (
	RecipientCustomer = "customer"
	RecipientSales    = "sales"
	RecipientDispatch = "dispatch"
	RecipientAccounts = "accounts"
)

const orderEmailTemplate = `<html>
<body>
<h2>Order {{.OrderNumber}}</h2>
<p>Placed by {{.UserName}} ({{.Email}})</p>
<table border="0" cellpadding="4">
<tr><th align="left">Product</th><th align="right">Qty</th><th align="right">Unit</th><th align="right">Line</th></tr>
{{range .Items}}<tr>
<td>{{.Product.Name}}</td>
<td align="right">{{.Quantity}}</td>
<td align="right">${{printf "%.2f" .EffectiveUnitPrice}}</td>
<td align="right">${{printf "%.2f" .LineTotal}}</td>
</tr>{{end}}
</table>
{{if .ShippingOption}}<p>Shipping: {{.ShippingOption.Carrier}} {{.ShippingOption.Name}} (${{printf "%.2f" .ShippingOption.Price}})</p>{{end}}
<p><strong>Total: ${{printf "%.2f" .Total}}</strong></p>
{{if .ShippingAddress}}<p>Deliver to: {{.ShippingAddress.Name}}, {{.ShippingAddress.Street}}, {{.ShippingAddress.City}} {{.ShippingAddress.State}} {{.ShippingAddress.PostalCode}}</p>{{end}}
</body>
</html>`

// NotificationService fans order notifications out to the configured
// recipient classes. Dispatch is best-effort end to end: every failure is
// logged and isolated, nothing is retried, and nothing propagates to the
// order path.
type NotificationService interface {
	DispatchOrderNotifications(ctx context.Context, order *models.Order)
}

type notificationServiceImpl struct {
	settings repository.SettingsRepository
	email    sender.EmailSender
	tmpl     *template.Template
	logger   *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	settings repository.SettingsRepository,
	email sender.EmailSender,
	logger *zap.Logger,
) (NotificationService, error) {
	tmpl, err := template.New("order").Parse(orderEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order template: %w", err)
	}
	return &notificationServiceImpl{
		settings: settings,
		email:    email,
		tmpl:     tmpl,
		logger:   logger,
	}, nil
}

type notificationTarget struct {
	class   string
	to      string
	subject string
}

// DispatchOrderNotifications renders the order email once and sends it to
// every enabled recipient class in parallel. It returns once every send has
// settled; failures are logged and recorded, never surfaced.
func (s *notificationServiceImpl) DispatchOrderNotifications(ctx context.Context, order *models.Order) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to read notification settings", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	var targets []notificationTarget
	if settings.NotifyCustomer && order.Email != "" {
		targets = append(targets, notificationTarget{
			class:   RecipientCustomer,
			to:      order.Email,
			subject: fmt.Sprintf("Order confirmation %s", order.OrderNumber),
		})
	}
	if settings.NotifySales && settings.SalesEmail != "" {
		targets = append(targets, notificationTarget{
			class:   RecipientSales,
			to:      settings.SalesEmail,
			subject: fmt.Sprintf("New wholesale order %s", order.OrderNumber),
		})
	}
	if settings.NotifyDispatch && settings.DispatchEmail != "" {
		targets = append(targets, notificationTarget{
			class:   RecipientDispatch,
			to:      settings.DispatchEmail,
			subject: fmt.Sprintf("Dispatch request %s", order.OrderNumber),
		})
	}
	if settings.NotifyAccounts && settings.AccountsEmail != "" {
		targets = append(targets, notificationTarget{
			class:   RecipientAccounts,
			to:      settings.AccountsEmail,
			subject: fmt.Sprintf("Invoice pending %s", order.OrderNumber),
		})
	}
	if len(targets) == 0 {
		return
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, order); err != nil {
		s.logger.Error("Failed to render order email", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	body := buf.String()

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(t notificationTarget) {
			defer wg.Done()
			s.sendOne(ctx, order, settings.FromEmail, t, body)
		}(target)
	}
	wg.Wait()
}

func (s *notificationServiceImpl) sendOne(ctx context.Context, order *models.Order, from string, target notificationTarget, body string) {
	entry := &models.NotificationLog{
		OrderID:   order.ID,
		Recipient: target.to,
		Class:     target.class,
		Subject:   target.subject,
		Status:    "sent",
	}

	_, err := s.email.Send(ctx, sender.Email{
		From:    from,
		To:      []string{target.to},
		Subject: target.subject,
		HTML:    body,
	})
	if err != nil {
		entry.Status = "failed"
		entry.Error = err.Error()
		s.logger.Warn("Order notification failed",
			zap.String("order_id", order.ID),
			zap.String("class", target.class),
			zap.Error(err),
		)
	}

	if logErr := s.settings.LogNotification(ctx, entry); logErr != nil {
		s.logger.Warn("Failed to record notification log", zap.Error(logErr))
	}
}
