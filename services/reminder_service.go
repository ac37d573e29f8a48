// services/reminder_service.go
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

//go:generate mockgen -source=reminder_service.go -destination=mock_sms_sender.go -package=services SMSSender

const (
	ReminderSent    = "sent"
	ReminderFailed  = "failed"
	ReminderSkipped = "skipped"
)

// debt reminders go out at most once per order in this window
const debtReminderInterval = 7 * 24 * time.Hour

var remindersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "doorpro_reminders_total",
	Help: "Customer reminders processed, by type and outcome.",
}, []string{"type", "status"})

// SMSSender delivers a text message and reports the channel used.
type SMSSender interface {
	Send(phone, body string) (channel string, sid string, err error)
}

type TwilioSender struct {
	client         *twilio.RestClient
	phoneNumber    string
	whatsAppNumber string
}

func NewTwilioSender(cfg *config.Config) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		phoneNumber:    cfg.TwilioPhoneNumber,
		whatsAppNumber: cfg.TwilioWhatsAppNumber,
	}
}

// Send uses WhatsApp for E.164 numbers when a WhatsApp sender is configured, SMS otherwise.
func (t *TwilioSender) Send(phone, body string) (string, string, error) {
	channel := "sms"
	to, from := phone, t.phoneNumber
	if strings.HasPrefix(phone, "+") && t.whatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + phone
		from = "whatsapp:" + t.whatsAppNumber
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return channel, "", err
	}
	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return channel, sid, nil
}

type ReminderService struct {
	db       *gorm.DB
	sender   SMSSender
	notifier *NotificationService
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// ReminderRun summarises one pass of the daily job.
type ReminderRun struct {
	Delivery int `json:"delivery"`
	Debt     int `json:"debt"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// NewReminderService accepts a nil sender; reminders are then logged as skipped.
func NewReminderService(db *gorm.DB, sender SMSSender, notifier *NotificationService, schedule string) *ReminderService {
	return &ReminderService{
		db:       db,
		sender:   sender,
		notifier: notifier,
		schedule: schedule,
		now:      time.Now,
	}
}

func (s *ReminderService) StartScheduler() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.SendDailyReminders() }); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	slog.Info("reminder scheduler started", slog.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *ReminderService) SendDailyReminders() ReminderRun {
	slog.Info("starting daily reminder processing")
	var run ReminderRun

	tomorrow := s.now().AddDate(0, 0, 1)
	var deliveries []models.Order
	if err := s.db.Where("dita BETWEEN ? AND ? AND statusi <> ?",
		utils.BeginningOfDay(tomorrow), utils.EndOfDay(tomorrow), models.StatusCompleted).
		Find(&deliveries).Error; err != nil {
		slog.Error("failed to load tomorrow's deliveries", slog.String("error", err.Error()))
	} else {
		run.Delivery = len(deliveries)
		s.sendReminders(deliveries, models.ReminderDelivery, &run)
	}

	debts, err := s.dueDebtOrders()
	if err != nil {
		slog.Error("failed to load debt orders", slog.String("error", err.Error()))
	} else {
		run.Debt = len(debts)
		s.sendReminders(debts, models.ReminderDebt, &run)
	}

	if s.notifier != nil && run.Delivery+run.Debt > 0 {
		s.notifier.NotifyAdmins("Kujtesat ditore",
			fmt.Sprintf("Dorëzime nesër: %d, borxhe: %d. Dërguar: %d, dështuar: %d, anashkaluar: %d.",
				run.Delivery, run.Debt, run.Sent, run.Failed, run.Skipped),
			"/orders")
	}

	slog.Info("daily reminder processing completed",
		slog.Int("delivery", run.Delivery), slog.Int("debt", run.Debt),
		slog.Int("sent", run.Sent), slog.Int("failed", run.Failed), slog.Int("skipped", run.Skipped))
	return run
}

// dueDebtOrders returns debt orders without a successful debt reminder in the last week.
func (s *ReminderService) dueDebtOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("statusi = ? AND is_payment_done = ?", models.StatusDebt, false).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	var recent []models.ReminderLog
	if err := s.db.Where("type = ? AND status = ? AND sent_at > ?",
		models.ReminderDebt, ReminderSent, s.now().Add(-debtReminderInterval)).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	reminded := make(map[string]bool, len(recent))
	for _, r := range recent {
		reminded[r.OrderID.String()] = true
	}

	due := orders[:0]
	for _, o := range orders {
		if !reminded[o.ID.String()] {
			due = append(due, o)
		}
	}
	return due, nil
}

func (s *ReminderService) sendReminders(orders []models.Order, reminderType string, run *ReminderRun) {
	if len(orders) == 0 {
		return
	}

	var template models.ReminderTemplate
	if err := s.db.Where("type = ? AND is_active = ?", reminderType, true).
		First(&template).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to load reminder template", slog.String("type", reminderType), slog.String("error", err.Error()))
		} else {
			slog.Warn("no active reminder template", slog.String("type", reminderType))
		}
		return
	}

	for i := range orders {
		order := &orders[i]
		message := RenderReminder(template.Message, order)

		status, channel, errorMsg := s.deliver(order.NumriTelefonit, message)
		switch status {
		case ReminderSent:
			run.Sent++
		case ReminderFailed:
			run.Failed++
		default:
			run.Skipped++
		}
		remindersTotal.WithLabelValues(reminderType, status).Inc()

		reminderLog := models.ReminderLog{
			OrderID:      order.ID,
			TemplateID:   &template.ID,
			Type:         reminderType,
			Recipient:    order.NumriTelefonit,
			Message:      message,
			Status:       status,
			ErrorMessage: errorMsg,
			Channel:      channel,
			SentAt:       s.now(),
		}
		if err := s.db.Create(&reminderLog).Error; err != nil {
			slog.Error("failed to log reminder", slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
		}
	}
}

func (s *ReminderService) deliver(phone, message string) (status, channel, errorMsg string) {
	if s.sender == nil {
		return ReminderSkipped, "", "messaging not configured"
	}
	if !utils.ValidatePhone(phone) {
		return ReminderSkipped, "", "invalid phone number"
	}

	channel, sid, err := s.sender.Send(phone, message)
	if err != nil {
		slog.Warn("failed to send reminder", slog.String("phone", phone), slog.String("error", err.Error()))
		return ReminderFailed, channel, err.Error()
	}
	slog.Debug("reminder sent", slog.String("phone", phone), slog.String("sid", sid))
	return ReminderSent, channel, ""
}

// RenderReminder fills [CustomerName], [Date] and [Amount] from the order.
func RenderReminder(template string, o *models.Order) string {
	date := "N/A"
	if o.Dita != nil {
		date = o.Dita.Format("02.01.2006")
	}
	return strings.NewReplacer(
		"[CustomerName]", strings.TrimSpace(o.EmriKlientit+" "+o.MbiemriKlientit),
		"[Date]", date,
		"[Amount]", o.RemainingPayment().StringFixed(2),
	).Replace(template)
}
