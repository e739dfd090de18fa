package main

import (
	"context"
	"log"
	"time"

	"finbox/internal/models"
	"finbox/internal/repository"
	"finbox/pkg/auth"
	"finbox/pkg/config"
	"finbox/pkg/logger"
	"finbox/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@finbox.dev"
	demoPassword = "demo-password-123"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	msgRepo := repository.NewMessageRepository(db, appLogger)
	guidelineRepo := repository.NewGuidelineRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	if err := seedGuidelines(ctx, guidelineRepo, appLogger); err != nil {
		appLogger.Fatal("Failed to seed category guidelines", zap.Error(err))
	}

	demoUser, err := seedDemoUser(ctx, userRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	if err := seedMessages(ctx, msgRepo, demoUser.ID, appLogger); err != nil {
		appLogger.Fatal("Failed to seed sample messages", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

// seedGuidelines inserts one guideline per category. Skipped entirely when
// guidelines already exist so reruns stay idempotent.
func seedGuidelines(ctx context.Context, repo *repository.GuidelineRepository, logger *zap.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Category guidelines already seeded, skipping", zap.Int("count", len(existing)))
		return nil
	}

	now := time.Now()
	guidelines := []struct {
		category      models.MessageCategory
		description   string
		samplePhrases string
	}{
		{
			models.CategoryFinance,
			"Money moving in or out: salary slips, invoices, bills, receipts, bank and card statements, payment confirmations, tax documents.",
			"salary credited, invoice attached, payment due, total amount, your receipt, account statement, tax deducted",
		},
		{
			models.CategoryWork,
			"Professional correspondence: meeting requests, project updates, reviews, HR announcements without payment details.",
			"standup notes, sprint review, performance cycle, please find the agenda, offsite planning",
		},
		{
			models.CategoryPersonal,
			"Direct mail between individuals: family, friends, appointments, personal plans.",
			"see you Saturday, happy birthday, how have you been, dinner at our place",
		},
		{
			models.CategoryTravel,
			"Trip bookings and itineraries: flight and train confirmations, hotel reservations, check-in reminders, visa notices.",
			"booking confirmed, e-ticket, check-in opens, itinerary attached, boarding pass, reservation number",
		},
		{
			models.CategoryShopping,
			"Orders and deliveries: order confirmations, shipping updates, return windows, product availability.",
			"order shipped, out for delivery, track your package, return window, back in stock",
		},
		{
			models.CategoryNewsletters,
			"Bulk mailings and digests: editorial newsletters, product announcements, marketing campaigns, community digests.",
			"unsubscribe, this week in, view in browser, special offer, new from our blog",
		},
		{
			models.CategoryGeneral,
			"Anything that fits no other category: verification codes, service notices, automated alerts.",
			"verification code, password reset, scheduled maintenance, terms of service update",
		},
	}

	for _, g := range guidelines {
		guideline := &models.CategoryGuideline{
			ID:            uuid.New(),
			Category:      g.category,
			Description:   g.description,
			SamplePhrases: g.samplePhrases,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repo.Create(ctx, guideline); err != nil {
			return err
		}
		logger.Info("Seeded category guideline", zap.String("category", string(g.category)))
	}

	return nil
}

func seedDemoUser(ctx context.Context, repo *repository.UserRepository, logger *zap.Logger) (*models.User, error) {
	existing, err := repo.GetByEmail(ctx, demoEmail)
	if err == nil {
		logger.Info("Demo user already exists, skipping", zap.String("email", demoEmail))
		return existing, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Seeded demo user", zap.String("email", demoEmail))
	return user, nil
}

// seedMessages stores a handful of unprocessed sample messages so the demo
// user has something to run through /process right away.
func seedMessages(ctx context.Context, repo *repository.MessageRepository, userID uuid.UUID, logger *zap.Logger) error {
	count, err := repo.Count(ctx, userID, repository.MessageFilter{})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Sample messages already seeded, skipping", zap.Int64("count", count))
		return nil
	}

	now := time.Now()
	samples := []*models.Message{
		{
			ID:             uuid.New(),
			UserID:         userID,
			Sender:         "payroll@acme.example",
			Recipients:     demoEmail,
			Subject:        "Salary Slip - March 2026",
			Body:           "Dear employee, please find your salary slip for March attached. Amounts are in Rs. as usual.",
			AttachmentName: "salary_march.pdf",
			AttachmentText: "ACME Corp Salary Slip March 2026\nBasic Salary 30,000\nHRA 10,000\nProfessional Tax 2,000\nProvident Fund 1,800\nNet Pay 36,200",
			ReceivedAt:     now.Add(-72 * time.Hour),
		},
		{
			ID:         uuid.New(),
			UserID:     userID,
			Sender:     "billing@hostify.example",
			Recipients: demoEmail,
			Subject:    "Invoice #4821 for your subscription",
			Body:       "Invoice #4821\nCloud hosting plan: $24.00\nExtra storage x 2: $5.00 each\nTotal due: $34.00\nPayment is due within 14 days.",
			ReceivedAt: now.Add(-48 * time.Hour),
		},
		{
			ID:         uuid.New(),
			UserID:     userID,
			Sender:     "sam@friends.example",
			Recipients: demoEmail,
			Subject:    "Coffee on Friday?",
			Body:       "Hey! Are you free for coffee on Friday afternoon? The new place near the park finally opened.",
			ReceivedAt: now.Add(-24 * time.Hour),
		},
	}

	for _, msg := range samples {
		msg.FinancialStatus = models.FinancialStatusPending
		msg.CreatedAt = now
		msg.UpdatedAt = now
		if err := repo.Create(ctx, msg); err != nil {
			return err
		}
		logger.Info("Seeded sample message", zap.String("subject", msg.Subject))
	}

	return nil
}
