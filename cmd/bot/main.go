package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shift-planner-bot/internal/config"
	"shift-planner-bot/internal/handler"
	"shift-planner-bot/internal/repository"
	"shift-planner-bot/internal/service"
	"shift-planner-bot/pkg/telegram"
	"shift-planner-bot/pkg/weekends"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.SetLevel(cfg.Level())
	logrus.WithFields(logrus.Fields{
		"company": cfg.CompanyID,
		"plan":    cfg.Plan,
	}).Info("Config initialized")

	// Инициализируем SQLite базу данных
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	store, err := repository.NewStore(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create repositories")
	}

	// Все данные компании держим в памяти, запись идет в базу
	workspace := service.NewWorkspace(service.RepositoriesFromStore(store), service.WorkspaceOptions{
		CompanyID:      cfg.CompanyID,
		Plan:           cfg.Plan,
		EarlyWindow:    cfg.Clocking.EarlyWindow,
		AutoCloseGrace: cfg.Clocking.AutoCloseGrace,
	})
	if err := workspace.Load(); err != nil {
		logrus.WithError(err).Fatal("Failed to load workspace")
	}

	userService := service.NewUserService(store.Users)
	shiftService := service.NewShiftService(workspace)
	clockingService := service.NewClockingService(workspace)
	rosterService := service.NewRosterService(workspace, store.Users)
	calendarService := service.NewCalendarService(workspace)
	inboxService := service.NewInboxService(workspace)
	hoursService := service.NewHoursService(workspace)
	directoryService := service.NewDirectoryService(workspace)

	// Производственный календарь
	if cfg.HolidaysFile != "" {
		days, err := weekends.LoadFile(cfg.HolidaysFile, time.Local)
		if err != nil {
			logrus.WithError(err).Warn("Failed to read holidays file")
		} else if added, err := calendarService.LoadHolidays(days); err != nil {
			logrus.WithError(err).Warn("Failed to load holidays")
		} else {
			logrus.Infof("Holidays loaded: %d new", added)
		}
	}

	// Инициализируем администратора из конфига
	if err := userService.InitializeAdmin(cfg.BaseAdminChatID); err != nil {
		logrus.Infof("Warning: Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		userService,
		shiftService,
		clockingService,
		rosterService,
		calendarService,
		inboxService,
		hoursService,
		directoryService,
		cfg,
	)

	// Фоновые задачи: автозакрытие смен и опрос входящих
	scheduler := service.NewScheduler(clockingService, inboxService, botHandler.NotifyInbox, service.SchedulerConfig{
		AutoCloseEvery: cfg.Clocking.AutoCloseEvery,
		InboxPoll:      cfg.InboxPollInterval,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scheduler.Start(ctx)

	// Запускаем обработку сообщений
	go botHandler.HandleUpdates(client.Updates())

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-ctx.Done()

	client.Stop()
	scheduler.Stop()

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
