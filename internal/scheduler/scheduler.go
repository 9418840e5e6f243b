package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabtrainer/internal/database"
)

// Default window for review reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier interface for sending review reminders
type Notifier interface {
	SendReminder(chatID int64, dueCount int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for chats whose reminder hour has arrived
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds chats with due words and notifies them
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().Hour()

	startHour := hourFromEnv("REMINDER_START_HOUR", DefaultReminderStartHour)
	endHour := hourFromEnv("REMINDER_END_HOUR", DefaultReminderEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	ctx := context.Background()
	prefsRepo := database.NewPrefsRepository()
	wordRepo := database.NewWordRepository()

	prefs, err := prefsRepo.GetAllWithReminders(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting reminder preferences: %v", err)
		return
	}

	for _, p := range prefs {
		if p.ActiveSetID == "" {
			continue
		}
		due, err := wordRepo.GetDueBySet(ctx, p.ActiveSetID, time.Now())
		if err != nil {
			log.Printf("Error getting due words for chat %d: %v", p.ChatID, err)
			continue
		}
		if len(due) == 0 {
			continue
		}

		count := len(due)
		if count > p.BatchSize {
			count = p.BatchSize
		}
		if err := s.notifier.SendReminder(p.ChatID, count); err != nil {
			log.Printf("Error sending reminder to chat %d: %v", p.ChatID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific chat
func (s *Scheduler) RunManualCheck(ctx context.Context, chatID int64) error {
	prefs, err := database.NewPrefsRepository().Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return nil
	}

	due, err := database.NewWordRepository().GetDueBySet(ctx, prefs.ActiveSetID, time.Now())
	if err != nil {
		return err
	}
	if len(due) > 0 {
		return s.notifier.SendReminder(chatID, len(due))
	}
	return nil
}

func hourFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
