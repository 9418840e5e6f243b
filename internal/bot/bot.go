package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/quiz"
	"github.com/example/vocabtrainer/internal/session"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates an inline keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// learnRun is one chat's active learn session
type learnRun struct {
	sess      *session.Session
	setID     string
	startedAt time.Time
}

// flashRun is one chat's active flashcard round (rating-based schedule)
type flashRun struct {
	words     []models.WordRecord
	idx       int
	setID     string
	revealed  bool
	scheduler *spaced_repetition.RatingScheduler
}

// testRun is one chat's active test round
type testRun struct {
	questions []quiz.Question
	idx       int
	setID     string
	correct   int
	startedAt time.Time
}

// Bot represents the Telegram bot application
type Bot struct {
	api    *tgbotapi.BotAPI
	token  string
	config *BotConfig

	wordRepo   *database.WordRepository
	setRepo    *database.SetRepository
	resultRepo *database.ResultRepository
	prefsRepo  *database.PrefsRepository

	mu             sync.Mutex
	learnRuns      map[int64]*learnRun
	flashRuns      map[int64]*flashRun
	testRuns       map[int64]*testRun
	awaitingUpload map[int64]bool
}

// NewBot creates a new bot instance
func NewBot(token string) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	return &Bot{
		token:          token,
		config:         DefaultConfig(),
		wordRepo:       database.NewWordRepository(),
		setRepo:        database.NewSetRepository(),
		resultRepo:     database.NewResultRepository(),
		prefsRepo:      database.NewPrefsRepository(),
		learnRuns:      make(map[int64]*learnRun),
		flashRuns:      make(map[int64]*flashRun),
		testRuns:       make(map[int64]*testRun),
		awaitingUpload: make(map[int64]bool),
	}, nil
}

// Start connects to Telegram and processes updates until the context ends
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop shuts down the update loop
func (b *Bot) Stop(ctx context.Context) error {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	return nil
}

// handleUpdate routes one Telegram update
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Document != nil:
		err = b.handleDocument(ctx, update.Message)
	case update.Message != nil:
		err = b.handleText(ctx, update.Message)
	}
	if err != nil {
		log.Printf("Error handling update: %v", err)
	}
}

// SendReminder notifies a chat about due words. Implements scheduler.Notifier.
func (b *Bot) SendReminder(chatID int64, dueCount int) error {
	text := fmt.Sprintf("You have %d words due for review. Send /study to practice them.", dueCount)
	return b.send(chatID, text)
}

// send delivers a plain text message
func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// sendWithKeyboard delivers a message with an inline keyboard
func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}
