package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/internal/grading"
	"github.com/example/vocabtrainer/internal/quiz"
	"github.com/example/vocabtrainer/internal/session"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
)

// Callback data prefixes
const (
	callbackBegin    = "begin"
	callbackAnswer   = "ans:"
	callbackOverride = "override"
	callbackReveal   = "flash:show"
	callbackRate     = "flash:rate:"
	callbackTest     = "test:"
)

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	case "newset":
		return b.handleNewSet(ctx, message)
	case "sets":
		return b.handleListSets(ctx, message)
	case "use":
		return b.handleUseSet(ctx, message)
	case "study":
		return b.handleStudy(ctx, message)
	case "flash":
		return b.handleFlash(ctx, message)
	case "test":
		return b.handleTest(ctx, message)
	case "stats":
		return b.handleStats(ctx, message)
	case "import":
		return b.handleImport(message)
	case "batch":
		return b.handleBatchSize(ctx, message)
	case "cancel":
		return b.handleCancel(message)
	default:
		return b.send(message.Chat.ID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	// Creates the chat's preference row on first contact
	if _, err := b.prefsRepo.Get(ctx, message.Chat.ID); err != nil {
		return fmt.Errorf("failed to initialize prefs: %w", err)
	}
	return b.send(message.Chat.ID,
		"Welcome to the vocabulary trainer!\n\n"+
			"Create a word set with /newset, import words with /import, "+
			"then practice with /study, /flash or /test. Send /help for details.")
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	return b.send(message.Chat.ID,
		"/newset <name> - create a word set\n"+
			"/sets - list your sets\n"+
			"/use <name> - pick the active set\n"+
			"/study - learn session (multiple choice, then written recall)\n"+
			"/flash - flashcards with again/hard/good/easy ratings\n"+
			"/test - quick multiple-choice test\n"+
			"/stats - progress overview\n"+
			"/import - upload an .xlsx or .csv word list\n"+
			"/batch <n> - words per study batch\n"+
			"/cancel - abandon the current activity")
}

func (b *Bot) handleNewSet(ctx context.Context, message *tgbotapi.Message) error {
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		return b.send(message.Chat.ID, "Usage: /newset <name>")
	}

	set := &models.WordSet{Name: name}
	if err := b.setRepo.Create(ctx, set); err != nil {
		return b.send(message.Chat.ID, fmt.Sprintf("Could not create set %q: it may already exist.", name))
	}

	prefs, err := b.prefsRepo.Get(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	prefs.ActiveSetID = set.ID
	if err := b.prefsRepo.Update(ctx, prefs); err != nil {
		return err
	}
	return b.send(message.Chat.ID, fmt.Sprintf("Set %q created and selected.", name))
}

func (b *Bot) handleListSets(ctx context.Context, message *tgbotapi.Message) error {
	sets, err := b.setRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return b.send(message.Chat.ID, "No sets yet. Create one with /newset <name>.")
	}

	var sb strings.Builder
	sb.WriteString("Your word sets:\n")
	for _, s := range sets {
		sb.WriteString("- " + s.Name + "\n")
	}
	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handleUseSet(ctx context.Context, message *tgbotapi.Message) error {
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		return b.send(message.Chat.ID, "Usage: /use <name>")
	}

	set, err := b.setRepo.GetByName(ctx, name)
	if err != nil {
		return b.send(message.Chat.ID, fmt.Sprintf("Set %q not found.", name))
	}

	prefs, err := b.prefsRepo.Get(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	prefs.ActiveSetID = set.ID
	if err := b.prefsRepo.Update(ctx, prefs); err != nil {
		return err
	}
	return b.send(message.Chat.ID, fmt.Sprintf("Active set is now %q.", name))
}

func (b *Bot) handleBatchSize(ctx context.Context, message *tgbotapi.Message) error {
	n, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil || n <= 0 || n > 100 {
		return b.send(message.Chat.ID, "Usage: /batch <n> (1-100)")
	}

	prefs, err := b.prefsRepo.Get(ctx, message.Chat.ID)
	if err != nil {
		return err
	}
	prefs.BatchSize = n
	if err := b.prefsRepo.Update(ctx, prefs); err != nil {
		return err
	}
	return b.send(message.Chat.ID, fmt.Sprintf("Batch size set to %d.", n))
}

func (b *Bot) handleCancel(message *tgbotapi.Message) error {
	b.mu.Lock()
	delete(b.learnRuns, message.Chat.ID)
	delete(b.flashRuns, message.Chat.ID)
	delete(b.testRuns, message.Chat.ID)
	delete(b.awaitingUpload, message.Chat.ID)
	b.mu.Unlock()
	return b.send(message.Chat.ID, "Cancelled.")
}

// --- learn sessions ---

func (b *Bot) handleStudy(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	prefs, err := b.prefsRepo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return b.send(chatID, "Pick a word set first: /sets then /use <name>.")
	}

	cfg := session.Config{BatchSize: prefs.BatchSize, Limit: session.LimitType(prefs.LimitType)}
	sess, err := session.New(b.wordRepo.ForSet(prefs.ActiveSetID), cfg)
	if err != nil {
		return err
	}

	if err := sess.Start(ctx); err != nil {
		if errors.Is(err, session.ErrNothingToStudy) {
			return b.send(chatID, "This set has no words yet. Import some with /import.")
		}
		return err
	}

	b.mu.Lock()
	b.learnRuns[chatID] = &learnRun{sess: sess, setID: prefs.ActiveSetID, startedAt: time.Now()}
	b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Today's batch (%d words):\n", len(sess.Words())))
	for _, w := range sess.Words() {
		sb.WriteString(fmt.Sprintf("- %s — %s\n", w.Term, w.Definition))
	}
	keyboard := createKeyboard([][]MenuButton{{{Text: "Begin", CallbackData: callbackBegin}}})
	return b.sendWithKeyboard(chatID, sb.String(), keyboard)
}

// askCurrent presents the active question of a learn session
func (b *Bot) askCurrent(chatID int64, run *learnRun) error {
	q, err := run.sess.Current()
	if err != nil {
		return err
	}

	if q.Mode == spaced_repetition.ModeMultipleChoice {
		var rows [][]MenuButton
		for i, opt := range q.Options {
			rows = append(rows, []MenuButton{{Text: opt, CallbackData: callbackAnswer + strconv.Itoa(i)}})
		}
		text := fmt.Sprintf("Which word means:\n\n%s", q.Prompt)
		return b.sendWithKeyboard(chatID, text, createKeyboard(rows))
	}

	text := fmt.Sprintf("Type the word for:\n\n%s", q.Prompt)
	return b.send(chatID, text)
}

// finishAnswer reports the grading result and either asks the next question
// or wraps the session up
func (b *Bot) finishAnswer(ctx context.Context, chatID int64, run *learnRun, res session.Result) error {
	var feedback string
	switch {
	case res.Grade == grading.Typo:
		feedback = fmt.Sprintf("Almost - accepted with a typo. It's %q.", res.Target)
	case res.Correct:
		feedback = "Correct!"
	default:
		feedback = fmt.Sprintf("Wrong. The answer is %q.", res.Target)
	}
	if res.Mastered {
		feedback += " Word mastered for this session."
	}

	if !res.Correct && !res.Done {
		keyboard := createKeyboard([][]MenuButton{{{Text: "I was right", CallbackData: callbackOverride}}})
		if err := b.sendWithKeyboard(chatID, feedback, keyboard); err != nil {
			return err
		}
	} else {
		if err := b.send(chatID, feedback); err != nil {
			return err
		}
	}

	if res.Done {
		return b.completeLearn(ctx, chatID, run)
	}
	return b.askCurrent(chatID, run)
}

func (b *Bot) completeLearn(ctx context.Context, chatID int64, run *learnRun) error {
	summary, err := run.sess.Summary()
	if err != nil {
		return err
	}

	result := &models.SessionResult{
		SetID:        run.setID,
		Mode:         "learn",
		TotalAsked:   summary.Stats.Total,
		TotalCorrect: summary.Stats.Correct,
		TotalTypos:   summary.Stats.Typos,
		Mastered:     len(summary.Mastered),
		Duration:     int(time.Since(run.startedAt).Seconds()),
		FinishedAt:   time.Now(),
	}
	if err := b.resultRepo.Create(ctx, result); err != nil {
		log.Printf("Failed to save session result: %v", err)
	}

	b.mu.Lock()
	delete(b.learnRuns, chatID)
	b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session complete!\n\nAnswered: %d\nCorrect: %d",
		summary.Stats.Total, summary.Stats.Correct))
	if summary.Stats.Typos > 0 {
		sb.WriteString(fmt.Sprintf(" (%d with typos)", summary.Stats.Typos))
	}
	sb.WriteString(fmt.Sprintf("\nMastered: %d\n", len(summary.Mastered)))
	for _, w := range summary.Mastered {
		sb.WriteString(fmt.Sprintf("- %s — %s\n", w.Term, w.Definition))
	}
	sb.WriteString("\nSend /study to go again.")
	return b.send(chatID, sb.String())
}

// --- flashcards ---

func (b *Bot) handleFlash(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	prefs, err := b.prefsRepo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return b.send(chatID, "Pick a word set first: /sets then /use <name>.")
	}

	words, err := b.wordRepo.GetBySet(ctx, prefs.ActiveSetID)
	if err != nil {
		return err
	}
	due := spaced_repetition.DueWords(words, time.Now(), b.config.FlashcardLimit)
	if len(due) == 0 {
		return b.send(chatID, "Nothing is due for review right now. Well done!")
	}

	b.mu.Lock()
	b.flashRuns[chatID] = &flashRun{
		words:     due,
		setID:     prefs.ActiveSetID,
		scheduler: spaced_repetition.NewRatingScheduler(),
	}
	b.mu.Unlock()

	if err := b.send(chatID, fmt.Sprintf("%d cards due.", len(due))); err != nil {
		return err
	}
	return b.showFlashcard(chatID)
}

func (b *Bot) showFlashcard(chatID int64) error {
	b.mu.Lock()
	run := b.flashRuns[chatID]
	b.mu.Unlock()
	if run == nil || run.idx >= len(run.words) {
		return nil
	}

	word := run.words[run.idx]
	run.revealed = false
	text := fmt.Sprintf("Card %d/%d\n\n%s", run.idx+1, len(run.words), word.Term)
	if word.Phonetic != "" {
		text += " " + word.Phonetic
	}
	keyboard := createKeyboard([][]MenuButton{{{Text: "Show answer", CallbackData: callbackReveal}}})
	return b.sendWithKeyboard(chatID, text, keyboard)
}

func (b *Bot) revealFlashcard(chatID int64) error {
	b.mu.Lock()
	run := b.flashRuns[chatID]
	b.mu.Unlock()
	if run == nil || run.idx >= len(run.words) {
		return nil
	}

	run.revealed = true
	word := run.words[run.idx]
	text := word.Term + " — " + word.Definition
	if word.Example != "" {
		text += "\n\n" + word.Example
	}
	keyboard := createKeyboard([][]MenuButton{{
		{Text: "Again", CallbackData: callbackRate + string(spaced_repetition.RatingAgain)},
		{Text: "Hard", CallbackData: callbackRate + string(spaced_repetition.RatingHard)},
		{Text: "Good", CallbackData: callbackRate + string(spaced_repetition.RatingGood)},
		{Text: "Easy", CallbackData: callbackRate + string(spaced_repetition.RatingEasy)},
	}})
	return b.sendWithKeyboard(chatID, text, keyboard)
}

func (b *Bot) rateFlashcard(ctx context.Context, chatID int64, rating spaced_repetition.Rating) error {
	b.mu.Lock()
	run := b.flashRuns[chatID]
	b.mu.Unlock()
	if run == nil || run.idx >= len(run.words) {
		return nil
	}
	if !run.revealed {
		return b.send(chatID, "Show the answer first.")
	}

	word := &run.words[run.idx]
	update, err := run.scheduler.Apply(word, rating, time.Now())
	if err != nil {
		return err
	}
	if _, err := b.wordRepo.Update(ctx, word.ID, update); err != nil {
		log.Printf("Failed to update word %s: %v", word.ID, err)
	}

	run.idx++
	if run.idx >= len(run.words) {
		b.mu.Lock()
		delete(b.flashRuns, chatID)
		b.mu.Unlock()
		return b.send(chatID, "All cards reviewed. Send /flash to check again later.")
	}
	return b.showFlashcard(chatID)
}

// --- tests ---

func (b *Bot) handleTest(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	prefs, err := b.prefsRepo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return b.send(chatID, "Pick a word set first: /sets then /use <name>.")
	}

	words, err := b.wordRepo.GetBySet(ctx, prefs.ActiveSetID)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return b.send(chatID, "This set has no words yet. Import some with /import.")
	}

	questions := quiz.NewGenerator().BuildTest(words, b.config.TestLength, quiz.MultipleChoice)
	b.mu.Lock()
	b.testRuns[chatID] = &testRun{questions: questions, setID: prefs.ActiveSetID, startedAt: time.Now()}
	b.mu.Unlock()

	return b.askTestQuestion(chatID)
}

func (b *Bot) askTestQuestion(chatID int64) error {
	b.mu.Lock()
	run := b.testRuns[chatID]
	b.mu.Unlock()
	if run == nil || run.idx >= len(run.questions) {
		return nil
	}

	q := run.questions[run.idx]
	var rows [][]MenuButton
	for i, opt := range q.Options {
		rows = append(rows, []MenuButton{{Text: opt, CallbackData: callbackTest + strconv.Itoa(i)}})
	}
	text := fmt.Sprintf("Question %d/%d\n\n%s", run.idx+1, len(run.questions), q.Word.Definition)
	return b.sendWithKeyboard(chatID, text, createKeyboard(rows))
}

func (b *Bot) answerTestQuestion(ctx context.Context, chatID int64, optionIdx int) error {
	b.mu.Lock()
	run := b.testRuns[chatID]
	b.mu.Unlock()
	if run == nil || run.idx >= len(run.questions) {
		return nil
	}

	q := run.questions[run.idx]
	var feedback string
	if optionIdx == q.CorrectIndex {
		run.correct++
		feedback = "Correct!"
	} else {
		feedback = fmt.Sprintf("Wrong. The answer is %q.", q.Options[q.CorrectIndex])
	}
	if err := b.send(chatID, feedback); err != nil {
		return err
	}

	run.idx++
	if run.idx < len(run.questions) {
		return b.askTestQuestion(chatID)
	}

	result := &models.SessionResult{
		SetID:        run.setID,
		Mode:         "test",
		TotalAsked:   len(run.questions),
		TotalCorrect: run.correct,
		Duration:     int(time.Since(run.startedAt).Seconds()),
		FinishedAt:   time.Now(),
	}
	if err := b.resultRepo.Create(ctx, result); err != nil {
		log.Printf("Failed to save test result: %v", err)
	}

	b.mu.Lock()
	delete(b.testRuns, chatID)
	b.mu.Unlock()
	return b.send(chatID, fmt.Sprintf("Test finished: %d/%d correct.", run.correct, len(run.questions)))
}

// --- stats and import ---

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	prefs, err := b.prefsRepo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return b.send(chatID, "Pick a word set first: /sets then /use <name>.")
	}

	overview, err := b.resultRepo.GetOverview(ctx, prefs.ActiveSetID)
	if err != nil {
		return err
	}

	accuracy := 0.0
	if overview.TotalAsked > 0 {
		accuracy = 100 * float64(overview.TotalCorrect) / float64(overview.TotalAsked)
	}
	return b.send(chatID, fmt.Sprintf(
		"Words: %d (%d learned)\nSessions: %d\nQuestions answered: %d\nAccuracy: %.0f%%",
		overview.TotalWords, overview.LearnedWords, overview.Sessions,
		overview.TotalAsked, accuracy))
}

func (b *Bot) handleImport(message *tgbotapi.Message) error {
	b.mu.Lock()
	b.awaitingUpload[message.Chat.ID] = true
	b.mu.Unlock()
	return b.send(message.Chat.ID,
		"Send me an .xlsx or .csv file. Columns: term, definition, phonetic, type, example, topic.")
}

func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	b.mu.Lock()
	awaiting := b.awaitingUpload[chatID]
	delete(b.awaitingUpload, chatID)
	b.mu.Unlock()
	if !awaiting {
		return nil
	}

	prefs, err := b.prefsRepo.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs.ActiveSetID == "" {
		return b.send(chatID, "Pick a word set first: /sets then /use <name>.")
	}
	set, err := b.setRepo.GetByID(ctx, prefs.ActiveSetID)
	if err != nil {
		return err
	}

	path, err := b.downloadDocument(message.Document)
	if err != nil {
		return b.send(chatID, fmt.Sprintf("Could not download the file: %v", err))
	}
	defer os.Remove(path)

	config := excel.DefaultImportConfig()
	config.FilePath = path
	config.SetName = set.Name

	result, err := excel.ImportWords(ctx, config)
	if err != nil {
		return b.send(chatID, fmt.Sprintf("Import failed: %v", err))
	}

	text := fmt.Sprintf("Import done: %d created, %d updated, %d skipped.",
		result.Created, result.Updated, result.Skipped)
	if len(result.Errors) > 0 {
		text += fmt.Sprintf(" %d rows had errors.", len(result.Errors))
	}
	return b.send(chatID, text)
}

// downloadDocument fetches an uploaded Telegram file into a temp path
func (b *Bot) downloadDocument(doc *tgbotapi.Document) (string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %v", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %v", err)
	}
	defer resp.Body.Close()

	out, err := os.CreateTemp("", "import-*"+filepath.Ext(doc.FileName))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}
	return out.Name(), nil
}

// --- callback and text routing ---

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	chatID := query.Message.Chat.ID
	data := query.Data

	// Acknowledge so the button stops spinning
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	switch {
	case data == callbackBegin:
		b.mu.Lock()
		run := b.learnRuns[chatID]
		b.mu.Unlock()
		if run == nil {
			return nil
		}
		if err := run.sess.Begin(); err != nil {
			return err
		}
		return b.askCurrent(chatID, run)

	case strings.HasPrefix(data, callbackAnswer):
		b.mu.Lock()
		run := b.learnRuns[chatID]
		b.mu.Unlock()
		if run == nil {
			return nil
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(data, callbackAnswer))
		if err != nil {
			return err
		}
		q, err := run.sess.Current()
		if err != nil || idx < 0 || idx >= len(q.Options) {
			return err
		}
		res, err := run.sess.Submit(ctx, q.Options[idx])
		if err != nil {
			return err
		}
		return b.finishAnswer(ctx, chatID, run, res)

	case data == callbackOverride:
		b.mu.Lock()
		run := b.learnRuns[chatID]
		b.mu.Unlock()
		if run == nil {
			return nil
		}
		res, err := run.sess.Override(ctx)
		if errors.Is(err, session.ErrNoOverride) {
			return b.send(chatID, "Nothing to override.")
		}
		if err != nil {
			return err
		}
		if err := b.send(chatID, "Counted as correct."); err != nil {
			return err
		}
		if res.Done {
			return b.completeLearn(ctx, chatID, run)
		}
		return b.askCurrent(chatID, run)

	case data == callbackReveal:
		return b.revealFlashcard(chatID)

	case strings.HasPrefix(data, callbackRate):
		rating := spaced_repetition.Rating(strings.TrimPrefix(data, callbackRate))
		return b.rateFlashcard(ctx, chatID, rating)

	case strings.HasPrefix(data, callbackTest):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, callbackTest))
		if err != nil {
			return err
		}
		return b.answerTestQuestion(ctx, chatID, idx)
	}

	return nil
}

// handleText routes free text: written answers for an active learn session
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	b.mu.Lock()
	run := b.learnRuns[chatID]
	b.mu.Unlock()
	if run == nil {
		return nil
	}

	q, err := run.sess.Current()
	if err != nil {
		return nil
	}
	if q.Mode != spaced_repetition.ModeWritten {
		return b.send(chatID, "Use the answer buttons above.")
	}

	res, err := run.sess.Submit(ctx, message.Text)
	if errors.Is(err, session.ErrEmptyAnswer) {
		return b.send(chatID, "Please type an answer.")
	}
	if err != nil {
		return err
	}
	return b.finishAnswer(ctx, chatID, run, res)
}
