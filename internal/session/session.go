package session

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/example/vocabtrainer/internal/grading"
	"github.com/example/vocabtrainer/internal/quiz"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/pkg/models"
)

// WordStore is the persistence collaborator the engine studies against. Every
// update call must be applied atomically for its word; the engine issues at
// most one update at a time.
type WordStore interface {
	// QueryCandidates returns all words in the active set.
	QueryCandidates(ctx context.Context) ([]models.WordRecord, error)
	// QueryDue returns the words whose review date has passed or was never set.
	QueryDue(ctx context.Context) ([]models.WordRecord, error)
	// UpdateWord applies a partial update and returns the stored record.
	UpdateWord(ctx context.Context, id string, update models.WordUpdate) (models.WordRecord, error)
}

// Recoverable engine conditions, surfaced to the caller as typed errors.
var (
	// ErrNothingToStudy is reported when the candidate set is empty.
	ErrNothingToStudy = errors.New("no words available to study")
	// ErrEmptyAnswer is reported for a blank submission; no state changes.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrNoActiveQuestion is reported when Submit is called outside the
	// question loop.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrNoOverride is reported when there is no wrong answer to override.
	ErrNoOverride = errors.New("no wrong answer to override")
	// ErrBadState is reported when a command is issued in the wrong state.
	ErrBadState = errors.New("invalid session state for this operation")
)

// State is the session lifecycle state.
type State string

const (
	StateSetup    State = "setup"
	StatePreview  State = "preview"
	StateStudying State = "studying"
	StateComplete State = "complete"
)

// Stage is the per-session mastery stage of one word. Every word enters at
// recognition (multiple choice) and must then pass recall (written) to count
// as mastered.
type Stage string

const (
	StageRecognition Stage = "recognition"
	StageRecall      Stage = "recall"
)

// mode derives the presentation mode from the stage; recognition is always
// multiple choice and recall is always written.
func (s Stage) mode() spaced_repetition.AnswerMode {
	if s == StageRecall {
		return spaced_repetition.ModeWritten
	}
	return spaced_repetition.ModeMultipleChoice
}

// Direction is the orientation of a question.
type Direction string

const (
	// DefToTerm shows the definition and asks for the term.
	DefToTerm Direction = "def_to_term"
	// TermToDef shows the term and asks for the definition.
	TermToDef Direction = "term_to_def"
)

// item is one queue entry: a word snapshot plus its session-local stage.
type item struct {
	record    models.WordRecord
	stage     Stage
	direction Direction
}

// Question is what the presentation layer renders for the current item.
type Question struct {
	Word      models.WordRecord
	Stage     Stage
	Mode      spaced_repetition.AnswerMode
	Direction Direction
	Prompt    string
	Target    string
	// Options is populated for multiple-choice questions only.
	Options      []string
	CorrectIndex int
}

// Result reports how one submission was graded and what it did to the session.
type Result struct {
	Grade    grading.Result
	Correct  bool
	Mastered bool // this answer fully mastered the word
	Target   string
	Done     bool // the session completed on this answer
}

// Stats are the running tallies for one session.
type Stats struct {
	Total   int
	Correct int
	Typos   int
}

// Summary is exposed when the session completes.
type Summary struct {
	Stats    Stats
	Mastered []models.WordRecord
	Studied  []models.WordRecord
}

// Hooks are optional callbacks into the presentation layer. Nil hooks are
// skipped.
type Hooks struct {
	OnQuestionReady   func(Question)
	OnAnswerGraded    func(Result)
	OnSessionComplete func(Summary)
	// OnStoreError reports a failed word update; the session continues.
	OnStoreError func(wordID string, err error)
}

// submission remembers the last graded answer so it can be overridden.
type submission struct {
	it       *item
	stage    Stage             // stage when the answer was graded
	snapshot models.WordRecord // record state before the scheduler ran
	correct  bool
}

// Session drives one bounded study round: a FIFO queue of words that are
// promoted from recognition to recall on success, pushed to the back on
// failure, and removed once recall is passed. Items are only ever appended
// to the tail, so every word resurfaces and none starves.
type Session struct {
	cfg       Config
	store     WordStore
	scheduler *spaced_repetition.IntervalScheduler
	hooks     Hooks
	rnd       *rand.Rand
	now       func() time.Time

	state       State
	vocabulary  []models.WordRecord // distractor pool: the full candidate set
	queue       []*item
	initialSize int
	stats       Stats
	mastered    []models.WordRecord
	masteredIDs map[string]bool
	studied     map[string]models.WordRecord
	current     *Question
	last        *submission
}

// Option configures a Session.
type Option func(*Session)

// WithHooks installs presentation callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

// WithRand replaces the random source, for deterministic option order.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithClock replaces the time source used for scheduling.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session in the setup state.
func New(store WordStore, cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:       cfg,
		store:     store,
		scheduler: spaced_repetition.NewIntervalScheduler(),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		state:     StateSetup,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s, nil
}

func (s *Session) reset() {
	s.state = StateSetup
	s.vocabulary = nil
	s.queue = nil
	s.initialSize = 0
	s.stats = Stats{}
	s.mastered = nil
	s.masteredIDs = make(map[string]bool)
	s.studied = make(map[string]models.WordRecord)
	s.current = nil
	s.last = nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Stats returns the running tallies.
func (s *Session) Stats() Stats { return s.stats }

// InitialSize returns the number of words the batch started with, for
// progress display.
func (s *Session) InitialSize() int { return s.initialSize }

// Remaining returns how many queue entries are still pending.
func (s *Session) Remaining() int { return len(s.queue) }

// Start pulls the candidate words from the store, orders them, takes the
// batch and moves the session to the preview state. Candidates are ordered
// by study stage (never-studied first) and then by how overdue they are,
// with never-scheduled words ahead of everything.
func (s *Session) Start(ctx context.Context) error {
	if s.state != StateSetup {
		return ErrBadState
	}

	candidates, err := s.store.QueryCandidates(ctx)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNothingToStudy
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SRSStage.Order() != b.SRSStage.Order() {
			return a.SRSStage.Order() < b.SRSStage.Order()
		}
		if a.NextReview.IsZero() != b.NextReview.IsZero() {
			return a.NextReview.IsZero()
		}
		return a.NextReview.Before(b.NextReview)
	})

	s.vocabulary = candidates

	batch := candidates
	if len(batch) > s.cfg.BatchSize {
		batch = batch[:s.cfg.BatchSize]
	}
	s.queue = make([]*item, 0, len(batch))
	for _, w := range batch {
		s.queue = append(s.queue, &item{
			record:    w,
			stage:     StageRecognition,
			direction: DefToTerm,
		})
	}
	s.initialSize = len(s.queue)
	s.state = StatePreview
	return nil
}

// Words returns the batch for the preview screen, in queue order.
func (s *Session) Words() []models.WordRecord {
	words := make([]models.WordRecord, 0, len(s.queue))
	for _, it := range s.queue {
		words = append(words, it.record)
	}
	return words
}

// Begin leaves the preview and asks the first question.
func (s *Session) Begin() error {
	if s.state != StatePreview {
		return ErrBadState
	}
	s.state = StateStudying
	s.nextQuestion()
	return nil
}

// Current returns the active question.
func (s *Session) Current() (Question, error) {
	if s.state != StateStudying || s.current == nil {
		return Question{}, ErrNoActiveQuestion
	}
	return *s.current, nil
}

// Submit grades an answer for the active question and advances the queue.
// Multiple-choice answers are compared directly against the expected option;
// written answers go through the typo-tolerant grader. A blank answer is
// rejected with ErrEmptyAnswer and changes nothing.
func (s *Session) Submit(ctx context.Context, answer string) (Result, error) {
	if s.state != StateStudying || s.current == nil {
		return Result{}, ErrNoActiveQuestion
	}
	if strings.TrimSpace(answer) == "" {
		return Result{}, ErrEmptyAnswer
	}

	q := *s.current
	var g grading.Result
	if q.Mode == spaced_repetition.ModeMultipleChoice {
		if strings.TrimSpace(answer) == q.Target {
			g = grading.Exact
		} else {
			g = grading.Wrong
		}
	} else {
		g = grading.Grade(answer, q.Target)
	}

	return s.applyAnswer(ctx, g), nil
}

// Override re-marks the previous wrong answer as correct. Tallies and the
// persisted word state end up exactly as if the answer had been graded
// correct in the first place; the queue transition is redone on the correct
// branch.
func (s *Session) Override(ctx context.Context) (Result, error) {
	if s.state != StateStudying {
		return Result{}, ErrBadState
	}
	if s.last == nil || s.last.correct {
		return Result{}, ErrNoOverride
	}

	sub := s.last
	s.last = nil

	// The wrong answer demoted the item to the queue tail; pull it back out.
	if n := len(s.queue); n > 0 && s.queue[n-1] == sub.it {
		s.queue = s.queue[:n-1]
	}

	// Undo the wrong-path scheduler write, then redo the correct path from
	// the pre-answer snapshot.
	sub.it.record = sub.snapshot
	sub.it.stage = sub.stage
	s.stats.Correct++

	update := s.scheduler.Apply(&sub.it.record, spaced_repetition.AnswerSignal{
		Correct: true,
		Mode:    sub.stage.mode(),
	}, s.now())
	s.persist(ctx, sub.it.record.ID, update)
	s.studied[sub.it.record.ID] = sub.it.record

	res := Result{
		Grade:   grading.Exact,
		Correct: true,
		Target:  targetFor(sub.it),
	}
	res.Mastered = s.advanceCorrect(sub.it)

	// Total was already counted when the answer was graded wrong, so only
	// the queue-drain termination can newly fire here.
	res.Done = s.maybeFinish(false)
	if !res.Done {
		s.nextQuestion()
	}
	if s.hooks.OnAnswerGraded != nil {
		s.hooks.OnAnswerGraded(res)
	}
	return res, nil
}

// applyAnswer runs spec steps 4-8 for one graded answer: tallies, the
// scheduler write-back, the queue transition and the termination check.
func (s *Session) applyAnswer(ctx context.Context, g grading.Result) Result {
	it := s.queue[0]
	s.queue = s.queue[1:]

	correct := g.IsCorrect()
	sub := &submission{it: it, stage: it.stage, snapshot: it.record, correct: correct}

	s.stats.Total++
	if correct {
		s.stats.Correct++
	}
	if g == grading.Typo {
		s.stats.Typos++
	}

	update := s.scheduler.Apply(&it.record, spaced_repetition.AnswerSignal{
		Correct: correct,
		Mode:    it.stage.mode(),
	}, s.now())
	s.persist(ctx, it.record.ID, update)
	s.studied[it.record.ID] = it.record

	res := Result{
		Grade:   g,
		Correct: correct,
		Target:  targetFor(it),
	}

	if correct {
		res.Mastered = s.advanceCorrect(it)
	} else {
		// Retry later, from the start of the pipeline.
		it.stage = StageRecognition
		it.direction = DefToTerm
		s.queue = append(s.queue, it)
	}
	s.last = sub

	res.Done = s.maybeFinish(true)
	if !res.Done {
		s.nextQuestion()
	}
	if s.hooks.OnAnswerGraded != nil {
		s.hooks.OnAnswerGraded(res)
	}
	return res
}

// advanceCorrect applies the correct-answer queue transition and reports
// whether the word was mastered. The item has already been removed from the
// queue head.
func (s *Session) advanceCorrect(it *item) bool {
	if it.stage == StageRecognition {
		it.stage = StageRecall
		it.direction = DefToTerm
		s.queue = append(s.queue, it)
		return false
	}

	// Passed recall: the word is done for this session.
	if !s.masteredIDs[it.record.ID] {
		s.masteredIDs[it.record.ID] = true
		s.mastered = append(s.mastered, it.record)
	}
	return true
}

// maybeFinish evaluates the termination rules using the already-updated
// tallies. countedAnswer is false when re-checking after an override, which
// adds no new answer.
func (s *Session) maybeFinish(countedAnswer bool) bool {
	done := len(s.queue) == 0
	if !done && countedAnswer && s.cfg.Limit == LimitQuestions && s.stats.Total >= s.cfg.BatchSize {
		done = true
	}
	if !done {
		return false
	}

	s.state = StateComplete
	s.current = nil
	s.last = nil
	if s.hooks.OnSessionComplete != nil {
		s.hooks.OnSessionComplete(s.summary())
	}
	return true
}

// nextQuestion builds the question for the queue head and announces it.
func (s *Session) nextQuestion() {
	it := s.queue[0]

	q := Question{
		Word:      it.record,
		Stage:     it.stage,
		Mode:      it.stage.mode(),
		Direction: it.direction,
		Target:    targetFor(it),
	}
	if it.direction == TermToDef {
		q.Prompt = it.record.Term
	} else {
		q.Prompt = it.record.Definition
	}

	if q.Mode == spaced_repetition.ModeMultipleChoice {
		for _, d := range quiz.Distractors(s.rnd, s.vocabulary, it.record.ID, 3) {
			q.Options = append(q.Options, answerText(&d, it.direction))
		}
		q.Options = append(q.Options, q.Target)
		q.CorrectIndex = len(q.Options) - 1
		s.rnd.Shuffle(len(q.Options), func(i, j int) {
			switch q.CorrectIndex {
			case i:
				q.CorrectIndex = j
			case j:
				q.CorrectIndex = i
			}
			q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
		})
	}

	s.current = &q
	if s.hooks.OnQuestionReady != nil {
		s.hooks.OnQuestionReady(q)
	}
}

// persist writes the scheduler update back to the store. A failed write is
// reported but never stops the session: the in-memory queue has already
// moved on and the user keeps studying.
func (s *Session) persist(ctx context.Context, id string, update models.WordUpdate) {
	if _, err := s.store.UpdateWord(ctx, id, update); err != nil {
		log.Printf("failed to update word %s: %v", id, err)
		if s.hooks.OnStoreError != nil {
			s.hooks.OnStoreError(id, err)
		}
	}
}

// Summary returns the completed session's outcome.
func (s *Session) Summary() (Summary, error) {
	if s.state != StateComplete {
		return Summary{}, ErrBadState
	}
	return s.summary(), nil
}

func (s *Session) summary() Summary {
	studied := make([]models.WordRecord, 0, len(s.studied))
	for _, w := range s.studied {
		studied = append(studied, w)
	}
	sort.Slice(studied, func(i, j int) bool { return studied[i].Term < studied[j].Term })

	return Summary{
		Stats:    s.stats,
		Mastered: append([]models.WordRecord(nil), s.mastered...),
		Studied:  studied,
	}
}

// Restart discards all session-local state and returns to setup, ready for
// another Start.
func (s *Session) Restart() error {
	if s.state != StateComplete {
		return ErrBadState
	}
	s.reset()
	return nil
}

// targetFor is the expected answer text for an item.
func targetFor(it *item) string {
	return answerText(&it.record, it.direction)
}

func answerText(w *models.WordRecord, d Direction) string {
	if d == TermToDef {
		return w.Definition
	}
	return w.Term
}
