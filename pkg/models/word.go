package models

import "time"

// LearningStatus tracks a word through the learn-mode status pipeline.
type LearningStatus string

const (
	StatusNotLearned LearningStatus = "not_learned"
	StatusLearning   LearningStatus = "learning"
	StatusLearned    LearningStatus = "learned"
)

// SRSStage is the flashcard-mode review stage. It is independent of
// LearningStatus: the two are updated by different drill flows.
type SRSStage string

const (
	StageNew      SRSStage = "new"
	StageLearning SRSStage = "learning"
	StageReview   SRSStage = "review"
)

// Order returns the sort rank used when building a study queue:
// never-studied words first, then learning, then review.
func (s SRSStage) Order() int {
	switch s {
	case StageNew:
		return 0
	case StageLearning:
		return 1
	case StageReview:
		return 2
	default:
		return 3
	}
}

// WordRecord represents a vocabulary entry together with its learning metadata
type WordRecord struct {
	ID         string `json:"id" db:"id"`
	SetID      string `json:"set_id" db:"set_id"`
	Term       string `json:"term" db:"term"`
	Definition string `json:"definition" db:"definition"`

	// Optional descriptive fields, free text
	Phonetic    string `json:"phonetic" db:"phonetic"`
	WordType    string `json:"word_type" db:"word_type"` // noun, verb, ...
	Example     string `json:"example" db:"example"`
	Synonym     string `json:"synonym" db:"synonym"`
	Antonym     string `json:"antonym" db:"antonym"`
	Collocation string `json:"collocation" db:"collocation"`
	Note        string `json:"note" db:"note"`
	Level       string `json:"level" db:"level"` // e.g. CEFR level
	Topic       string `json:"topic" db:"topic"`
	Image       string `json:"image" db:"image"` // URL

	ReviewCount    int            `json:"review_count" db:"review_count"`
	CorrectCount   int            `json:"correct_count" db:"correct_count"`
	MasteryLevel   int            `json:"mastery_level" db:"mastery_level"` // 0-5, clamped
	LearningStatus LearningStatus `json:"learning_status" db:"learning_status"`
	SRSStage       SRSStage       `json:"srs_stage" db:"srs_stage"`
	NextReview     time.Time      `json:"next_review" db:"next_review"` // zero value = never scheduled
	Starred        bool           `json:"starred" db:"starred"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the word should be offered for review at the given
// time. An unscheduled word (zero NextReview) is always due.
func (w *WordRecord) IsDue(now time.Time) bool {
	return w.NextReview.IsZero() || !w.NextReview.After(now)
}

// WordUpdate is a partial update applied atomically by the store. Nil fields
// are left untouched.
type WordUpdate struct {
	Term        *string `json:"term,omitempty"`
	Definition  *string `json:"definition,omitempty"`
	Phonetic    *string `json:"phonetic,omitempty"`
	WordType    *string `json:"word_type,omitempty"`
	Example     *string `json:"example,omitempty"`
	Synonym     *string `json:"synonym,omitempty"`
	Antonym     *string `json:"antonym,omitempty"`
	Collocation *string `json:"collocation,omitempty"`
	Note        *string `json:"note,omitempty"`
	Level       *string `json:"level,omitempty"`
	Topic       *string `json:"topic,omitempty"`
	Image       *string `json:"image,omitempty"`

	ReviewCount    *int            `json:"review_count,omitempty"`
	CorrectCount   *int            `json:"correct_count,omitempty"`
	MasteryLevel   *int            `json:"mastery_level,omitempty"`
	LearningStatus *LearningStatus `json:"learning_status,omitempty"`
	SRSStage       *SRSStage       `json:"srs_stage,omitempty"`
	NextReview     *time.Time      `json:"next_review,omitempty"`
	Starred        *bool           `json:"starred,omitempty"`
}

// ApplyTo copies the non-nil fields of the update onto the record.
func (u *WordUpdate) ApplyTo(w *WordRecord) {
	if u.Term != nil {
		w.Term = *u.Term
	}
	if u.Definition != nil {
		w.Definition = *u.Definition
	}
	if u.Phonetic != nil {
		w.Phonetic = *u.Phonetic
	}
	if u.WordType != nil {
		w.WordType = *u.WordType
	}
	if u.Example != nil {
		w.Example = *u.Example
	}
	if u.Synonym != nil {
		w.Synonym = *u.Synonym
	}
	if u.Antonym != nil {
		w.Antonym = *u.Antonym
	}
	if u.Collocation != nil {
		w.Collocation = *u.Collocation
	}
	if u.Note != nil {
		w.Note = *u.Note
	}
	if u.Level != nil {
		w.Level = *u.Level
	}
	if u.Topic != nil {
		w.Topic = *u.Topic
	}
	if u.Image != nil {
		w.Image = *u.Image
	}
	if u.ReviewCount != nil {
		w.ReviewCount = *u.ReviewCount
	}
	if u.CorrectCount != nil {
		w.CorrectCount = *u.CorrectCount
	}
	if u.MasteryLevel != nil {
		w.MasteryLevel = *u.MasteryLevel
	}
	if u.LearningStatus != nil {
		w.LearningStatus = *u.LearningStatus
	}
	if u.SRSStage != nil {
		w.SRSStage = *u.SRSStage
	}
	if u.NextReview != nil {
		w.NextReview = *u.NextReview
	}
	if u.Starred != nil {
		w.Starred = *u.Starred
	}
}
