// Package validation gates every value crossing the remote gateway boundary.
// Reads pass a two-stage check (wire shape, then business rules) before they
// can reach the store; writes have their parameters checked before any
// network call is attempted.
package validation

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/arthlor/yeser/internal/client/models"
	"github.com/arthlor/yeser/internal/logging"
)

// EntryRow is the persisted wire structure of one journal entry as the
// backend returns it.
type EntryRow struct {
	ID         string    `json:"id" validate:"required"`
	UserID     string    `json:"user_id" validate:"required"`
	EntryDate  string    `json:"entry_date" validate:"required,entrydate"`
	Statements []string  `json:"statements" validate:"dive,required"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StreakRow is the wire structure returned by the calculate_streak RPC.
type StreakRow struct {
	CurrentStreak int    `json:"current_streak" validate:"gte=0"`
	LongestStreak int    `json:"longest_streak" validate:"gte=0"`
	LastEntryDate string `json:"last_entry_date" validate:"omitempty,entrydate"`
}

// ProfileRow is the wire structure of the profile slice the client reads.
type ProfileRow struct {
	ID         string `json:"id" validate:"required"`
	Username   string `json:"username"`
	AvatarPath string `json:"avatar_path"`
}

type appendParams struct {
	Date string `validate:"required,entrydate"`
	Text string `validate:"required"`
}

type indexedParams struct {
	Date  string `validate:"required,entrydate"`
	Index int    `validate:"gte=0"`
}

// Validator runs the schema checks. Construct one per process with New and
// inject it where needed; it is safe for concurrent use.
type Validator struct {
	v   *validator.Validate
	log logging.Logger
}

func New(log logging.Logger) *Validator {
	v := validator.New()
	_ = v.RegisterValidation("entrydate", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v, log: log.With("component", "validation")}
}

// EntryFromRow converts a decoded wire row into the domain value, running
// both validation stages. Shape or business failures are logged with the
// offending payload attached, so contract mismatches surface loudly.
func (va *Validator) EntryFromRow(ctx context.Context, row EntryRow) (models.Entry, error) {
	if err := va.v.Struct(row); err != nil {
		va.log.Error(ctx, "entry payload failed shape check", "payload", row, "err", err)
		return models.Entry{}, &Error{Stage: StageShape, Detail: "entry row", Err: err}
	}
	if len(row.Statements) == 0 {
		va.log.Error(ctx, "entry payload failed business check", "payload", row)
		return models.Entry{}, &Error{Stage: StageBusiness, Detail: "entry has no statements"}
	}
	statements := make([]string, len(row.Statements))
	copy(statements, row.Statements)
	return models.Entry{
		ID:         row.ID,
		OwnerID:    row.UserID,
		Date:       row.EntryDate,
		Statements: statements,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

// StreakFromRow validates and converts a streak payload.
func (va *Validator) StreakFromRow(ctx context.Context, row StreakRow) (models.Streak, error) {
	if err := va.v.Struct(row); err != nil {
		va.log.Error(ctx, "streak payload failed shape check", "payload", row, "err", err)
		return models.Streak{}, &Error{Stage: StageShape, Detail: "streak row", Err: err}
	}
	return models.Streak{
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		LastEntryDate: row.LastEntryDate,
	}, nil
}

// ProfileFromRow validates and converts a profile payload.
func (va *Validator) ProfileFromRow(ctx context.Context, row ProfileRow) (models.Profile, error) {
	if err := va.v.Struct(row); err != nil {
		va.log.Error(ctx, "profile payload failed shape check", "payload", row, "err", err)
		return models.Profile{}, &Error{Stage: StageShape, Detail: "profile row", Err: err}
	}
	return models.Profile{ID: row.ID, Username: row.Username, AvatarPath: row.AvatarPath}, nil
}

// CheckAppendInput validates the parameters of a statement append and returns
// the trimmed text. Malformed input never reaches the gateway.
func (va *Validator) CheckAppendInput(date, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if err := va.v.Struct(appendParams{Date: date, Text: trimmed}); err != nil {
		return "", &Error{Stage: StageInput, Detail: "append parameters", Err: err}
	}
	return trimmed, nil
}

// CheckIndexedInput validates the parameters shared by positional edit and
// delete. When requireText is set the replacement text must be non-empty
// after trimming; the trimmed text is returned.
func (va *Validator) CheckIndexedInput(date string, index int, text string, requireText bool) (string, error) {
	if err := va.v.Struct(indexedParams{Date: date, Index: index}); err != nil {
		return "", &Error{Stage: StageInput, Detail: "positional parameters", Err: err}
	}
	trimmed := strings.TrimSpace(text)
	if requireText && trimmed == "" {
		return "", &Error{Stage: StageInput, Detail: "replacement text is empty"}
	}
	return trimmed, nil
}

// CheckDateInput validates a bare date parameter.
func (va *Validator) CheckDateInput(date string) error {
	if _, err := models.ParseDate(date); err != nil {
		return &Error{Stage: StageInput, Detail: "entry date", Err: err}
	}
	return nil
}
