// Package intake runs the seven-step client intake wizard: per-step
// validation, draft persistence, document autofill and the final insert.
package intake

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/ocr"
	"github.com/diewo77/salescrm/internal/records"
	"github.com/diewo77/salescrm/validation"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	StepIdentification = iota
	StepPersonal
	StepContact
	StepEmployment
	StepFinancial
	StepCompliance
	StepReview
)

// StepTitles are the wizard headings, in step order.
var StepTitles = []string{
	"Identificación",
	"Información Personal",
	"Información de Contacto",
	"Información Laboral",
	"Información Financiera",
	"Información de Cumplimiento",
	"Revisión",
}

var (
	// ErrDuplicateClient: the document number or email already exists.
	ErrDuplicateClient = errors.New("duplicate_client")
	// ErrSubmitFailed is any other insert failure; the user may retry.
	ErrSubmitFailed = errors.New("client_create_failed")
	// ErrSingleImageUnconfirmed: one image was sent without confirming that
	// only one side is available. Nothing was sent to the model.
	ErrSingleImageUnconfirmed = errors.New("ocr_single_image_warning")
	ErrNotFirstStep           = errors.New("ocr_only_first_step")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// goFields maps client json keys to struct field names, which is what
// validator.StructPartial expects.
var goFields = func() map[string]string {
	t := reflect.TypeOf(models.Client{})
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		m[name] = t.Field(i).Name
	}
	return m
}()

// formFields is every key the wizard may set.
var formFields = func() map[string]bool {
	m := map[string]bool{}
	for _, sec := range catalog.Sections {
		for _, k := range catalog.SectionKeys(sec) {
			m[k] = true
		}
	}
	return m
}()

// Extractor reads ID fields off document photos.
type Extractor interface {
	Extract(ctx context.Context, uploads []ocr.Upload) (*ocr.Fields, error)
}

// Wizard is the intake form of one user. The draft is loaded from the store
// on first use and written back after every change.
type Wizard struct {
	mu     sync.Mutex
	userID uint
	store  DraftStore
	logger logrus.FieldLogger
	draft  Draft
	loaded bool
}

func NewWizard(userID uint, store DraftStore, logger logrus.FieldLogger) *Wizard {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Wizard{userID: userID, store: store, logger: logger, draft: blankDraft()}
}

// blankDraft starts with every compliance answer set to "no".
func blankDraft() Draft {
	d := Draft{}
	for _, k := range catalog.SectionKeys(catalog.SectionCompliance) {
		if col, _ := catalog.For(catalog.Clients).Column(k); col.Kind == catalog.KindBool {
			_ = d.Client.SetField(k, false)
		}
	}
	return d
}

// Snapshot is the JSON view of the wizard.
type Snapshot struct {
	Step    int                 `json:"current_step"`
	Title   string              `json:"title"`
	Steps   []string            `json:"steps"`
	Fields  []catalog.Column    `json:"fields,omitempty"`
	Data    models.Client       `json:"data"`
	Options map[string][]string `json:"options"`
}

// Open loads the saved draft once. A missing or unreadable draft leaves the
// blank form; the draft is not validated.
func (w *Wizard) Open(ctx context.Context) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openLocked(ctx)
	return w.snapshotLocked()
}

func (w *Wizard) openLocked(ctx context.Context) {
	if w.loaded {
		return
	}
	w.loaded = true
	d, err := w.store.Load(ctx, w.userID)
	switch {
	case errors.Is(err, ErrNoDraft):
		return
	case err != nil:
		w.logger.WithError(err).WithField("user_id", w.userID).Warn("could not load intake draft")
		return
	}
	if d.Step < StepIdentification || d.Step > StepReview {
		d.Step = StepIdentification
	}
	w.draft = *d
}

func (w *Wizard) snapshotLocked() Snapshot {
	s := Snapshot{
		Step:    w.draft.Step,
		Title:   StepTitles[w.draft.Step],
		Steps:   StepTitles,
		Data:    w.draft.Client,
		Options: catalog.Options,
	}
	if w.draft.Step < StepReview {
		s.Fields = catalog.SectionColumns(catalog.Sections[w.draft.Step])
	}
	return s
}

func (w *Wizard) persistLocked(ctx context.Context) {
	if err := w.store.Save(ctx, w.userID, &w.draft); err != nil {
		w.logger.WithError(err).WithField("user_id", w.userID).Warn("could not save intake draft")
	}
}

// Set changes one field and saves the draft. Bad values for numeric or
// boolean fields are reported as Violations.
func (w *Wizard) Set(ctx context.Context, field string, value any) error {
	return w.SetMany(ctx, map[string]any{field: value})
}

// SetMany applies all changes or none.
func (w *Wizard) SetMany(ctx context.Context, values map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openLocked(ctx)

	next := w.draft.Client
	v := validation.Violations{}
	for field, value := range values {
		if !formFields[field] {
			v.Add(field, "invalid")
			continue
		}
		if err := next.SetField(field, value); err != nil {
			code := "invalid_number"
			if col, _ := catalog.For(catalog.Clients).Column(field); col.Kind == catalog.KindBool {
				code = "invalid_option"
			}
			v.Add(field, code)
		}
	}
	if !v.Empty() {
		return v
	}
	w.draft.Client = next
	w.persistLocked(ctx)
	return nil
}

// Next validates the current step and moves forward. On failure the step
// does not change and the Violations are returned.
func (w *Wizard) Next(ctx context.Context) (Snapshot, validation.Violations) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openLocked(ctx)
	if v := StepViolations(w.draft.Step, &w.draft.Client); !v.Empty() {
		return w.snapshotLocked(), v
	}
	if w.draft.Step < StepReview {
		w.draft.Step++
		w.persistLocked(ctx)
	}
	return w.snapshotLocked(), nil
}

// Previous moves back one step without validating.
func (w *Wizard) Previous(ctx context.Context) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openLocked(ctx)
	if w.draft.Step > StepIdentification {
		w.draft.Step--
		w.persistLocked(ctx)
	}
	return w.snapshotLocked()
}

// Autofill sends uploads to ex and merges what it read into the draft.
// Only the identification step accepts documents, and a single image must
// be confirmed. Extracted empty values never overwrite the draft.
func (w *Wizard) Autofill(ctx context.Context, ex Extractor, uploads []ocr.Upload, confirmSingle bool) (map[string]string, error) {
	w.mu.Lock()
	w.openLocked(ctx)
	step := w.draft.Step
	w.mu.Unlock()

	if step != StepIdentification {
		return nil, ErrNotFirstStep
	}
	if err := ocr.Validate(uploads); err != nil {
		return nil, err
	}
	if len(uploads) == 1 && !confirmSingle {
		return nil, ErrSingleImageUnconfirmed
	}
	fields, err := ex.Extract(ctx, uploads)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft.Step != StepIdentification {
		return nil, ErrNotFirstStep
	}
	merged := Merge(&w.draft.Client, fields)
	w.persistLocked(ctx)
	return merged, nil
}

// Merge copies the non-empty extracted values onto c and returns the ones
// it set.
func Merge(c *models.Client, f *ocr.Fields) map[string]string {
	merged := map[string]string{}
	for k, v := range f.Map() {
		if err := c.SetField(k, v); err != nil {
			continue
		}
		merged[k] = v
	}
	return merged
}

// Submit validates the whole record and inserts it. On success the draft is
// deleted and the wizard starts over.
func (w *Wizard) Submit(ctx context.Context, src records.Source) (*models.Client, validation.Violations, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openLocked(ctx)

	if v := StepViolations(StepReview, &w.draft.Client); !v.Empty() {
		return nil, v, nil
	}
	c := w.draft.Client
	c.NullifyBlanks()
	c.ID = ""
	if err := src.InsertClient(ctx, &c); err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			return nil, nil, fmt.Errorf("%w: %v", ErrDuplicateClient, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	if err := w.store.Delete(ctx, w.userID); err != nil {
		w.logger.WithError(err).WithField("user_id", w.userID).Warn("could not delete intake draft")
	}
	w.draft = blankDraft()
	return &c, nil, nil
}

// StepViolations checks the fields of step. The review step checks the
// whole record.
func StepViolations(step int, c *models.Client) validation.Violations {
	cp := *c
	cp.NullifyBlanks()

	var err error
	if step >= StepReview {
		err = validate.Struct(&cp)
	} else {
		keys := catalog.SectionKeys(catalog.Sections[step])
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, goFields[k])
		}
		err = validate.StructPartial(&cp, names...)
	}
	v := validation.FromValidator(err)
	if v == nil {
		v = validation.Violations{}
	}
	if step == StepCompliance || step >= StepReview {
		if cp.RecursosDependenTercero != nil && *cp.RecursosDependenTercero && cp.Recurso == nil {
			v.Add("recurso", "resource_required")
		}
	}
	return v
}
