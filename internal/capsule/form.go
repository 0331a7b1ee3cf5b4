package capsule

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/timecapsule/internal/media"
)

// Limits bounds the user-editable form fields.
type Limits struct {
	NameMaxLen   int `json:"name_max_len"`
	PersonnelMin int `json:"personnel_min"`
	PersonnelMax int `json:"personnel_max"`
	StorageMin   int `json:"storage_min"`
	StorageMax   int `json:"storage_max"`
}

func DefaultLimits() Limits {
	return Limits{
		NameMaxLen:   30,
		PersonnelMin: 1,
		PersonnelMax: 10,
		StorageMin:   1,
		StorageMax:   10,
	}
}

// ClampPersonnel forces n into [PersonnelMin, PersonnelMax].
func (l Limits) ClampPersonnel(n int) int {
	return clamp(n, l.PersonnelMin, l.PersonnelMax)
}

// ClampStorage forces n into [StorageMin, StorageMax].
func (l Limits) ClampStorage(n int) int {
	return clamp(n, l.StorageMin, l.StorageMax)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// FormData is the step-1 state of the creation wizard. The price estimate is
// a pure function of this struct.
type FormData struct {
	Name        string       `json:"name"`
	Content     string       `json:"content"`
	DateOption  DateOption   `json:"date_option"`
	CustomDate  *time.Time   `json:"custom_date,omitempty"`
	Personnel   int          `json:"personnel"`
	Storage     int          `json:"storage"`
	Music       bool         `json:"music"`
	Video       bool         `json:"video"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// DefaultFormData is the form a fresh wizard starts with.
func DefaultFormData(l Limits) FormData {
	return FormData{
		DateOption: OpenInWeek,
		Personnel:  l.PersonnelMin,
		Storage:    l.StorageMin,
	}
}

// Clone returns a deep copy; slices and pointers are not shared.
func (f FormData) Clone() FormData {
	if f.CustomDate != nil {
		d := *f.CustomDate
		f.CustomDate = &d
	}
	if f.Attachments != nil {
		atts := make([]Attachment, len(f.Attachments))
		for i, a := range f.Attachments {
			atts[i] = a.clone()
		}
		f.Attachments = atts
	}
	return f
}

// NameLength counts runes, not bytes, so Korean names are measured fairly.
func (f FormData) NameLength() int {
	return utf8.RuneCountInString(f.Name)
}

// Attachment returns the active attachment of the given category.
func (f FormData) Attachment(c media.Category) (Attachment, bool) {
	for _, a := range f.Attachments {
		if a.Category == c {
			return a, true
		}
	}
	return Attachment{}, false
}

// MediaIDs lists the uploaded media IDs in attachment order.
func (f FormData) MediaIDs() []string {
	ids := make([]string, 0, len(f.Attachments))
	for _, a := range f.Attachments {
		if a.Uploaded() {
			ids = append(ids, a.Upload.MediaID)
		}
	}
	return ids
}

// Snapshot is the frozen form handed from INFO to PAYMENT.
type Snapshot struct {
	form FormData
	at   time.Time
}

// Freeze copies f into a Snapshot taken at the given time.
func Freeze(f FormData, at time.Time) Snapshot {
	return Snapshot{form: f.Clone(), at: at}
}

// Form returns a copy of the frozen data. Mutating it does not affect the
// snapshot.
func (s Snapshot) Form() FormData {
	return s.form.Clone()
}

// TakenAt is when the snapshot was frozen; pricing of relative dates uses it.
func (s Snapshot) TakenAt() time.Time {
	return s.at
}

// IsZero reports whether the snapshot was never frozen.
func (s Snapshot) IsZero() bool {
	return s.at.IsZero()
}

type snapshotJSON struct {
	Form    FormData  `json:"form"`
	TakenAt time.Time `json:"taken_at"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{Form: s.form, TakenAt: s.at})
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var v snapshotJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.form = v.Form
	s.at = v.TakenAt
	return nil
}
