package wizard

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/media"
)

// Form returns a copy of the editable form.
func (w *Wizard) Form() capsule.FormData {
	return w.form.Clone()
}

func (w *Wizard) edit(fn func(f *capsule.FormData) error) error {
	if w.step != StepInfo {
		return ErrWrongStep
	}
	return fn(&w.form)
}

func (w *Wizard) SetName(name string) error {
	return w.edit(func(f *capsule.FormData) error {
		f.Name = name
		return nil
	})
}

func (w *Wizard) SetContent(content string) error {
	return w.edit(func(f *capsule.FormData) error {
		f.Content = content
		return nil
	})
}

func (w *Wizard) SetDateOption(o capsule.DateOption) error {
	return w.edit(func(f *capsule.FormData) error {
		if !o.Valid() {
			return fmt.Errorf("unknown open date option %q", o)
		}
		f.DateOption = o
		return nil
	})
}

// SetCustomDate stores the date and selects the custom option.
func (w *Wizard) SetCustomDate(t time.Time) error {
	return w.edit(func(f *capsule.FormData) error {
		f.DateOption = capsule.OpenOnCustom
		f.CustomDate = &t
		return nil
	})
}

// SetPersonnel clamps n into the configured range and returns the stored value.
func (w *Wizard) SetPersonnel(n int) (int, error) {
	err := w.edit(func(f *capsule.FormData) error {
		f.Personnel = w.limits.ClampPersonnel(n)
		return nil
	})
	return w.form.Personnel, err
}

// SetStorage clamps n into the configured range and returns the stored value.
func (w *Wizard) SetStorage(n int) (int, error) {
	err := w.edit(func(f *capsule.FormData) error {
		f.Storage = w.limits.ClampStorage(n)
		return nil
	})
	return w.form.Storage, err
}

func (w *Wizard) SetMusic(on bool) error {
	return w.edit(func(f *capsule.FormData) error {
		f.Music = on
		return nil
	})
}

func (w *Wizard) SetVideo(on bool) error {
	return w.edit(func(f *capsule.FormData) error {
		f.Video = on
		return nil
	})
}

// AddAttachment adds a file, replacing any attachment of the same category.
// The extension is checked immediately. Non-image files are also size
// checked; images may still shrink during upload.
func (w *Wizard) AddAttachment(a capsule.Attachment) error {
	return w.edit(func(f *capsule.FormData) error {
		if !a.Category.Valid() {
			return &media.ValidationError{Kind: media.UnsupportedExtension, Category: a.Category, Message: "unknown media category"}
		}
		var err error
		if a.Category == media.Image {
			err = media.CheckExtension(a.Category, a.Name)
		} else {
			err = media.ValidateFile(a.Path, a.Category, a.Name)
		}
		if err != nil {
			return err
		}

		for i, cur := range f.Attachments {
			if cur.Category == a.Category {
				f.Attachments[i] = a
				return nil
			}
		}
		f.Attachments = append(f.Attachments, a)
		return nil
	})
}

// RemoveAttachment drops the attachment with id; unknown ids are ignored.
func (w *Wizard) RemoveAttachment(id string) error {
	return w.edit(func(f *capsule.FormData) error {
		out := f.Attachments[:0]
		for _, a := range f.Attachments {
			if a.ID != id {
				out = append(out, a)
			}
		}
		f.Attachments = out
		return nil
	})
}

// AttachMedia stores an upload result on its attachment. Results for
// attachments that were removed or replaced meanwhile are discarded and
// reported with ok=false.
func (w *Wizard) AttachMedia(res capsule.UploadResult) (ok bool, err error) {
	err = w.edit(func(f *capsule.FormData) error {
		for i := range f.Attachments {
			if f.Attachments[i].ID == res.AttachmentID {
				r := res
				f.Attachments[i].Upload = &r
				ok = true
				return nil
			}
		}
		return nil
	})
	return ok, err
}

func (w *Wizard) IsFormValid() bool {
	return w.Validate() == nil
}

// Validate checks the editable form without any network call.
func (w *Wizard) Validate() error {
	f := w.form
	var fields []FieldError

	switch n := utf8.RuneCountInString(f.Name); {
	case strings.TrimSpace(f.Name) == "":
		fields = append(fields, FieldError{FieldName, "enter a capsule name"})
	case n > w.limits.NameMaxLen:
		fields = append(fields, FieldError{FieldName, "name is too long"})
	}

	if strings.TrimSpace(f.Content) == "" {
		fields = append(fields, FieldError{FieldContent, "write something for the capsule"})
	}

	if _, err := capsule.ResolveOpenAt(f.DateOption, f.CustomDate, w.now()); err != nil {
		fields = append(fields, FieldError{FieldDate, err.Error()})
	}

	for _, a := range f.Attachments {
		if !a.Uploaded() {
			fields = append(fields, FieldError{FieldAttachments, a.Name + " has not finished uploading"})
		}
	}

	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}
