package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/client/upload"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls   [][]capsule.Attachment
	results map[string]*capsule.UploadResult
	errs    map[string]error
}

func (f *fakeUploader) UploadAll(_ context.Context, atts []capsule.Attachment) ([]upload.Outcome, error) {
	f.calls = append(f.calls, atts)
	out := make([]upload.Outcome, len(atts))
	var errs []error
	for i, a := range atts {
		out[i] = upload.Outcome{AttachmentID: a.ID, Result: f.results[a.ID], Err: f.errs[a.ID]}
		if out[i].Err != nil {
			errs = append(errs, out[i].Err)
		}
	}
	return out, errors.Join(errs...)
}

type fakeAPI struct {
	client.Client

	urls      map[string]string
	urlErr    error
	created   []client.CapsuleRequest
	createErr error
}

func (f *fakeAPI) MediaURL(_ context.Context, id string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.urls[id], nil
}

func (f *fakeAPI) CreateCapsule(_ context.Context, req client.CapsuleRequest) (*client.CapsuleResponse, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &client.CapsuleResponse{ID: "cap-1", OpenAt: *req.OpenAt}, nil
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o600))
	return p
}

func newWizardWithAttachments(t *testing.T) (*wizard.Wizard, capsule.Attachment, capsule.Attachment) {
	t.Helper()
	w := wizard.New(nil)
	img := capsule.NewAttachment(media.Image, "/nowhere/a.heic", "")
	song := capsule.NewAttachment(media.Music, writeFile(t, "b.mp3", 128), "")
	require.NoError(t, w.AddAttachment(img))
	require.NoError(t, w.AddAttachment(song))
	return w, img, song
}

func TestUploadPending_StoresResultsOnForm(t *testing.T) {
	w, img, song := newWizardWithAttachments(t)
	up := &fakeUploader{
		results: map[string]*capsule.UploadResult{
			img.ID: {AttachmentID: img.ID, MediaID: "m-img", ContentType: "image/heic"},
		},
		errs: map[string]error{song.ID: errors.New("boom")},
	}
	svc := NewCapsuleService(&fakeAPI{}, up, nil, logging.Nop())

	outcomes, err := svc.UploadPending(context.Background(), w)
	require.Error(t, err)
	require.Len(t, outcomes, 2)

	form := w.Form()
	got, _ := form.Attachment(media.Image)
	assert.True(t, got.Uploaded())
	assert.Equal(t, "m-img", got.Upload.MediaID)
	got, _ = form.Attachment(media.Music)
	assert.False(t, got.Uploaded())

	// only the failed one is retried
	up.errs = nil
	up.results[song.ID] = &capsule.UploadResult{AttachmentID: song.ID, MediaID: "m-song"}
	_, err = svc.UploadPending(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, up.calls, 2)
	require.Len(t, up.calls[1], 1)
	assert.Equal(t, song.ID, up.calls[1][0].ID)
	assert.Equal(t, []string{"m-img", "m-song"}, w.Form().MediaIDs())
}

func TestUploadPending_NothingPending(t *testing.T) {
	up := &fakeUploader{}
	svc := NewCapsuleService(&fakeAPI{}, up, nil, nil)

	outcomes, err := svc.UploadPending(context.Background(), wizard.New(nil))
	require.NoError(t, err)
	assert.Nil(t, outcomes)
	assert.Empty(t, up.calls)
}

func TestUploadPending_DiscardsStaleResults(t *testing.T) {
	w, img, _ := newWizardWithAttachments(t)
	up := &fakeUploader{results: map[string]*capsule.UploadResult{
		img.ID: {AttachmentID: "replaced-meanwhile", MediaID: "m-x"},
	}}
	svc := NewCapsuleService(&fakeAPI{}, up, nil, nil)

	_, err := svc.UploadPending(context.Background(), w)
	require.NoError(t, err)
	assert.Empty(t, w.Form().MediaIDs())
}

func TestUploadPending_OnlyOnInfoStep(t *testing.T) {
	w := wizard.New(nil)
	require.NoError(t, w.SetName("Test"))
	require.NoError(t, w.SetContent("hello"))
	_, err := w.Next()
	require.NoError(t, err)

	svc := NewCapsuleService(&fakeAPI{}, &fakeUploader{}, nil, nil)
	_, err = svc.UploadPending(context.Background(), w)
	assert.ErrorIs(t, err, wizard.ErrWrongStep)
}

func uploadedForm() capsule.FormData {
	f := capsule.DefaultFormData(capsule.DefaultLimits())
	f.Name = "Trip"
	f.Content = "see you"
	f.DateOption = capsule.OpenInMonth
	f.Attachments = []capsule.Attachment{
		{ID: "a1", Category: media.Image, Name: "a.jpg", Upload: &capsule.UploadResult{AttachmentID: "a1", MediaID: "m1"}},
		{ID: "a2", Category: media.Music, Name: "b.mp3"},
		{ID: "a3", Category: media.Video, Name: "c.mp4", Upload: &capsule.UploadResult{AttachmentID: "a3", MediaID: "m3"}},
	}
	return f
}

func TestCreateDirect_SendsUploadedMedia(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	api := &fakeAPI{urls: map[string]string{"m1": "https://cdn/m1", "m3": "https://cdn/m3"}}
	svc := NewCapsuleService(api, &fakeUploader{}, nil, nil)
	svc.(*capsuleService).now = func() time.Time { return now }

	limit := 3
	resp, err := svc.CreateDirect(context.Background(), uploadedForm(), DirectOptions{ViewLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "cap-1", resp.ID)

	openAt := now.AddDate(0, 1, 0)
	want := client.CapsuleRequest{
		Title:      "Trip",
		Content:    "see you",
		MediaURLs:  []string{"https://cdn/m1", "https://cdn/m3"},
		MediaTypes: []string{"IMAGE", "VIDEO"},
		OpenAt:     &openAt,
		ViewLimit:  &limit,
	}
	require.Len(t, api.created, 1)
	assert.Empty(t, cmp.Diff(want, api.created[0]))
}

func TestCreateDirect_Errors(t *testing.T) {
	t.Run("no uploaded media", func(t *testing.T) {
		f := uploadedForm()
		f.Attachments = nil
		_, err := NewCapsuleService(&fakeAPI{}, nil, nil, nil).CreateDirect(context.Background(), f, DirectOptions{})
		assert.ErrorIs(t, err, ErrNothingUploaded)
	})

	t.Run("media url lookup fails", func(t *testing.T) {
		api := &fakeAPI{urlErr: client.ErrNotFound}
		_, err := NewCapsuleService(api, nil, nil, nil).CreateDirect(context.Background(), uploadedForm(), DirectOptions{})
		assert.ErrorIs(t, err, client.ErrNotFound)
		assert.Empty(t, api.created)
	})

	t.Run("custom date missing", func(t *testing.T) {
		f := uploadedForm()
		f.DateOption = capsule.OpenOnCustom
		_, err := NewCapsuleService(&fakeAPI{}, nil, nil, nil).CreateDirect(context.Background(), f, DirectOptions{})
		assert.ErrorIs(t, err, capsule.ErrCustomDateMissing)
	})
}
