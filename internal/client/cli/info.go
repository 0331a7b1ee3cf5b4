package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/dmitrijs2005/timecapsule/internal/pricing"
)

var errUsage = errors.New("wrong arguments")

// getMultiline is swapped in tests.
var getMultiline = GetMultiline

type usageError struct {
	usage string
}

func (e *usageError) Error() string { return "usage: " + e.usage }

func (e *usageError) Is(target error) bool { return target == errUsage }

func usage(u string) error {
	return &usageError{usage: u}
}

// New drops the current wizard and starts over.
func (a *App) New(_ context.Context, _ []string) error {
	a.startWizard(nil)
	a.draftID = ""
	printlnFn("Started a new capsule.")
	return nil
}

func (a *App) SetName(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usage("name <text>")
	}
	return a.wizard.SetName(strings.Join(args, " "))
}

func (a *App) SetContent(_ context.Context, _ []string) error {
	text, err := getMultiline(a.reader, "Write the capsule text:", a.out)
	if err != nil {
		return err
	}
	return a.wizard.SetContent(text)
}

// SetDate accepts an option name or a calendar date in local time.
func (a *App) SetDate(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("date week|month|year|YYYY-MM-DD")
	}
	if d, err := time.ParseInLocation(time.DateOnly, args[0], time.Local); err == nil {
		return a.wizard.SetCustomDate(d)
	}
	opt, err := capsule.ParseDateOption(args[0])
	if err != nil {
		return usage("date week|month|year|YYYY-MM-DD")
	}
	return a.wizard.SetDateOption(opt)
}

func (a *App) SetPersonnel(_ context.Context, args []string) error {
	n, err := intArg(args, "people <n>")
	if err != nil {
		return err
	}
	got, err := a.wizard.SetPersonnel(n)
	if err != nil {
		return err
	}
	if got != n {
		printlnFn(fmt.Sprintf("Participants set to %d.", got))
	}
	return nil
}

func (a *App) SetStorage(_ context.Context, args []string) error {
	n, err := intArg(args, "photos <n>")
	if err != nil {
		return err
	}
	got, err := a.wizard.SetStorage(n)
	if err != nil {
		return err
	}
	if got != n {
		printlnFn(fmt.Sprintf("Photo slots set to %d.", got))
	}
	return nil
}

func (a *App) SetMusic(_ context.Context, args []string) error {
	on, err := onOffArg(args, "music on|off")
	if err != nil {
		return err
	}
	return a.wizard.SetMusic(on)
}

func (a *App) SetVideo(_ context.Context, args []string) error {
	on, err := onOffArg(args, "video on|off")
	if err != nil {
		return err
	}
	return a.wizard.SetVideo(on)
}

// Attach adds a local file; a previous file of the same category is replaced.
func (a *App) Attach(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usage("attach image|video|music <path>")
	}
	cat, err := media.ParseCategory(args[0])
	if err != nil {
		return usage("attach image|video|music <path>")
	}
	att := capsule.NewAttachment(cat, strings.Join(args[1:], " "), "")
	if err := a.wizard.AddAttachment(att); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Attached %s as %s (%s).", att.Name, cat, media.InferMimeType(att.Name)))
	return nil
}

func (a *App) Detach(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("detach image|video|music")
	}
	cat, err := media.ParseCategory(args[0])
	if err != nil {
		return usage("detach image|video|music")
	}
	att, ok := a.wizard.Form().Attachment(cat)
	if !ok {
		return nil
	}
	return a.wizard.RemoveAttachment(att.ID)
}

// Upload sends every attachment without a media ID through the pipeline.
// Progress is printed as each stage completes.
func (a *App) Upload(ctx context.Context, _ []string) error {
	outcomes, err := a.capsuleService.UploadPending(ctx, a.wizard)
	if len(outcomes) == 0 && err == nil {
		printlnFn("Nothing to upload.")
		return nil
	}
	done := 0
	for _, o := range outcomes {
		if o.Err == nil {
			done++
		}
	}
	printlnFn(fmt.Sprintf("Uploaded %d of %d.", done, len(outcomes)))
	return err
}

// Next freezes the form, saves it as a draft and moves to PAYMENT.
func (a *App) Next(ctx context.Context, _ []string) error {
	snap, err := a.wizard.Next()
	if err != nil {
		return err
	}
	id, err := a.draftService.Save(ctx, a.draftID, snap)
	if err != nil {
		a.log.Warn(ctx, "draft not saved", "error", err)
	} else {
		a.draftID = id
	}
	return a.Show(ctx, nil)
}

func (a *App) Back(ctx context.Context, _ []string) error {
	if err := a.wizard.Back(); err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

func (a *App) showInfo() {
	f := a.wizard.Form()
	printlnFn("Name:     ", f.Name)
	printlnFn("Content:  ", preview(f.Content))
	date := f.DateOption.Label()
	if f.DateOption == capsule.OpenOnCustom && f.CustomDate != nil {
		date = f.CustomDate.Format(time.DateOnly)
	}
	printlnFn("Opens:    ", date)
	printlnFn("People:   ", f.Personnel)
	printlnFn("Photos:   ", f.Storage)
	printlnFn("Add-ons:  ", addons(f))
	for _, att := range f.Attachments {
		state := "pending upload"
		if att.Uploaded() {
			state = "uploaded"
		}
		printlnFn(fmt.Sprintf("  [%s] %s (%s)", att.Category, att.Name, state))
	}

	b := a.wizard.Estimate()
	printlnFn("Estimate: ", pricing.FormatWon(b.TotalPrice))
	if err := a.wizard.Validate(); err != nil {
		printlnFn("Not ready:", err)
	}
}

func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return s
}

func addons(f capsule.FormData) string {
	var out []string
	if f.Music {
		out = append(out, "music")
	}
	if f.Video {
		out = append(out, "video")
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, ", ")
}

func intArg(args []string, u string) (int, error) {
	if len(args) != 1 {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage(u)
	}
	return n, nil
}

func onOffArg(args []string, u string) (bool, error) {
	if len(args) != 1 {
		return false, usage(u)
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes", "true":
		return true, nil
	case "off", "no", "false":
		return false, nil
	}
	return false, usage(u)
}
