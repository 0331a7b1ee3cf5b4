package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/auth"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/client/config"
	"github.com/dmitrijs2005/timecapsule/internal/client/services"
	"github.com/dmitrijs2005/timecapsule/internal/client/upload"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/netx"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

type App struct {
	config         *config.Config
	log            logging.Logger
	db             io.Closer
	gateway        client.PaymentAPI
	authService    services.AuthService
	capsuleService services.CapsuleService
	draftService   services.DraftService
	wizardOpts     []wizard.Option
	wizard         *wizard.Wizard
	draftID        string
	reader         *bufio.Reader
	out            io.Writer
}

// NewApp opens the local database and wires the backend client, the upload
// pipeline and the services. With a development bypass token configured the
// stored token is never consulted.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogFormat, os.Stderr)

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	a := &App{
		config:     c,
		log:        log,
		db:         repos,
		wizardOpts: []wizard.Option{wizard.WithPricing(c.Pricing)},
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	store := auth.NewSealedStore(repos.DB)
	apiHTTP := &http.Client{Timeout: c.RequestTimeout}

	var api *client.HTTPClient
	if token, ok := c.Bypass(); ok {
		log.Warn(ctx, "using development bypass token")
		api = client.NewHTTPClient(c.APIBaseURL, apiHTTP, auth.NewStatic(token), log)
		a.authService = services.NewAuthService(store, nil)
	} else {
		stored := auth.NewStored(store, a.askPassphrase)
		api = client.NewHTTPClient(c.APIBaseURL, apiHTTP, stored, log)
		a.authService = services.NewAuthService(store, stored)
	}

	// storage uploads can be large; only the context bounds them
	storage := netx.NewUploader(&http.Client{})
	pipeline := upload.New(api, storage,
		upload.WithLedger(repos.Uploads),
		upload.WithLogger(log),
		upload.WithParallel(c.MaxParallelUploads),
		upload.WithObserver(a.progress),
	)

	a.gateway = api
	a.capsuleService = services.NewCapsuleService(api, pipeline, repos.Uploads, log)
	a.draftService = services.NewDraftService(repos.DB)
	a.wizard = wizard.New(api, a.wizardOpts...)
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the timecapsule CLI (type 'help' for commands)")
	runREPL(ctx, a.commands(), a.status, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) askPassphrase(ctx context.Context) ([]byte, error) {
	return GetSecret(a.out, "Enter passphrase")
}

func (a *App) progress(e upload.Event) {
	if e.Err != nil {
		printlnFn(fmt.Sprintf("  %s: %s (%s)", a.attachmentName(e.AttachmentID), e.State, services.Message(e.Err)))
		return
	}
	printlnFn(fmt.Sprintf("  %s: %s", a.attachmentName(e.AttachmentID), e.State))
}

func (a *App) attachmentName(id string) string {
	for _, att := range a.wizard.Form().Attachments {
		if att.ID == id {
			return att.Name
		}
	}
	return id
}

func (a *App) startWizard(snap *capsule.Snapshot) {
	if snap == nil {
		a.wizard = wizard.New(a.gateway, a.wizardOpts...)
		return
	}
	a.wizard = wizard.Resume(a.gateway, *snap, a.wizardOpts...)
}
