package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/wirescope/internal/client/api"
	"github.com/dmitrijs2005/wirescope/internal/client/config"
	"github.com/dmitrijs2005/wirescope/internal/client/events"
	"github.com/dmitrijs2005/wirescope/internal/client/identity"
	"github.com/dmitrijs2005/wirescope/internal/client/models"
	"github.com/dmitrijs2005/wirescope/internal/client/reporting"
	"github.com/dmitrijs2005/wirescope/internal/client/services"
	"github.com/dmitrijs2005/wirescope/internal/client/session"
	"github.com/dmitrijs2005/wirescope/internal/client/storage"
	"github.com/dmitrijs2005/wirescope/internal/client/userdata"
	"github.com/dmitrijs2005/wirescope/internal/common"
	"github.com/dmitrijs2005/wirescope/internal/filex"
	"github.com/dmitrijs2005/wirescope/internal/logging"
)

const machineSecretSize = 32

// App is the interactive Wirescope auth console. It owns the database handle
// and the assembled auth service.
type App struct {
	config      *config.Config
	authService services.AuthService
	db          *sql.DB
	reader      *bufio.Reader
	log         logging.Logger
}

// NewApp assembles the full client stack from configuration: local storage,
// the encrypted session store, the refresh policy, the entitlement service,
// and the terminal login widget.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.Default())

	db, repo, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	secret, err := filex.ReadOrCreateSecret(c.SecretPath, func() []byte {
		return common.GenerateRandByteArray(machineSecretSize)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("machine secret: %w", err)
	}

	key, err := session.LoadStorageKey(ctx, repo, secret)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage key: %w", err)
	}

	store, err := session.NewStore(ctx, repo, key, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	apiClient := api.NewHTTPClient(c.TokenURL(), c.UserDataURL(), c.ClientID, http.DefaultClient)
	manager := session.NewManager(store, apiClient, c.RefreshAhead, c.BlockWindow, log)

	verifier, err := userdata.NewVerifier(userdata.DefaultPublicKeyPEM, c.Audience(), c.Issuer())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("entitlement verifier: %w", err)
	}

	var reporter userdata.ErrorReporter
	if c.ReportBucket != "" {
		reporter = reporting.NewS3Reporter(reporting.Config{
			BaseEndpoint: c.ReportEndpoint,
			Region:       c.ReportRegion,
			Bucket:       c.ReportBucket,
			AccessKey:    c.ReportAccessKey,
			SecretKey:    c.ReportSecretKey,
		}, log)
	} else {
		reporter = reporting.NewLogReporter(log)
	}

	bus := events.New()
	data := userdata.NewService(manager, apiClient, repo, verifier, bus, reporter, log)

	reader := bufio.NewReader(os.Stdin)
	widget := NewTerminalWidget(bus, reader, os.Stdout)
	flow := identity.NewFlow(widget, store, data, bus, log)

	return &App{
		config:      c,
		authService: services.NewAuth(flow, data, repo, bus, log),
		db:          db,
		reader:      reader,
		log:         log,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) status() string {
	u := a.authService.GetLastUserData(context.Background())
	if u.Email == "" {
		return "logged out"
	}
	return u.Email
}

func (a *App) isLoggedIn() bool {
	return a.authService.GetLastUserData(context.Background()).Email != ""
}

func (a *App) Login(ctx context.Context) error {
	ok, err := a.authService.ShowLoginDialog(ctx)
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	if !ok {
		printlnFn("Login cancelled.")
		return nil
	}
	printlnFn("Logged in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.LogOut(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI fetches fresh entitlement data, degrading to the last known data
// when the service is unreachable.
func (a *App) WhoAmI(ctx context.Context) error {
	printUser(a.authService.GetLatestUserData(ctx))
	return nil
}

// Last shows the locally cached entitlement data without network access.
func (a *App) Last(ctx context.Context) error {
	printUser(a.authService.GetLastUserData(ctx))
	return nil
}

func printUser(u models.User) {
	if u.Email == "" {
		printlnFn("Not logged in.")
		return
	}
	printlnFn("Email:", u.Email)
	if u.Subscription == nil {
		printlnFn("Subscription: none")
		return
	}
	printlnFn(fmt.Sprintf("Subscription: %s (expires %s)",
		u.Subscription.Plan, u.Subscription.Expiry.Format("2006-01-02")))
}
