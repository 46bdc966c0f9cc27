package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/diewo77/jewelry-billing/i18n"
	"github.com/diewo77/jewelry-billing/internal/config"
	"github.com/diewo77/jewelry-billing/internal/db"
	"github.com/diewo77/jewelry-billing/internal/ingest"
	"github.com/diewo77/jewelry-billing/internal/logging"
	"github.com/diewo77/jewelry-billing/internal/services"
	"github.com/diewo77/jewelry-billing/internal/workbook"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	exitOK      = 0
	exitError   = 1
	exitWarning = 2
)

type command struct {
	summary string
	run     func(a *App, args []string) int
}

var commands = map[string]command{
	"settings":        {"show or change the saved settings", (*App).settingsCmd},
	"test-connection": {"create the database if missing and check it answers", (*App).testConnectionCmd},
	"preview":         {"show the first rows of the first workbook in the folder", (*App).previewCmd},
	"ingest":          {"load every workbook in the folder into billing_records", (*App).ingestCmd},
	"export":          {"write the yearly report workbook", (*App).exportCmd},
}

// App carries what every command needs: loaded settings, where they live,
// the operator language and the output streams.
type App struct {
	settings     *config.Settings
	settingsPath string
	lang         string
	debug        bool
	out          io.Writer
	log          *zap.SugaredLogger
}

// run parses the global flags, loads settings and dispatches to a command.
func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("jewelbill", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", config.DefaultPath, "settings file")
	langFlag := fs.String("lang", "", "output language (en, hi)")
	debug := fs.Bool("debug", false, "verbose logging, including SQL")
	fs.Usage = func() { usage(fs, out) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitError
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(out, "unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return exitError
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(out, "load settings: %v\n", err)
		return exitError
	}
	verbose := *debug || settings.App.Debug
	log, err := logging.New(verbose)
	if err != nil {
		log = logging.Nop()
	}
	defer log.Sync()

	a := &App{
		settings:     settings,
		settingsPath: *configPath,
		lang:         pickLanguage(*langFlag, settings.App.Lang),
		debug:        verbose,
		out:          out,
		log:          log,
	}
	return cmd.run(a, fs.Args()[1:])
}

func usage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintln(out, "usage: jewelbill [flags] <command> [command flags]")
	fmt.Fprintln(out, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}

// pickLanguage prefers the flag, then the saved setting, then $LANG.
func pickLanguage(flagLang, saved string) string {
	for _, l := range []string{flagLang, saved, os.Getenv("LANG")} {
		if l != "" {
			return i18n.DetectLanguage(l)
		}
	}
	return i18n.DefaultLang
}

func (a *App) t(code string) string { return i18n.T(a.lang, code) }

func (a *App) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

// warningCode maps the errors an operator can fix by choosing other input to
// a catalogue code.
func warningCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ingest.ErrNoFolder):
		return "warn_no_folder", true
	case errors.Is(err, ingest.ErrFolderNotFound):
		return "warn_folder_not_found", true
	case errors.Is(err, ingest.ErrNoFiles):
		return "warn_no_files", true
	case errors.Is(err, services.ErrNoData):
		return "warn_no_data", true
	}
	return "", false
}

// fail reports err under the catalogue code and returns the exit status.
func (a *App) fail(code string, err error) int {
	if w, ok := warningCode(err); ok {
		a.log.Warnf("%s: %v", code, err)
		a.printf("%s: %s\n", a.t("warning"), a.t(w))
		return exitWarning
	}
	a.log.Errorf("%s: %v", code, err)
	a.printf("%s: %v\n", a.t(code), err)
	return exitError
}

func (a *App) saveSettings() error {
	if err := a.settings.Save(a.settingsPath); err != nil {
		return err
	}
	a.log.Debugf("settings written to %s", a.settingsPath)
	return nil
}

func (a *App) settingsCmd(args []string) int {
	s := a.settings
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&s.FolderPath, "folder", s.FolderPath, "folder holding the monthly workbooks")
	fs.StringVar(&s.Database.Driver, "driver", s.Database.Driver, "mysql, postgres or sqlite")
	fs.StringVar(&s.Database.Host, "host", s.Database.Host, "database host")
	fs.IntVar(&s.Database.Port, "port", s.Database.Port, "database port")
	fs.StringVar(&s.Database.User, "user", s.Database.User, "database user")
	fs.StringVar(&s.Database.Password, "password", s.Database.Password, "database password")
	fs.StringVar(&s.Database.Name, "database", s.Database.Name, "database name")
	fs.StringVar(&s.Database.Path, "path", s.Database.Path, "sqlite file")
	fs.StringVar(&s.App.Lang, "set-lang", s.App.Lang, "saved output language")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if fs.NFlag() > 0 {
		if err := s.Database.Validate(); err != nil {
			a.printf("%v\n", err)
			return exitError
		}
		if err := a.saveSettings(); err != nil {
			a.printf("save settings: %v\n", err)
			return exitError
		}
		a.printf("%s: %s\n", a.t("settings_saved"), a.settingsPath)
	}

	a.printf("version: %d\n", s.Version)
	a.printf("folder_path: %s\n", s.FolderPath)
	a.printf("database.driver: %s\n", s.Database.Driver)
	a.printf("database.dsn: %s\n", s.Database.MaskedDSN())
	a.printf("app.lang: %s\n", s.App.Lang)
	return exitOK
}

func (a *App) testConnectionCmd(args []string) int {
	fs := flag.NewFlagSet("test-connection", flag.ContinueOnError)
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	cfg := a.settings.Database
	debug := a.debug
	a.log.Infof("testing connection to %s", cfg.MaskedDSN())
	if err := db.EnsureDatabase(cfg, debug); err != nil {
		return a.fail("connection_failed", err)
	}
	if err := db.WithConnection(cfg, debug, func(*gorm.DB) error { return nil }); err != nil {
		return a.fail("connection_failed", err)
	}
	if err := a.saveSettings(); err != nil {
		a.log.Warnf("save settings: %v", err)
	}
	a.printf("%s\n", a.t("connection_ok"))
	return exitOK
}

// folderFlag registers -folder defaulting to the saved folder.
func (a *App) folderFlag(fs *flag.FlagSet) *string {
	return fs.String("folder", a.settings.FolderPath, "folder holding the monthly workbooks")
}

func (a *App) previewCmd(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(a.out)
	folder := a.folderFlag(fs)
	limit := fs.Int("limit", ingest.DefaultPreviewLimit, "rows to show")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	p, err := ingest.Preview(*folder, *limit)
	if err != nil {
		return a.fail("preview_failed", err)
	}
	a.printf(a.t("preview_summary")+"\n\n", p.FileCount, len(p.Rows), filepath.Base(p.File))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(p.Header, "\t"))
	for _, r := range p.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells[:], "\t"))
	}
	if err := tw.Flush(); err != nil {
		return a.fail("preview_failed", err)
	}
	return exitOK
}

func (a *App) ingestCmd(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(a.out)
	folder := a.folderFlag(fs)
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	log := a.log.With("run", uuid.NewString())
	log.Infof("ingesting %s", *folder)

	res, err := ingest.Run(*folder)
	if err != nil {
		return a.fail("ingest_failed", err)
	}
	log.Infof("read %d rows from %d files, %d duplicates, %d without bill number",
		res.RowsRead, res.FilesProcessed(), res.Duplicates, res.MissingBillNo)

	var loaded *services.LoadResult
	err = db.WithConnection(a.settings.Database, a.debug, func(conn *gorm.DB) error {
		var err error
		loaded, err = services.NewLoaderService(conn, log).Load(res.Rows)
		return err
	})
	if err != nil {
		return a.fail("ingest_failed", err)
	}
	if *folder != a.settings.FolderPath {
		a.settings.FolderPath = *folder
		if err := a.saveSettings(); err != nil {
			log.Warnf("save settings: %v", err)
		}
	}

	a.printf("%s\n", a.t("ingest_done"))
	a.printf("%s: %d\n", a.t("files_processed"), res.FilesProcessed())
	a.printf("%s: %d\n", a.t("records_upserted"), loaded.Upserted())
	a.printf("%s: %d\n", a.t("records_inserted"), loaded.Inserted)
	a.printf("%s: %d\n", a.t("records_updated"), loaded.Updated)
	a.printf("%s: %d\n", a.t("duplicates_removed"), res.Duplicates)
	a.printf("%s: %d\n", a.t("missing_bill_no"), res.MissingBillNo)
	a.printf("%s: %d\n", a.t("rows_skipped"), loaded.Skipped)
	return exitOK
}

func (a *App) exportCmd(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.out)
	out := fs.String("out", workbook.DefaultReportName(time.Now().Year()), "report file")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	log := a.log.With("run", uuid.NewString())
	err := db.WithConnection(a.settings.Database, a.debug, func(conn *gorm.DB) error {
		rep, err := services.NewReportService(conn).Build()
		if err != nil {
			return err
		}
		log.Infof("exporting %d records to %s", len(rep.Records), *out)
		return workbook.WriteReport(*out, rep)
	})
	if err != nil {
		return a.fail("export_failed", err)
	}

	a.printf("%s\n", a.t("export_done"))
	a.printf("%s: %s\n", a.t("location"), *out)
	return exitOK
}
