package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/navionguy/c64basic/cli"
	"github.com/navionguy/c64basic/fileserv"
	"github.com/navionguy/c64basic/localfiles"
	"github.com/navionguy/c64basic/object"
	"github.com/navionguy/c64basic/parser"
	"github.com/navionguy/c64basic/session"
	"github.com/navionguy/c64basic/settings"
	"github.com/navionguy/c64basic/sqlstore"
	"github.com/navionguy/c64basic/terminal"
	"golang.org/x/term"
)

// C64 colors for the startup screen
const (
	white = 1
	blue  = 6
)

func main() {
	cfg, err := settings.Load(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logging(cfg, os.Stderr)

	store, closer, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closer()

	if cfg.Serve {
		log.Printf("listening on %q...", cfg.Listen)
		log.Fatal(http.ListenAndServe(cfg.Listen, startup(store)))
	}

	if err := repl(cfg, store); err != nil {
		slog.Error("input failed", "err", err)
	}
}

// logging installs the slog handler, -debug also traces the parser
func logging(cfg *settings.Config, w io.Writer) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	parser.Tracing = cfg.Debug
}

// startup builds the program server routes
func startup(store object.Storage) *mux.Router {
	return fileserv.NewRouter(store)
}

// openStore picks where LOAD and SAVE go, the func releases it
func openStore(cfg *settings.Config) (object.Storage, func() error, error) {
	none := func() error { return nil }

	switch cfg.Store {
	case settings.StoreSQLite:
		db, err := sqlstore.Open(cfg.DB)
		if err != nil {
			return nil, none, fmt.Errorf("opening %s: %w", cfg.DB, err)
		}
		return db, db.Close, nil
	case settings.StoreHTTP:
		return &fileserv.Client{Base: cfg.Server, HTTP: &http.Client{Timeout: 30 * time.Second}}, none, nil
	}

	return localfiles.Dir{Path: cfg.Dir}, none, nil
}

func repl(cfg *settings.Config, store object.Storage) error {
	color := term.IsTerminal(int(os.Stdout.Fd()))
	trm := terminal.New(os.Stdout, color)
	defer trm.Reset()

	sess := session.New(trm, session.WithStorage(store))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			sess.Interrupt()
		}
	}()

	in := cli.Stdin()
	defer in.Close()

	banner(trm)

	if len(cfg.Run) > 0 {
		if err := startProgram(sess, store, cfg.Run); err != nil {
			slog.Warn("startup program not loaded", "name", cfg.Run, "err", err)
		}
	}

	var opts []cli.Option
	if cfg.Dump {
		opts = append(opts, cli.WithDump())
	}

	return cli.Run(sess, in, trm, opts...)
}

// startProgram loads name straight from the store and runs it
// errors while running are already on the console
func startProgram(sess *session.Session, store object.Storage, name string) error {
	lines, err := store.Load(name)
	if err != nil {
		return err
	}

	if err := sess.ImportLines(lines); err != nil {
		return err
	}

	sess.SubmitLine("RUN")
	return nil
}

// banner shows the power-on screen
func banner(trm *terminal.Terminal) {
	trm.Color(white, blue)
	trm.Cls()
	trm.Println("")
	trm.Println("    **** COMMODORE 64 BASIC V2 ****")
	trm.Println("")
	trm.Println(" 64K RAM SYSTEM  38911 BASIC BYTES FREE")
	trm.Println("")
}
