package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	stlog "log"
	"os"
	"path/filepath"

	"github.com/bethropolis/composer/internal/app"
	"github.com/bethropolis/composer/internal/config"
	"github.com/bethropolis/composer/internal/core"
	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/mail"
	"github.com/bethropolis/composer/internal/script"
	"github.com/bethropolis/composer/internal/store"
)

const version = "0.1.0"

func main() {
	var flags config.Flags
	args, err := flags.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		stlog.Fatalf("parsing flags: %v", err)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)
	if *flags.DebugLog {
		cfg.Logger.LogLevel = "debug"
	}

	logOut, closeLog, err := openLog(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	logger.Setup(cfg.Logger, logOut)
	logger.Infof("Starting %s %s", config.AppName, version)
	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	doc, err := loadDocument(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	doc.ReadOnly = *flags.ReadOnly

	if *flags.Script != "" {
		if err := runScript(cfg, doc, *flags.Script, *flags.Export); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
			os.Exit(1)
		}
		return
	}

	draftsPath := cfg.DraftsPath()
	if err := os.MkdirAll(filepath.Dir(draftsPath), 0o755); err != nil {
		logger.Warnf("Creating draft directory: %v", err)
	}
	drafts, err := store.NewSQLiteStore(draftsPath)
	if err != nil {
		logger.Errorf("Draft store unavailable: %v", err)
	} else {
		defer drafts.Close()
	}

	var st store.Store
	if drafts != nil {
		st = drafts
	}
	composer, err := app.NewApp(cfg, doc, st)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	if err := composer.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

// openLog opens the log destination: path, stderr for "-", or the default
// file in the config directory.
func openLog(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stderr, func() {}, nil
	}
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return io.Discard, func() {}, nil
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, config.DefaultLogFileName)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// runScript applies a YAML script to the document and prints the result,
// or writes it as a message when exportPath is set.
func runScript(cfg *config.Config, doc app.Document, scriptPath, exportPath string) error {
	s, err := script.LoadFile(scriptPath)
	if err != nil {
		return err
	}
	e := core.NewEditor(core.OptionsFromConfig(cfg))
	if doc.HTML != "" {
		if err := e.LoadHTML(doc.HTML, doc.Name); err != nil {
			return err
		}
	}
	e.SetReadOnly(doc.ReadOnly)
	if err := s.Run(e); err != nil {
		return err
	}

	if exportPath == "" {
		fmt.Println(e.BodyHTML())
		return nil
	}
	subject := doc.Subject
	if subject == "" {
		subject = s.Name
	}
	f, err := os.Create(exportPath)
	if err != nil {
		return err
	}
	if err := mail.Write(f, app.BuildMessage(e, cfg, subject, doc.To)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadDocument reads the file to compose. A missing file starts an empty
// document under that name.
func loadDocument(path string) (app.Document, error) {
	doc := app.Document{Name: path}
	if path == "" {
		return doc, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("%s does not exist, starting a new message", path)
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".eml":
		msg, err := mail.Read(f)
		if err != nil {
			return doc, fmt.Errorf("%s: %w", path, err)
		}
		doc.Subject = msg.Subject
		doc.To = msg.To
		doc.HTML = msg.HTML
		if doc.HTML == "" {
			doc.HTML = app.TextToHTML(msg.Text)
		}
	case ".html", ".htm", ".xhtml":
		data, err := io.ReadAll(f)
		if err != nil {
			return doc, err
		}
		doc.HTML = string(data)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return doc, err
		}
		doc.HTML = app.TextToHTML(string(data))
	}
	return doc, nil
}
