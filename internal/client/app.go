// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-diary-keeper/internal/adapter"
	"github.com/MKhiriev/go-diary-keeper/internal/logger"
	"github.com/MKhiriev/go-diary-keeper/models"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

type App struct {
	adapter  adapter.ServerAdapter
	printer  *printer
	commands map[string]command
	logger   *logger.Logger
}

func NewApp(serverAdapter adapter.ServerAdapter, out io.Writer, logger *logger.Logger) *App {
	a := &App{
		adapter: serverAdapter,
		printer: newPrinter(out),
		logger:  logger,
	}

	a.commands = map[string]command{
		"signup":  {usage: "signup -u <username> -p <password> -e <email> [-name <full name>] [-role student|professor]", run: a.signup},
		"login":   {usage: "login -u <username> -p <password>", run: a.login},
		"logout":  {usage: "logout", run: a.logout},
		"me":      {usage: "me", run: a.me},
		"notes":   {usage: "notes", run: a.listNotes},
		"note":    {usage: "note <id>", run: a.getNote},
		"search":  {usage: "search <query>", run: a.searchNotes},
		"create":  {usage: "create -title <t> -description <d> -date <date> [-image <file>] [-audio <file>] [-video <file>]", run: a.createNote},
		"delete":  {usage: "delete <id>", run: a.deleteNote},
		"version": {usage: "version", run: a.version},
	}

	return a
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		a.usage()
		return nil
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	a.logger.Debug().Str("command", args[0]).Msg("running command")
	err := cmd.run(ctx, args[1:])
	if errors.Is(err, ErrUsage) {
		a.printer.line("usage: %s", cmd.usage)
	}
	if err != nil {
		a.printer.errorf("%v", err)
	}

	return err
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	a.printer.line("commands:")
	for _, name := range names {
		a.printer.line("  %s", a.commands[name].usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

func (a *App) signup(ctx context.Context, args []string) error {
	var req models.SignupRequest
	var role string

	fs := newFlagSet("signup")
	fs.StringVar(&req.Username, "u", "", "username")
	fs.StringVar(&req.Password, "p", "", "password")
	fs.StringVar(&req.Email, "e", "", "email")
	fs.StringVar(&req.FullName, "name", "", "full name")
	fs.StringVar(&role, "role", "", "role")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return fmt.Errorf("%w: username, password and email are required", ErrUsage)
	}
	req.Role = models.Role(role)

	if err := a.adapter.Signup(ctx, req); err != nil {
		return err
	}

	a.printer.line("user %s created", req.Username)
	return nil
}

// login prints the access token so that it can be exported as CLIENT_TOKEN
// for later invocations.
func (a *App) login(ctx context.Context, args []string) error {
	var creds models.Credentials

	fs := newFlagSet("login")
	fs.StringVar(&creds.Username, "u", "", "username")
	fs.StringVar(&creds.Password, "p", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrUsage)
	}

	token, err := a.adapter.Login(ctx, creds)
	if err != nil {
		return err
	}

	a.printer.line("logged in as %s", token.Username)
	a.printer.line("%s", token.AccessToken)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.adapter.Logout(ctx); err != nil {
		return err
	}
	a.printer.line("logged out")
	return nil
}

func (a *App) me(ctx context.Context, _ []string) error {
	user, err := a.adapter.Me(ctx)
	if err != nil {
		return err
	}
	a.printer.user(user)
	return nil
}

func (a *App) listNotes(ctx context.Context, _ []string) error {
	notes, err := a.adapter.ListNotes(ctx)
	if err != nil {
		return err
	}
	a.printer.notes(notes)
	return nil
}

func (a *App) getNote(ctx context.Context, args []string) error {
	id, err := noteIDArg(args)
	if err != nil {
		return err
	}

	note, err := a.adapter.GetNote(ctx, id)
	if err != nil {
		return err
	}
	a.printer.note(note)
	return nil
}

func (a *App) searchNotes(ctx context.Context, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("%w: query is required", ErrUsage)
	}

	notes, err := a.adapter.SearchNotes(ctx, query)
	if err != nil {
		return err
	}
	a.printer.notes(notes)
	return nil
}

func (a *App) createNote(ctx context.Context, args []string) error {
	var draft models.NoteDraft
	paths := make(map[models.AttachmentKind]*string, len(models.AttachmentKinds))

	fs := newFlagSet("create")
	fs.StringVar(&draft.Title, "title", "", "title")
	fs.StringVar(&draft.Description, "description", "", "description")
	fs.StringVar(&draft.Date, "date", "", "date")
	for _, kind := range models.AttachmentKinds {
		paths[kind] = fs.String(string(kind), "", string(kind)+" file")
	}
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if draft.Title == "" || draft.Description == "" || draft.Date == "" {
		return fmt.Errorf("%w: title, description and date are required", ErrUsage)
	}

	for _, kind := range models.AttachmentKinds {
		path := *paths[kind]
		if path == "" {
			continue
		}
		upload, closeFile, err := openUpload(kind, path)
		if err != nil {
			return err
		}
		defer closeFile()
		draft.Uploads = append(draft.Uploads, upload)
	}

	created, err := a.adapter.CreateNote(ctx, draft)
	if err != nil {
		return err
	}

	a.printer.line("note #%d created", created.ID)
	return nil
}

func (a *App) deleteNote(ctx context.Context, args []string) error {
	id, err := noteIDArg(args)
	if err != nil {
		return err
	}

	if err = a.adapter.DeleteNote(ctx, id); err != nil {
		return err
	}
	a.printer.line("note #%d deleted", id)
	return nil
}

func (a *App) version(ctx context.Context, _ []string) error {
	v, err := a.adapter.Version(ctx)
	if err != nil {
		return err
	}
	a.printer.line("server version %s", v)
	return nil
}

func noteIDArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: exactly one note id expected", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid note id %q", ErrUsage, args[0])
	}
	return id, nil
}

// openUpload opens path for streaming into the given slot. The content type
// is guessed from the extension.
func openUpload(kind models.AttachmentKind, path string) (models.Upload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Upload{}, nil, fmt.Errorf("open %s file: %w", kind, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return models.Upload{}, nil, fmt.Errorf("stat %s file: %w", kind, err)
	}

	return models.Upload{
		Kind:        kind,
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
