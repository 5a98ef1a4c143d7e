package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/electr1fy0/lexicon/config"
	"github.com/electr1fy0/lexicon/lexicon"
	"github.com/electr1fy0/lexicon/model"
	"github.com/electr1fy0/lexicon/storage"
)

// session is an open backend plus the view over it.
type session struct {
	kv      storage.KV
	view    *lexicon.View
	encrypt bool
}

func (s *session) Close() error { return s.kv.Close() }

// Rekey is nil unless the backend is a vault file. With encryption
// required by config the passphrase cannot be removed.
func (s *session) rekeyFunc() func(string) error {
	v, ok := s.kv.(*storage.Vault)
	if !ok {
		return nil
	}
	return func(pass string) error {
		if pass == "" && s.encrypt {
			return errRequireEncryption
		}
		return v.Rekey(pass)
	}
}

var errRequireEncryption = errors.New("storage.encrypt is set; turn it off before removing the passphrase")

// vaultPath is the vault file behind s, or "" for other backends.
func (s *session) vaultPath() string {
	if v, ok := s.kv.(*storage.Vault); ok {
		return v.Path()
	}
	return ""
}

func needsPassphrase(c *config.Config) (bool, error) {
	if c.Storage.Backend != storage.BackendFile {
		return false, nil
	}
	if c.Storage.Encrypt {
		return true, nil
	}
	return storage.VaultEncrypted(c.Storage.Path)
}

func openSession(c *config.Config, passphrase string, log *zap.Logger) (*session, error) {
	kv, err := storage.Open(storage.Options{
		Backend:    c.Storage.Backend,
		Path:       c.Storage.Path,
		Passphrase: passphrase,
		Encrypt:    c.Storage.Encrypt,
	})
	if err != nil {
		return nil, err
	}
	store, err := lexicon.Open(kv, lexicon.WithLogger(log))
	if err != nil {
		kv.Close()
		return nil, err
	}
	log.Info("lexicon opened",
		zap.String("backend", c.Storage.Backend),
		zap.Int("words", store.Len()))
	return &session{kv: kv, view: lexicon.NewView(store), encrypt: c.Storage.Encrypt}, nil
}

// openForCLI asks for the passphrase on the terminal when one is needed and
// none was given in the environment.
func openForCLI() (*session, error) {
	pass := cfg.Passphrase
	need, err := needsPassphrase(cfg)
	if err != nil {
		return nil, err
	}
	if need && pass == "" {
		if pass, err = promptPassphrase("Passphrase: "); err != nil {
			return nil, err
		}
	}
	return openSession(cfg, pass, logger)
}

func promptPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("passphrase required: set LEXICON_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// confirm reads a y/N answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func runTUI() error {
	opts := model.Options{
		Render: cfg.Render,
		Editor: cfg.Editor,
		Logger: logger,
	}

	need, err := needsPassphrase(cfg)
	if err != nil {
		return err
	}

	var (
		m    model.Model
		sess *session
	)
	if need && cfg.Passphrase == "" {
		m = model.NewLocked(func(pass string) (model.Session, error) {
			s, err := openSession(cfg, pass, logger)
			if err != nil {
				return model.Session{}, err
			}
			sess = s
			return model.Session{View: s.view, Rekey: s.rekeyFunc()}, nil
		}, opts)
	} else {
		if sess, err = openSession(cfg, cfg.Passphrase, logger); err != nil {
			return err
		}
		m = model.New(model.Session{View: sess.view, Rekey: sess.rekeyFunc()}, opts)
	}
	defer func() {
		if sess != nil {
			_ = sess.Close()
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
