package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/fido-usage-cli/internal/domain"
	"github.com/bnema/fido-usage-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	LinesPathKey    = "lines.path"
	linesFileMode   = 0o600
	linesDirMode    = 0o700
	linesConfigDir  = ".config/fido"
	linesConfigFile = "lines.toml"
	tempFilePattern = ".lines-*.toml.tmp"
)

type Repository struct {
	linesPath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.LineRepository = (*Repository)(nil)

// NewRepository stores lines at the "lines.path" config key, defaulting to
// ~/.config/fido/lines.toml.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	linesPath := cfg.GetString(LinesPathKey)
	if linesPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		linesPath = filepath.Join(homeDir, linesConfigDir, linesConfigFile)
	}

	linesPath, err := normalizeLinesPath(linesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{linesPath: linesPath, mu: lockForPath(linesPath)}, nil
}

func (r *Repository) Path() string {
	return r.linesPath
}

func (r *Repository) Save(ctx context.Context, line domain.Line) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(line)
	updated := false
	for i := range file.Lines {
		if file.Lines[i].Number == encoded.Number {
			file.Lines[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Lines = append(file.Lines, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) Delete(ctx context.Context, number domain.PhoneNumber) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Lines[:0]
	found := false
	for _, entry := range file.Lines {
		if entry.Number == string(number) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrLineNotFound
	}
	file.Lines = kept

	return r.writeSchema(file)
}

func (r *Repository) GetByNumber(ctx context.Context, number domain.PhoneNumber) (domain.Line, error) {
	if err := ctx.Err(); err != nil {
		return domain.Line{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Line{}, err
	}

	for _, entry := range file.Lines {
		if entry.Number == string(number) {
			return fromSchema(entry), nil
		}
	}

	return domain.Line{}, domain.ErrLineNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	lines := make([]domain.Line, 0, len(file.Lines))
	for _, entry := range file.Lines {
		lines = append(lines, fromSchema(entry))
	}

	return lines, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.linesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read lines file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode lines file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeLinesPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve lines path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.linesPath), linesDirMode); err != nil {
		return fmt.Errorf("create lines directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode lines file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.linesPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp lines file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp lines file: %w", err)
	}

	if err := tempFile.Chmod(linesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp lines file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp lines file: %w", err)
	}

	if err := os.Rename(tempName, r.linesPath); err != nil {
		return fmt.Errorf("replace lines file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(line domain.Line) lineSchema {
	return lineSchema{
		Number: string(line.Number),
		Name:   line.Name,
		Auth:   authSchema{SecretRef: line.Auth.SecretRef},
	}
}

func fromSchema(line lineSchema) domain.Line {
	return domain.Line{
		Number: domain.PhoneNumber(line.Number),
		Name:   line.Name,
		Auth:   domain.Auth{SecretRef: line.Auth.SecretRef},
	}
}
