package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sandeepkv93/focusdeck/internal/migrate"
	"github.com/sandeepkv93/focusdeck/internal/model"
)

// LoadSource tells which path Load took.
type LoadSource string

const (
	SourceCurrent LoadSource = "current"
	SourceLegacy  LoadSource = "legacy"
	SourceDefault LoadSource = "default"
)

// importEnvelope is the minimal shape an imported backup must have.
type importEnvelope struct {
	Version    int               `json:"version" validate:"required,gt=0"`
	Workspaces []json.RawMessage `json:"workspaces" validate:"required"`
}

// Gateway reads, migrates and writes the persisted document.
type Gateway struct {
	kv       KV
	logger   *zap.Logger
	validate *validator.Validate
}

func NewGateway(kv KV, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		kv:       kv,
		logger:   logger.With(zap.String("component", "storage")),
		validate: validator.New(),
	}
}

// Store exposes the underlying key/value store.
func (g *Gateway) Store() KV {
	return g.kv
}

// Load always returns a usable document. The error reports either that
// writing a migrated or fresh document back failed, or, wrapping
// ErrReadFailed, that a stored document could not be read at all.
func (g *Gateway) Load(ctx context.Context, today model.Date) (*model.Document, LoadSource, error) {
	raw, err := g.kv.Get(ctx, CurrentKey)
	switch {
	case err == nil:
		parsed, parseErr := parseObject(raw)
		if parseErr != nil {
			g.logger.Warn("stored document is corrupt, starting fresh", zap.String("key", CurrentKey), zap.Error(parseErr))
			return g.fresh(ctx)
		}
		version := migrate.Version(parsed)
		if version >= model.CurrentVersion {
			return migrate.Decode(parsed, today), SourceCurrent, nil
		}
		g.logger.Info("migrating stored document", zap.Int("from_version", version), zap.Int("to_version", model.CurrentVersion))
		doc := migrate.Migrate(parsed, today)
		return doc, SourceCurrent, g.Save(ctx, doc)
	case !errors.Is(err, ErrNotFound):
		// Do not overwrite data we failed to read.
		g.logger.Error("read stored document", zap.String("key", CurrentKey), zap.Error(err))
		return model.DefaultDocument(), SourceDefault, fmt.Errorf("%w: %s: %v", ErrReadFailed, CurrentKey, err)
	}

	raw, err = g.kv.Get(ctx, LegacyKey)
	switch {
	case err == nil:
		parsed, parseErr := parseObject(raw)
		if parseErr != nil {
			g.logger.Warn("legacy document is corrupt, starting fresh", zap.String("key", LegacyKey), zap.Error(parseErr))
			return g.fresh(ctx)
		}
		g.logger.Info("migrating legacy document", zap.Int("from_version", migrate.Version(parsed)))
		doc := migrate.Migrate(parsed, today)
		return doc, SourceLegacy, g.Save(ctx, doc)
	case !errors.Is(err, ErrNotFound):
		g.logger.Error("read legacy document", zap.String("key", LegacyKey), zap.Error(err))
		return model.DefaultDocument(), SourceDefault, fmt.Errorf("%w: %s: %v", ErrReadFailed, LegacyKey, err)
	}

	g.logger.Info("no stored document, creating default")
	return g.fresh(ctx)
}

func (g *Gateway) fresh(ctx context.Context) (*model.Document, LoadSource, error) {
	doc := model.DefaultDocument()
	return doc, SourceDefault, g.Save(ctx, doc)
}

// Save writes doc under the current key. Failures are logged and returned.
func (g *Gateway) Save(ctx context.Context, doc *model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		g.logger.Error("encode document", zap.Error(err))
		return fmt.Errorf("encode document: %w", err)
	}
	if err := g.kv.Put(ctx, CurrentKey, payload); err != nil {
		g.logger.Error("save document", zap.Error(err))
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Reset removes both the current and the legacy document and persists a
// fresh default.
func (g *Gateway) Reset(ctx context.Context) (*model.Document, error) {
	for _, key := range []string{CurrentKey, LegacyKey} {
		if err := g.kv.Delete(ctx, key); err != nil {
			g.logger.Error("delete stored document", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("reset %s: %w", key, err)
		}
	}
	doc := model.DefaultDocument()
	return doc, g.Save(ctx, doc)
}

// Export renders doc as indented JSON together with the suggested file name.
func (g *Gateway) Export(doc *model.Document, today model.Date) ([]byte, string, error) {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode export: %w", err)
	}
	return payload, ExportFilename(today), nil
}

func ExportFilename(today model.Date) string {
	return "focus-deck_backup_" + today.String() + ".json"
}

// Import parses and validates a backup, migrating it when it predates the
// current schema. Nothing is persisted here.
func (g *Gateway) Import(data []byte, today model.Date) (*model.Document, error) {
	var env importEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := g.validate.Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	parsed, err := parseObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if env.Version < model.CurrentVersion {
		g.logger.Info("migrating imported document", zap.Int("from_version", env.Version))
		return migrate.Migrate(parsed, today), nil
	}
	return migrate.Decode(parsed, today), nil
}

func parseObject(raw []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("document is not an object")
	}
	return out, nil
}
