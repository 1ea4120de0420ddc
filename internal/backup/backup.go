// Package backup reads and writes full-state export bundles.
package backup

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"lifequest/internal/storage"
)

const Version = "1.0"

// Bundle is the export file layout. Field names match the browser app's
// export so files move between the two.
type Bundle struct {
	User       storage.User      `json:"user"`
	Habits     []storage.Habit   `json:"habits"`
	Rewards    []storage.Reward  `json:"rewards"`
	GameState  storage.GameState `json:"gameState"`
	ExportDate time.Time         `json:"exportDate"`
	Version    string            `json:"version"`
}

// RequiredKeys must all be present at the top level of an import.
var RequiredKeys = []string{"user", "habits", "rewards", "gameState"}

// ImportError reports a structurally invalid import file.
type ImportError struct {
	Key    string
	Reason string
}

func (e ImportError) Error() string {
	switch {
	case e.Key != "" && e.Reason != "":
		return fmt.Sprintf("invalid backup: %s: %s", e.Key, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("invalid backup: missing required key %q", e.Key)
	default:
		return fmt.Sprintf("invalid backup: %s", e.Reason)
	}
}

//go:embed bundle.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("bundle.schema.json", schemaJSON)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// legacyWorlds maps the browser app's world ids to world keys.
var legacyWorlds = map[string]string{
	"world-1": "forest",
	"world-2": "mountains",
	"world-3": "ocean",
}

// Encode writes b as indented JSON, zstd-compressed when compress is set.
func Encode(w io.Writer, b *Bundle, compress bool) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	if !compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a bundle, plain or zstd-compressed. Missing top-level keys and
// schema violations are reported as ImportError.
func Decode(r io.Reader) (*Bundle, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if raw, err = io.ReadAll(dec); err != nil {
			return nil, fmt.Errorf("decompress backup: %w", err)
		}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, ImportError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	for _, k := range RequiredKeys {
		v, ok := top[k]
		if !ok || string(bytes.TrimSpace(v)) == "null" {
			return nil, ImportError{Key: k}
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ImportError{Reason: err.Error()}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, ImportError{Reason: err.Error()}
	}

	gs, err := normalizeGameState(top["gameState"])
	if err != nil {
		return nil, ImportError{Key: "gameState", Reason: err.Error()}
	}
	top["gameState"] = gs
	fixed, err := json.Marshal(top)
	if err != nil {
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(fixed, &b); err != nil {
		return nil, ImportError{Reason: err.Error()}
	}
	return &b, nil
}

// normalizeGameState turns a browser-app currentWorld object into a world key.
func normalizeGameState(raw json.RawMessage) (json.RawMessage, error) {
	var gs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &gs); err != nil {
		return nil, err
	}
	cw, ok := gs["currentWorld"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(cw), []byte("{")) {
		return raw, nil
	}
	var world struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(cw, &world); err != nil {
		return nil, err
	}
	key, ok := legacyWorlds[world.ID]
	if !ok {
		key = storage.DefaultWorld
	}
	gs["currentWorld"], _ = json.Marshal(key)
	return json.Marshal(gs)
}

// IsCompressedPath reports whether path should hold a zstd bundle.
func IsCompressedPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

func WriteFile(path string, b *Bundle) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, b, IsCompressedPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
