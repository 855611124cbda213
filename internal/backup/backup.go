// Package backup кодирует и разбирает переносимый документ резервной копии питомца.
package backup

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/pet"
)

// Version задаёт текущую версию формата документа.
const Version = 1

var (
	// ErrInvalidDocument возвращается для повреждённого документа.
	ErrInvalidDocument = errors.New("invalid backup document")
	// ErrUnsupportedVersion возвращается для документа неизвестной версии.
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Snapshot описывает содержимое резервной копии.
type Snapshot struct {
	ExportedAt  time.Time
	Pet         model.Pet
	Streak      int
	LastBonusAt *time.Time
}

type document struct {
	Version       int        `json:"version"`
	ExportedAt    time.Time  `json:"exportedAt"`
	Pet           string     `json:"pet"`
	Streak        int        `json:"streak"`
	LastBonusDate *time.Time `json:"lastBonusDate"`
}

// Encode записывает документ в w.
func Encode(w io.Writer, s Snapshot) error {
	raw, err := json.Marshal(s.Pet)
	if err != nil {
		return fmt.Errorf("encode pet: %w", err)
	}
	doc := document{
		Version:       Version,
		ExportedAt:    s.ExportedAt.UTC(),
		Pet:           base64.StdEncoding.EncodeToString(raw),
		Streak:        s.Streak,
		LastBonusDate: s.LastBonusAt,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Marshal возвращает документ в виде байтов.
func Marshal(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode читает и проверяет документ. Характеристики питомца приводятся к допустимому диапазону.
func Decode(r io.Reader) (Snapshot, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		// ошибка чтения сохраняется в цепочке, чтобы транспорт мог отличить превышение размера
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc.Version != Version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Pet == "" {
		return Snapshot{}, fmt.Errorf("%w: pet is missing", ErrInvalidDocument)
	}

	raw, err := base64.StdEncoding.DecodeString(doc.Pet)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: pet is not base64: %v", ErrInvalidDocument, err)
	}

	var p model.Pet
	if err := json.Unmarshal(raw, &p); err != nil {
		return Snapshot{}, fmt.Errorf("%w: pet: %v", ErrInvalidDocument, err)
	}
	if p.ID == "" || strings.TrimSpace(p.Name) == "" {
		return Snapshot{}, fmt.Errorf("%w: pet id and name are required", ErrInvalidDocument)
	}
	pet.Normalize(&p)

	streak := doc.Streak
	if streak < 0 {
		streak = 0
	}

	return Snapshot{
		ExportedAt:  doc.ExportedAt,
		Pet:         p,
		Streak:      streak,
		LastBonusAt: doc.LastBonusDate,
	}, nil
}

// WriteFile сохраняет документ в файл, создавая родительские каталоги.
func WriteFile(path string, s Snapshot) error {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" || path == "." {
		return fmt.Errorf("backup path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile читает документ из файла.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(f)
}
