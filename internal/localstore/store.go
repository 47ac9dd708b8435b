// Package localstore persists the client's durable session state on disk:
// the guest cart and the identity token. It plays the role browser
// localStorage plays for the storefront UI, so the guest cart survives
// process restarts and is deliberately keyed independently of identity.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mlmarketplace/storefront/internal/domain"
)

const (
	cartFile     = "cart.json"
	identityFile = "identity.json"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadCart returns the persisted guest lines; a missing file is an empty cart.
func (s *Store) LoadCart() ([]domain.CartLine, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, cartFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var lines []persistedLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	out := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		domainLine, err := line.toDomain()
		if err != nil {
			return nil, fmt.Errorf("line[%s]: %w", line.ID, err)
		}
		out = append(out, domainLine)
	}
	return out, nil
}

func (s *Store) SaveCart(lines []domain.CartLine) error {
	persisted := make([]persistedLine, 0, len(lines))
	for _, line := range lines {
		persisted = append(persisted, persistedLineFromDomain(line))
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}
	return s.writeFile(cartFile, data)
}

func (s *Store) LoadIdentity() (*domain.Identity, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, identityFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if identity.Token == "" {
		return nil, nil
	}
	return &identity, nil
}

func (s *Store) SaveIdentity(identity domain.Identity) error {
	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}
	return s.writeFile(identityFile, data)
}

func (s *Store) ClearIdentity() error {
	err := os.Remove(filepath.Join(s.dir, identityFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove: %w", err)
	}
	return nil
}

// writeFile goes through a temp file and rename so a crash mid-write never
// leaves a truncated store behind.
func (s *Store) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

type persistedLine struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	Title        string `json:"title"`
	Image        string `json:"image"`
	FreeShipping bool   `json:"freeShipping"`
}

func persistedLineFromDomain(line domain.CartLine) persistedLine {
	return persistedLine{
		ID:           line.ID.String(),
		ProductID:    line.ProductID.String(),
		Quantity:     line.Quantity,
		Price:        line.UnitPrice.Amount.String(),
		Currency:     line.UnitPrice.Currency.String(),
		Title:        line.Product.Title,
		Image:        line.Product.Image,
		FreeShipping: line.Product.FreeShipping,
	}
}

func (p persistedLine) toDomain() (domain.CartLine, error) {
	id, err := uuidParse(p.ID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("id: %w", err)
	}
	productID, err := uuidParse(p.ProductID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("productId: %w", err)
	}
	price, err := moneyParse(p.Price, p.Currency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("price: %w", err)
	}

	return domain.CartLine{
		ID:        id,
		ProductID: productID,
		Quantity:  p.Quantity,
		UnitPrice: price,
		Product: domain.ProductSnapshot{
			Title:        p.Title,
			Image:        p.Image,
			FreeShipping: p.FreeShipping,
		},
	}, nil
}
