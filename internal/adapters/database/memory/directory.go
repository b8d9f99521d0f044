package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
)

// Directory is an in-memory identity resolver and catalog.
type Directory struct {
	mu       sync.RWMutex
	patients map[string]domain.PatientRef
	users    map[string]domain.UserRef
	services map[int64]domain.CatalogEntry
	items    map[int64]domain.CatalogEntry
	modes    map[int64]domain.PaymentMode
}

var (
	_ portsrepo.IdentityResolver = (*Directory)(nil)
	_ portsrepo.CatalogProvider  = (*Directory)(nil)
)

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		patients: make(map[string]domain.PatientRef),
		users:    make(map[string]domain.UserRef),
		services: make(map[int64]domain.CatalogEntry),
		items:    make(map[int64]domain.CatalogEntry),
		modes:    make(map[int64]domain.PaymentMode),
	}
}

func (d *Directory) AddPatient(p domain.PatientRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.patients[p.Handle] = p
}

func (d *Directory) AddUser(u domain.UserRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.Handle] = u
}

// AddCatalogEntry registers a service or stock item depending on its Kind.
func (d *Directory) AddCatalogEntry(e domain.CatalogEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e.Kind == domain.BillableItem {
		d.items[e.ID] = e
		return
	}
	e.Kind = domain.BillableService
	d.services[e.ID] = e
}

func (d *Directory) AddPaymentMode(m domain.PaymentMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modes[m.ID] = m
}

func (d *Directory) ResolvePatient(_ context.Context, handle string) (*domain.PatientRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.patients[handle]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient %q not found", handle))
	}
	return &p, nil
}

func (d *Directory) ResolveUser(_ context.Context, handle string) (*domain.UserRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[handle]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %q not found", handle))
	}
	return &u, nil
}

func (d *Directory) FindService(_ context.Context, serviceID int64) (*domain.CatalogEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.services[serviceID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service %d not found", serviceID))
	}
	return &e, nil
}

func (d *Directory) FindStockItem(_ context.Context, itemID int64) (*domain.CatalogEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.items[itemID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("stock item %d not found", itemID))
	}
	return &e, nil
}

func (d *Directory) FindPaymentMode(_ context.Context, paymentModeID int64) (*domain.PaymentMode, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.modes[paymentModeID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("payment mode %d not found", paymentModeID))
	}
	m.AttributeTypes = append([]domain.PaymentModeAttributeType(nil), m.AttributeTypes...)
	return &m, nil
}

type patientSeed struct {
	ID      int64  `mapstructure:"id"`
	Handle  string `mapstructure:"handle"`
	Retired bool   `mapstructure:"retired"`
}

type userSeed struct {
	ID         int64  `mapstructure:"id"`
	Handle     string `mapstructure:"handle"`
	ProviderID *int64 `mapstructure:"provider_id"`
}

type catalogSeed struct {
	ID        int64  `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Price     string `mapstructure:"price"`
	PriceName string `mapstructure:"price_name"`
	Retired   bool   `mapstructure:"retired"`
}

type paymentModeSeed struct {
	ID         int64  `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	Retired    bool   `mapstructure:"retired"`
	Attributes []struct {
		Name     string `mapstructure:"name"`
		Required bool   `mapstructure:"required"`
	} `mapstructure:"attributes"`
}

type directorySeed struct {
	Patients     []patientSeed     `mapstructure:"patients"`
	Users        []userSeed        `mapstructure:"users"`
	Services     []catalogSeed     `mapstructure:"services"`
	StockItems   []catalogSeed     `mapstructure:"stock_items"`
	PaymentModes []paymentModeSeed `mapstructure:"payment_modes"`
}

// LoadDirectory reads a YAML, JSON or TOML seed file into a new Directory.
func LoadDirectory(path string) (*Directory, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read directory seed %s: %w", path, err)
	}
	var seed directorySeed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode directory seed %s: %w", path, err)
	}

	dir := NewDirectory()
	for _, p := range seed.Patients {
		dir.AddPatient(domain.PatientRef{PatientID: p.ID, Handle: p.Handle, Retired: p.Retired})
	}
	for _, u := range seed.Users {
		dir.AddUser(domain.UserRef{UserID: u.ID, Handle: u.Handle, ProviderID: u.ProviderID})
	}
	addCatalog := func(kind domain.BillableKind, entries []catalogSeed) error {
		for _, c := range entries {
			price, err := decimal.NewFromString(strings.TrimSpace(c.Price))
			if err != nil {
				return fmt.Errorf("invalid price %q for %s %d: %w", c.Price, strings.ToLower(string(kind)), c.ID, err)
			}
			dir.AddCatalogEntry(domain.CatalogEntry{
				ID:               c.ID,
				Kind:             kind,
				Name:             c.Name,
				Price:            price,
				DefaultPriceName: c.PriceName,
				Retired:          c.Retired,
			})
		}
		return nil
	}
	if err := addCatalog(domain.BillableService, seed.Services); err != nil {
		return nil, err
	}
	if err := addCatalog(domain.BillableItem, seed.StockItems); err != nil {
		return nil, err
	}
	for _, m := range seed.PaymentModes {
		mode := domain.PaymentMode{ID: m.ID, Name: m.Name, Retired: m.Retired}
		for _, a := range m.Attributes {
			mode.AttributeTypes = append(mode.AttributeTypes, domain.PaymentModeAttributeType{Name: a.Name, Required: a.Required})
		}
		dir.AddPaymentMode(mode)
	}
	return dir, nil
}
