package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	"github.com/p-karari/hms-sub002/internal/models"
	"github.com/p-karari/hms-sub002/internal/utils/mapping"
)

const (
	billListingKeyPrefix    = "billing:patient-bills:"
	billGenerationKeyPrefix = "billing:patient-bills-gen:"
)

// cachedPayment and cachedBill hold storage rows so the billable
// discriminator survives serialization.
type cachedPayment struct {
	Payment    models.Payment            `json:"payment"`
	Attributes []models.PaymentAttribute `json:"attributes"`
}

type cachedBill struct {
	Bill      models.Bill       `json:"bill"`
	LineItems []models.LineItem `json:"lineItems"`
	Payments  []cachedPayment   `json:"payments"`
}

type redisBillListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBillListingCache caches active bill listings in Redis as JSON with the given TTL.
func NewRedisBillListingCache(client *redis.Client, ttl time.Duration) portsrepo.BillListingCache {
	return &redisBillListingCache{client: client, ttl: ttl}
}

func billListingKey(patientID int64) string {
	return fmt.Sprintf("%s%d", billListingKeyPrefix, patientID)
}

// billGenerationKey never expires: an expired counter restarting at 1 could
// match a generation a slow reader captured earlier.
func billGenerationKey(patientID int64) string {
	return fmt.Sprintf("%s%d", billGenerationKeyPrefix, patientID)
}

func readGeneration(ctx context.Context, cmd redis.Cmdable, patientID int64) (int64, error) {
	gen, err := cmd.Get(ctx, billGenerationKey(patientID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read bill listing generation for patient %d: %w", patientID, err)
	}
	return gen, nil
}

func (c *redisBillListingCache) ListingGeneration(ctx context.Context, patientID int64) (int64, error) {
	return readGeneration(ctx, c.client, patientID)
}

func (c *redisBillListingCache) GetPatientBills(ctx context.Context, patientID int64) ([]domain.Bill, bool, error) {
	data, err := c.client.Get(ctx, billListingKey(patientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read bill listing for patient %d: %w", patientID, err)
	}

	var cached []cachedBill
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("failed to decode bill listing for patient %d: %w", patientID, err)
	}
	bills, err := fromCached(cached)
	if err != nil {
		return nil, false, err
	}
	return bills, true, nil
}

func (c *redisBillListingCache) SetPatientBills(ctx context.Context, patientID int64, generation int64, bills []domain.Bill) error {
	data, err := json.Marshal(toCached(bills))
	if err != nil {
		return fmt.Errorf("failed to encode bill listing for patient %d: %w", patientID, err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, patientID)
		if err != nil {
			return err
		}
		if current != generation {
			return portsrepo.ErrListingChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, billListingKey(patientID), data, c.ttl)
			return nil
		})
		return err
	}, billGenerationKey(patientID))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, portsrepo.ErrListingChanged):
		return fmt.Errorf("bill listing for patient %d not cached: %w", patientID, portsrepo.ErrListingChanged)
	default:
		return fmt.Errorf("failed to write bill listing for patient %d: %w", patientID, err)
	}
}

// InvalidatePatient bumps the generation and drops the listing atomically, so
// a reader holding an older generation can no longer write its snapshot back.
func (c *redisBillListingCache) InvalidatePatient(ctx context.Context, patientID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, billGenerationKey(patientID))
		pipe.Del(ctx, billListingKey(patientID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate bill listing for patient %d: %w", patientID, err)
	}
	return nil
}

func toCached(bills []domain.Bill) []cachedBill {
	out := make([]cachedBill, len(bills))
	for i, b := range bills {
		cb := cachedBill{
			Bill:      mapping.ToModelBill(b),
			LineItems: make([]models.LineItem, len(b.LineItems)),
			Payments:  make([]cachedPayment, len(b.Payments)),
		}
		for j, li := range b.LineItems {
			cb.LineItems[j] = mapping.ToModelLineItem(li)
		}
		for j, p := range b.Payments {
			cp := cachedPayment{Payment: mapping.ToModelPayment(p)}
			for _, a := range p.Attributes {
				cp.Attributes = append(cp.Attributes, mapping.ToModelPaymentAttribute(a))
			}
			cb.Payments[j] = cp
		}
		out[i] = cb
	}
	return out
}

func fromCached(cached []cachedBill) ([]domain.Bill, error) {
	bills := make([]domain.Bill, len(cached))
	for i, cb := range cached {
		b := mapping.ToDomainBill(cb.Bill)
		items, err := mapping.ToDomainLineItemSlice(cb.LineItems)
		if err != nil {
			return nil, fmt.Errorf("cached bill %d: %w", cb.Bill.BillID, err)
		}
		b.LineItems = items
		b.Payments = make([]domain.Payment, len(cb.Payments))
		for j, cp := range cb.Payments {
			p := mapping.ToDomainPayment(cp.Payment)
			for _, a := range cp.Attributes {
				p.Attributes = append(p.Attributes, mapping.ToDomainPaymentAttribute(a))
			}
			b.Payments[j] = p
		}
		bills[i] = b
	}
	return bills, nil
}
