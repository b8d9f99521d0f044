package pgsql_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/p-karari/hms-sub002/internal/adapters/database/pgsql"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/core/services"
	"github.com/p-karari/hms-sub002/internal/dto"
	"github.com/p-karari/hms-sub002/pkg/database"
	"github.com/p-karari/hms-sub002/pkg/idgen"
)

const testDatabaseURLEnv = "PGSQL_TEST_URL"

// countingReceipts counts the receipt numbers handed out by the snowflake generator.
type countingReceipts struct {
	gen *idgen.ReceiptNumbers
	n   atomic.Int64
}

func (r *countingReceipts) NextReceiptNumber() string {
	r.n.Add(1)
	return r.gen.NextReceiptNumber()
}

type directoryFixture struct {
	patientHandle string
	cashierHandle string
	serviceID     int64
	paymentModeID int64
}

// openTestPool migrates the database named by PGSQL_TEST_URL and skips the
// test when it is not set.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}
	require.NoError(t, database.RunMigrations(url, "file://../../../../migrations", slog.Default()))

	pool, err := database.NewPgxPool(context.Background(), url, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// seedDirectory inserts reference rows with unique handles so runs never collide.
func seedDirectory(t *testing.T, pool *pgxpool.Pool) directoryFixture {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()
	f := directoryFixture{patientHandle: "patient-" + suffix, cashierHandle: "cashier-" + suffix}

	_, err := pool.Exec(ctx, `INSERT INTO patients (handle) VALUES ($1)`, f.patientHandle)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO users (handle) VALUES ($1)`, f.cashierHandle)
	require.NoError(t, err)
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO billable_services (name, price, price_name) VALUES ($1, 100, 'Standard') RETURNING service_id`,
		"Consultation "+suffix).Scan(&f.serviceID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO payment_modes (name) VALUES ($1) RETURNING payment_mode_id`,
		"Cash "+suffix).Scan(&f.paymentModeID))
	return f
}

func TestPgxLedger_ConcurrentPaymentsSettleOnce(t *testing.T) {
	pool := openTestPool(t)
	f := seedDirectory(t, pool)

	gen, err := idgen.NewReceiptNumbers(1)
	require.NoError(t, err)
	receipts := &countingReceipts{gen: gen}
	repos := pgsql.NewRepositoryProvider(pool)
	opts := []services.ServiceOption{services.WithMaxAttempts(20)}
	bills := services.NewBillService(repos.LedgerRepo, repos.Identity, repos.Catalog, receipts, opts...)
	payments := services.NewPaymentService(repos.LedgerRepo, repos.Identity, repos.Catalog, receipts, opts...)

	billID, err := bills.CreateBill(context.Background(), dto.CreateBillRequest{
		PatientHandle: f.patientHandle,
		CashPointID:   1,
		LineItems:     []dto.LineItemSpec{{Kind: domain.BillableService, CatalogID: f.serviceID, Quantity: 2}},
	}, f.cashierHandle)
	require.NoError(t, err)

	const workers = 20
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := payments.ApplyPayment(ctx, billID, dto.ApplyPaymentRequest{
				PaymentModeID: f.paymentModeID,
				Amount:        decimal.NewFromInt(10),
			}, f.cashierHandle)
			return err
		})
	}
	require.NoError(t, g.Wait())

	bill, err := bills.GetBill(context.Background(), billID)
	require.NoError(t, err)
	assert.Len(t, bill.Payments, workers)
	assert.Equal(t, domain.BillPaid, bill.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(bill.Totals().Paid))
	require.NotNil(t, bill.ReceiptNumber)
	assert.Equal(t, int64(1), receipts.n.Load(), "exactly one payment crosses the PAID threshold")
	for _, li := range bill.LineItems {
		assert.Equal(t, domain.LineItemPaid, li.PaymentStatus)
	}

	byCorr, err := bills.GetBillByCorrelationID(context.Background(), bill.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, billID, byCorr.BillID)
}

func TestPgxLedger_OversizedVoidReasonIsValidation(t *testing.T) {
	pool := openTestPool(t)
	f := seedDirectory(t, pool)

	gen, err := idgen.NewReceiptNumbers(2)
	require.NoError(t, err)
	repos := pgsql.NewRepositoryProvider(pool)
	bills := services.NewBillService(repos.LedgerRepo, repos.Identity, repos.Catalog, gen)
	voids := services.NewVoidService(repos.LedgerRepo, repos.Identity, gen)

	billID, err := bills.CreateBill(context.Background(), dto.CreateBillRequest{
		PatientHandle: f.patientHandle,
		CashPointID:   1,
	}, f.cashierHandle)
	require.NoError(t, err)

	err = voids.VoidBill(context.Background(), billID, strings.Repeat("x", domain.MaxVoidReasonLength+1), f.cashierHandle)
	assert.ErrorIs(t, err, domain.ErrVoidReasonTooLong)

	require.NoError(t, voids.VoidBill(context.Background(), billID, strings.Repeat("x", domain.MaxVoidReasonLength), f.cashierHandle))
}
