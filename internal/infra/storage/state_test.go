package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/infra/storage"
	"github.com/vietddude/crosspay/internal/infra/storage/memory"
)

// =============================================================================
// Mocks
// =============================================================================

// brokenKV fails every operation.
type brokenKV struct{}

var errBroken = errors.New("disk full")

func (brokenKV) Get(ctx context.Context, key string) ([]byte, error)     { return nil, errBroken }
func (brokenKV) Set(ctx context.Context, key string, value []byte) error { return errBroken }
func (brokenKV) Delete(ctx context.Context, keys ...string) error        { return errBroken }
func (brokenKV) Keys(ctx context.Context) ([]string, error)              { return nil, errBroken }
func (brokenKV) Ping(ctx context.Context) error                          { return errBroken }
func (brokenKV) Close() error                                            { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Tests
// =============================================================================

func TestState_AddressesRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := storage.NewState(memory.NewMemoryStorage(), storage.WithLogger(quietLogger()))

	if got := st.Addresses(ctx); len(got) != 0 {
		t.Fatalf("expected empty registry, got %d entries", len(got))
	}

	created := time.UnixMilli(1700000000123)
	entries := []domain.AddressEntry{
		{Address: "Test-Address", Category: domain.CategoryA, Note: "note", CreatedAt: created},
		{Address: "other", Category: domain.CategoryD, CreatedAt: created},
	}
	if err := st.SaveAddresses(ctx, entries); err != nil {
		t.Fatalf("SaveAddresses failed: %v", err)
	}

	got := st.Addresses(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Address != "Test-Address" || got[0].Note != "note" || !got[0].CreatedAt.Equal(created) {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
}

func TestState_TransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := storage.NewState(memory.NewMemoryStorage(), storage.WithLogger(quietLogger()))

	tx := domain.TxRecord{
		TxID:      "tx_1_abc",
		ToAddress: "recipient-address",
		Amount:    decimal.RequireFromString("100.50"),
		Timestamp: time.UnixMilli(1700000000000),
	}
	if err := st.SaveTransactions(ctx, []domain.TxRecord{tx}); err != nil {
		t.Fatalf("SaveTransactions failed: %v", err)
	}

	got := st.Transactions(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}
	if !got[0].Amount.Equal(tx.Amount) {
		t.Errorf("amount = %s, want %s", got[0].Amount, tx.Amount)
	}
}

func TestState_LegacyNumericAmount(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	raw := `[{"txId":"tx_1_a","toAddress":"x","amount":100.5,"timestamp":1700000000000}]`
	_ = kv.Set(ctx, storage.KeyTransactions, []byte(raw))

	got := storage.NewState(kv).Transactions(ctx)
	if len(got) != 1 || !got[0].Amount.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("numeric amount not decoded: %+v", got)
	}
}

func TestState_CorruptRecordDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	_ = kv.Set(ctx, storage.KeyAddresses, []byte(`{not json`))
	_ = kv.Set(ctx, storage.KeyTransactions, []byte(`"nope"`))

	st := storage.NewState(kv, storage.WithLogger(quietLogger()))
	if got := st.Addresses(ctx); len(got) != 0 {
		t.Errorf("expected empty addresses, got %v", got)
	}
	if got := st.Transactions(ctx); len(got) != 0 {
		t.Errorf("expected empty transactions, got %v", got)
	}
}

func TestState_UnknownCategorySkipped(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	raw := `[{"address":"a","category":"A","createdAt":1},{"address":"z","category":"Z","createdAt":2}]`
	_ = kv.Set(ctx, storage.KeyAddresses, []byte(raw))

	got := storage.NewState(kv, storage.WithLogger(quietLogger())).Addresses(ctx)
	if len(got) != 1 || got[0].Address != "a" {
		t.Fatalf("expected only the valid entry, got %+v", got)
	}
}

func TestState_BrokenStore(t *testing.T) {
	ctx := context.Background()
	st := storage.NewState(brokenKV{}, storage.WithLogger(quietLogger()))

	if got := st.Addresses(ctx); len(got) != 0 {
		t.Errorf("read failure should degrade to empty, got %v", got)
	}
	if got := st.Session(ctx); got.IsAuthenticated {
		t.Error("read failure should report unauthenticated")
	}

	err := st.SaveAddresses(ctx, nil)
	if !errors.Is(err, storage.ErrSaveFailed) {
		t.Errorf("expected ErrSaveFailed, got %v", err)
	}
	if !errors.Is(err, errBroken) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	if err := st.SaveTransactions(ctx, nil); !errors.Is(err, storage.ErrSaveFailed) {
		t.Errorf("expected ErrSaveFailed, got %v", err)
	}
	if err := st.ClearAll(ctx); !errors.Is(err, storage.ErrSaveFailed) {
		t.Errorf("expected ErrSaveFailed, got %v", err)
	}

	// Must not panic or return anything.
	st.ClearSession(ctx)
}

func TestState_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	login := time.UnixMilli(1700000000000)
	now := login

	st := storage.NewState(kv, storage.WithClock(func() time.Time { return now }))
	err := st.SaveSession(ctx, domain.AdminSession{
		IsAuthenticated: true,
		LoginTime:       login,
		ExpiresAt:       login.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	now = login.Add(24 * time.Hour)
	if !st.Session(ctx).IsAuthenticated {
		t.Fatal("session should be valid at exactly 24h")
	}

	now = login.Add(24*time.Hour + time.Millisecond)
	if st.Session(ctx).IsAuthenticated {
		t.Fatal("session should be expired after 24h")
	}
	if _, err := kv.Get(ctx, storage.KeyAdminSession); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("expired session should be removed from the store, got %v", err)
	}
}

func TestState_ClearAllKeepsSession(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	st := storage.NewState(kv)

	_ = st.SaveAddresses(ctx, []domain.AddressEntry{{Address: "a", Category: domain.CategoryA}})
	_ = st.SaveTransactions(ctx, []domain.TxRecord{{TxID: "tx"}})
	_ = st.SaveSession(ctx, domain.AdminSession{IsAuthenticated: true})

	if err := st.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if kv.Len() != 1 {
		t.Errorf("expected only the session to remain, got %d keys", kv.Len())
	}
	if !st.Session(ctx).IsAuthenticated {
		t.Error("session should survive ClearAll")
	}
}

func TestState_PeekSessionLeavesExpiredRecord(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewMemoryStorage()
	login := time.UnixMilli(1700000000000)
	now := login.Add(24*time.Hour + time.Millisecond)

	st := storage.NewState(kv, storage.WithClock(func() time.Time { return now }))
	_ = st.SaveSession(ctx, domain.AdminSession{
		IsAuthenticated: true,
		LoginTime:       login,
		ExpiresAt:       login.Add(24 * time.Hour),
	})

	if st.PeekSession(ctx).IsAuthenticated {
		t.Fatal("expired session should read as unauthenticated")
	}
	if _, err := kv.Get(ctx, storage.KeyAdminSession); err != nil {
		t.Errorf("PeekSession should not delete the record, got %v", err)
	}
}

// loginDuringReadKV saves a fresh session right after the first session read
// returns, the way an interleaved login would.
type loginDuringReadKV struct {
	*memory.MemoryStorage
	fresh []byte
	done  bool
}

func (k *loginDuringReadKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := k.MemoryStorage.Get(ctx, key)
	if key == storage.KeyAdminSession && !k.done {
		k.done = true
		_ = k.MemoryStorage.Set(ctx, key, k.fresh)
	}
	return v, err
}

func TestState_PeekSessionKeepsInterleavedLogin(t *testing.T) {
	ctx := context.Background()
	login := time.UnixMilli(1700000000000)
	now := login.Add(25 * time.Hour)
	clock := func() time.Time { return now }

	// Build the fresh session payload through a scratch store.
	scratch := memory.NewMemoryStorage()
	_ = storage.NewState(scratch).SaveSession(ctx, domain.AdminSession{
		IsAuthenticated: true,
		LoginTime:       now,
		ExpiresAt:       now.Add(24 * time.Hour),
	})
	fresh, _ := scratch.Get(ctx, storage.KeyAdminSession)

	kv := &loginDuringReadKV{MemoryStorage: memory.NewMemoryStorage(), fresh: fresh}
	st := storage.NewState(kv, storage.WithClock(clock))
	_ = st.SaveSession(ctx, domain.AdminSession{
		IsAuthenticated: true,
		LoginTime:       login,
		ExpiresAt:       login.Add(24 * time.Hour),
	})

	if st.PeekSession(ctx).IsAuthenticated {
		t.Fatal("first read should see the expired session")
	}
	if !st.Session(ctx).IsAuthenticated {
		t.Error("the interleaved login should survive the peek")
	}
}

func TestState_Keys(t *testing.T) {
	ctx := context.Background()
	st := storage.NewState(memory.NewMemoryStorage())
	_ = st.SaveTransactions(ctx, []domain.TxRecord{{TxID: "tx"}})
	_ = st.SaveAddresses(ctx, []domain.AddressEntry{{Address: "a", Category: domain.CategoryA}})

	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != storage.KeyAddresses || keys[1] != storage.KeyTransactions {
		t.Errorf("Keys = %v", keys)
	}
}
